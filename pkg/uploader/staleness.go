/*
 * Copyright 2026 the PlantSync Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package uploader

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/plantsync/plantsync/pkg/models"
)

// A sensor is stale once its newest valid reading is older than a day.
const staleThreshold = 24 * time.Hour

// cycleReport accumulates one cycle's findings for the warning stage.
type cycleReport struct {
	now       time.Time
	stale     []models.StalenessRecord
	missing   []models.StalenessRecord
	latest    map[string]*time.Time
	order     []string
	maxLatest *time.Time

	hadPayload bool
	uploaded   bool
}

func newCycleReport(now time.Time) *cycleReport {
	return &cycleReport{
		now:    now,
		latest: make(map[string]*time.Time),
	}
}

// recordLatest remembers the remote's last-known upload per plant, and the
// freshest across all plants for the cycle-level checks.
func (r *cycleReport) recordLatest(plantName string, latest *time.Time) {
	if _, seen := r.latest[plantName]; !seen {
		r.order = append(r.order, plantName)
	}

	r.latest[plantName] = latest

	if latest != nil && (r.maxLatest == nil || latest.After(*r.maxLatest)) {
		r.maxLatest = latest
	}
}

// evaluateStaleness classifies one sensor after aggregation. A sensor with
// no valid reading in the window gets one more chance through its most
// recent recorded state change; only an invalid fallback makes it MISSING.
// A failed history query yields no verdict at all.
func (s *Service) evaluateStaleness(
	ctx context.Context,
	log *zerolog.Logger,
	plant *models.PlantInstance,
	binding models.SensorBinding,
	result *sensorResult,
	report *cycleReport,
) {
	if result.queryFailed {
		return
	}

	lastValid := result.lastMeaningful

	if lastValid == nil {
		fallback, err := s.history.LastStateChanges(ctx, binding.EntityID, 1)
		if err != nil {
			log.Error().Err(err).
				Str("entity", binding.EntityID).
				Msg("Fallback history query failed for sensor")

			return
		}

		if len(fallback) == 0 || !meaningfulState(fallback[0].State) {
			log.Warn().
				Str("plant", plant.DisplayName).
				Str("entity", binding.EntityID).
				Str("measurement", string(binding.Kind)).
				Msg("No valid sensor data recorded for sensor")

			report.missing = append(report.missing, models.StalenessRecord{
				PlantName:   plant.DisplayName,
				EntityID:    binding.EntityID,
				Measurement: binding.Kind,
				Class:       models.StalenessMissing,
			})

			s.metrics.StalenessRecords.WithLabelValues(string(models.StalenessMissing)).Inc()

			return
		}

		ts := fallback[0].LastUpdated
		lastValid = &ts
	}

	age := report.now.Sub(*lastValid)
	if age <= staleThreshold {
		return
	}

	log.Warn().
		Str("plant", plant.DisplayName).
		Str("entity", binding.EntityID).
		Str("measurement", string(binding.Kind)).
		Time("last_valid", *lastValid).
		Dur("age", age).
		Msg("Sensor has stale data")

	report.stale = append(report.stale, models.StalenessRecord{
		PlantName:   plant.DisplayName,
		EntityID:    binding.EntityID,
		Measurement: binding.Kind,
		Class:       models.StalenessStale,
		LastValid:   lastValid,
		Age:         age,
	})

	s.metrics.StalenessRecords.WithLabelValues(string(models.StalenessStale)).Inc()
}
