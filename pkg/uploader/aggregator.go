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
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/plantsync/plantsync/pkg/models"
	"github.com/plantsync/plantsync/pkg/normalize"
)

const (
	// Catch-up after an outage is bounded to a week per cycle; older
	// history is uploaded across subsequent cycles.
	maxCatchUp = 7 * 24 * time.Hour

	// First upload for an instance looks back two days.
	firstLookback = 2 * 24 * time.Hour
)

// computeWindow derives the history query window for one instance. The
// window opens one second past the remote's last-known upload so the
// boundary reading is never re-sent, and never opens more than a week
// before now.
func computeWindow(latest *time.Time, now time.Time) models.UploadWindow {
	if latest == nil {
		return models.UploadWindow{Start: now.Add(-firstLookback), End: now}
	}

	start := latest.Add(time.Second)
	if now.Sub(start) > maxCatchUp {
		start = now.Add(-maxCatchUp)
	}

	return models.UploadWindow{Start: start, End: now}
}

// processInstance registers one plant instance and aggregates its sensor
// history into upload series. Any failure is logged and confined to the
// instance.
func (s *Service) processInstance(
	ctx context.Context,
	log *zerolog.Logger,
	inst *discoveredInstance,
	report *cycleReport,
) []models.TimeSeries {
	reg, err := s.registerInstance(ctx, log, &inst.plant, s.location())
	if err != nil {
		log.Error().Err(err).
			Str("instance", inst.plant.LocalID).
			Str("species", inst.plant.SpeciesID).
			Msg("Skipping plant instance, registration failed")

		s.metrics.InstancesSkipped.Inc()

		return nil
	}

	inst.plant.RemoteID = reg.ID
	report.recordLatest(inst.plant.DisplayName, reg.LatestData)

	window := computeWindow(reg.LatestData, report.now)

	log.Debug().
		Str("instance", inst.plant.LocalID).
		Time("window_start", window.Start).
		Time("window_end", window.End).
		Int("sensors", len(inst.bindings)).
		Msg("Aggregating sensor history")

	var series []models.TimeSeries

	for _, binding := range inst.bindings {
		result := s.aggregateSensor(ctx, log, binding, window)

		s.evaluateStaleness(ctx, log, &inst.plant, binding, result, report)

		if len(result.readings) > 0 {
			series = append(series, models.TimeSeries{
				RemoteID: reg.ID,
				Kind:     binding.Kind,
				Readings: result.readings,
			})
		}
	}

	return series
}

// sensorResult carries one sensor's cycle outcome: the readings that made
// it into the window plus the freshest valid timestamp seen anywhere in
// the queried history.
type sensorResult struct {
	readings       []models.NormalizedReading
	lastMeaningful *time.Time
	queryFailed    bool
}

// aggregateSensor turns one sensor's recorded history into normalized
// readings for the window. Non-numeric states and readings at or before
// the window start are dropped but still count toward the sensor's
// last-seen timestamp, so a sensor that only repeated an old value is
// judged stale rather than missing.
func (s *Service) aggregateSensor(
	ctx context.Context,
	log *zerolog.Logger,
	binding models.SensorBinding,
	window models.UploadWindow,
) *sensorResult {
	result := &sensorResult{}

	raw, err := s.history.SignificantStates(ctx, binding.EntityID, window.Start, window.End)
	if err != nil {
		log.Error().Err(err).
			Str("entity", binding.EntityID).
			Msg("History query failed for sensor")

		result.queryFailed = true

		return result
	}

	rejectedTags := make(map[string]struct{})

	for _, reading := range raw {
		if !meaningfulState(reading.State) {
			continue
		}

		if result.lastMeaningful == nil || reading.LastUpdated.After(*result.lastMeaningful) {
			ts := reading.LastUpdated
			result.lastMeaningful = &ts
		}

		if !reading.LastUpdated.After(window.Start) {
			continue
		}

		value, tag := normalize.Normalize(reading.State, reading.Unit, binding.Kind)
		if tag != "" {
			rejectedTags[tag] = struct{}{}
			s.metrics.ReadingsRejected.Inc()

			continue
		}

		result.readings = append(result.readings, models.NormalizedReading{
			Value: value,
			At:    reading.LastUpdated.Local(),
			Kind:  binding.Kind,
		})

		s.metrics.ReadingsAccepted.Inc()
	}

	// Readings leave the history store ordered, but the remote requires
	// it, so enforce it here.
	sort.Slice(result.readings, func(i, j int) bool {
		return result.readings[i].At.Before(result.readings[j].At)
	})

	if len(rejectedTags) > 0 {
		tags := make([]string, 0, len(rejectedTags))
		for tag := range rejectedTags {
			tags = append(tags, tag)
		}

		sort.Strings(tags)

		log.Warn().
			Str("entity", binding.EntityID).
			Str("rejected", strings.Join(tags, ",")).
			Msg("Dropped sensor readings that failed normalization")
	}

	return result
}

// meaningfulState reports whether a recorded state carries a value at all.
// The host records placeholder states while a sensor is offline.
func meaningfulState(state string) bool {
	return state != "" && state != "unknown" && state != "unavailable"
}
