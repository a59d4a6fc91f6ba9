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

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

// The recorder keeps states keyed by a metadata id, with shared attribute
// payloads deduplicated into their own table. Timestamps are stored as epoch
// seconds with fractional precision.
const (
	significantStatesQuery = `
		SELECT s.state, sa.shared_attrs, s.last_updated_ts
		FROM states s
		JOIN states_meta sm ON sm.metadata_id = s.metadata_id
		LEFT JOIN state_attributes sa ON sa.attributes_id = s.attributes_id
		WHERE sm.entity_id = $1
		  AND s.last_updated_ts >= $2
		  AND s.last_updated_ts <= $3
		ORDER BY s.last_updated_ts ASC`

	lastStateChangesQuery = `
		SELECT s.state, sa.shared_attrs, s.last_updated_ts
		FROM states s
		JOIN states_meta sm ON sm.metadata_id = s.metadata_id
		LEFT JOIN state_attributes sa ON sa.attributes_id = s.attributes_id
		WHERE sm.entity_id = $1
		ORDER BY s.last_updated_ts DESC
		LIMIT $2`
)

// Store runs history queries against the recorder database.
type Store struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewStore wraps a recorder pool.
func NewStore(pool *pgxpool.Pool, log logger.Logger) *Store {
	return &Store{pool: pool, logger: log}
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SignificantStates returns the entity's recorded state changes inside
// [start, end], oldest first.
func (s *Store) SignificantStates(
	ctx context.Context,
	entityID string,
	start, end time.Time,
) ([]models.RawReading, error) {
	rows, err := s.pool.Query(ctx, significantStatesQuery,
		entityID, toEpoch(start), toEpoch(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query significant states for %s: %w", entityID, err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// LastStateChanges returns the entity's most recent state changes, newest
// first, limited to n rows.
func (s *Store) LastStateChanges(ctx context.Context, entityID string, n int) ([]models.RawReading, error) {
	rows, err := s.pool.Query(ctx, lastStateChangesQuery, entityID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query last state changes for %s: %w", entityID, err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// rowScanner matches the subset of pgx.Rows the scan loop needs.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanReadings(rows rowScanner) ([]models.RawReading, error) {
	var readings []models.RawReading

	for rows.Next() {
		var (
			state       *string
			sharedAttrs *string
			updatedTS   float64
		)

		if err := rows.Scan(&state, &sharedAttrs, &updatedTS); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}

		reading := models.RawReading{
			LastUpdated: fromEpoch(updatedTS),
		}

		if state != nil {
			reading.State = *state
		}

		if sharedAttrs != nil {
			reading.Unit = extractUnit(*sharedAttrs)
		}

		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate state rows: %w", err)
	}

	return readings, nil
}

// extractUnit pulls unit_of_measurement out of a shared attribute payload.
func extractUnit(sharedAttrs string) string {
	var attrs struct {
		Unit string `json:"unit_of_measurement"`
	}

	if err := json.Unmarshal([]byte(sharedAttrs), &attrs); err != nil {
		return ""
	}

	return attrs.Unit
}

func toEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromEpoch(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
}
