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

// Package history reads sensor state history from the host's recorder
// database.
package history

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

// NewPool dials the recorder database and returns a pgx pool.
func NewPool(ctx context.Context, cfg *models.RecorderConfig, log logger.Logger) (*pgxpool.Pool, error) {
	if cfg == nil {
		return nil, nil
	}

	recorder := *cfg
	if recorder.Port == 0 {
		recorder.Port = 5432
	}

	connURL := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", recorder.Host, recorder.Port),
		Path:   "/" + recorder.Database,
	}

	if recorder.Username != "" {
		if recorder.Password != "" {
			connURL.User = url.UserPassword(recorder.Username, recorder.Password)
		} else {
			connURL.User = url.User(recorder.Username)
		}
	}

	query := connURL.Query()

	sslMode := recorder.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	query.Set("sslmode", sslMode)
	query.Set("application_name", "plantsync")
	connURL.RawQuery = query.Encode()

	poolCfg, err := pgxpool.ParseConfig(connURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse recorder connection config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to recorder database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping recorder database: %w", err)
	}

	log.Info().
		Str("host", recorder.Host).
		Str("database", recorder.Database).
		Msg("Connected to recorder database")

	return pool, nil
}
