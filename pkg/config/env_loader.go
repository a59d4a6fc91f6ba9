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

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/plantsync/plantsync/pkg/logger"
)

var errNoEnvConfig = errors.New("no configuration found in environment")

// EnvConfigLoader loads a complete JSON configuration from the
// <prefix>CONFIG_JSON environment variable.
type EnvConfigLoader struct {
	logger logger.Logger
	prefix string
}

// NewEnvConfigLoader creates a new environment variable config loader.
func NewEnvConfigLoader(log logger.Logger, prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{
		logger: log,
		prefix: prefix,
	}
}

// Load implements ConfigLoader by reading from environment variables.
func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	jsonConfig := os.Getenv(e.prefix + "CONFIG_JSON")
	if jsonConfig == "" {
		return fmt.Errorf("%w: %sCONFIG_JSON is empty", errNoEnvConfig, e.prefix)
	}

	if err := json.Unmarshal([]byte(jsonConfig), dst); err != nil {
		return fmt.Errorf("failed to unmarshal %sCONFIG_JSON: %w", e.prefix, err)
	}

	if e.logger != nil {
		e.logger.Info().Msg("Loaded configuration from environment")
	}

	return nil
}
