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

// Package lifecycle holds process-level glue: signal handling and logger
// construction for the daemon entry point.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/plantsync/plantsync/pkg/logger"
)

// SignalContext returns a context canceled on SIGINT or SIGTERM.
func SignalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// CreateComponentLogger builds a logger tagged with a component name.
func CreateComponentLogger(component string, config *logger.Config) (logger.Logger, error) {
	return logger.NewWithComponent(config, component)
}
