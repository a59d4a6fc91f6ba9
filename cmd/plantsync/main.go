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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/plantsync/plantsync/pkg/api"
	"github.com/plantsync/plantsync/pkg/cache"
	"github.com/plantsync/plantsync/pkg/config"
	"github.com/plantsync/plantsync/pkg/history"
	"github.com/plantsync/plantsync/pkg/host"
	"github.com/plantsync/plantsync/pkg/images"
	"github.com/plantsync/plantsync/pkg/lifecycle"
	"github.com/plantsync/plantsync/pkg/models"
	"github.com/plantsync/plantsync/pkg/plantbook"
	"github.com/plantsync/plantsync/pkg/uploader"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/plantsync/plantsync.json", "Path to config file")
	flag.Parse()

	ctx, stop := lifecycle.SignalContext(context.Background())
	defer stop()

	cfgLoader := config.NewConfig(nil)

	var cfg models.Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	mainLogger, err := lifecycle.CreateComponentLogger("plantsync", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	pbClient := plantbook.NewClient(&cfg.Plantbook, mainLogger)
	restClient := host.NewRESTClient(&cfg.Host, mainLogger)
	registryClient := host.NewRegistryClient(&cfg.Host, mainLogger)

	cacheSvc := cache.New(pbClient, restClient, time.Duration(cfg.CacheTTL), mainLogger)

	registry := prometheus.NewRegistry()

	var (
		uploadSvc *uploader.Service
		scheduler *uploader.Scheduler
	)

	if cfg.Upload.Enabled {
		pool, err := history.NewPool(ctx, &cfg.Recorder, mainLogger)
		if err != nil {
			return fmt.Errorf("failed to connect to recorder database: %w", err)
		}
		defer pool.Close()

		uploadSvc = uploader.New(
			pbClient,
			registryClient,
			history.NewStore(pool, mainLogger),
			restClient,
			restClient,
			&cfg.Upload,
			uploader.NewMetrics(registry),
			nil,
			mainLogger,
		)

		scheduler = uploader.NewScheduler(uploadSvc, &cfg.Upload, cfg.InstallationID, nil, mainLogger)
		scheduler.Start(ctx)

		defer scheduler.Stop()
	}

	server := api.NewServer(
		pbClient,
		cacheSvc,
		uploadRunner(uploadSvc),
		restClient,
		images.New(cfg.Images, mainLogger),
		registry,
		cfg.APIKey,
		mainLogger,
	)

	return server.Start(ctx, cfg.ListenAddr)
}

// uploadRunner adapts the optional upload service: with uploading disabled
// the manual trigger reports nothing to upload.
func uploadRunner(svc *uploader.Service) api.UploadRunner {
	if svc == nil {
		return disabledUploader{}
	}

	return svc
}

type disabledUploader struct{}

func (disabledUploader) Run(context.Context) (*bool, error) {
	return nil, nil
}
