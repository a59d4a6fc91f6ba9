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

// Package api exposes the host-invoked commands as HTTP endpoints.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	plantsynchttp "github.com/plantsync/plantsync/pkg/http"
	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Searcher queries the remote species catalog by free-text alias.
type Searcher interface {
	Search(ctx context.Context, alias string) (*models.PlantSearchResponse, error)
}

// SpeciesCache serves species detail lookups and cache maintenance.
type SpeciesCache interface {
	Get(ctx context.Context, species string) (*models.PlantDetails, error)
	CleanCache(ctx context.Context, hours int) int
}

// UploadRunner triggers one upload cycle.
type UploadRunner interface {
	Run(ctx context.Context) (*bool, error)
}

// StateWriter publishes command results as host state entities.
type StateWriter interface {
	SetState(ctx context.Context, entityID, state string, attributes map[string]interface{}) error
}

// ImageSink receives species details after successful lookups.
type ImageSink interface {
	Download(ctx context.Context, details *models.PlantDetails)
}

// Server is the command API.
type Server struct {
	searcher Searcher
	cache    SpeciesCache
	uploader UploadRunner
	states   StateWriter
	images   ImageSink
	registry prometheus.Gatherer
	logger   logger.Logger

	router *mux.Router
	srv    *http.Server
}

// NewServer wires the command handlers. The images sink may be nil when
// image downloading is disabled; an empty apiKey disables authentication.
func NewServer(
	searcher Searcher,
	cache SpeciesCache,
	uploader UploadRunner,
	states StateWriter,
	images ImageSink,
	registry prometheus.Gatherer,
	apiKey string,
	log logger.Logger,
) *Server {
	s := &Server{
		searcher: searcher,
		cache:    cache,
		uploader: uploader,
		states:   states,
		images:   images,
		registry: registry,
		logger:   log,
		router:   mux.NewRouter(),
	}

	s.setupRoutes(apiKey)

	return s
}

func (s *Server) setupRoutes(apiKey string) {
	s.router.Use(plantsynchttp.RequestLogging(s.logger))

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.Use(plantsynchttp.APIKeyAuth(apiKey, s.logger))
	v1.HandleFunc("/search", s.handleSearch).Methods(http.MethodPost)
	v1.HandleFunc("/get", s.handleGet).Methods(http.MethodPost)
	v1.HandleFunc("/clean_cache", s.handleCleanCache).Methods(http.MethodPost)
	v1.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)

	s.router.Handle("/metrics",
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Start serves the command API until the context is canceled, then drains
// in-flight requests.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", addr).Msg("Command API listening")

		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.srv.Shutdown(shutdownCtx)
}
