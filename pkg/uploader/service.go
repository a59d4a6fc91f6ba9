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

// Package uploader implements the sensor-data upload pipeline: per-cycle
// plant discovery, instance registration, windowed history aggregation,
// staleness detection, and grouped warning notifications.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
	"github.com/plantsync/plantsync/pkg/plantbook"
)

const (
	plantDomain  = "plant"
	sensorDomain = "sensor"

	// The plant entity carries the species the user configured the plant
	// with, before any catalog normalization.
	speciesAttribute = "species_original"
)

// ErrUploadInProgress is returned when a manual trigger overlaps a running
// cycle. The pipeline is deliberately non-reentrant.
var ErrUploadInProgress = errors.New("upload cycle already in progress")

// Service runs the upload pipeline. One instance exists per process; the
// scheduler and the command API share it.
type Service struct {
	api      PlantbookAPI
	registry Registry
	history  HistoryProvider
	states   StateReader
	notifier Notifier
	cfg      *models.UploadConfig
	metrics  *Metrics
	clock    Clock
	logger   logger.Logger

	inProgress atomic.Bool
}

// New creates the upload pipeline service. A nil clock selects the system
// clock.
func New(
	api PlantbookAPI,
	registry Registry,
	history HistoryProvider,
	states StateReader,
	notifier Notifier,
	cfg *models.UploadConfig,
	metrics *Metrics,
	clock Clock,
	log logger.Logger,
) *Service {
	if clock == nil {
		clock = realClock{}
	}

	return &Service{
		api:      api,
		registry: registry,
		history:  history,
		states:   states,
		notifier: notifier,
		cfg:      cfg,
		metrics:  metrics,
		clock:    clock,
		logger:   log,
	}
}

// Run executes one upload cycle. The returned pointer is nil when there was
// nothing to upload, otherwise it reports whether the remote accepted the
// batch. Failures local to one plant instance or one reading never abort the
// cycle; only command-boundary failures (registry unavailable, upload
// rejected) surface as errors.
func (s *Service) Run(ctx context.Context) (*bool, error) {
	if !s.inProgress.CompareAndSwap(false, true) {
		return nil, ErrUploadInProgress
	}
	defer s.inProgress.Store(false)

	s.metrics.CyclesTotal.Inc()

	log := s.logger.With().Str("cycle_id", uuid.NewString()).Logger()
	now := s.clock.Now().UTC()

	log.Debug().Msg("Querying plant sensor data for upload")

	instances, err := s.discoverInstances(ctx, &log)
	if err != nil {
		s.metrics.CycleFailures.Inc()
		return nil, err
	}

	report := newCycleReport(now)

	var series []models.TimeSeries

	// Instances are processed strictly sequentially so one failure cannot
	// corrupt another's aggregation state.
	for i := range instances {
		instanceSeries := s.processInstance(ctx, &log, &instances[i], report)
		series = append(series, instanceSeries...)
	}

	result, err := s.uploadSeries(ctx, &log, series)
	if err != nil {
		s.metrics.CycleFailures.Inc()
		return nil, err
	}

	report.hadPayload = result != nil
	report.uploaded = result != nil && *result

	s.emitWarnings(ctx, &log, report)

	return result, nil
}

// discoveredInstance pairs a plant instance with its sensor bindings for one
// cycle.
type discoveredInstance struct {
	plant    models.PlantInstance
	bindings []models.SensorBinding
}

// discoverInstances derives the cycle's plant instances from the host
// registries: plant-domain devices without a user-assigned alias, with their
// supported sensor entities and the species from the plant entity's state.
func (s *Service) discoverInstances(ctx context.Context, log *zerolog.Logger) ([]discoveredInstance, error) {
	devices, err := s.registry.Devices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list device registry: %w", err)
	}

	entities, err := s.registry.Entities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entity registry: %w", err)
	}

	entitiesByDevice := make(map[string][]models.Entity)
	for _, entity := range entities {
		entitiesByDevice[entity.DeviceID] = append(entitiesByDevice[entity.DeviceID], entity)
	}

	var instances []discoveredInstance

	for _, device := range devices {
		if !device.HasDomain(plantDomain) || device.NameByUser != "" {
			continue
		}

		instance := discoveredInstance{
			plant: models.PlantInstance{
				LocalID:     device.ID,
				DisplayName: device.Name,
				Model:       device.Model,
			},
		}

		var plantEntityID string

		for _, entity := range entitiesByDevice[device.ID] {
			switch {
			case entity.Domain() == plantDomain:
				plantEntityID = entity.EntityID
			case entity.Domain() == sensorDomain &&
				models.MeasurementKind(entity.OriginalDeviceClass).Supported():
				instance.bindings = append(instance.bindings, models.SensorBinding{
					EntityID: entity.EntityID,
					Kind:     models.MeasurementKind(entity.OriginalDeviceClass),
				})
			}
		}

		species, err := s.lookupSpecies(ctx, plantEntityID)
		if err != nil {
			log.Error().Err(err).
				Str("device", device.Name).
				Str("model", device.Model).
				Msg("Unable to determine species for plant device")

			s.metrics.InstancesSkipped.Inc()

			continue
		}

		instance.plant.SpeciesID = species
		instances = append(instances, instance)
	}

	log.Debug().Int("instances", len(instances)).Msg("Discovered plant instances")

	return instances, nil
}

// lookupSpecies reads the configured species from the plant entity's state.
func (s *Service) lookupSpecies(ctx context.Context, plantEntityID string) (string, error) {
	if plantEntityID == "" {
		return "", errNoPlantEntity
	}

	state, err := s.states.GetState(ctx, plantEntityID)
	if err != nil {
		return "", fmt.Errorf("failed to read plant entity state: %w", err)
	}

	if state == nil {
		return "", fmt.Errorf("%w: %s", errNoPlantState, plantEntityID)
	}

	species, _ := state.Attributes[speciesAttribute].(string)
	if species == "" {
		return "", fmt.Errorf("%w: %s", errNoSpeciesAttribute, plantEntityID)
	}

	return species, nil
}

var (
	errNoPlantEntity      = errors.New("plant device has no plant entity")
	errNoPlantState       = errors.New("no state found for plant entity")
	errNoSpeciesAttribute = errors.New("plant entity state has no species attribute")
)

// uploadSeries posts the cycle's non-empty series, if any.
func (s *Service) uploadSeries(ctx context.Context, log *zerolog.Logger, series []models.TimeSeries) (*bool, error) {
	doc := plantbook.NewJTSDocument(series)
	if doc.Len() == 0 {
		log.Info().Msg("Nothing to upload")
		return nil, nil
	}

	ok, err := s.api.Upload(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to upload sensor data: %w", err)
	}

	s.metrics.SeriesUploaded.Add(float64(doc.Len()))

	log.Info().Int("series", doc.Len()).Bool("success", ok).Msg("Uploaded sensor data")

	return &ok, nil
}

// location assembles the optional registration location hints from config.
func (s *Service) location() *models.Location {
	loc := &models.Location{}

	if s.cfg.Location.ShareCountry {
		loc.Country = s.cfg.Location.Country
	}

	if s.cfg.Location.ShareCoordinates {
		lat := s.cfg.Location.Latitude
		lon := s.cfg.Location.Longitude
		loc.Latitude = &lat
		loc.Longitude = &lon
	}

	if loc.Country == "" && loc.Latitude == nil {
		return nil
	}

	return loc
}
