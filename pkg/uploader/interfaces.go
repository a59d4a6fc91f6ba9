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

//go:generate mockgen -destination=mock_uploader.go -package=uploader github.com/plantsync/plantsync/pkg/uploader PlantbookAPI,Registry,HistoryProvider,StateReader,Notifier

package uploader

import (
	"context"
	"time"

	"github.com/plantsync/plantsync/pkg/models"
	"github.com/plantsync/plantsync/pkg/plantbook"
)

// PlantbookAPI is the slice of the remote catalog client the pipeline uses.
type PlantbookAPI interface {
	Search(ctx context.Context, alias string) (*models.PlantSearchResponse, error)
	RegisterInstances(ctx context.Context, instancePIDs map[string]string, location *models.Location) ([]models.InstanceRegistration, error)
	Upload(ctx context.Context, doc *plantbook.JTSDocument) (bool, error)
}

// Registry lists the host's device and entity registries.
type Registry interface {
	Devices(ctx context.Context) ([]models.Device, error)
	Entities(ctx context.Context) ([]models.Entity, error)
}

// HistoryProvider queries recorded sensor state history.
type HistoryProvider interface {
	SignificantStates(ctx context.Context, entityID string, start, end time.Time) ([]models.RawReading, error)
	LastStateChanges(ctx context.Context, entityID string, n int) ([]models.RawReading, error)
}

// StateReader reads current host state entities.
type StateReader interface {
	GetState(ctx context.Context, entityID string) (*models.State, error)
}

// Notifier delivers user-facing notifications through the host.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Clock abstracts time for deterministic scheduler and pipeline tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
