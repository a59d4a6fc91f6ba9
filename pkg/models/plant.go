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

// Package models defines the shared domain types for plantsync.
package models

import "time"

// MeasurementKind is one of the fixed sensor classes eligible for upload.
type MeasurementKind string

const (
	MeasurementTemperature  MeasurementKind = "temperature"
	MeasurementHumidity     MeasurementKind = "humidity"
	MeasurementIlluminance  MeasurementKind = "illuminance"
	MeasurementMoisture     MeasurementKind = "moisture"
	MeasurementConductivity MeasurementKind = "conductivity"
)

// SupportedMeasurements lists the kinds eligible for upload, in the order
// they appear in payloads.
var SupportedMeasurements = []MeasurementKind{
	MeasurementTemperature,
	MeasurementHumidity,
	MeasurementIlluminance,
	MeasurementMoisture,
	MeasurementConductivity,
}

var seriesNames = map[MeasurementKind]string{
	MeasurementTemperature:  "temp",
	MeasurementHumidity:     "air_humid",
	MeasurementIlluminance:  "light_lux",
	MeasurementMoisture:     "soil_moist",
	MeasurementConductivity: "soil_ec",
}

// Supported reports whether the kind is eligible for upload.
func (k MeasurementKind) Supported() bool {
	_, ok := seriesNames[k]
	return ok
}

// SeriesName returns the remote service's series name for the kind, or ""
// for unsupported kinds.
func (k MeasurementKind) SeriesName() string {
	return seriesNames[k]
}

// PlantInstance is one physical plant tracked by the host: a device record
// carrying the species it was configured with. Instances are re-derived from
// the host registries every upload cycle and never persisted.
type PlantInstance struct {
	LocalID     string
	DisplayName string
	Model       string
	SpeciesID   string // species identifier from the plant entity, "" until resolved
	RemoteID    string // remote catalog instance id, "" until registered
}

// SensorBinding ties one host sensor entity to a plant instance.
type SensorBinding struct {
	EntityID string
	Kind     MeasurementKind
}

// RawReading is one historical state point as read from the recorder. It is
// either normalized or discarded within the same aggregation pass.
type RawReading struct {
	State       string
	Unit        string
	LastUpdated time.Time
	Kind        MeasurementKind
}

// NormalizedReading is a range-validated integer reading in local time.
type NormalizedReading struct {
	Value int
	At    time.Time
	Kind  MeasurementKind
}

// TimeSeries holds the accepted readings for one (remote instance,
// measurement) pair. Only non-empty series enter the upload payload.
type TimeSeries struct {
	RemoteID string
	Kind     MeasurementKind
	Readings []NormalizedReading
}

// UploadWindow is the half-open history query range for one plant instance.
type UploadWindow struct {
	Start time.Time
	End   time.Time
}
