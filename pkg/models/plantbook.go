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

package models

import "time"

// PlantSearchResult is one hit from a free-text catalog search.
type PlantSearchResult struct {
	PID        string `json:"pid"`
	DisplayPID string `json:"display_pid"`
	Alias      string `json:"alias,omitempty"`
}

// PlantSearchResponse is the catalog search envelope.
type PlantSearchResponse struct {
	Count   int                 `json:"count"`
	Results []PlantSearchResult `json:"results"`
}

// PlantDetails is a species detail record. The catalog returns a loose
// attribute set; the fields the service acts on are lifted out and the full
// payload is retained for state-entity attributes.
type PlantDetails struct {
	PID        string
	DisplayPID string
	ImageURL   string
	Attributes map[string]interface{}
}

// InstanceRegistration is the per-instance result of a register/upsert call.
// LatestData is the remote service's last-known-data timestamp, nil on the
// first-ever registration.
type InstanceRegistration struct {
	ID         string
	LatestData *time.Time
}

// Location carries the optional location hints sent with a registration.
// Nil pointer fields are omitted from the request.
type Location struct {
	Country   string
	Latitude  *float64
	Longitude *float64
}
