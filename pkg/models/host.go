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

// DeviceIdentifier is one (domain, id) pair from the host device registry.
type DeviceIdentifier struct {
	Domain string
	ID     string
}

// Device is a host device registry entry.
type Device struct {
	ID          string
	Name        string
	Model       string
	NameByUser  string // user-assigned alias, "" when unset
	Identifiers []DeviceIdentifier
}

// HasDomain reports whether any identifier belongs to the given domain.
func (d *Device) HasDomain(domain string) bool {
	for _, ident := range d.Identifiers {
		if ident.Domain == domain {
			return true
		}
	}

	return false
}

// Entity is a host entity registry entry.
type Entity struct {
	EntityID            string
	DeviceID            string
	Platform            string
	OriginalDeviceClass string
}

// Domain returns the entity id's domain prefix ("sensor" in "sensor.x").
func (e *Entity) Domain() string {
	for i := 0; i < len(e.EntityID); i++ {
		if e.EntityID[i] == '.' {
			return e.EntityID[:i]
		}
	}

	return ""
}

// State is a host state entity snapshot.
type State struct {
	EntityID    string
	State       string
	Attributes  map[string]interface{}
	LastUpdated time.Time
}
