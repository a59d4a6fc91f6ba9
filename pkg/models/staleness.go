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

// StalenessClass separates sensors with an old-but-present valid value from
// sensors where no valid value could be determined at all.
type StalenessClass string

const (
	StalenessStale   StalenessClass = "stale"
	StalenessMissing StalenessClass = "missing"
)

// StalenessRecord captures one sensor's currency finding for a single upload
// cycle. Records are consumed by the warning aggregator and discarded.
type StalenessRecord struct {
	PlantName   string
	EntityID    string
	Measurement MeasurementKind
	Class       StalenessClass
	LastValid   *time.Time // nil for MISSING records
	Age         time.Duration
}
