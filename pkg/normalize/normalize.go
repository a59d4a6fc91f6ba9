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

// Package normalize converts and validates raw sensor readings against the
// physical unit and plausible range of their measurement kind.
package normalize

import (
	"math"
	"strconv"

	"github.com/plantsync/plantsync/pkg/models"
)

// ErrTagDeviceClass marks a reading whose measurement kind is not one of the
// uploadable sensor classes.
const ErrTagDeviceClass = "device_class"

const (
	unitCelsius    = "°C"
	unitFahrenheit = "°F"
	unitKelvin     = "K"
	unitPercent    = "%"
	unitLux        = "lx"

	// Both micro-sign spellings appear in the wild: U+00B5 and U+03BC.
	unitMicrosiemensMicro = "µS/cm"
	unitMicrosiemensMu    = "μS/cm"
)

type rule struct {
	units []string
	min   int
	max   int
}

var rules = map[models.MeasurementKind]rule{
	models.MeasurementTemperature: {
		units: []string{unitCelsius, unitFahrenheit, unitKelvin},
		min:   -50,
		max:   70,
	},
	models.MeasurementHumidity: {
		units: []string{unitPercent},
		min:   0,
		max:   100,
	},
	models.MeasurementIlluminance: {
		units: []string{unitLux},
		min:   0,
		max:   200000,
	},
	models.MeasurementMoisture: {
		units: []string{unitPercent},
		min:   0,
		max:   100,
	},
	models.MeasurementConductivity: {
		units: []string{unitMicrosiemensMicro, unitMicrosiemensMu},
		min:   0,
		max:   3000,
	},
}

// Normalize parses state, converts it to the canonical unit for kind, and
// range-checks the result. It returns the rounded integer value and an error
// tag: "" when the value is acceptable, the kind's name when the value failed
// parsing, unit, or range validation, or ErrTagDeviceClass for an unsupported
// kind. A non-empty tag means the value must be disregarded; the value is
// still returned so callers can log what was dropped.
func Normalize(state, unit string, kind models.MeasurementKind) (int, string) {
	parsed, err := strconv.ParseFloat(state, 64)
	if err != nil {
		return 0, string(kind)
	}

	value := int(math.Round(parsed))

	r, ok := rules[kind]
	if !ok {
		return value, ErrTagDeviceClass
	}

	if kind == models.MeasurementTemperature {
		switch unit {
		case unitFahrenheit:
			value = int(math.Round((parsed - 32) * 5 / 9))
		case unitKelvin:
			value = int(math.Round(parsed - 273.15))
		}
	}

	if !acceptedUnit(r.units, unit) {
		return value, string(kind)
	}

	if value < r.min || value > r.max {
		return value, string(kind)
	}

	return value, ""
}

func acceptedUnit(units []string, unit string) bool {
	for _, u := range units {
		if u == unit {
			return true
		}
	}

	return false
}
