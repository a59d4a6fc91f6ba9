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

package plantbook

import (
	"math"

	"github.com/plantsync/plantsync/pkg/logger"
)

const (
	attrMaxLightMmol = "max_light_mmol"
	attrMinLightMmol = "min_light_mmol"
	attrMaxLightLux  = "max_light_lux"
	attrMaxDLI       = "max_dli"
	attrMinDLI       = "min_dli"

	// One mmol/day over a 12h photoperiod corresponds to 0.0036 mol/m²/day.
	mmolToDLIFactor = 0.0036

	// Ratio bounds for the mmol/lux plausibility check. Above the upper
	// bound the catalog's mmol values are already daily integrals and only
	// need a unit shift; below the lower bound the pairing is suspicious
	// but still converted normally.
	dailyIntegralRatio = 0.5
	suspectRatio       = 0.02
)

// enrichDLI derives max_dli/min_dli from the catalog's light thresholds and
// adds them to the species attributes. Species without mmol light data are
// left untouched.
func enrichDLI(attrs map[string]interface{}, log logger.Logger) {
	maxMmol, hasMax := numericAttr(attrs, attrMaxLightMmol)
	minMmol, hasMin := numericAttr(attrs, attrMinLightMmol)

	if !hasMax && !hasMin {
		return
	}

	factor := mmolToDLIFactor

	if maxLux, hasLux := numericAttr(attrs, attrMaxLightLux); hasMax && hasLux && maxLux > 0 {
		ratio := maxMmol / maxLux

		switch {
		case ratio > dailyIntegralRatio:
			factor = 0.001

			log.Info().
				Float64("ratio", ratio).
				Msg("Light mmol values look like daily integrals, converting directly to DLI")
		case ratio < suspectRatio:
			log.Warn().
				Float64("ratio", ratio).
				Float64("mmol", maxMmol).
				Float64("lux", maxLux).
				Msg("Unusual mmol/lux ratio in species light data")
		}
	}

	if hasMax {
		attrs[attrMaxDLI] = roundTenth(maxMmol * factor)
	}

	if hasMin {
		attrs[attrMinDLI] = roundTenth(minMmol * factor)
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// numericAttr reads a numeric attribute from a decoded JSON object. The
// decoder yields float64, but int is accepted for values set in code.
func numericAttr(attrs map[string]interface{}, key string) (float64, bool) {
	switch v := attrs[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
