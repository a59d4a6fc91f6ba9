package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plantsync/plantsync/pkg/models"
)

func TestNormalize_TemperatureConversion(t *testing.T) {
	tests := []struct {
		name      string
		state     string
		unit      string
		wantValue int
		wantTag   string
	}{
		{
			name:      "celsius passthrough",
			state:     "21.4",
			unit:      "°C",
			wantValue: 21,
		},
		{
			name:      "fahrenheit converts to celsius",
			state:     "68",
			unit:      "°F",
			wantValue: 20,
		},
		{
			name:      "fahrenheit rounds to nearest",
			state:     "69",
			unit:      "°F",
			wantValue: 21, // 20.56°C
		},
		{
			name:      "kelvin converts to celsius",
			state:     "293.15",
			unit:      "K",
			wantValue: 20,
		},
		{
			name:      "freezing fahrenheit",
			state:     "32",
			unit:      "°F",
			wantValue: 0,
		},
		{
			name:      "converted value out of range",
			state:     "200",
			unit:      "°F", // 93°C
			wantValue: 93,
			wantTag:   "temperature",
		},
		{
			name:      "unknown unit keeps raw value with tag",
			state:     "20",
			unit:      "degrees",
			wantValue: 20,
			wantTag:   "temperature",
		},
		{
			name:      "lower bound accepted",
			state:     "-50",
			unit:      "°C",
			wantValue: -50,
		},
		{
			name:      "below lower bound rejected",
			state:     "-51",
			unit:      "°C",
			wantValue: -51,
			wantTag:   "temperature",
		},
		{
			name:      "upper bound accepted",
			state:     "70",
			unit:      "°C",
			wantValue: 70,
		},
		{
			name:      "above upper bound rejected",
			state:     "71",
			unit:      "°C",
			wantValue: 71,
			wantTag:   "temperature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, tag := Normalize(tt.state, tt.unit, models.MeasurementTemperature)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestNormalize_RangeBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		kind      models.MeasurementKind
		state     string
		unit      string
		wantValue int
		wantTag   string
	}{
		{name: "humidity zero", kind: models.MeasurementHumidity, state: "0", unit: "%", wantValue: 0},
		{name: "humidity hundred", kind: models.MeasurementHumidity, state: "100", unit: "%", wantValue: 100},
		{name: "humidity over", kind: models.MeasurementHumidity, state: "101", unit: "%", wantValue: 101, wantTag: "humidity"},
		{name: "humidity under", kind: models.MeasurementHumidity, state: "-1", unit: "%", wantValue: -1, wantTag: "humidity"},
		{name: "moisture zero", kind: models.MeasurementMoisture, state: "0", unit: "%", wantValue: 0},
		{name: "moisture over", kind: models.MeasurementMoisture, state: "101", unit: "%", wantValue: 101, wantTag: "moisture"},
		{name: "illuminance max", kind: models.MeasurementIlluminance, state: "200000", unit: "lx", wantValue: 200000},
		{name: "illuminance over", kind: models.MeasurementIlluminance, state: "200001", unit: "lx", wantValue: 200001, wantTag: "illuminance"},
		{name: "conductivity max", kind: models.MeasurementConductivity, state: "3000", unit: "µS/cm", wantValue: 3000},
		{name: "conductivity over", kind: models.MeasurementConductivity, state: "3001", unit: "µS/cm", wantValue: 3001, wantTag: "conductivity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, tag := Normalize(tt.state, tt.unit, tt.kind)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestNormalize_ConductivityUnitSpellings(t *testing.T) {
	// ASCII micro sign U+00B5
	value, tag := Normalize("1500", "µS/cm", models.MeasurementConductivity)
	assert.Equal(t, 1500, value)
	assert.Empty(t, tag)

	// Greek small mu U+03BC
	value, tag = Normalize("1500", "μS/cm", models.MeasurementConductivity)
	assert.Equal(t, 1500, value)
	assert.Empty(t, tag)

	value, tag = Normalize("1500", "uS/cm", models.MeasurementConductivity)
	assert.Equal(t, 1500, value)
	assert.Equal(t, "conductivity", tag)
}

func TestNormalize_NonNumericState(t *testing.T) {
	value, tag := Normalize("on", "%", models.MeasurementHumidity)
	assert.Equal(t, 0, value)
	assert.Equal(t, "humidity", tag)
}

func TestNormalize_UnsupportedKind(t *testing.T) {
	value, tag := Normalize("42", "V", models.MeasurementKind("voltage"))
	assert.Equal(t, 42, value)
	assert.Equal(t, ErrTagDeviceClass, tag)
}

func TestNormalize_WrongUnitKeepsValue(t *testing.T) {
	// Percentage reading reported in lux: value survives for logging, tag set.
	value, tag := Normalize("55", "lx", models.MeasurementHumidity)
	assert.Equal(t, 55, value)
	assert.Equal(t, "humidity", tag)
}
