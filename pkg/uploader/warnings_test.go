package uploader

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plantsync/plantsync/pkg/models"
)

func TestRelativeAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "0 minutes"},
		{time.Minute, "1 minute"},
		{45 * time.Minute, "45 minutes"},
		{90 * time.Minute, "1 hour"},
		{23 * time.Hour, "23 hours"},
		{25 * time.Hour, "1 day"},
		{5*24*time.Hour + 3*time.Hour, "5 days"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeAge(tt.d), "relativeAge(%v)", tt.d)
	}
}

func TestFormatTimestampTruncatesSubSeconds(t *testing.T) {
	at := time.Date(2026, 3, 10, 8, 30, 15, 987654321, time.UTC)
	assert.Equal(t, "2026-03-10 08:30:15", formatTimestamp(at))
}

func TestWeekdayMatches(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

	assert.True(t, weekdayMatches(sunday, ""))
	assert.False(t, weekdayMatches(wednesday, ""))
	assert.True(t, weekdayMatches(wednesday, "wednesday"))
	assert.True(t, weekdayMatches(wednesday, "Wednesday"))
	assert.False(t, weekdayMatches(sunday, "wednesday"))
	// Unrecognized names fall back to Sunday.
	assert.True(t, weekdayMatches(sunday, "someday"))
}

func TestComposeWarningGroupsPerPlant(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	report := newCycleReport(now)

	fernLatest := now.Add(-2 * 24 * time.Hour)
	report.recordLatest("Fern", &fernLatest)
	report.recordLatest("Cactus", nil)

	staleAt := now.Add(-3 * 24 * time.Hour)
	report.stale = append(report.stale,
		models.StalenessRecord{
			PlantName:   "Fern",
			EntityID:    "sensor.fern_moisture",
			Measurement: models.MeasurementMoisture,
			Class:       models.StalenessStale,
			LastValid:   &staleAt,
			Age:         now.Sub(staleAt),
		},
		models.StalenessRecord{
			PlantName:   "Fern",
			EntityID:    "sensor.fern_temperature",
			Measurement: models.MeasurementTemperature,
			Class:       models.StalenessStale,
			LastValid:   &staleAt,
			Age:         now.Sub(staleAt),
		},
	)
	report.missing = append(report.missing, models.StalenessRecord{
		PlantName:   "Cactus",
		EntityID:    "sensor.cactus_conductivity",
		Measurement: models.MeasurementConductivity,
		Class:       models.StalenessMissing,
	})

	message := composeWarning(report)

	assert.Contains(t, message, "Stale sensor data:")
	assert.Contains(t, message, "No valid sensor data:")
	assert.Contains(t, message, "- Fern (last upload: 2026-03-08 12:00:00, 2 days ago):")
	assert.Contains(t, message, "- Cactus (last upload: never):")
	assert.Contains(t, message, "sensor.fern_moisture (moisture): last valid reading 2026-03-07 12:00:00 (3 days ago)")
	assert.Contains(t, message, "sensor.cactus_conductivity (conductivity): no valid reading recorded")

	// Both stale sensors sit under a single Fern heading.
	assert.Equal(t, 1, strings.Count(message, "- Fern (last upload"))
}

func TestComposeWarningEmptyWhenNothingFound(t *testing.T) {
	report := newCycleReport(time.Now())
	assert.Empty(t, composeWarning(report))
}
