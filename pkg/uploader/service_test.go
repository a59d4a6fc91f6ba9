package uploader

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
	"github.com/plantsync/plantsync/pkg/plantbook"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type pipelineMocks struct {
	api      *MockPlantbookAPI
	registry *MockRegistry
	history  *MockHistoryProvider
	states   *MockStateReader
	notifier *MockNotifier
}

func newTestService(t *testing.T, now time.Time, cfg *models.UploadConfig) (*Service, *pipelineMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := &pipelineMocks{
		api:      NewMockPlantbookAPI(ctrl),
		registry: NewMockRegistry(ctrl),
		history:  NewMockHistoryProvider(ctrl),
		states:   NewMockStateReader(ctrl),
		notifier: NewMockNotifier(ctrl),
	}

	if cfg == nil {
		cfg = &models.UploadConfig{Enabled: true, NotifyWarnings: true}
	}

	svc := New(m.api, m.registry, m.history, m.states, m.notifier, cfg,
		NewMetrics(prometheus.NewRegistry()), fixedClock{t: now}, logger.NewTestLogger())

	return svc, m
}

const (
	testDeviceID  = "dev-1"
	testPlantName = "Monstera"
	testSpecies   = "monstera deliciosa"
	testTempID    = "sensor.monstera_temperature"
	testRemoteID  = "remote-1"
)

func expectDiscovery(m *pipelineMocks) {
	m.registry.EXPECT().Devices(gomock.Any()).Return([]models.Device{
		{
			ID:          testDeviceID,
			Name:        testPlantName,
			Model:       testSpecies,
			Identifiers: []models.DeviceIdentifier{{Domain: "plant", ID: "p1"}},
		},
	}, nil)

	m.registry.EXPECT().Entities(gomock.Any()).Return([]models.Entity{
		{EntityID: "plant.monstera", DeviceID: testDeviceID},
		{EntityID: testTempID, DeviceID: testDeviceID, OriginalDeviceClass: "temperature"},
		{EntityID: "sensor.monstera_battery", DeviceID: testDeviceID, OriginalDeviceClass: "battery"},
	}, nil)

	m.states.EXPECT().GetState(gomock.Any(), "plant.monstera").Return(&models.State{
		EntityID:   "plant.monstera",
		State:      "ok",
		Attributes: map[string]interface{}{"species_original": testSpecies},
	}, nil)
}

func registration(latest *time.Time) []models.InstanceRegistration {
	return []models.InstanceRegistration{{ID: testRemoteID, LatestData: latest}}
}

func TestRunUploadsWindowedReadings(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	latest := now.Add(-48 * time.Hour)

	svc, m := newTestService(t, now, nil)

	expectDiscovery(m)

	m.api.EXPECT().
		RegisterInstances(gomock.Any(), map[string]string{testDeviceID: testSpecies}, gomock.Any()).
		Return(registration(&latest), nil)

	windowStart := latest.Add(time.Second)

	m.history.EXPECT().
		SignificantStates(gomock.Any(), testTempID, windowStart, now).
		Return([]models.RawReading{
			// At the window start exactly: excluded from the payload.
			{State: "19.0", Unit: "°C", LastUpdated: windowStart},
			{State: "unknown", LastUpdated: now.Add(-2 * time.Hour)},
			{State: "71.6", Unit: "°F", LastUpdated: now.Add(-time.Hour)},
		}, nil)

	m.api.EXPECT().Upload(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *plantbook.JTSDocument) (bool, error) {
			require.Len(t, doc.Data, 1)
			assert.Equal(t, testRemoteID, doc.Data[0].ID)
			assert.Equal(t, "temp", doc.Data[0].Name)
			require.Len(t, doc.Data[0].Records, 1)
			assert.Equal(t, 22, doc.Data[0].Records[0].Value)
			assert.True(t, doc.Data[0].Records[0].Timestamp.Equal(now.Add(-time.Hour)))

			return true, nil
		})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, *result)
}

func TestRunFirstUploadLooksBackTwoDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	svc, m := newTestService(t, now, nil)

	expectDiscovery(m)

	m.api.EXPECT().
		RegisterInstances(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(registration(nil), nil)

	m.history.EXPECT().
		SignificantStates(gomock.Any(), testTempID, now.Add(-48*time.Hour), now).
		Return([]models.RawReading{
			{State: "20.5", Unit: "°C", LastUpdated: now.Add(-time.Hour)},
		}, nil)

	m.api.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(true, nil)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, *result)
}

func TestRunCapsCatchUpWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	latest := now.Add(-10 * 24 * time.Hour)

	svc, m := newTestService(t, now, nil)

	expectDiscovery(m)

	m.api.EXPECT().
		RegisterInstances(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(registration(&latest), nil)

	m.history.EXPECT().
		SignificantStates(gomock.Any(), testTempID, now.Add(-7*24*time.Hour), now).
		Return([]models.RawReading{
			{State: "20.5", Unit: "°C", LastUpdated: now.Add(-time.Hour)},
		}, nil)

	m.api.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(true, nil)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
}

func TestRunRecoversFromRejectedSpeciesIdentifier(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) // a Tuesday
	displayPID := "Monstera Deliciosa"
	latest := now.Add(-time.Hour)

	svc, m := newTestService(t, now, nil)

	m.registry.EXPECT().Devices(gomock.Any()).Return([]models.Device{
		{
			ID:          testDeviceID,
			Name:        testPlantName,
			Identifiers: []models.DeviceIdentifier{{Domain: "plant", ID: "p1"}},
		},
	}, nil)
	m.registry.EXPECT().Entities(gomock.Any()).Return([]models.Entity{
		{EntityID: "plant.monstera", DeviceID: testDeviceID},
		{EntityID: testTempID, DeviceID: testDeviceID, OriginalDeviceClass: "temperature"},
	}, nil)
	m.states.EXPECT().GetState(gomock.Any(), "plant.monstera").Return(&models.State{
		Attributes: map[string]interface{}{"species_original": displayPID},
	}, nil)

	gomock.InOrder(
		m.api.EXPECT().
			RegisterInstances(gomock.Any(), map[string]string{testDeviceID: displayPID}, gomock.Any()).
			Return(nil, plantbook.ErrInvalidPID),
		m.api.EXPECT().Search(gomock.Any(), displayPID).Return(&models.PlantSearchResponse{
			Count: 1,
			Results: []models.PlantSearchResult{
				{PID: testSpecies, DisplayPID: displayPID},
			},
		}, nil),
		m.api.EXPECT().
			RegisterInstances(gomock.Any(), map[string]string{testDeviceID: testSpecies}, gomock.Any()).
			Return(registration(&latest), nil),
	)

	m.history.EXPECT().
		SignificantStates(gomock.Any(), testTempID, gomock.Any(), gomock.Any()).
		Return(nil, nil)
	m.history.EXPECT().
		LastStateChanges(gomock.Any(), testTempID, 1).
		Return([]models.RawReading{
			{State: "21.0", Unit: "°C", LastUpdated: now.Add(-time.Hour)},
		}, nil)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRunAbandonsRecoveryOnAmbiguousSearch(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) // a Monday, weekly gate closed

	svc, m := newTestService(t, now, nil)

	expectDiscovery(m)

	m.api.EXPECT().
		RegisterInstances(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, plantbook.ErrInvalidPID)
	m.api.EXPECT().Search(gomock.Any(), testSpecies).Return(&models.PlantSearchResponse{
		Count: 2,
		Results: []models.PlantSearchResult{
			{PID: "a", DisplayPID: "A"},
			{PID: "b", DisplayPID: "B"},
		},
	}, nil)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRunReportsStaleSensor(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	latest := now.Add(-6 * 24 * time.Hour)
	staleAt := now.Add(-5*24*time.Hour - 500*time.Millisecond)

	svc, m := newTestService(t, now, nil)

	expectDiscovery(m)

	m.api.EXPECT().
		RegisterInstances(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(registration(&latest), nil)

	m.history.EXPECT().
		SignificantStates(gomock.Any(), testTempID, gomock.Any(), gomock.Any()).
		Return([]models.RawReading{
			{State: "20.0", Unit: "°C", LastUpdated: staleAt},
		}, nil)

	m.api.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(true, nil)

	var message string

	m.notifier.EXPECT().
		Notify(gomock.Any(), notificationTitle, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, msg string) error {
			message = msg
			return nil
		})

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, message, "Stale sensor data")
	assert.Contains(t, message, testPlantName)
	assert.Contains(t, message, testTempID)
	assert.Contains(t, message, "5 days ago")
	assert.NotRegexp(t, regexp.MustCompile(`\.\d`), message,
		"user messages must not contain sub-second fragments")
}

func TestRunReportsMissingSensor(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	latest := now.Add(-time.Hour)

	svc, m := newTestService(t, now, nil)

	expectDiscovery(m)

	m.api.EXPECT().
		RegisterInstances(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(registration(&latest), nil)

	m.history.EXPECT().
		SignificantStates(gomock.Any(), testTempID, gomock.Any(), gomock.Any()).
		Return(nil, nil)
	m.history.EXPECT().
		LastStateChanges(gomock.Any(), testTempID, 1).
		Return([]models.RawReading{
			{State: "unavailable", LastUpdated: now.Add(-time.Minute)},
		}, nil)

	var message string

	m.notifier.EXPECT().
		Notify(gomock.Any(), notificationTitle, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, msg string) error {
			message = msg
			return nil
		})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)

	assert.Contains(t, message, "No valid sensor data")
	assert.Contains(t, message, testTempID)
	assert.False(t, strings.Contains(message, "Stale sensor data"))
}

func TestRunWarnsWhenNoRecentUpload(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	latest := now.Add(-4 * 24 * time.Hour)

	svc, m := newTestService(t, now, nil)

	expectDiscovery(m)

	m.api.EXPECT().
		RegisterInstances(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(registration(&latest), nil)

	m.history.EXPECT().
		SignificantStates(gomock.Any(), testTempID, gomock.Any(), gomock.Any()).
		Return(nil, nil)
	m.history.EXPECT().
		LastStateChanges(gomock.Any(), testTempID, 1).
		Return([]models.RawReading{
			{State: "21.0", Unit: "°C", LastUpdated: now.Add(-time.Hour)},
		}, nil)

	var message string

	m.notifier.EXPECT().
		Notify(gomock.Any(), notificationTitle, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, msg string) error {
			message = msg
			return nil
		})

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, message, "No plant sensor data has been uploaded since")
	assert.Contains(t, message, "4 days ago")
}

func TestRunNeverUploadedReminderIsWeekly(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		weekday  string
		notifies bool
	}{
		{
			name:     "default sunday matches",
			now:      time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC), // Sunday
			notifies: true,
		},
		{
			name: "default sunday does not match monday",
			now:  time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "configured weekday matches",
			now:      time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC), // Wednesday
			weekday:  "Wednesday",
			notifies: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &models.UploadConfig{
				Enabled:              true,
				NotifyWarnings:       true,
				NotifyMissingWeekday: tt.weekday,
			}

			svc, m := newTestService(t, tt.now, cfg)

			m.registry.EXPECT().Devices(gomock.Any()).Return(nil, nil)
			m.registry.EXPECT().Entities(gomock.Any()).Return(nil, nil)

			if tt.notifies {
				m.notifier.EXPECT().
					Notify(gomock.Any(), notificationTitle,
						gomock.Cond(func(x any) bool {
							msg, ok := x.(string)
							return ok && strings.Contains(msg, "never been uploaded")
						})).
					Return(nil)
			}

			result, err := svc.Run(context.Background())
			require.NoError(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestRunNotificationsCanBeDisabled(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC) // Sunday
	cfg := &models.UploadConfig{Enabled: true, NotifyWarnings: false}

	svc, m := newTestService(t, now, cfg)

	m.registry.EXPECT().Devices(gomock.Any()).Return(nil, nil)
	m.registry.EXPECT().Entities(gomock.Any()).Return(nil, nil)

	// No Notify expectation: delivering one fails the test.
	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRunRejectsOverlappingCycles(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	svc, m := newTestService(t, now, nil)

	entered := make(chan struct{})
	release := make(chan struct{})

	m.registry.EXPECT().Devices(gomock.Any()).
		DoAndReturn(func(context.Context) ([]models.Device, error) {
			close(entered)
			<-release

			return nil, nil
		})
	m.registry.EXPECT().Entities(gomock.Any()).Return(nil, nil)

	done := make(chan error, 1)

	go func() {
		_, err := svc.Run(context.Background())
		done <- err
	}()

	<-entered

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrUploadInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestRunSkipsPlantWithoutSpecies(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	svc, m := newTestService(t, now, nil)

	m.registry.EXPECT().Devices(gomock.Any()).Return([]models.Device{
		{
			ID:          testDeviceID,
			Name:        testPlantName,
			Identifiers: []models.DeviceIdentifier{{Domain: "plant", ID: "p1"}},
		},
	}, nil)
	m.registry.EXPECT().Entities(gomock.Any()).Return([]models.Entity{
		{EntityID: "plant.monstera", DeviceID: testDeviceID},
	}, nil)
	m.states.EXPECT().GetState(gomock.Any(), "plant.monstera").Return(&models.State{
		Attributes: map[string]interface{}{},
	}, nil)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRunIgnoresRenamedDevices(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	svc, m := newTestService(t, now, nil)

	m.registry.EXPECT().Devices(gomock.Any()).Return([]models.Device{
		{
			ID:          testDeviceID,
			Name:        testPlantName,
			NameByUser:  "my monstera",
			Identifiers: []models.DeviceIdentifier{{Domain: "plant", ID: "p1"}},
		},
	}, nil)
	m.registry.EXPECT().Entities(gomock.Any()).Return(nil, nil)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}
