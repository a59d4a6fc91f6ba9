package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	rows [][3]interface{} // state, shared_attrs, last_updated_ts
	idx  int
}

func (f *fakeRows) Next() bool {
	return f.idx < len(f.rows)
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.rows[f.idx]
	f.idx++

	if row[0] == nil {
		*dest[0].(**string) = nil
	} else {
		s := row[0].(string)
		*dest[0].(**string) = &s
	}

	if row[1] == nil {
		*dest[1].(**string) = nil
	} else {
		s := row[1].(string)
		*dest[1].(**string) = &s
	}

	*dest[2].(*float64) = row[2].(float64)

	return nil
}

func (*fakeRows) Err() error { return nil }

func TestScanReadings(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := &fakeRows{rows: [][3]interface{}{
		{"21.5", `{"unit_of_measurement":"°C","friendly_name":"Temp"}`, toEpoch(at)},
		{"unavailable", nil, toEpoch(at.Add(time.Minute))},
		{nil, `{"unit_of_measurement":"%"}`, toEpoch(at.Add(2 * time.Minute))},
	}}

	readings, err := scanReadings(rows)
	require.NoError(t, err)
	require.Len(t, readings, 3)

	assert.Equal(t, "21.5", readings[0].State)
	assert.Equal(t, "°C", readings[0].Unit)
	assert.True(t, at.Equal(readings[0].LastUpdated))

	assert.Equal(t, "unavailable", readings[1].State)
	assert.Empty(t, readings[1].Unit)

	assert.Empty(t, readings[2].State)
	assert.Equal(t, "%", readings[2].Unit)
}

func TestExtractUnit(t *testing.T) {
	assert.Equal(t, "lx", extractUnit(`{"unit_of_measurement":"lx"}`))
	assert.Empty(t, extractUnit(`{"friendly_name":"Light"}`))
	assert.Empty(t, extractUnit(`not json`))
}

func TestEpochRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 500000000, time.UTC)
	got := fromEpoch(toEpoch(at))
	assert.WithinDuration(t, at, got, time.Millisecond)
}
