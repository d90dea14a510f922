package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Scan(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)

	tests := []struct {
		name  string
		value any
	}{
		{"rfc3339", "2024-03-01T10:20:30Z"},
		{"rfc3339 with offset", "2024-03-01T12:20:30+02:00"},
		{"sqlite default", "2024-03-01 10:20:30"},
		{"bytes", []byte("2024-03-01T10:20:30Z")},
		{"time", want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.value))
			assert.True(t, want.Equal(d.Time()), d.String())
		})
	}
}

func TestDate_ScanInvalid(t *testing.T) {
	var d Date
	assert.Error(t, d.Scan("yesterday"))
	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	local := time.FixedZone("UTC+2", 2*60*60)
	d := NewDate(time.Date(2024, 3, 1, 12, 0, 0, 500, local))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T10:00:00.000000500Z", v)
}

func TestDate_TimePtr(t *testing.T) {
	var nilDate *Date
	assert.Nil(t, nilDate.TimePtr())

	d := NewDate(time.Unix(0, 0))
	assert.True(t, time.Unix(0, 0).Equal(*d.TimePtr()))
}
