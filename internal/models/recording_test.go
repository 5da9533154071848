package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/paraulins/internal/common"
)

func TestNewRecording_DateValidation(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		day     int
		wantErr bool
	}{
		{name: "valid date", year: 2023, month: 6, day: 15},
		{name: "lower year bound", year: 2000, month: 1, day: 1},
		{name: "upper year bound", year: 2050, month: 12, day: 31},
		{name: "leap day", year: 2024, month: 2, day: 29},
		{name: "year below range", year: 1999, month: 6, day: 15, wantErr: true},
		{name: "year above range", year: 2051, month: 6, day: 15, wantErr: true},
		{name: "month out of calendar", year: 2023, month: 13, day: 1, wantErr: true},
		{name: "day out of calendar", year: 2023, month: 4, day: 31, wantErr: true},
		{name: "non-leap february 29", year: 2023, month: 2, day: 29, wantErr: true},
		{name: "zero month", year: 2023, month: 0, day: 15, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecording(tt.year, tt.month, tt.day, "test.mp3")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrInvalidDate))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, rec.Year)
			assert.Equal(t, tt.month, rec.Month)
			assert.Equal(t, tt.day, rec.Day)
			assert.Equal(t, "test.mp3", rec.Filename)
		})
	}
}

func TestRecordingFromMap_LegacyDefaults(t *testing.T) {
	// Documents written before month/day tracking only carry a year.
	rec, err := RecordingFromMap(map[string]interface{}{
		"year":     float64(2021),
		"filename": "2021.mp3",
	})
	require.NoError(t, err)
	assert.Equal(t, 2021, rec.Year)
	assert.Equal(t, 1, rec.Month)
	assert.Equal(t, 1, rec.Day)
	assert.Equal(t, "2021.mp3", rec.Filename)
}

func TestRecordingFromMap_MissingYear(t *testing.T) {
	_, err := RecordingFromMap(map[string]interface{}{"filename": "x.mp3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestRecording_MapRoundTrip(t *testing.T) {
	rec, err := NewRecording(2023, 6, 15, "hola.mp3")
	require.NoError(t, err)

	back, err := RecordingFromMap(rec.ToMap())
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}
