package models

import (
	"fmt"
	"time"

	"github.com/ternarybob/paraulins/internal/common"
)

// Year bounds accepted for recordings. Dates outside this window are
// rejected at construction.
const (
	MinRecordingYear = 2000
	MaxRecordingYear = 2050
)

// Recording is one audio artifact for a word, keyed by calendar date.
// The full (year, month, day) tuple is the identity used for dedup and
// lookup; values are immutable once constructed.
type Recording struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Filename string `json:"filename"`
}

// NewRecording validates the date and returns a Recording. Out-of-calendar
// dates and years outside [MinRecordingYear, MaxRecordingYear] fail with an
// ErrInvalidDate kind.
func NewRecording(year, month, day int, filename string) (Recording, error) {
	if err := ValidateDate(year, month, day); err != nil {
		return Recording{}, err
	}
	return Recording{Year: year, Month: month, Day: day, Filename: filename}, nil
}

// ValidateDate checks that (year, month, day) is a real calendar date within
// the accepted year range.
func ValidateDate(year, month, day int) error {
	if year < MinRecordingYear || year > MaxRecordingYear {
		return common.WrapError(common.ErrInvalidDate,
			fmt.Sprintf("year %d outside %d-%d", year, MinRecordingYear, MaxRecordingYear), nil)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return common.WrapError(common.ErrInvalidDate,
			fmt.Sprintf("%04d-%02d-%02d is not a calendar date", year, month, day), nil)
	}
	return nil
}

// Date returns the recording date as a time.Time (midnight UTC).
func (r Recording) Date() time.Time {
	return time.Date(r.Year, time.Month(r.Month), r.Day, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether the recording is keyed by the given date.
func (r Recording) SameDate(year, month, day int) bool {
	return r.Year == year && r.Month == month && r.Day == day
}

// dateKey orders recordings ascending by (year, month, day).
func (r Recording) dateKey() int {
	return r.Year*10000 + r.Month*100 + r.Day
}

// ToMap converts the recording to its plain-mapping representation.
func (r Recording) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"year":     r.Year,
		"month":    r.Month,
		"day":      r.Day,
		"filename": r.Filename,
	}
}

// RecordingFromMap builds a Recording from its plain-mapping representation.
// Legacy shapes that predate month/day tracking default the missing fields
// to 1 rather than failing.
func RecordingFromMap(data map[string]interface{}) (Recording, error) {
	year, ok := intField(data, "year")
	if !ok {
		return Recording{}, common.WrapError(common.ErrValidation, "recording is missing year", nil)
	}
	month, ok := intField(data, "month")
	if !ok {
		month = 1
	}
	day, ok := intField(data, "day")
	if !ok {
		day = 1
	}
	filename, _ := data["filename"].(string)
	return NewRecording(year, month, day, filename)
}

// intField reads an integer from a decoded mapping, accepting the numeric
// types JSON decoders produce.
func intField(data map[string]interface{}, key string) (int, bool) {
	switch v := data[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
