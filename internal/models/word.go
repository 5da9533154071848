package models

import (
	"sort"

	"github.com/ternarybob/paraulins/internal/common"
)

// Word is a vocabulary entry with an optional representative image and a
// dated history of audio recordings. Invariants: at most one recording per
// distinct date, and the recordings list stays sorted ascending by date.
type Word struct {
	Text          string      `json:"text"`
	ImageFilename *string     `json:"image_filename"`
	Recordings    []Recording `json:"recordings"`
}

// NewWord creates a word with no image and no recordings. Text must be
// non-empty; surrounding whitespace is the caller's concern (lookups are
// exact-match on the unmodified text).
func NewWord(text string) (Word, error) {
	if text == "" {
		return Word{}, common.WrapError(common.ErrValidation, "word text cannot be empty", nil)
	}
	return Word{Text: text, Recordings: []Recording{}}, nil
}

// AddRecording records audio for a date, replacing any recording already
// keyed by the same date, and keeps the list sorted. Fails only when the
// date itself is invalid.
func (w *Word) AddRecording(year, month, day int, filename string) error {
	rec, err := NewRecording(year, month, day, filename)
	if err != nil {
		return err
	}
	kept := w.Recordings[:0]
	for _, r := range w.Recordings {
		if !r.SameDate(year, month, day) {
			kept = append(kept, r)
		}
	}
	w.Recordings = append(kept, rec)
	sort.Slice(w.Recordings, func(i, j int) bool {
		return w.Recordings[i].dateKey() < w.Recordings[j].dateKey()
	})
	return nil
}

// GetRecording returns the recording for the exact date, if any.
func (w *Word) GetRecording(year, month, day int) (Recording, bool) {
	for _, r := range w.Recordings {
		if r.SameDate(year, month, day) {
			return r, true
		}
	}
	return Recording{}, false
}

// RemoveRecording deletes the recording for the exact date and reports
// whether a match existed.
func (w *Word) RemoveRecording(year, month, day int) bool {
	for i, r := range w.Recordings {
		if r.SameDate(year, month, day) {
			w.Recordings = append(w.Recordings[:i], w.Recordings[i+1:]...)
			return true
		}
	}
	return false
}

// YearMonth is the legacy compatibility view of a recording date.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Dates returns all recorded dates as (year, month) pairs, in recording
// order. Derived, not stored.
func (w *Word) Dates() []YearMonth {
	dates := make([]YearMonth, 0, len(w.Recordings))
	for _, r := range w.Recordings {
		dates = append(dates, YearMonth{Year: r.Year, Month: r.Month})
	}
	return dates
}

// Years returns the distinct years with recordings, ascending.
func (w *Word) Years() []int {
	seen := make(map[int]bool, len(w.Recordings))
	years := make([]int, 0, len(w.Recordings))
	for _, r := range w.Recordings {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}

// SetImage overwrites the word's image filename wholesale. There is no
// image history.
func (w *Word) SetImage(filename string) {
	w.ImageFilename = &filename
}

// ClearImage removes the image reference.
func (w *Word) ClearImage() {
	w.ImageFilename = nil
}

// ToMap converts the word to its plain-mapping representation.
func (w *Word) ToMap() map[string]interface{} {
	recordings := make([]interface{}, 0, len(w.Recordings))
	for _, r := range w.Recordings {
		recordings = append(recordings, r.ToMap())
	}
	var image interface{}
	if w.ImageFilename != nil {
		image = *w.ImageFilename
	}
	return map[string]interface{}{
		"text":           w.Text,
		"image_filename": image,
		"recordings":     recordings,
	}
}

// WordFromMap builds a Word from its plain-mapping representation.
func WordFromMap(data map[string]interface{}) (Word, error) {
	text, _ := data["text"].(string)
	word, err := NewWord(text)
	if err != nil {
		return Word{}, err
	}
	if image, ok := data["image_filename"].(string); ok {
		word.ImageFilename = &image
	}
	if list, ok := data["recordings"].([]interface{}); ok {
		for _, entry := range list {
			recData, ok := entry.(map[string]interface{})
			if !ok {
				return Word{}, common.WrapError(common.ErrValidation, "recording entry is not a mapping", nil)
			}
			rec, err := RecordingFromMap(recData)
			if err != nil {
				return Word{}, err
			}
			if err := word.AddRecording(rec.Year, rec.Month, rec.Day, rec.Filename); err != nil {
				return Word{}, err
			}
		}
	}
	return word, nil
}
