package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWord_AddRecording_ReplacesSameDate(t *testing.T) {
	word, err := NewWord("hola")
	require.NoError(t, err)

	require.NoError(t, word.AddRecording(2023, 6, 15, "hola_1.mp3"))
	require.NoError(t, word.AddRecording(2023, 6, 15, "hola_2.mp3"))

	require.Len(t, word.Recordings, 1)
	assert.Equal(t, "hola_2.mp3", word.Recordings[0].Filename)
}

func TestWord_AddRecording_KeepsSortedByDate(t *testing.T) {
	word, err := NewWord("gat")
	require.NoError(t, err)

	require.NoError(t, word.AddRecording(2024, 1, 2, "c.mp3"))
	require.NoError(t, word.AddRecording(2022, 12, 31, "a.mp3"))
	require.NoError(t, word.AddRecording(2023, 6, 15, "b.mp3"))
	require.NoError(t, word.AddRecording(2023, 6, 1, "b0.mp3"))

	var got []string
	for _, r := range word.Recordings {
		got = append(got, r.Filename)
	}
	assert.Equal(t, []string{"a.mp3", "b0.mp3", "b.mp3", "c.mp3"}, got)

	// Removing from the middle keeps the order intact.
	assert.True(t, word.RemoveRecording(2023, 6, 1))
	got = got[:0]
	for _, r := range word.Recordings {
		got = append(got, r.Filename)
	}
	assert.Equal(t, []string{"a.mp3", "b.mp3", "c.mp3"}, got)
}

func TestWord_AddRecording_InvalidDate(t *testing.T) {
	word, err := NewWord("sol")
	require.NoError(t, err)

	require.Error(t, word.AddRecording(1990, 1, 1, "old.mp3"))
	assert.Empty(t, word.Recordings)
}

func TestWord_GetAndRemoveRecording(t *testing.T) {
	word, err := NewWord("lluna")
	require.NoError(t, err)
	require.NoError(t, word.AddRecording(2023, 6, 15, "lluna.mp3"))

	rec, ok := word.GetRecording(2023, 6, 15)
	require.True(t, ok)
	assert.Equal(t, "lluna.mp3", rec.Filename)

	_, ok = word.GetRecording(2023, 6, 16)
	assert.False(t, ok)

	assert.False(t, word.RemoveRecording(2023, 6, 16))
	assert.True(t, word.RemoveRecording(2023, 6, 15))
	assert.False(t, word.RemoveRecording(2023, 6, 15))
	assert.Empty(t, word.Recordings)
}

func TestWord_DatesAndYears(t *testing.T) {
	word, err := NewWord("casa")
	require.NoError(t, err)
	require.NoError(t, word.AddRecording(2023, 6, 15, "a.mp3"))
	require.NoError(t, word.AddRecording(2023, 9, 1, "b.mp3"))
	require.NoError(t, word.AddRecording(2021, 3, 2, "c.mp3"))

	assert.Equal(t, []YearMonth{{2021, 3}, {2023, 6}, {2023, 9}}, word.Dates())
	assert.Equal(t, []int{2021, 2023}, word.Years())
}

func TestWord_SetImage(t *testing.T) {
	word, err := NewWord("peix")
	require.NoError(t, err)
	assert.Nil(t, word.ImageFilename)

	word.SetImage("peix.jpg")
	require.NotNil(t, word.ImageFilename)
	assert.Equal(t, "peix.jpg", *word.ImageFilename)

	// Overwritten wholesale, no history.
	word.SetImage("peix.png")
	assert.Equal(t, "peix.png", *word.ImageFilename)

	word.ClearImage()
	assert.Nil(t, word.ImageFilename)
}

func TestWord_MapRoundTrip(t *testing.T) {
	word, err := NewWord("ocell")
	require.NoError(t, err)
	require.NoError(t, word.AddRecording(2023, 6, 15, "ocell.mp3"))
	word.SetImage("ocell.jpg")

	back, err := WordFromMap(word.ToMap())
	require.NoError(t, err)
	assert.Equal(t, word, back)
}

func TestWordFromMap_NoImage(t *testing.T) {
	back, err := WordFromMap(map[string]interface{}{
		"text":           "nu",
		"image_filename": nil,
	})
	require.NoError(t, err)
	assert.Nil(t, back.ImageFilename)
	assert.Empty(t, back.Recordings)
}
