package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/paraulins/internal/common"
	"github.com/ternarybob/paraulins/internal/interfaces"
	"github.com/ternarybob/paraulins/internal/models"
)

func newTestStore(t *testing.T) (interfaces.ChildStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := NewStore(path, common.GetLogger())
	require.NoError(t, err)
	return store, path
}

func TestNewStore_CreatesEmptyDocument(t *testing.T) {
	store, path := newTestStore(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, []interface{}{}, doc["children"])

	children, err := store.Children()
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestStore_Load_CorruptFileStartsEmpty(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Children)
}

func TestStore_SaveChild_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	child, err := models.NewChild("Alice")
	require.NoError(t, err)
	word, err := models.NewWord("hola")
	require.NoError(t, err)
	require.NoError(t, word.AddRecording(2023, 6, 15, "2023-06-15.mp3"))
	word.SetImage("hola.jpg")
	child.AddWord(word)

	require.NoError(t, store.SaveChild(child))

	got, err := store.Child("Alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, child, *got)
}

func TestStore_SaveChild_ReplacesExisting(t *testing.T) {
	store, _ := newTestStore(t)

	child, err := models.NewChild("Alice")
	require.NoError(t, err)
	require.NoError(t, store.SaveChild(child))

	word, err := models.NewWord("hola")
	require.NoError(t, err)
	child.AddWord(word)
	require.NoError(t, store.SaveChild(child))

	children, err := store.Children()
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Len(t, children[0].Words, 1)
}

func TestStore_Child_ExactNameMatch(t *testing.T) {
	store, _ := newTestStore(t)

	child, err := models.NewChild("Alice")
	require.NoError(t, err)
	require.NoError(t, store.SaveChild(child))

	got, err := store.Child("alice")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Child("Alice")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestStore_DeleteChild(t *testing.T) {
	store, _ := newTestStore(t)

	child, err := models.NewChild("Alice")
	require.NoError(t, err)
	require.NoError(t, store.SaveChild(child))

	removed, err := store.DeleteChild("Bob")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = store.DeleteChild("Alice")
	require.NoError(t, err)
	assert.True(t, removed)

	children, err := store.Children()
	require.NoError(t, err)
	assert.Empty(t, children)

	got, err := store.Child("Alice")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_LegacyRecordingShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	legacy := `{
  "children": [
    {
      "name": "Vell",
      "words": [
        {
          "text": "pa",
          "image_filename": null,
          "recordings": [
            {"year": 2020, "filename": "2020.wav"}
          ]
        }
      ]
    }
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	store, err := NewStore(path, common.GetLogger())
	require.NoError(t, err)

	child, err := store.Child("Vell")
	require.NoError(t, err)
	require.NotNil(t, child)

	word := child.GetWord("pa")
	require.NotNil(t, word)
	require.Len(t, word.Recordings, 1)
	assert.Equal(t, models.Recording{Year: 2020, Month: 1, Day: 1, Filename: "2020.wav"}, word.Recordings[0])

	// Writing the child back round-trips through the current shape.
	require.NoError(t, store.SaveChild(*child))
	again, err := store.Child("Vell")
	require.NoError(t, err)
	assert.Equal(t, *child, *again)
}

func TestStore_ConcurrentSaveChildKeepsBoth(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for _, name := range []string{"Alice", "Bob", "Carla", "Dan"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			child, err := models.NewChild(name)
			assert.NoError(t, err)
			assert.NoError(t, store.SaveChild(child))
		}(name)
	}
	wg.Wait()

	children, err := store.Children()
	require.NoError(t, err)
	assert.Len(t, children, 4)
}
