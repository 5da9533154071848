package interfaces

import (
	"context"
	"time"
)

// AudioStore maps uploaded audio bytes onto deterministically named files
// under <base>/<child>/<word>/. Returned storage keys are bare filenames;
// full paths stay internal to the store.
type AudioStore interface {
	// Save validates and persists raw audio bytes for a date. The returned
	// key is "YYYY-MM-DD.<ext>".
	Save(data []byte, filename, childName, wordText string, date time.Time) (string, error)

	// SaveWithTrim additionally cuts the audio to [start, end) seconds,
	// re-encoding per the container of the uploaded extension. The key may
	// carry a different extension than the upload when the container had to
	// be transcoded.
	SaveWithTrim(ctx context.Context, data []byte, filename, childName, wordText string, date time.Time, startSeconds, endSeconds float64) (string, error)

	// Path resolves a stored file; ok is false when it does not exist.
	Path(childName, wordText, filename string) (path string, ok bool)

	// Delete removes the file and cleans up empty word/child directories.
	Delete(childName, wordText, filename string) bool

	// List returns the stored audio filenames for a word, sorted.
	List(childName, wordText string) []string
}

// ImageStore keeps at most one optimized image per word, keyed by the
// sanitized word text.
type ImageStore interface {
	// Save validates, optimizes and persists an uploaded image, replacing
	// any previous image for the word regardless of extension. The returned
	// key is "<sanitized-word>.<ext>".
	Save(data []byte, filename, wordText string) (string, error)

	// Path resolves a stored file; ok is false when it does not exist.
	Path(filename string) (path string, ok bool)

	// Delete removes the word's image across all allowed extensions.
	Delete(wordText string) bool

	// Filename returns the stored image filename for the word, if any.
	Filename(wordText string) (filename string, ok bool)
}

// ImageSearchResult is one hit returned by the external image provider.
type ImageSearchResult struct {
	ID            int    `json:"id"`
	Tags          string `json:"tags"`
	PreviewURL    string `json:"previewURL"`
	WebFormatURL  string `json:"webformatURL"`
	LargeImageURL string `json:"largeImageURL"`
	Views         int    `json:"views"`
	Downloads     int    `json:"downloads"`
	User          string `json:"user"`
	PageURL       string `json:"pageURL"`
	PreviewWidth  int    `json:"previewWidth"`
	PreviewHeight int    `json:"previewHeight"`
}

// ImageSearchPage is one page of provider results. Provider-side problems
// (missing key, rate limit, network failure) are reported in Error rather
// than as a Go error so the caller can pass them through verbatim.
type ImageSearchPage struct {
	Total       int                 `json:"total"`
	TotalHits   int                 `json:"totalHits"`
	CurrentPage int                 `json:"currentPage"`
	PerPage     int                 `json:"perPage"`
	Images      []ImageSearchResult `json:"images"`
	Error       string              `json:"error,omitempty"`
}

// ImageSearcher talks to the external image search provider.
type ImageSearcher interface {
	Search(ctx context.Context, query string, page int) *ImageSearchPage

	// Download fetches image bytes from a URL and stores them for the word
	// exactly as a direct upload would be stored.
	Download(ctx context.Context, imageURL, wordText string) (string, error)
}
