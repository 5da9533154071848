// Package imagesearch talks to a Pixabay-compatible image provider and
// feeds downloaded hits into the image store as if they were uploads.
package imagesearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/paraulins/internal/common"
	"github.com/ternarybob/paraulins/internal/interfaces"
)

// Config holds provider settings.
type Config struct {
	APIURL     string
	APIKey     string
	PerPage    int
	SafeSearch bool

	// MaxDownloadSize caps the bytes fetched per image download.
	MaxDownloadSize int64
}

// Service implements interfaces.ImageSearcher.
type Service struct {
	config  Config
	logger  arbor.ILogger
	client  *http.Client
	limiter *rate.Limiter
	images  interfaces.ImageStore
}

// NewService creates an image search client. Provider requests are
// throttled to stay under free-tier rate limits.
func NewService(config Config, images interfaces.ImageStore, logger arbor.ILogger) interfaces.ImageSearcher {
	if config.PerPage <= 0 {
		config.PerPage = 20
	}
	if config.MaxDownloadSize <= 0 {
		config.MaxDownloadSize = 10 * 1024 * 1024
	}
	return &Service{
		config:  config,
		logger:  logger,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		images:  images,
	}
}

// pixabayResponse mirrors the provider's response body.
type pixabayResponse struct {
	Total     int                            `json:"total"`
	TotalHits int                            `json:"totalHits"`
	Hits      []interfaces.ImageSearchResult `json:"hits"`
}

// Search queries the provider. Provider-side problems are reported in the
// page's Error field so the caller can relay them verbatim; a Go error is
// never returned.
func (s *Service) Search(ctx context.Context, query string, page int) *interfaces.ImageSearchPage {
	if page < 1 {
		page = 1
	}
	result := &interfaces.ImageSearchPage{
		CurrentPage: page,
		PerPage:     s.config.PerPage,
		Images:      []interfaces.ImageSearchResult{},
	}

	if s.config.APIKey == "" {
		result.Error = "Image search requires a Pixabay API key. Please contact the administrator to configure this feature."
		return result
	}

	if err := s.limiter.Wait(ctx); err != nil {
		result.Error = fmt.Sprintf("Network error: %v", err)
		return result
	}

	params := url.Values{}
	params.Set("key", s.config.APIKey)
	params.Set("q", query)
	params.Set("image_type", "photo")
	params.Set("orientation", "all")
	params.Set("category", "all")
	params.Set("min_width", "200")
	params.Set("min_height", "200")
	params.Set("safesearch", strconv.FormatBool(s.config.SafeSearch))
	params.Set("per_page", strconv.Itoa(s.config.PerPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("pretty", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		result.Error = fmt.Sprintf("Search error: %v", err)
		return result
	}

	resp, err := s.client.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("Network error: %v", err)
		return result
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		result.Error = "Invalid search parameters. Please try different search terms."
		return result
	case http.StatusTooManyRequests:
		result.Error = "Search rate limit exceeded. Please try again later."
		return result
	default:
		result.Error = fmt.Sprintf("Search error: provider returned HTTP %d", resp.StatusCode)
		return result
	}

	var body pixabayResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		result.Error = fmt.Sprintf("Search error: %v", err)
		return result
	}

	result.Total = body.Total
	result.TotalHits = body.TotalHits
	if body.Hits != nil {
		result.Images = body.Hits
	}

	s.logger.Debug().
		Str("query", query).
		Int("page", page).
		Int("hits", len(result.Images)).
		Msg("Image search completed")
	return result
}

// extensionForContentType maps a provider content type onto an upload
// extension. Unknown image types default to jpg, matching what most
// providers actually serve.
func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// Download fetches an image from the provider and stores it for the word
// through the image pipeline, exactly as a direct upload.
func (s *Service) Download(ctx context.Context, imageURL, wordText string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", common.WrapError(common.ErrValidation, "invalid image URL", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", common.WrapError(common.ErrMediaProcessing, "failed to download image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", common.WrapError(common.ErrMediaProcessing,
			fmt.Sprintf("image download returned HTTP %d", resp.StatusCode), nil)
	}

	contentType, _, _ := parseMediaType(resp.Header.Get("Content-Type"))
	if !isImageContentType(contentType) {
		return "", common.WrapError(common.ErrUnsupportedType, "URL does not point to an image", nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.config.MaxDownloadSize+1))
	if err != nil {
		return "", common.WrapError(common.ErrMediaProcessing, "failed to read image body", err)
	}
	if int64(len(data)) > s.config.MaxDownloadSize {
		return "", common.WrapError(common.ErrFileTooLarge,
			fmt.Sprintf("maximum download size: %.1fMB", float64(s.config.MaxDownloadSize)/1024/1024), nil)
	}

	filename := "downloaded_image." + extensionForContentType(contentType)
	return s.images.Save(data, filename, wordText)
}

// parseMediaType splits a Content-Type header into its type and parameter
// part, tolerating a missing header.
func parseMediaType(header string) (mediaType, params string, ok bool) {
	header = strings.ToLower(strings.TrimSpace(header))
	if header == "" {
		return "", "", false
	}
	if idx := strings.Index(header, ";"); idx >= 0 {
		return strings.TrimSpace(header[:idx]), strings.TrimSpace(header[idx+1:]), true
	}
	return header, "", true
}

func isImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
