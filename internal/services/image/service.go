// Package image stores one optimized image per word, keyed by the
// sanitized word text. Uploads are resized for word cards and lightly
// sharpened before encoding.
package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/paraulins/internal/common"
	"github.com/ternarybob/paraulins/internal/interfaces"
)

// Config holds image storage configuration.
type Config struct {
	// BaseDir is the flat directory holding one image per word.
	BaseDir string

	// MaxFileSize is the upload ceiling in bytes.
	MaxFileSize int64

	// TargetSize bounds the longer image side after resize, in pixels.
	TargetSize int

	// JPEGQuality is the encode quality for JPEG-family targets.
	JPEGQuality int
}

// allowedExtensions is the accepted upload set, in lookup order for
// Filename and Delete.
var allowedExtensions = []string{"jpg", "jpeg", "png", "gif"}

// Service implements interfaces.ImageStore on the local filesystem.
type Service struct {
	config Config
	logger arbor.ILogger
}

// NewService creates an image storage service.
func NewService(config Config, logger arbor.ILogger) interfaces.ImageStore {
	return &Service{
		config: config,
		logger: logger,
	}
}

// Save validates, optimizes and persists an uploaded image. Any previous
// image for the word is deleted first, across all allowed extensions, so a
// word never holds more than one image even when the format changes. The
// storage key is "<sanitized-word>.<ext>".
func (s *Service) Save(data []byte, filename, wordText string) (string, error) {
	ext, err := s.validate(data, filename)
	if err != nil {
		return "", err
	}

	processed, err := s.process(data, ext)
	if err != nil {
		return "", err
	}

	s.Delete(wordText)

	if err := os.MkdirAll(s.config.BaseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}

	key := fmt.Sprintf("%s.%s", common.SanitizeFilename(wordText), ext)
	if err := os.WriteFile(filepath.Join(s.config.BaseDir, key), processed, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	s.logger.Debug().
		Str("word", wordText).
		Str("file", key).
		Int("size", len(processed)).
		Msg("Image stored")
	return key, nil
}

// Path resolves a stored image file; ok is false when it does not exist.
func (s *Service) Path(filename string) (string, bool) {
	path := filepath.Join(s.config.BaseDir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Delete removes the word's image across all allowed extensions and
// reports whether anything was removed.
func (s *Service) Delete(wordText string) bool {
	safe := common.SanitizeFilename(wordText)
	deleted := false
	for _, ext := range allowedExtensions {
		path := filepath.Join(s.config.BaseDir, fmt.Sprintf("%s.%s", safe, ext))
		if err := os.Remove(path); err == nil {
			deleted = true
		}
	}
	return deleted
}

// Filename returns the first existing extension-qualified filename for the
// word without mutating anything.
func (s *Service) Filename(wordText string) (string, bool) {
	safe := common.SanitizeFilename(wordText)
	for _, ext := range allowedExtensions {
		filename := fmt.Sprintf("%s.%s", safe, ext)
		if _, err := os.Stat(filepath.Join(s.config.BaseDir, filename)); err == nil {
			return filename, true
		}
	}
	return "", false
}

// validate applies the upload checks in contract order: presence, size,
// then extension.
func (s *Service) validate(data []byte, filename string) (string, error) {
	if filename == "" {
		return "", common.WrapError(common.ErrValidation, "no image file provided", nil)
	}
	if len(data) == 0 {
		return "", common.WrapError(common.ErrValidation, "image file is empty", nil)
	}
	if int64(len(data)) > s.config.MaxFileSize {
		return "", common.WrapError(common.ErrFileTooLarge,
			fmt.Sprintf("maximum size: %.1fMB", float64(s.config.MaxFileSize)/1024/1024), nil)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", common.WrapError(common.ErrValidation, "image filename has no extension", nil)
	}
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", common.WrapError(common.ErrUnsupportedType,
		fmt.Sprintf("allowed types: %s", strings.Join(allowedExtensions, ", ")), nil)
}

// process decodes, downsizes to the target bound with Lanczos resampling,
// applies a mild sharpen to compensate for downscale softness, and
// re-encodes for the target extension.
func (s *Service) process(data []byte, ext string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, common.WrapError(common.ErrMediaProcessing, "failed to decode image", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > s.config.TargetSize || bounds.Dy() > s.config.TargetSize {
		img = imaging.Fit(img, s.config.TargetSize, s.config.TargetSize, imaging.Lanczos)
		img = imaging.Sharpen(img, 0.5)
	}

	if ext == "jpg" || ext == "jpeg" {
		// JPEG has no alpha channel: flatten transparency onto white.
		img = flatten(img)
	}

	var buf bytes.Buffer
	switch ext {
	case "jpg", "jpeg":
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(s.config.JPEGQuality))
	case "png":
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case "gif":
		err = imaging.Encode(&buf, img, imaging.GIF)
	default:
		err = fmt.Errorf("no encoder for extension %q", ext)
	}
	if err != nil {
		return nil, common.WrapError(common.ErrMediaProcessing, "failed to encode image", err)
	}
	return buf.Bytes(), nil
}

// flatten composites the image over a white background, discarding any
// alpha or palette channel.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}
