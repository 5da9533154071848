// Package audio stores per-word audio recordings on disk, keyed by
// child, word and recording date, with optional trimming through ffmpeg.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/paraulins/internal/common"
	"github.com/ternarybob/paraulins/internal/interfaces"
)

// Config holds audio storage configuration.
type Config struct {
	// BaseDir is the root of the audio tree (<base>/<child>/<word>/...).
	BaseDir string

	// MaxFileSize is the upload ceiling in bytes.
	MaxFileSize int64

	// FFmpegPath and FFprobePath locate the external tools used for
	// trimming. Bare names are resolved from PATH.
	FFmpegPath  string
	FFprobePath string
}

// allowedExtensions is the accepted upload set. Keys are lowercase
// extensions without the dot.
var allowedExtensions = []string{"mp3", "wav", "ogg", "m4a", "webm"}

// Service implements interfaces.AudioStore on the local filesystem.
type Service struct {
	config Config
	logger arbor.ILogger
}

// NewService creates an audio storage service.
func NewService(config Config, logger arbor.ILogger) interfaces.AudioStore {
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}
	if config.FFprobePath == "" {
		config.FFprobePath = "ffprobe"
	}
	return &Service{
		config: config,
		logger: logger,
	}
}

// Save validates and persists raw audio bytes verbatim. The storage key is
// the bare filename "YYYY-MM-DD.<ext>"; full paths stay internal.
func (s *Service) Save(data []byte, filename, childName, wordText string, date time.Time) (string, error) {
	ext, err := s.validate(data, filename)
	if err != nil {
		return "", err
	}

	destPath, err := s.destPath(childName, wordText, date, ext)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	key := storageKey(date, ext)
	s.logger.Debug().
		Str("child", childName).
		Str("word", wordText).
		Str("file", key).
		Int("size", len(data)).
		Msg("Audio file stored")
	return key, nil
}

// Path resolves a stored audio file. It never creates anything; ok is
// false when the file is not at the expected location.
func (s *Service) Path(childName, wordText, filename string) (string, bool) {
	path := filepath.Join(s.wordDir(childName, wordText), filename)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Delete removes the file if present. Emptied word and child directories
// are removed too, so the tree never accumulates dead branches.
func (s *Service) Delete(childName, wordText, filename string) bool {
	path, ok := s.Path(childName, wordText, filename)
	if !ok {
		return false
	}
	if err := os.Remove(path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove audio file")
		return false
	}

	wordDir := filepath.Dir(path)
	if removeIfEmpty(wordDir) {
		removeIfEmpty(filepath.Dir(wordDir))
	}
	return true
}

// List returns the stored audio filenames for a word, sorted.
func (s *Service) List(childName, wordText string) []string {
	entries, err := os.ReadDir(s.wordDir(childName, wordText))
	if err != nil {
		return []string{}
	}
	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := extensionOf(entry.Name()); err == nil {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files
}

// validate applies the upload checks in contract order: presence, size,
// then extension. It returns the lowercase extension.
func (s *Service) validate(data []byte, filename string) (string, error) {
	if filename == "" {
		return "", common.WrapError(common.ErrValidation, "no audio file provided", nil)
	}
	if len(data) == 0 {
		return "", common.WrapError(common.ErrValidation, "audio file is empty", nil)
	}
	if int64(len(data)) > s.config.MaxFileSize {
		return "", common.WrapError(common.ErrFileTooLarge,
			fmt.Sprintf("maximum size: %.1fMB", float64(s.config.MaxFileSize)/1024/1024), nil)
	}
	return extensionOf(filename)
}

// extensionOf returns the lowercase extension when it is in the allowed
// audio set.
func extensionOf(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", common.WrapError(common.ErrValidation, "audio filename has no extension", nil)
	}
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", common.WrapError(common.ErrUnsupportedType,
		fmt.Sprintf("allowed types: %s", strings.Join(allowedExtensions, ", ")), nil)
}

func (s *Service) wordDir(childName, wordText string) string {
	return filepath.Join(s.config.BaseDir,
		common.SanitizeFilename(childName),
		common.SanitizeFilename(wordText))
}

// destPath builds the destination path and creates the intermediate
// directories.
func (s *Service) destPath(childName, wordText string, date time.Time, ext string) (string, error) {
	dir := s.wordDir(childName, wordText)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	return filepath.Join(dir, storageKey(date, ext)), nil
}

func storageKey(date time.Time, ext string) string {
	return fmt.Sprintf("%s.%s", date.Format("2006-01-02"), ext)
}

// removeIfEmpty deletes dir when it contains no entries and reports
// whether it was removed.
func removeIfEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return false
	}
	return os.Remove(dir) == nil
}
