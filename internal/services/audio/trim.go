package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ternarybob/paraulins/internal/common"
)

// codec describes how trimmed audio for a given upload extension gets
// re-encoded. Browser-only containers (m4a, webm) have no dedicated entry
// and fall back to WAV, so the written extension can differ from the
// uploaded one.
type codec struct {
	outputExt  string
	encodeArgs []string
}

var codecs = map[string]codec{
	"mp3": {outputExt: "mp3", encodeArgs: []string{"-c:a", "libmp3lame", "-q:a", "2"}},
	"wav": {outputExt: "wav", encodeArgs: []string{"-c:a", "pcm_s16le"}},
	"ogg": {outputExt: "ogg", encodeArgs: []string{"-c:a", "libvorbis"}},
}

// fallbackCodec is used for containers without a direct encode path.
var fallbackCodec = codec{outputExt: "wav", encodeArgs: []string{"-c:a", "pcm_s16le"}}

func codecFor(ext string) codec {
	if c, ok := codecs[ext]; ok {
		return c
	}
	return fallbackCodec
}

// SaveWithTrim validates the upload, cuts the waveform to
// [startSeconds, endSeconds) at millisecond resolution and stores the
// re-encoded result. A negative start is clamped to zero and the end is
// clamped to the audio's probed duration; a range that is empty after
// clamping fails with ErrInvalidTrimRange. Intermediate files live in a
// per-call work directory that is removed on every exit path.
func (s *Service) SaveWithTrim(ctx context.Context, data []byte, filename, childName, wordText string, date time.Time, startSeconds, endSeconds float64) (string, error) {
	ext, err := s.validate(data, filename)
	if err != nil {
		return "", err
	}

	workDir, err := os.MkdirTemp("", "paraulins-trim-"+uuid.New().String()[:8])
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "input."+ext)
	if err := os.WriteFile(inputPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to stage uploaded audio: %w", err)
	}

	duration, err := s.probeDuration(ctx, inputPath)
	if err != nil {
		return "", err
	}

	if startSeconds < 0 {
		startSeconds = 0
	}
	if endSeconds > duration {
		endSeconds = duration
	}
	if endSeconds <= startSeconds {
		return "", common.WrapError(common.ErrInvalidTrimRange,
			fmt.Sprintf("start %.3fs, end %.3fs, duration %.3fs", startSeconds, endSeconds, duration), nil)
	}

	target := codecFor(ext)
	trimmedPath := filepath.Join(workDir, "trimmed."+target.outputExt)
	if err := s.trim(ctx, inputPath, trimmedPath, startSeconds, endSeconds, target); err != nil {
		return "", err
	}

	trimmed, err := os.ReadFile(trimmedPath)
	if err != nil {
		return "", common.WrapError(common.ErrMediaProcessing, "trimmed audio unreadable", err)
	}

	destPath, err := s.destPath(childName, wordText, date, target.outputExt)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(destPath, trimmed, 0644); err != nil {
		return "", fmt.Errorf("failed to write trimmed audio: %w", err)
	}

	key := storageKey(date, target.outputExt)
	s.logger.Debug().
		Str("child", childName).
		Str("word", wordText).
		Str("file", key).
		Str("source_ext", ext).
		Float64("start", startSeconds).
		Float64("end", endSeconds).
		Msg("Trimmed audio stored")
	return key, nil
}

// probeDuration asks ffprobe for the container duration in seconds.
func (s *Service) probeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	cmd := exec.CommandContext(ctx, s.config.FFprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, common.WrapError(common.ErrMediaProcessing, "failed to probe audio duration", toolError(err))
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, common.WrapError(common.ErrMediaProcessing, "unexpected ffprobe output", err)
	}
	return duration, nil
}

// trim decodes, slices and re-encodes through ffmpeg. Timestamps are
// formatted with millisecond precision.
func (s *Service) trim(ctx context.Context, src, dest string, startSeconds, endSeconds float64, target codec) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-ss", formatSeconds(startSeconds),
		"-to", formatSeconds(endSeconds),
		"-vn",
	}
	args = append(args, target.encodeArgs...)
	args = append(args, dest)

	cmd := exec.CommandContext(ctx, s.config.FFmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		return common.WrapError(common.ErrMediaProcessing, "ffmpeg trim failed", fmt.Errorf("%s", detail))
	}
	return nil
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// toolError folds captured stderr from an ExitError into the message so
// the underlying cause survives wrapping.
func toolError(err error) error {
	if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return err
}
