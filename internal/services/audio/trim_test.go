package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/paraulins/internal/common"
	"github.com/ternarybob/paraulins/internal/interfaces"
)

// requireFFmpeg skips tests that need the external tools.
func requireFFmpeg(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not available: %v", tool, err)
		}
	}
}

func newTrimService(t *testing.T) (interfaces.AudioStore, string) {
	t.Helper()
	baseDir := t.TempDir()
	svc := NewService(Config{
		BaseDir:     baseDir,
		MaxFileSize: 10 * 1024 * 1024,
	}, common.GetLogger())
	return svc, baseDir
}

func TestService_SaveWithTrim_WAV(t *testing.T) {
	requireFFmpeg(t)
	svc, baseDir := newTrimService(t)

	wav := makeWAV(t, 2*time.Second)
	key, err := svc.SaveWithTrim(context.Background(), wav, "clip.wav", "Alice", "hola", testDate(), 0.5, 1.5)
	require.NoError(t, err)
	assert.Equal(t, "2023-06-15.wav", key)

	info, err := os.Stat(filepath.Join(baseDir, "Alice", "hola", key))
	require.NoError(t, err)
	// One second of 8kHz mono s16le is ~16000 bytes of payload.
	assert.Greater(t, info.Size(), int64(8000))
	assert.Less(t, info.Size(), int64(24000))
}

func TestService_SaveWithTrim_ClampsRange(t *testing.T) {
	requireFFmpeg(t)
	svc, _ := newTrimService(t)

	wav := makeWAV(t, time.Second)
	// Negative start clamps to 0, end beyond duration clamps to duration.
	key, err := svc.SaveWithTrim(context.Background(), wav, "clip.wav", "Alice", "hola", testDate(), -5, 100)
	require.NoError(t, err)
	assert.Equal(t, "2023-06-15.wav", key)
}

func TestService_SaveWithTrim_EmptyRange(t *testing.T) {
	requireFFmpeg(t)
	svc, _ := newTrimService(t)

	wav := makeWAV(t, time.Second)

	_, err := svc.SaveWithTrim(context.Background(), wav, "clip.wav", "Alice", "hola", testDate(), 0.8, 0.2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidTrimRange))

	// Start beyond the clip: after clamping end to the duration the range
	// is empty.
	_, err = svc.SaveWithTrim(context.Background(), wav, "clip.wav", "Alice", "hola", testDate(), 5, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidTrimRange))
}

func TestService_SaveWithTrim_ValidationRunsFirst(t *testing.T) {
	// Validation failures must surface before any external tool runs, so
	// this needs no ffmpeg.
	svc, _ := newTrimService(t)

	_, err := svc.SaveWithTrim(context.Background(), []byte("x"), "a.flac", "Alice", "hola", testDate(), 0, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedType))
}

func TestService_SaveWithTrim_UndecodableInput(t *testing.T) {
	requireFFmpeg(t)
	svc, _ := newTrimService(t)

	_, err := svc.SaveWithTrim(context.Background(), []byte("not audio at all"), "a.mp3", "Alice", "hola", testDate(), 0, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMediaProcessing))
}

func TestService_SaveWithTrim_CleansWorkDir(t *testing.T) {
	requireFFmpeg(t)
	svc, _ := newTrimService(t)

	before := countTrimDirs(t)
	wav := makeWAV(t, time.Second)
	_, err := svc.SaveWithTrim(context.Background(), wav, "clip.wav", "Alice", "hola", testDate(), 0, 0.5)
	require.NoError(t, err)

	// Failure path cleans up too.
	_, err = svc.SaveWithTrim(context.Background(), wav, "clip.wav", "Alice", "hola", testDate(), 0.9, 0.1)
	require.Error(t, err)

	assert.Equal(t, before, countTrimDirs(t))
}

func countTrimDirs(t *testing.T) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "paraulins-trim-*"))
	require.NoError(t, err)
	return len(matches)
}
