package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/paraulins/internal/common"
	"github.com/ternarybob/paraulins/internal/interfaces"
)

func newTestService(t *testing.T) (interfaces.ImageStore, string) {
	t.Helper()
	baseDir := t.TempDir()
	svc := NewService(Config{
		BaseDir:     baseDir,
		MaxFileSize: 5 * 1024 * 1024,
		TargetSize:  240,
		JPEGQuality: 90,
	}, common.GetLogger())
	return svc, baseDir
}

// makePNG renders a solid-color PNG of the given dimensions.
func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func decodeStored(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img
}

func TestService_Save_Key(t *testing.T) {
	svc, baseDir := newTestService(t)

	key, err := svc.Save(makePNG(t, 100, 80), "upload.png", "hola")
	require.NoError(t, err)
	assert.Equal(t, "hola.png", key)

	_, statErr := os.Stat(filepath.Join(baseDir, "hola.png"))
	assert.NoError(t, statErr)
}

func TestService_Save_SanitizesWordText(t *testing.T) {
	svc, _ := newTestService(t)

	key, err := svc.Save(makePNG(t, 10, 10), "upload.png", "bon dia, món")
	require.NoError(t, err)
	assert.Equal(t, "bon_dia_mon.png", key)
}

func TestService_Save_ResizesOversizedImage(t *testing.T) {
	svc, baseDir := newTestService(t)

	key, err := svc.Save(makePNG(t, 2000, 1000), "big.png", "mar")
	require.NoError(t, err)

	stored := decodeStored(t, filepath.Join(baseDir, key))
	bounds := stored.Bounds()
	assert.Equal(t, 240, bounds.Dx())
	// Aspect ratio preserved within one pixel of 2:1.
	assert.InDelta(t, 120, bounds.Dy(), 1)
}

func TestService_Save_TallImagePreservesAspect(t *testing.T) {
	svc, baseDir := newTestService(t)

	key, err := svc.Save(makePNG(t, 300, 600), "tall.png", "cel")
	require.NoError(t, err)

	stored := decodeStored(t, filepath.Join(baseDir, key))
	bounds := stored.Bounds()
	assert.Equal(t, 240, bounds.Dy())
	assert.InDelta(t, 120, bounds.Dx(), 1)
}

func TestService_Save_SmallImageKeepsDimensions(t *testing.T) {
	svc, baseDir := newTestService(t)

	key, err := svc.Save(makePNG(t, 100, 60), "small.png", "sol")
	require.NoError(t, err)

	stored := decodeStored(t, filepath.Join(baseDir, key))
	assert.Equal(t, 100, stored.Bounds().Dx())
	assert.Equal(t, 60, stored.Bounds().Dy())
}

func TestService_Save_ReplacesAcrossExtensions(t *testing.T) {
	svc, baseDir := newTestService(t)

	_, err := svc.Save(makePNG(t, 10, 10), "a.png", "gos")
	require.NoError(t, err)

	key, err := svc.Save(makeJPEG(t, 10, 10), "b.jpg", "gos")
	require.NoError(t, err)
	assert.Equal(t, "gos.jpg", key)

	// The old png is gone: one image per word, format changes included.
	_, err = os.Stat(filepath.Join(baseDir, "gos.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(baseDir, "gos.jpg"))
	assert.NoError(t, err)
}

func TestService_Save_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		data     []byte
		filename string
		kind     error
	}{
		{name: "no filename", data: []byte("x"), filename: "", kind: common.ErrValidation},
		{name: "empty data", data: nil, filename: "a.png", kind: common.ErrValidation},
		{name: "disallowed extension", data: []byte("x"), filename: "a.webp", kind: common.ErrUnsupportedType},
		{name: "oversize", data: make([]byte, 5*1024*1024+1), filename: "a.png", kind: common.ErrFileTooLarge},
		{name: "corrupt data", data: []byte("not an image"), filename: "a.png", kind: common.ErrMediaProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(tt.data, tt.filename, "peix")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestService_Save_FlattensAlphaForJPEG(t *testing.T) {
	svc, baseDir := newTestService(t)

	// A PNG with transparency saved under a .jpg name must still encode.
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: uint8(x * 12)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	key, err := svc.Save(buf.Bytes(), "transparent.jpg", "nuvol")
	require.NoError(t, err)
	assert.Equal(t, "nuvol.jpg", key)

	f, err := os.Open(filepath.Join(baseDir, key))
	require.NoError(t, err)
	defer f.Close()
	_, err = jpeg.Decode(f)
	assert.NoError(t, err)
}

func TestService_PathFilenameDelete(t *testing.T) {
	svc, _ := newTestService(t)

	_, ok := svc.Path("gat.png")
	assert.False(t, ok)
	_, ok = svc.Filename("gat")
	assert.False(t, ok)
	assert.False(t, svc.Delete("gat"))

	_, err := svc.Save(makePNG(t, 10, 10), "a.png", "gat")
	require.NoError(t, err)

	path, ok := svc.Path("gat.png")
	require.True(t, ok)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	filename, ok := svc.Filename("gat")
	require.True(t, ok)
	assert.Equal(t, "gat.png", filename)

	assert.True(t, svc.Delete("gat"))
	assert.False(t, svc.Delete("gat"))
	_, ok = svc.Filename("gat")
	assert.False(t, ok)
}
