package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func encodeGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func newLocalStore(t *testing.T, maxBytes int64) (*Store, *LocalBackend) {
	t.Helper()
	backend, err := NewLocalBackend(filepath.Join(t.TempDir(), "uploads"), "/uploads")
	require.NoError(t, err)
	return NewStore(backend, maxBytes, zap.NewNop()), backend
}

func decodeConfig(t *testing.T, path string) image.Config {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg
}

func uploadReason(t *testing.T, err error) Reason {
	t.Helper()
	var uerr *UploadError
	require.True(t, errors.As(err, &uerr), "expected *UploadError, got %v", err)
	return uerr.Reason
}

func TestThumbURL(t *testing.T) {
	tests := map[string]string{
		"/uploads/burger.jpg":             "/uploads/burger_thumb.jpg",
		"https://cdn.example.com/a/b.png": "https://cdn.example.com/a/b_thumb.png",
		"/uploads/x.y.webp":               "/uploads/x.y_thumb.webp",
		"/uploads/noext":                  "/uploads/noext",
		"":                                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ThumbURL(in), in)
	}
}

func TestSave_WritesOriginalAndThumbnail(t *testing.T) {
	s, backend := newLocalStore(t, 0)
	data := encodePNG(t, 800, 600)

	asset, err := s.Save(context.Background(), data, "Burger.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(asset.Filename, ".png"))
	assert.Equal(t, "/uploads/"+asset.Filename, asset.URL)

	stored, err := os.ReadFile(filepath.Join(backend.Dir(), asset.Filename))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	thumb := decodeConfig(t, filepath.Join(backend.Dir(), strings.TrimSuffix(asset.Filename, ".png")+"_thumb.png"))
	assert.Equal(t, 400, thumb.Width)
	assert.Equal(t, 300, thumb.Height)
}

func TestSave_ThumbnailFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		w, h int
	}{
		{"tall jpeg", "a.jpg", encodeJPEG(t, 300, 900), 133, 400},
		{"small gif", "a.gif", encodeGIF(t, 20, 10), 20, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend := newLocalStore(t, 0)
			asset, err := s.Save(context.Background(), tt.data, tt.file)
			require.NoError(t, err)

			thumb := decodeConfig(t, filepath.Join(backend.Dir(), ThumbURL(asset.Filename)))
			assert.Equal(t, tt.w, thumb.Width)
			assert.Equal(t, tt.h, thumb.Height)
		})
	}
}

func TestSave_UndecodableImageStillStored(t *testing.T) {
	s, backend := newLocalStore(t, 0)
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("not really a png")...)

	asset, err := s.Save(context.Background(), data, "broken.png")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(backend.Dir(), asset.Filename))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(backend.Dir(), ThumbURL(asset.Filename)))
	assert.True(t, os.IsNotExist(err))
}

func TestSave_Rejects(t *testing.T) {
	small := encodePNG(t, 4, 4)
	tests := []struct {
		name   string
		data   []byte
		file   string
		max    int64
		reason Reason
	}{
		{"empty", nil, "a.png", 0, ReasonEmpty},
		{"too large", small, "a.png", 10, ReasonTooLarge},
		{"extension", small, "a.bmp", 0, ReasonUnsupported},
		{"no extension", small, "burger", 0, ReasonUnsupported},
		{"text content", []byte("hello world"), "a.jpg", 0, ReasonUnsupported},
		{"png named jpg", small, "a.jpg", 0, ReasonUnsupported},
		{"jpeg named gif", encodeJPEG(t, 4, 4), "a.gif", 0, ReasonUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newLocalStore(t, tt.max)
			_, err := s.Save(context.Background(), tt.data, tt.file)
			assert.Equal(t, tt.reason, uploadReason(t, err))
		})
	}
}

type failingBackend struct {
	*LocalBackend
}

func (failingBackend) Put(context.Context, string, []byte, string) error {
	return errors.New("disk full")
}

func TestSave_StorageFailure(t *testing.T) {
	_, local := newLocalStore(t, 0)
	s := NewStore(failingBackend{local}, 0, nil)

	_, err := s.Save(context.Background(), encodePNG(t, 4, 4), "a.png")
	assert.Equal(t, ReasonStorage, uploadReason(t, err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestEnsureThumbnail(t *testing.T) {
	ctx := context.Background()
	s, backend := newLocalStore(t, 0)
	require.NoError(t, backend.Put(ctx, "legacy.jpg", encodeJPEG(t, 1000, 500), "image/jpeg"))

	created, err := s.EnsureThumbnail(ctx, "/uploads/legacy.jpg")
	require.NoError(t, err)
	assert.True(t, created)

	thumb := decodeConfig(t, filepath.Join(backend.Dir(), "legacy_thumb.jpg"))
	assert.Equal(t, 400, thumb.Width)
	assert.Equal(t, 200, thumb.Height)

	created, err = s.EnsureThumbnail(ctx, "/uploads/legacy.jpg")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = s.EnsureThumbnail(ctx, "https://elsewhere.example/burger.jpg")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = s.EnsureThumbnail(ctx, "/uploads/missing.jpg")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLocalBackend_Keys(t *testing.T) {
	_, b := newLocalStore(t, 0)

	key, ok := b.Key("/uploads/a.png")
	assert.True(t, ok)
	assert.Equal(t, "a.png", key)

	for _, url := range []string{"/static/a.png", "/uploads/", "/uploads/../etc/passwd"} {
		_, ok := b.Key(url)
		assert.False(t, ok, url)
	}

	assert.Error(t, b.Put(context.Background(), "../escape.png", []byte("x"), "image/png"))
}

func TestS3Backend_URLs(t *testing.T) {
	b := newS3Backend(nil, "burgers", "/photos/", "https://cdn.example.com/")

	assert.Equal(t, "https://cdn.example.com/photos/a.jpg", b.URL("a.jpg"))

	key, ok := b.Key("https://cdn.example.com/photos/a.jpg")
	assert.True(t, ok)
	assert.Equal(t, "a.jpg", key)

	_, ok = b.Key("/uploads/a.jpg")
	assert.False(t, ok)

	bare := newS3Backend(nil, "burgers", "", "https://cdn.example.com")
	assert.Equal(t, "https://cdn.example.com/a.jpg", bare.URL("a.jpg"))
}
