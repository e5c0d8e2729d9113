// Package media stores uploaded review photos and their thumbnails.
package media

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// contentTypes lists the accepted extensions.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Reason classifies an upload failure.
type Reason string

const (
	ReasonEmpty       Reason = "empty file"
	ReasonTooLarge    Reason = "too large"
	ReasonUnsupported Reason = "unsupported type"
	ReasonStorage     Reason = "storage failure"
)

// UploadError is returned when an image cannot be accepted or stored.
type UploadError struct {
	Reason Reason
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload: %s: %v", e.Reason, e.Err)
	}
	return "upload: " + string(e.Reason)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Asset is a stored image.
type Asset struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Backend is where image bytes live.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	// URL is the public address of key.
	URL(key string) string
	// Key maps a public address back to its key; ok is false for addresses
	// the backend does not serve.
	Key(url string) (key string, ok bool)
}

// Store validates uploads, names them and keeps a thumbnail next to each.
type Store struct {
	backend  Backend
	maxBytes int64
	logger   *zap.Logger
}

// NewStore returns a Store writing to backend. A maxBytes of zero disables
// the size limit.
func NewStore(backend Backend, maxBytes int64, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, maxBytes: maxBytes, logger: logger}
}

// Backend returns the storage the Store writes to.
func (s *Store) Backend() Backend {
	return s.backend
}

// MaxBytes is the configured size limit.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save stores data under a fresh collision-resistant name that keeps the
// extension of originalName. The sniffed content must match that extension. A thumbnail is attempted afterwards; its failure
// is logged and does not fail the upload.
func (s *Store) Save(ctx context.Context, data []byte, originalName string) (Asset, error) {
	if len(data) == 0 {
		return Asset{}, &UploadError{Reason: ReasonEmpty}
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return Asset{}, &UploadError{Reason: ReasonTooLarge, Err: fmt.Errorf("%d bytes exceeds %d", len(data), s.maxBytes)}
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	contentType, ok := contentTypes[ext]
	if !ok {
		return Asset{}, &UploadError{Reason: ReasonUnsupported, Err: fmt.Errorf("extension %q", ext)}
	}
	if sniffed := http.DetectContentType(data); sniffed != contentType {
		return Asset{}, &UploadError{Reason: ReasonUnsupported, Err: fmt.Errorf("content is %s, extension %q wants %s", sniffed, ext, contentType)}
	}

	name := uuid.NewString() + ext
	if err := s.backend.Put(ctx, name, data, contentType); err != nil {
		return Asset{}, &UploadError{Reason: ReasonStorage, Err: err}
	}

	if err := s.putThumbnail(ctx, name, data); err != nil {
		s.logger.Warn("thumbnail not created", zap.String("file", name), zap.Error(err))
	}

	return Asset{Filename: name, URL: s.backend.URL(name)}, nil
}

// EnsureThumbnail creates the thumbnail of the image at url when it is
// missing. It reports whether a thumbnail was written; images the backend
// does not serve are skipped.
func (s *Store) EnsureThumbnail(ctx context.Context, url string) (bool, error) {
	key, ok := s.backend.Key(url)
	if !ok {
		return false, nil
	}
	exists, err := s.backend.Exists(ctx, ThumbURL(key))
	if err != nil || exists {
		return false, err
	}
	if ok, err := s.backend.Exists(ctx, key); err != nil || !ok {
		return false, err
	}

	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if err := s.putThumbnail(ctx, key, data); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) putThumbnail(ctx context.Context, key string, data []byte) error {
	thumb, err := Thumbnail(data, ThumbSize)
	if err != nil {
		return err
	}
	contentType := contentTypes[strings.ToLower(filepath.Ext(key))]
	return s.backend.Put(ctx, ThumbURL(key), thumb, contentType)
}
