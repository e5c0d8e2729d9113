package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"burgerlog/media"
)

// multipartOverhead is allowed on top of the file size limit for headers and
// the other form fields.
const multipartOverhead = 1 << 20

// readUpload returns the bytes and name of the multipart file field. A
// missing field yields ok=false and no error.
func readUpload(r *http.Request, field string, maxBytes int64) (data []byte, name string, ok bool, err error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", false, nil
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", false, &media.UploadError{Reason: media.ReasonTooLarge, Err: err}
		}
		return nil, "", false, &badRequest{err: err}
	}
	defer file.Close()

	var src io.Reader = file
	if maxBytes > 0 {
		src = io.LimitReader(file, maxBytes+1)
	}
	data, err = io.ReadAll(src)
	if err != nil {
		return nil, "", false, fmt.Errorf("read upload: %w", err)
	}
	return data, header.Filename, true, nil
}

func limitBody(w http.ResponseWriter, r *http.Request, maxBytes int64) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	}
}

// UploadHandler stores the multipart "file" field and answers with its
// filename and public URL.
func UploadHandler(images *media.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limitBody(w, r, images.MaxBytes())
		data, name, ok, err := readUpload(r, "file", images.MaxBytes())
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		if !ok {
			writeError(w, r, logger, &media.UploadError{Reason: media.ReasonEmpty, Err: http.ErrMissingFile})
			return
		}

		asset, err := images.Save(r.Context(), data, name)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		requestLogger(r, logger).Info("image uploaded", zap.String("file", asset.Filename), zap.Int("bytes", len(data)))
		writeJSON(w, http.StatusOK, asset)
	}
}
