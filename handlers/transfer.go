package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"burgerlog/store"
)

// maxImportBytes bounds an uploaded import document.
const maxImportBytes = 32 << 20

// ExportFilename is the suggested download name for an export made at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("burger_reviews_%s.json", now.Format("2006-01-02"))
}

// ExportHandler downloads the whole collection as a JSON array.
func ExportHandler(reviews Reviews, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := reviews.ExportAll(r.Context(), &buf); err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeExport(w, buf.Bytes())
	}
}

func writeExport(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(time.Now())))
	w.Write(data)
}

// ImportHandler appends the reviews of the multipart "file" field. The import
// is all-or-nothing; a rejected document reports the offending index.
func ImportHandler(reviews Reviews, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := importUpload(w, r, reviews)
		if err != nil {
			requestLogger(r, logger).Warn("import rejected", zap.Error(err))
			writeError(w, r, logger, err)
			return
		}
		requestLogger(r, logger).Info("reviews imported", zap.Int("count", n))
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  fmt.Sprintf("Successfully imported %d reviews", n),
			"imported": n,
		})
	}
}

func importUpload(w http.ResponseWriter, r *http.Request, reviews Reviews) (int, error) {
	limitBody(w, r, maxImportBytes)
	data, _, ok, err := readUpload(r, "file", maxImportBytes)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &badRequest{err: http.ErrMissingFile}
	}
	return reviews.ImportAll(r.Context(), bytes.NewReader(data), store.ImportOptions{})
}
