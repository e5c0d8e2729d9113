package handlers

import (
	"net/http"
	"os"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"burgerlog/media"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Reviews        Reviews
	Images         *media.Store
	Logger         *zap.Logger
	Pages          PageOptions
	AllowedOrigins []string
}

// NewRouter registers the JSON API, the HTML pages and, for the local
// backend, the uploaded images.
func NewRouter(d Deps) (http.Handler, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pages, err := NewPages(d.Reviews, d.Images, logger, d.Pages)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /reviews/{$}", ListReviewsHandler(d.Reviews, logger))
	mux.HandleFunc("GET /reviews", ListReviewsHandler(d.Reviews, logger))
	mux.HandleFunc("POST /reviews/{$}", CreateReviewHandler(d.Reviews, logger))
	mux.HandleFunc("POST /reviews", CreateReviewHandler(d.Reviews, logger))
	mux.HandleFunc("GET /reviews/{id}", GetReviewHandler(d.Reviews, logger))
	mux.HandleFunc("PUT /reviews/{id}", UpdateReviewHandler(d.Reviews, logger))
	mux.HandleFunc("PATCH /reviews/{id}", UpdateReviewHandler(d.Reviews, logger))
	mux.HandleFunc("DELETE /reviews/{id}", DeleteReviewHandler(d.Reviews, logger))

	mux.HandleFunc("POST /upload/{$}", UploadHandler(d.Images, logger))
	mux.HandleFunc("POST /upload", UploadHandler(d.Images, logger))
	mux.HandleFunc("GET /export", ExportHandler(d.Reviews, logger))
	mux.HandleFunc("POST /import", ImportHandler(d.Reviews, logger))

	if local, ok := d.Images.Backend().(*media.LocalBackend); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(filesOnly{http.Dir(local.Dir())})))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	mux.HandleFunc("GET /{$}", pages.List())
	mux.HandleFunc("GET /r/{id}", pages.Detail())
	mux.HandleFunc("GET /new", pages.NewForm())
	mux.HandleFunc("POST /new", pages.Create())
	mux.HandleFunc("GET /r/{id}/edit", pages.EditForm())
	mux.HandleFunc("POST /r/{id}/edit", pages.Update())
	mux.HandleFunc("POST /r/{id}/delete", pages.Delete())
	mux.HandleFunc("POST /ui/import", pages.Import())
	mux.HandleFunc("GET /ui/export", pages.Export())

	c := cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	})
	return Logging(logger, c.Handler(mux)), nil
}

// filesOnly serves files and reports directories as missing, so stored image
// names cannot be listed.
type filesOnly struct {
	http.FileSystem
}

func (fsys filesOnly) Open(name string) (http.File, error) {
	f, err := fsys.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
