package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"burgerlog/models"
	"burgerlog/sorting"
	"burgerlog/store"
)

// Reviews is the persistence the handlers need.
type Reviews interface {
	List(ctx context.Context, opts store.ListOptions) ([]models.Review, error)
	Get(ctx context.Context, id int64) (models.Review, error)
	Create(ctx context.Context, r models.Review) (models.Review, error)
	Update(ctx context.Context, id int64, d models.Draft) (models.Review, error)
	Delete(ctx context.Context, id int64) error
	ExportAll(ctx context.Context, w io.Writer) error
	ImportAll(ctx context.Context, r io.Reader, opts store.ImportOptions) (int, error)
}

// pathID parses the {id} wildcard. Identifiers that cannot exist are
// reported as not found.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, store.ErrNotFound
	}
	return id, nil
}

// ListParams are the query parameters of the review list.
type ListParams struct {
	Offset int
	Limit  int
	Sort   sorting.Mode
	Sorted bool
}

// ParseListParams extracts paging and ordering from the URL query. Unknown
// sort modes fall back to the default order.
func ParseListParams(query url.Values) (ListParams, error) {
	var p ListParams
	var err error
	if p.Offset, err = nonNegative(query.Get("offset")); err != nil {
		return p, &badRequest{err: fmt.Errorf("offset: %w", err)}
	}
	if p.Limit, err = nonNegative(query.Get("limit")); err != nil {
		return p, &badRequest{err: fmt.Errorf("limit: %w", err)}
	}
	if s := query.Get("sort"); s != "" {
		p.Sort, _ = sorting.ParseMode(s)
		p.Sorted = true
	}
	return p, nil
}

func nonNegative(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

// ListReviewsHandler returns reviews in insertion order, or in the order
// named by ?sort=. ?offset= and ?limit= page through the collection; without
// a limit every review is returned.
func ListReviewsHandler(reviews Reviews, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := ParseListParams(r.URL.Query())
		if err != nil {
			writeError(w, r, logger, err)
			return
		}

		list, err := reviews.List(r.Context(), store.ListOptions{Offset: p.Offset, Limit: p.Limit})
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		if p.Sorted {
			list = sorting.Sort(list, p.Sort)
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetReviewHandler(reviews Reviews, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		review, err := reviews.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, review)
	}
}

// CreateReviewHandler normalizes the posted draft and stores it under a new
// identifier. Any "id" in the body is ignored.
func CreateReviewHandler(reviews Reviews, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d models.Draft
		if err := decodeJSON(r, &d); err != nil {
			writeError(w, r, logger, err)
			return
		}
		review, err := models.Normalize(d)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		created, err := reviews.Create(r.Context(), review)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		requestLogger(r, logger).Info("review created", zap.Int64("id", created.ID))
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateReviewHandler serves both PUT and PATCH: only the fields present in
// the body change.
func UpdateReviewHandler(reviews Reviews, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		var d models.Draft
		if err := decodeJSON(r, &d); err != nil {
			writeError(w, r, logger, err)
			return
		}
		updated, err := reviews.Update(r.Context(), id, d)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteReviewHandler(reviews Reviews, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		if err := reviews.Delete(r.Context(), id); err != nil {
			writeError(w, r, logger, err)
			return
		}
		requestLogger(r, logger).Info("review deleted", zap.Int64("id", id))
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
