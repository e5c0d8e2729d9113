package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"burgerlog/models"
)

// ImportError explains why an import was rejected. Index is the position of
// the offending element, or -1 when the document itself is malformed.
type ImportError struct {
	Index int
	Err   error
}

func (e *ImportError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("import: malformed file: %v", e.Err)
	}
	return fmt.Sprintf("import: record %d: %v", e.Index, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ErrTrailingData reports content after the exported array.
var ErrTrailingData = errors.New("unexpected data after JSON array")

// ImportOptions tunes ImportAll.
type ImportOptions struct {
	// Progress, when set, is called after each record is written.
	Progress func(done, total int)
}

// ExportAll writes every review as one JSON array.
func (s *ReviewStore) ExportAll(ctx context.Context, w io.Writer) error {
	reviews, err := s.List(ctx, ListOptions{})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reviews); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// ImportAll appends every review of a JSON array to the store and returns how
// many were added. Incoming identifiers are discarded and fresh ones
// assigned. The import is all-or-nothing: a malformed document or a single
// invalid element leaves the store untouched and returns an *ImportError.
func (s *ReviewStore) ImportAll(ctx context.Context, r io.Reader, opts ImportOptions) (int, error) {
	var raw []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return 0, &ImportError{Index: -1, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return 0, &ImportError{Index: -1, Err: ErrTrailingData}
	}

	reviews := make([]models.Review, 0, len(raw))
	for i, item := range raw {
		var d models.Draft
		if err := json.Unmarshal(item, &d); err != nil {
			return 0, &ImportError{Index: i, Err: err}
		}
		review, err := models.Normalize(d)
		if err != nil {
			return 0, &ImportError{Index: i, Err: err}
		}
		reviews = append(reviews, review)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for i, review := range reviews {
		if _, err := s.insert(ctx, tx, review); err != nil {
			return 0, &ImportError{Index: i, Err: err}
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(reviews))
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(reviews), nil
}
