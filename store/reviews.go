// Package store persists reviews and moves the whole collection in and out
// as JSON.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"burgerlog/database"
	"burgerlog/models"
)

// ErrNotFound is returned when no review has the requested identifier.
var ErrNotFound = errors.New("review not found")

const reviewColumns = "id, shop_name, burger_name, rating, rating_style, rating_volume, rating_patty, rating_buns, rating_sauce, price, visit_date, image_url, comment, tags"

const insertReview = `
	INSERT INTO reviews (shop_name, burger_name, rating, rating_style, rating_volume, rating_patty, rating_buns, rating_sauce, price, visit_date, image_url, comment, tags)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`

const updateReview = `
	UPDATE reviews
	SET shop_name = ?, burger_name = ?, rating = ?, rating_style = ?, rating_volume = ?, rating_patty = ?,
	    rating_buns = ?, rating_sauce = ?, price = ?, visit_date = ?, image_url = ?, comment = ?, tags = ?
	WHERE id = ?`

// ReviewStore is the review table of a sqlite or postgres database.
type ReviewStore struct {
	db     *sql.DB
	driver string
}

// NewReviewStore wraps an open, migrated database.
func NewReviewStore(db *sql.DB, driver string) *ReviewStore {
	return &ReviewStore{db: db, driver: driver}
}

// ListOptions pages through the collection. A zero Limit returns everything
// after Offset.
type ListOptions struct {
	Offset int
	Limit  int
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *ReviewStore) bind(query string) string {
	return database.Rebind(s.driver, query)
}

// List returns reviews in insertion order.
func (s *ReviewStore) List(ctx context.Context, opts ListOptions) ([]models.Review, error) {
	query := "SELECT " + reviewColumns + " FROM reviews ORDER BY id ASC"
	var args []any
	switch {
	case opts.Limit > 0:
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, max(opts.Offset, 0))
	case opts.Offset > 0 && s.driver == database.SQLite:
		query += " LIMIT -1 OFFSET ?"
		args = append(args, opts.Offset)
	case opts.Offset > 0:
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}
	return s.query(ctx, query, args...)
}

// ListWithImages returns up to limit reviews carrying an image, with
// identifiers greater than afterID.
func (s *ReviewStore) ListWithImages(ctx context.Context, afterID int64, limit int) ([]models.Review, error) {
	query := "SELECT " + reviewColumns + " FROM reviews WHERE image_url IS NOT NULL AND image_url <> '' AND id > ? ORDER BY id ASC LIMIT ?"
	return s.query(ctx, query, afterID, limit)
}

func (s *ReviewStore) query(ctx context.Context, query string, args ...any) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// Get returns the review with the given identifier.
func (s *ReviewStore) Get(ctx context.Context, id int64) (models.Review, error) {
	return s.get(ctx, s.db, id)
}

func (s *ReviewStore) get(ctx context.Context, q queryer, id int64) (models.Review, error) {
	row := q.QueryRowContext(ctx, s.bind("SELECT "+reviewColumns+" FROM reviews WHERE id = ?"), id)
	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, ErrNotFound
	}
	if err != nil {
		return models.Review{}, fmt.Errorf("get review %d: %w", id, err)
	}
	return r, nil
}

// Create stores r under a fresh identifier and returns the stored review.
func (s *ReviewStore) Create(ctx context.Context, r models.Review) (models.Review, error) {
	if err := r.Validate(); err != nil {
		return models.Review{}, err
	}
	return s.insert(ctx, s.db, r)
}

func (s *ReviewStore) insert(ctx context.Context, q queryer, r models.Review) (models.Review, error) {
	var id int64
	if err := q.QueryRowContext(ctx, s.bind(insertReview), reviewArgs(r)...).Scan(&id); err != nil {
		return models.Review{}, fmt.Errorf("insert review: %w", err)
	}
	r.ID = id
	return r, nil
}

// Update overwrites the fields present in d. The read and the write happen in
// one transaction; concurrent updates are last-write-wins.
func (s *ReviewStore) Update(ctx context.Context, id int64, d models.Draft) (models.Review, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Review{}, err
	}
	defer tx.Rollback()

	current, err := s.get(ctx, tx, id)
	if err != nil {
		return models.Review{}, err
	}

	updated, err := models.Apply(current, d)
	if err != nil {
		return models.Review{}, err
	}

	args := append(reviewArgs(updated), id)
	if _, err := tx.ExecContext(ctx, s.bind(updateReview), args...); err != nil {
		return models.Review{}, fmt.Errorf("update review %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Review{}, err
	}
	return updated, nil
}

// Delete removes the review permanently. Its image, if any, is left in
// place.
func (s *ReviewStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.bind("DELETE FROM reviews WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func reviewArgs(r models.Review) []any {
	var visit, image any
	if r.VisitDate != nil {
		visit = r.VisitDate.String()
	}
	if r.ImageURL != "" {
		image = r.ImageURL
	}
	return []any{
		r.ShopName, r.BurgerName,
		r.Rating, r.RatingStyle, r.RatingVolume, r.RatingPatty, r.RatingBuns, r.RatingSauce,
		r.Price, visit, image, r.Comment, r.Tags,
	}
}

func scanReview(row rowScanner) (models.Review, error) {
	var r models.Review
	var visit, image, comment, tags sql.NullString
	err := row.Scan(&r.ID, &r.ShopName, &r.BurgerName,
		&r.Rating, &r.RatingStyle, &r.RatingVolume, &r.RatingPatty, &r.RatingBuns, &r.RatingSauce,
		&r.Price, &visit, &image, &comment, &tags)
	if err != nil {
		return r, err
	}

	if visit.Valid && visit.String != "" {
		if d, err := models.ParseDate(visit.String); err == nil {
			r.VisitDate = &d
		}
	}
	r.ImageURL = image.String
	r.Comment = comment.String
	r.Tags = tags.String
	return r.WithDefaults(), nil
}
