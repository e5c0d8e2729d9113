package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burgerlog/database"
	"burgerlog/models"
)

func newTestStore(t *testing.T) *ReviewStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(database.SQLite, filepath.Join(t.TempDir(), "reviews.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db, database.SQLite))
	return NewReviewStore(db, database.SQLite)
}

func exampleReview(t *testing.T) models.Review {
	t.Helper()
	r, err := models.Normalize(models.Draft{
		ShopName:     models.String("A"),
		BurgerName:   models.String("B"),
		Rating:       models.Int(4),
		RatingStyle:  models.Int(2),
		RatingVolume: models.Int(5),
		RatingPatty:  models.Int(3),
		Price:        models.Int(900),
	})
	require.NoError(t, err)
	return r
}

func fakeReviews(t *testing.T, n int) []models.Review {
	t.Helper()
	fake := faker.New()
	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	out := make([]models.Review, 0, n)
	for i := 0; i < n; i++ {
		visit := fake.Time().TimeBetween(start, start.AddDate(2, 0, 0))
		d := models.NewDate(visit.Year(), visit.Month(), visit.Day())
		r := models.Review{
			ShopName:     fake.Company().Name(),
			BurgerName:   fake.Lorem().Word() + " burger",
			Rating:       fake.IntBetween(1, 5),
			RatingStyle:  fake.IntBetween(1, 5),
			RatingVolume: fake.IntBetween(1, 5),
			RatingPatty:  fake.IntBetween(1, 5),
			RatingBuns:   fake.IntBetween(1, 5),
			RatingSauce:  fake.IntBetween(1, 5),
			Price:        fake.IntBetween(500, 3000),
			Comment:      fake.Lorem().Sentence(6),
		}
		if i%3 != 0 {
			r.VisitDate = &d
		}
		if i%2 == 0 {
			r.ImageURL = "/uploads/" + fake.UUID().V4() + ".jpg"
		}
		out = append(out, r)
	}
	return out
}

var ignoreID = cmpopts.IgnoreFields(models.Review{}, "ID")

func TestCreateThenList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	in := exampleReview(t)

	created, err := s.Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created, all[0])
	assert.Empty(t, cmp.Diff(in, all[0], ignoreID))

	assert.Equal(t, 3, all[0].RatingBuns)
	assert.Equal(t, 3, all[0].RatingSauce)
	assert.Equal(t, "", all[0].Comment)
}

func TestCreate_AssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var last int64
	for _, r := range fakeReviews(t, 5) {
		created, err := s.Create(ctx, r)
		require.NoError(t, err)
		assert.Greater(t, created.ID, last)
		last = created.ID
	}
}

func TestCreate_RejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	r := exampleReview(t)
	r.Rating = 0

	_, err := s.Create(context.Background(), r)
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	created, err := s.Create(ctx, exampleReview(t))
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.Get(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_Paging(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, r := range fakeReviews(t, 5) {
		_, err := s.Create(ctx, r)
		require.NoError(t, err)
	}

	page, err := s.List(ctx, ListOptions{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].ID)

	rest, err := s.List(ctx, ListOptions{Offset: 3})
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}

func TestUpdate_ChangesOnlyPatchedFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	created, err := s.Create(ctx, exampleReview(t))
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, models.Draft{Rating: models.Int(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	want := created
	want.Rating = 5
	assert.Equal(t, want, all[0])
}

func TestUpdate_SetsAndClearsDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	created, err := s.Create(ctx, exampleReview(t))
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, models.Draft{VisitDate: models.DateValue(models.NewDate(2024, time.June, 9))})
	require.NoError(t, err)
	require.NotNil(t, updated.VisitDate)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.VisitDate)
	assert.Equal(t, "2024-06-09", got.VisitDate.String())

	_, err = s.Update(ctx, created.ID, models.Draft{VisitDate: models.DateField{Set: true}})
	require.NoError(t, err)
	got, err = s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.VisitDate)
}

func TestUpdate_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	created, err := s.Create(ctx, exampleReview(t))
	require.NoError(t, err)

	_, err = s.Update(ctx, created.ID+1, models.Draft{Rating: models.Int(5)})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(ctx, created.ID, models.Draft{Rating: models.Int(8)})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	created, err := s.Create(ctx, exampleReview(t))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, s.Delete(ctx, created.ID), ErrNotFound)
}

func TestExampleScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.Create(ctx, exampleReview(t))
	require.NoError(t, err)
	assert.Equal(t, 3, created.RatingBuns)
	assert.Equal(t, 3, created.RatingSauce)
	assert.Equal(t, "", created.Comment)

	updated, err := s.Update(ctx, created.ID, models.Draft{Rating: models.Int(5)})
	require.NoError(t, err)
	want := created
	want.Rating = 5
	assert.Equal(t, want, updated)

	require.NoError(t, s.Delete(ctx, created.ID))
	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	for _, r := range all {
		assert.NotEqual(t, created.ID, r.ID)
	}
}

func TestListWithImages(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, r := range fakeReviews(t, 6) {
		_, err := s.Create(ctx, r)
		require.NoError(t, err)
	}

	first, err := s.ListWithImages(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	for _, r := range first {
		assert.NotEmpty(t, r.ImageURL)
	}

	rest, err := s.ListWithImages(ctx, first[1].ID, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestExportAll_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestStore(t).ExportAll(context.Background(), &buf))
	assert.JSONEq(t, "[]", buf.String())
}

func TestImportExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	originals := fakeReviews(t, 7)
	for _, r := range originals {
		_, err := src.Create(ctx, r)
		require.NoError(t, err)
	}

	var exported bytes.Buffer
	require.NoError(t, src.ExportAll(ctx, &exported))

	dst := newTestStore(t)
	n, err := dst.ImportAll(ctx, bytes.NewReader(exported.Bytes()), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, len(originals), n)

	imported, err := dst.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(originals, imported, ignoreID))

	n, err = src.ImportAll(ctx, bytes.NewReader(exported.Bytes()), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, len(originals), n)

	doubled, err := src.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, doubled, 2*len(originals))

	seen := map[int64]bool{}
	for _, r := range doubled {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
}

func TestImportAll_LegacyShape(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	doc := `[{"id": 1, "shop_name": "A", "burger_name": "B", "rating": 4, "rating_style": 2,
		"rating_volume": 5, "rating_patty": 3, "price": 900, "visit_date": "2024-01-15T00:00:00", "comment": null}]`

	var calls int
	n, err := s.ImportAll(ctx, strings.NewReader(doc), ImportOptions{Progress: func(done, total int) {
		calls++
		assert.Equal(t, 1, total)
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 3, all[0].RatingBuns)
	assert.Equal(t, 3, all[0].RatingSauce)
	require.NotNil(t, all[0].VisitDate)
	assert.Equal(t, "2024-01-15", all[0].VisitDate.String())
}

func TestImportAll_IsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	good, err := json.Marshal(exampleReview(t))
	require.NoError(t, err)
	doc := "[" + string(good) + `, {"shop_name": "", "burger_name": "B", "rating": 9}]`

	_, err = s.ImportAll(ctx, strings.NewReader(doc), ImportOptions{})
	var ierr *ImportError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, 1, ierr.Index)

	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportAll_Malformed(t *testing.T) {
	s := newTestStore(t)

	for _, doc := range []string{"not json", `{"shop_name": "A"}`, "[1, 2"} {
		_, err := s.ImportAll(context.Background(), strings.NewReader(doc), ImportOptions{})
		var ierr *ImportError
		require.True(t, errors.As(err, &ierr), doc)
		assert.Equal(t, -1, ierr.Index)
	}
}

func TestImportAll_TrailingData(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	good, err := json.Marshal(exampleReview(t))
	require.NoError(t, err)

	for _, doc := range []string{
		"[" + string(good) + `] {"oops":`,
		"[" + string(good) + "] garbage",
		"[" + string(good) + "] []",
	} {
		n, err := s.ImportAll(ctx, strings.NewReader(doc), ImportOptions{})
		var ierr *ImportError
		require.True(t, errors.As(err, &ierr), doc)
		assert.Equal(t, -1, ierr.Index)
		assert.Zero(t, n)
	}

	n, err := s.ImportAll(ctx, strings.NewReader("["+string(good)+"]\n\n"), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestImportAll_NonObjectElement(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ImportAll(context.Background(), strings.NewReader(`[42]`), ImportOptions{})

	var ierr *ImportError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, 0, ierr.Index)
}
