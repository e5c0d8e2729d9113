package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Rejects(t *testing.T) {
	_, err := Connect(SQLite, "")
	assert.Error(t, err)

	_, err = Connect("mysql", "x")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "UPDATE reviews SET a = ?, b = ? WHERE id = ?"
	assert.Equal(t, "UPDATE reviews SET a = $1, b = $2 WHERE id = $3", Rebind(Postgres, q))
	assert.Equal(t, q, Rebind(SQLite, q))
}

func TestMigrate_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(SQLite, filepath.Join(t.TempDir(), "reviews.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db, SQLite))
	require.NoError(t, Migrate(ctx, db, SQLite))

	cols, err := columns(ctx, db, SQLite)
	require.NoError(t, err)
	for _, c := range []string{"id", "shop_name", "rating_buns", "rating_sauce", "tags", "visit_date"} {
		assert.True(t, cols[c], c)
	}
}

func TestMigrate_UpgradesLegacyTable(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(SQLite, filepath.Join(t.TempDir(), "legacy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.ExecContext(ctx, schemas[SQLite])
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO reviews (shop_name, burger_name, rating, rating_style, rating_volume, rating_patty, price)
		VALUES ('A', 'B', 4, 2, 5, 3, 900)`)
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, db, SQLite))

	var buns, sauce int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT rating_buns, rating_sauce FROM reviews").Scan(&buns, &sauce))
	assert.Zero(t, buns)
	assert.Zero(t, sauce)
}
