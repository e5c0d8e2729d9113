package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schemas = map[string]string{
	SQLite: `
		CREATE TABLE IF NOT EXISTS reviews (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			shop_name TEXT NOT NULL,
			burger_name TEXT NOT NULL,
			rating INTEGER NOT NULL,
			rating_style INTEGER NOT NULL,
			rating_volume INTEGER NOT NULL,
			rating_patty INTEGER NOT NULL,
			price INTEGER NOT NULL,
			visit_date TEXT,
			image_url TEXT,
			comment TEXT
		)`,
	Postgres: `
		CREATE TABLE IF NOT EXISTS reviews (
			id BIGSERIAL PRIMARY KEY,
			shop_name TEXT NOT NULL,
			burger_name TEXT NOT NULL,
			rating INTEGER NOT NULL,
			rating_style INTEGER NOT NULL,
			rating_volume INTEGER NOT NULL,
			rating_patty INTEGER NOT NULL,
			price INTEGER NOT NULL,
			visit_date TEXT,
			image_url TEXT,
			comment TEXT
		)`,
}

// addedColumns were introduced after the first release; older databases get
// them on startup. Existing rows keep 0 for the axes, read back as the default.
var addedColumns = []struct {
	name, ddl string
}{
	{"rating_buns", "INTEGER NOT NULL DEFAULT 0"},
	{"rating_sauce", "INTEGER NOT NULL DEFAULT 0"},
	{"tags", "TEXT"},
}

// Migrate creates the reviews table and adds any missing columns.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}

	existing, err := columns(ctx, db, driver)
	if err != nil {
		return err
	}
	for _, c := range addedColumns {
		if existing[c.name] {
			continue
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE reviews ADD COLUMN %s %s", c.name, c.ddl)); err != nil {
			return fmt.Errorf("add column %s: %w", c.name, err)
		}
	}
	return nil
}

func columns(ctx context.Context, db *sql.DB, driver string) (map[string]bool, error) {
	query := "SELECT name FROM pragma_table_info('reviews')"
	if driver == Postgres {
		query = "SELECT column_name FROM information_schema.columns WHERE table_name = 'reviews'"
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list review columns: %w", err)
	}
	defer rows.Close()

	out := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}
