package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Connect opens the review database. SQLite is held to a single connection so
// writers never contend for the file; Postgres keeps the small serverless
// friendly pool.
func Connect(driver, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn not set")
	}

	switch driver {
	case SQLite, Postgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == SQLite {
		db.SetMaxOpenConns(1)
	} else {
		// Disable idle connections to avoid holding on to suspended compute
		db.SetMaxIdleConns(0)
		db.SetMaxOpenConns(10)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// Rebind rewrites ? placeholders into the $n form postgres expects.
func Rebind(driver, query string) string {
	if driver != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
