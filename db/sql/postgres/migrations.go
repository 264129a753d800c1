package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// UserTableSchema creates the user table this repository reads and
// writes. Soft deletion is a timestamp, not a row removal, so banned
// users stay queryable for restoration.
const UserTableSchema = `CREATE TABLE IF NOT EXISTS public."user" (
    id UUID PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    password TEXT NOT NULL,
    role TEXT[] NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    deleted_at TIMESTAMPTZ
);`

// UserProgressionViewSchema creates the reporting view behind the
// progression endpoint: cumulative account counts per creation day.
// Soft-deleted rows still count, a ban is not an unregistration.
const UserProgressionViewSchema = `CREATE OR REPLACE VIEW v_user_progression AS
SELECT creation_date,
       CAST(SUM(day_count) OVER (ORDER BY creation_date) AS INT) AS incr_count
FROM (
    SELECT created_at::date AS creation_date, COUNT(*) AS day_count
    FROM public."user"
    GROUP BY created_at::date
) AS daily;`

// ApplyMigrations executes the provided SQL statements in order within the given context.
func ApplyMigrations(ctx context.Context, db *sql.DB, statements ...string) error {
	if db == nil {
		return fmt.Errorf("postgres: db is nil")
	}
	for _, stmt := range statements {
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}

// Migrate applies the default schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	return ApplyMigrations(ctx, db, UserTableSchema, UserProgressionViewSchema)
}
