package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the chat and user tables if they do not exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL,
				name        TEXT NOT NULL,
				messages    JSONB NOT NULL DEFAULT '[]'::jsonb,
				created_at  TIMESTAMPTZ NOT NULL,
				updated_at  TIMESTAMPTZ NOT NULL
			)`, tables.Chats),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_updated_idx ON %[1]s (user_id, updated_at DESC)`, tables.Chats),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				email       TEXT NOT NULL UNIQUE,
				image_url   TEXT,
				created_at  TIMESTAMPTZ NOT NULL,
				updated_at  TIMESTAMPTZ NOT NULL
			)`, tables.Users),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops the chat and user tables for this prefix
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmt := fmt.Sprintf(`DROP TABLE IF EXISTS %s, %s CASCADE`, tables.Chats, tables.Users)
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}
