package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS admin_sessions (
	id          TEXT PRIMARY KEY,
	token       TEXT NOT NULL,
	role        TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS management_items (
	id          BIGSERIAL PRIMARY KEY,
	kind        TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	value       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (kind, name)
);

CREATE TABLE IF NOT EXISTS expiry_notices (
	owner_id    INTEGER NOT NULL,
	end_date    TEXT NOT NULL,
	sent_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (owner_id, end_date)
);
`

// Open connects to Postgres and makes sure the dashboard tables exist.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return db, nil
}
