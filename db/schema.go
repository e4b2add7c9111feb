// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to the SQLite/PostgreSQL common subset; placeholders
// elsewhere use $N, which both drivers accept.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Completed question/answer exchanges
CREATE TABLE IF NOT EXISTS exchange (
    id TEXT PRIMARY KEY,
    query TEXT NOT NULL,
    lang TEXT NOT NULL DEFAULT 'bn',
    mode TEXT NOT NULL DEFAULT 'brief',
    answer TEXT,
    source_count INTEGER NOT NULL DEFAULT 0,
    confidence REAL,
    latency_ms REAL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_exchange_created_at ON exchange(created_at);
`
