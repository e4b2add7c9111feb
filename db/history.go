// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/khobor-relay/models"
)

// RecordExchange stores one completed question/answer round trip.
func RecordExchange(db *sql.DB, ex models.Exchange) error {
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(`
		INSERT INTO exchange (id, query, lang, mode, answer, source_count, confidence, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, ex.ID, ex.Query, ex.Lang, ex.Mode, ex.Answer, ex.SourceCount, ex.Confidence, ex.LatencyMS, ex.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record exchange: %w", err)
	}
	return nil
}

// ListExchanges returns up to limit exchanges, newest first.
func ListExchanges(db *sql.DB, limit int) ([]models.Exchange, error) {
	rows, err := db.Query(`
		SELECT id, query, lang, mode, answer, source_count, confidence, latency_ms, created_at
		FROM exchange
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	exchanges := []models.Exchange{}
	for rows.Next() {
		var ex models.Exchange
		var answer sql.NullString
		var confidence, latency sql.NullFloat64
		if err := rows.Scan(&ex.ID, &ex.Query, &ex.Lang, &ex.Mode, &answer, &ex.SourceCount, &confidence, &latency, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		ex.Answer = answer.String
		if confidence.Valid {
			ex.Confidence = &confidence.Float64
		}
		if latency.Valid {
			ex.LatencyMS = &latency.Float64
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchanges: %w", err)
	}

	return exchanges, nil
}
