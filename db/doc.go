// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the exchange history schema and queries.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL and the $N placeholders stay inside the common subset
that both supported drivers (modernc.org/sqlite and lib/pq) accept.

# Tables

  - exchange: one row per completed /ask round trip (query, answer
    summary, source count, confidence, latency)

# Queries

	db.RecordExchange(conn, ex)      // best-effort insert
	db.ListExchanges(conn, limit)    // newest first
*/
package db
