// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

/*
database_connection.go - Connection Pool Configuration

DuckDB:
  - MaxOpenConns: CPU count for parallel analytical reads
  - MaxIdleConns: 2 for efficient connection reuse
  - ConnMaxLifetime: 1 hour to prevent stale connections
  - ConnMaxIdleTime: 5 minutes for idle connection cleanup

SQLite:
  - MaxOpenConns: 1. Every connection to ":memory:" is a separate database,
    and a single writer avoids SQLITE_BUSY on file databases.
  - Connections never expire, so an in-memory database lives as long as the pool.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"runtime"
	"time"
)

// configureConnectionPool sets pool limits for the active driver
func (db *DB) configureConnectionPool() {
	if db.Driver() == DriverSQLite {
		db.conn.SetMaxOpenConns(1)
		db.conn.SetMaxIdleConns(1)
		db.conn.SetConnMaxLifetime(0)
		db.conn.SetConnMaxIdleTime(0)
		return
	}

	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}
