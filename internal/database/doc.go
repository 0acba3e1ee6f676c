// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

// Package database is the relational data layer behind the recommendation
// engine. It stores user ratings, served recommendation responses and model
// performance history, and implements recommend.Store.
//
// # Architecture
//
//   - database.go: lifecycle (open, driver switch, close, ping)
//   - database_connection.go: connection pool configuration per driver
//   - database_schema.go: table creation
//   - migrations.go: versioned migrations tracked in schema_migrations
//   - crud_feedback.go: feedback rows (ratings with track/context snapshots)
//   - crud_interactions.go: interaction log (served recommendation responses)
//   - crud_performance.go: user_model_performance rows
//
// # Drivers
//
// Two database/sql drivers sit behind the same SQL:
//   - duckdb (github.com/duckdb/duckdb-go/v2): production default, CGO
//   - sqlite (modernc.org/sqlite): pure Go, used by tests and small deployments
//
// Queries use only the SQL subset both engines accept: "?" placeholders,
// TEXT/DOUBLE/INTEGER/BIGINT/BOOLEAN/TIMESTAMP columns, and JSON stored as TEXT.
//
// # Identifiers and Ordering
//
// Row ids are ULIDs derived from the row timestamp with monotonic entropy, so
// "most recent first" queries order by (created_at DESC, id DESC) and stay
// stable for rows written within the same millisecond.
//
// # Thread Safety
//
// DB is safe for concurrent use. sqlite is limited to one open connection so
// in-memory databases are shared and writers never see SQLITE_BUSY.
package database
