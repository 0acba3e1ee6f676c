// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package database

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/config"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/metrics"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
)

// Supported drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

// MemoryPath opens an in-memory database with either driver.
const MemoryPath = ":memory:"

// ErrInvalidRating is returned by AppendFeedback for ratings outside 1..5.
var ErrInvalidRating = models.ErrInvalidRating

// DB wraps the SQL connection and provides data access methods
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	logger zerolog.Logger

	// ULID generation; MonotonicEntropy is not safe for concurrent use.
	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy

	now func() time.Time
}

// New opens the configured database and initializes the schema.
func New(cfg *config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is nil")
	}

	driver, dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	if !isMemoryPath(cfg.Path) {
		// 0750 (owner rwx, group rx) per gosec G301
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:    conn,
		cfg:     cfg,
		logger:  logger.With().Str("component", "database").Str("driver", driver).Logger(),
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db.logger.Info().Str("path", cfg.Path).Msg("Database ready")
	return db, nil
}

// dataSourceName maps the config onto a registered driver name and DSN.
func dataSourceName(cfg *config.DatabaseConfig) (driver, dsn string, err error) {
	switch cfg.Driver {
	case DriverDuckDB, "":
		var params []string
		path := cfg.Path
		if isMemoryPath(path) {
			path = ""
		} else {
			params = append(params, "access_mode=read_write")
		}
		if cfg.Threads > 0 {
			params = append(params, fmt.Sprintf("threads=%d", cfg.Threads))
		}
		if cfg.MaxMemory != "" {
			params = append(params, "max_memory="+cfg.MaxMemory)
		}
		if len(params) == 0 {
			return DriverDuckDB, path, nil
		}
		return DriverDuckDB, path + "?" + strings.Join(params, "&"), nil

	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = MemoryPath
		}
		params := "_pragma=busy_timeout(5000)&_time_format=sqlite"
		if !isMemoryPath(path) {
			params += "&_pragma=journal_mode(wal)"
		}
		return DriverSQLite, path + "?" + params, nil

	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func isMemoryPath(path string) bool {
	return path == "" || path == MemoryPath
}

// Driver returns the registered driver name in use.
func (db *DB) Driver() string {
	if db.cfg.Driver == "" {
		return DriverDuckDB
	}
	return db.cfg.Driver
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the connection pool. DuckDB checkpoints its WAL first.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.Driver() == DriverDuckDB {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Checkpoint(ctx); err != nil {
			db.logger.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Checkpoint flushes the write-ahead log into the main database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	stmt := "CHECKPOINT"
	if db.Driver() == DriverSQLite {
		stmt = "PRAGMA wal_checkpoint(TRUNCATE)"
	}
	if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// initialize creates tables and applies pending migrations
func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return err
	}
	return db.runVersionedMigrations()
}

// newID returns a ULID whose timestamp component is t.
func (db *DB) newID(t time.Time) (string, error) {
	db.idMu.Lock()
	defer db.idMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t), db.entropy)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// ensureContext adds a 30-second timeout when ctx has no deadline
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}

// observe records query latency and errors for one operation on one table.
func observe(operation, table string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}
