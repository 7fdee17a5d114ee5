/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package db pkg/db/db.go
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

const (
	// SQL statements for database initialization.
	createTablesSQL = `
	-- Configuration snapshots, append-only
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_key TEXT NOT NULL,
		address TEXT NOT NULL,
		profile TEXT NOT NULL,
		version INTEGER NOT NULL,
		captured_at TIMESTAMP NOT NULL,
		content_hash TEXT NOT NULL,
		raw_text TEXT NOT NULL,
		UNIQUE (device_key, version)
	);

	-- Fleet runs
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		signal TEXT NOT NULL,
		summary TEXT NOT NULL
	);

	-- Health samples per run
	CREATE TABLE IF NOT EXISTS health_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		device_key TEXT NOT NULL,
		metric TEXT NOT NULL,
		value REAL NOT NULL DEFAULT 0,
		unavailable BOOLEAN NOT NULL DEFAULT 0,
		reason TEXT,
		sampled_at TIMESTAMP NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	-- Indexes for better query performance
	CREATE INDEX IF NOT EXISTS idx_snapshots_device_version
		ON snapshots(device_key, version);
	CREATE INDEX IF NOT EXISTS idx_runs_started
		ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_health_samples_device_metric_time
		ON health_samples(device_key, metric, sampled_at);
	`

	// immediate transactions take the write lock up front so concurrent
	// appends wait on busy_timeout instead of failing lock upgrades.
	dsnOptions = "_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"
)

// DB represents the database connection and operations.
type DB struct {
	*sql.DB
}

var _ Service = (*DB)(nil)

// New creates a new database connection and initializes the schema.
func New(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	db := &DB{sqlDB}
	if err := db.initSchema(); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	return path + sep + dsnOptions
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.Exec(createTablesSQL)

	return err
}

func rollbackOnError(tx *sql.Tx, err error) {
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("Error rolling back transaction: %v", rbErr)
		}
	}
}

// InsertSnapshot appends rec as the next version for its device. The version
// is assigned inside the transaction and returned on the stored record.
func (db *DB) InsertSnapshot(rec *SnapshotRecord) (stored *SnapshotRecord, err error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	defer func() { rollbackOnError(tx, err) }()

	var current int

	err = tx.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM snapshots
		WHERE device_key = ?
	`, rec.DeviceKey).Scan(&current)
	if err != nil {
		return nil, fmt.Errorf("%w snapshot version: %w", ErrFailedToQuery, err)
	}

	out := *rec
	out.Version = current + 1
	out.CapturedAt = out.CapturedAt.UTC()

	_, err = tx.Exec(`
		INSERT INTO snapshots
			(device_key, address, profile, version, captured_at, content_hash, raw_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, out.DeviceKey, out.Address, out.Profile, out.Version, out.CapturedAt, out.ContentHash, out.RawText)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: %s v%d", ErrVersionConflict, out.DeviceKey, out.Version)
		}

		return nil, fmt.Errorf("%w snapshot: %w", ErrFailedToInsert, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w snapshot: %w", ErrFailedToInsert, err)
	}

	return &out, nil
}

const snapshotColumns = `device_key, address, profile, version, captured_at, content_hash, raw_text`

func scanSnapshot(row interface{ Scan(...interface{}) error }) (*SnapshotRecord, error) {
	var rec SnapshotRecord

	err := row.Scan(
		&rec.DeviceKey,
		&rec.Address,
		&rec.Profile,
		&rec.Version,
		&rec.CapturedAt,
		&rec.ContentHash,
		&rec.RawText,
	)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (db *DB) GetSnapshot(deviceKey string, version int) (*SnapshotRecord, error) {
	row := db.QueryRow(`SELECT `+snapshotColumns+`
		FROM snapshots
		WHERE device_key = ? AND version = ?`, deviceKey, version)

	rec, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, deviceKey, version)
	}

	if err != nil {
		return nil, fmt.Errorf("%w snapshot: %w", ErrFailedToQuery, err)
	}

	return rec, nil
}

// GetLatestSnapshots returns up to limit snapshots, newest first.
func (db *DB) GetLatestSnapshots(deviceKey string, limit int) ([]SnapshotRecord, error) {
	rows, err := db.Query(`SELECT `+snapshotColumns+`
		FROM snapshots
		WHERE device_key = ?
		ORDER BY version DESC
		LIMIT ?`, deviceKey, limit) //nolint:rowserrcheck // rows.Err is checked below
	if err != nil {
		return nil, fmt.Errorf("%w snapshots: %w", ErrFailedToQuery, err)
	}
	defer CloseRows(rows)

	var out []SnapshotRecord

	for rows.Next() {
		rec, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w snapshot: %w", ErrFailedToScan, err)
		}

		out = append(out, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w snapshots: %w", ErrFailedToQuery, err)
	}

	return out, nil
}

// CloseRows safely closes rows and logs any error.
func CloseRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("failed to close rows: %v", err)
	}
}
