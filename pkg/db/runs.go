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

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StoreRun saves a run summary. Storing the same run id twice replaces it.
func (db *DB) StoreRun(run *RunRecord) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO runs (run_id, started_at, finished_at, signal, summary)
		VALUES (?, ?, ?, ?, ?)
	`, run.RunID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Signal, string(run.Summary))
	if err != nil {
		return fmt.Errorf("%w run: %w", ErrFailedToInsert, err)
	}

	return nil
}

func (db *DB) GetRun(runID string) (*RunRecord, error) {
	return db.queryRun(`
		SELECT run_id, started_at, finished_at, signal, summary
		FROM runs
		WHERE run_id = ?
	`, runID)
}

func (db *DB) GetLatestRun() (*RunRecord, error) {
	return db.queryRun(`
		SELECT run_id, started_at, finished_at, signal, summary
		FROM runs
		ORDER BY started_at DESC
		LIMIT 1
	`)
}

func (db *DB) queryRun(query string, args ...interface{}) (*RunRecord, error) {
	var (
		run     RunRecord
		summary string
	)

	err := db.QueryRow(query, args...).Scan(
		&run.RunID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.Signal,
		&summary,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run", ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("%w run: %w", ErrFailedToQuery, err)
	}

	run.Summary = []byte(summary)

	return &run, nil
}

// StoreSamples writes a batch of samples in one transaction.
func (db *DB) StoreSamples(samples []SampleRecord) (err error) {
	if len(samples) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	defer func() { rollbackOnError(tx, err) }()

	stmt, err := tx.Prepare(`
		INSERT INTO health_samples
			(run_id, device_key, metric, value, unavailable, reason, sampled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w health samples: %w", ErrFailedToInsert, err)
	}

	defer func() { _ = stmt.Close() }()

	for i := range samples {
		s := &samples[i]

		reason := sql.NullString{String: s.Reason, Valid: s.Reason != ""}

		if _, err = stmt.Exec(s.RunID, s.DeviceKey, s.Metric, s.Value, s.Unavailable, reason, s.SampledAt.UTC()); err != nil {
			return fmt.Errorf("%w health sample: %w", ErrFailedToInsert, err)
		}
	}

	return tx.Commit()
}

// GetMetricHistory retrieves samples for a device metric in a time range.
func (db *DB) GetMetricHistory(deviceKey, metric string, start, end time.Time) ([]SampleRecord, error) {
	rows, err := db.Query(`
		SELECT run_id, device_key, metric, value, unavailable, reason, sampled_at
		FROM health_samples
		WHERE device_key = ?
		AND metric = ?
		AND sampled_at BETWEEN ? AND ?
		ORDER BY sampled_at ASC`,
		deviceKey,
		metric,
		start.UTC(),
		end.UTC(),
	) //nolint:rowserrcheck // rows.Err is checked below
	if err != nil {
		return nil, fmt.Errorf("%w metric history: %w", ErrFailedToQuery, err)
	}
	defer CloseRows(rows)

	var out []SampleRecord

	for rows.Next() {
		var (
			s      SampleRecord
			reason sql.NullString
		)

		if err := rows.Scan(&s.RunID, &s.DeviceKey, &s.Metric, &s.Value, &s.Unavailable, &reason, &s.SampledAt); err != nil {
			return nil, fmt.Errorf("%w sample: %w", ErrFailedToScan, err)
		}

		s.Reason = reason.String
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w metric history: %w", ErrFailedToQuery, err)
	}

	return out, nil
}

// CleanOldData removes runs and samples older than the retention period.
// Snapshots are never removed here; their retention is an operator policy.
func (db *DB) CleanOldData(retentionPeriod time.Duration) (err error) {
	cutoff := time.Now().UTC().Add(-retentionPeriod)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	defer func() {
		if err != nil {
			rollbackOnError(tx, err)
			return
		}

		err = tx.Commit()
	}()

	if _, err = tx.Exec("DELETE FROM health_samples WHERE sampled_at < ?", cutoff); err != nil {
		return fmt.Errorf("%w health samples: %w", ErrFailedToClean, err)
	}

	if _, err = tx.Exec("DELETE FROM runs WHERE started_at < ?", cutoff); err != nil {
		return fmt.Errorf("%w runs: %w", ErrFailedToClean, err)
	}

	return nil
}
