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

//go:generate mockgen -destination=mock_db.go -package=db github.com/mfreeman451/netstate/pkg/db Service

import (
	"time"
)

// Service represents all database operations.
type Service interface {
	Close() error

	// Snapshot operations. Snapshots are append-only.

	InsertSnapshot(rec *SnapshotRecord) (*SnapshotRecord, error)
	GetSnapshot(deviceKey string, version int) (*SnapshotRecord, error)
	GetLatestSnapshots(deviceKey string, limit int) ([]SnapshotRecord, error)

	// Run operations.

	StoreRun(run *RunRecord) error
	GetRun(runID string) (*RunRecord, error)
	GetLatestRun() (*RunRecord, error)

	// Health sample operations.

	StoreSamples(samples []SampleRecord) error
	GetMetricHistory(deviceKey, metric string, start, end time.Time) ([]SampleRecord, error)

	// Maintenance operations.

	CleanOldData(retentionPeriod time.Duration) error
}
