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
	"encoding/json"
	"time"
)

// SnapshotRecord is one stored configuration version.
type SnapshotRecord struct {
	DeviceKey   string    `json:"device_key"`
	Address     string    `json:"address"`
	Profile     string    `json:"vendor_profile"`
	Version     int       `json:"version"`
	CapturedAt  time.Time `json:"captured_at"`
	ContentHash string    `json:"content_hash"`
	RawText     string    `json:"raw_text"`
}

// RunRecord is the persisted summary of one fleet run.
type RunRecord struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Signal     string          `json:"signal"`
	Summary    json.RawMessage `json:"summary"`
}

// SampleRecord is one stored health metric observation.
type SampleRecord struct {
	RunID       string    `json:"run_id"`
	DeviceKey   string    `json:"device_key"`
	Metric      string    `json:"metric"`
	Value       float64   `json:"value"`
	Unavailable bool      `json:"unavailable"`
	Reason      string    `json:"reason,omitempty"`
	SampledAt   time.Time `json:"sampled_at"`
}
