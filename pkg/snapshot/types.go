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

// Package snapshot keeps versioned configuration snapshots per device and
// computes unified diffs between consecutive versions.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/mfreeman451/netstate/pkg/models"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one captured, versioned copy of a device configuration.
type Snapshot struct {
	Device      models.DeviceIdentity `json:"device"`
	CapturedAt  time.Time             `json:"captured_at"`
	Version     int                   `json:"version"`
	RawText     string                `json:"raw_text"`
	ContentHash string                `json:"content_hash"`
}

// Diff compares two consecutive snapshots. Text is empty when Changed is false.
type Diff struct {
	Device      models.DeviceIdentity `json:"device"`
	FromVersion int                   `json:"from_version"`
	ToVersion   int                   `json:"to_version"`
	Changed     bool                  `json:"changed"`
	Text        string                `json:"unified_diff,omitempty"`
}

// ContentHash is the hex SHA-256 of the raw bytes. No normalization is applied.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))

	return hex.EncodeToString(sum[:])
}
