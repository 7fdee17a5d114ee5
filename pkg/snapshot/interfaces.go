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

package snapshot

//go:generate mockgen -destination=mock_snapshot.go -package=snapshot github.com/mfreeman451/netstate/pkg/snapshot Store

import (
	"context"

	"github.com/mfreeman451/netstate/pkg/models"
)

// Store persists snapshots per device with gap-free versions starting at 1.
// Appends for the same device are serialized; different devices never wait
// on each other.
type Store interface {
	Record(ctx context.Context, id models.DeviceIdentity, rawText string) (*Snapshot, error)
	// DiffAgainstPrevious returns nil when fewer than two snapshots exist.
	DiffAgainstPrevious(ctx context.Context, id models.DeviceIdentity) (*Diff, error)
	// Latest returns nil when the device has no snapshots.
	Latest(ctx context.Context, id models.DeviceIdentity) (*Snapshot, error)
	// History returns up to limit snapshots, newest first.
	History(ctx context.Context, id models.DeviceIdentity, limit int) ([]Snapshot, error)
	Get(ctx context.Context, id models.DeviceIdentity, version int) (*Snapshot, error)
	Close() error
}
