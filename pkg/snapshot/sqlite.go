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

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mfreeman451/netstate/pkg/db"
	"github.com/mfreeman451/netstate/pkg/device"
	"github.com/mfreeman451/netstate/pkg/models"
)

// SQLiteStore persists snapshots through the db service. A per-device lock
// serializes appends in process; the (device, version) unique key catches
// writers in other processes.
type SQLiteStore struct {
	db    db.Service
	locks sync.Map // device key -> *sync.Mutex
	now   func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(database db.Service) *SQLiteStore {
	return &SQLiteStore{db: database, now: time.Now}
}

func (s *SQLiteStore) lock(id models.DeviceIdentity) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id.Key(), &sync.Mutex{})

	return mu.(*sync.Mutex)
}

// Record fails with device.ErrStoreWrite on any persistence error.
func (s *SQLiteStore) Record(ctx context.Context, id models.DeviceIdentity, rawText string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mu := s.lock(id)

	mu.Lock()
	defer mu.Unlock()

	rec, err := s.db.InsertSnapshot(&db.SnapshotRecord{
		DeviceKey:   id.Key(),
		Address:     id.Address,
		Profile:     string(id.Profile),
		CapturedAt:  s.now(),
		ContentHash: ContentHash(rawText),
		RawText:     rawText,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", device.ErrStoreWrite, err)
	}

	return fromRecord(id, rec), nil
}

func fromRecord(id models.DeviceIdentity, rec *db.SnapshotRecord) *Snapshot {
	return &Snapshot{
		Device:      id,
		CapturedAt:  rec.CapturedAt,
		Version:     rec.Version,
		RawText:     rec.RawText,
		ContentHash: rec.ContentHash,
	}
}

func (s *SQLiteStore) DiffAgainstPrevious(_ context.Context, id models.DeviceIdentity) (*Diff, error) {
	recs, err := s.db.GetLatestSnapshots(id.Key(), 2)
	if err != nil {
		return nil, err
	}

	if len(recs) < 2 {
		return nil, nil
	}

	return Compare(fromRecord(id, &recs[1]), fromRecord(id, &recs[0]))
}

func (s *SQLiteStore) Latest(_ context.Context, id models.DeviceIdentity) (*Snapshot, error) {
	recs, err := s.db.GetLatestSnapshots(id.Key(), 1)
	if err != nil {
		return nil, err
	}

	if len(recs) == 0 {
		return nil, nil
	}

	return fromRecord(id, &recs[0]), nil
}

func (s *SQLiteStore) History(_ context.Context, id models.DeviceIdentity, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}

	recs, err := s.db.GetLatestSnapshots(id.Key(), limit)
	if err != nil {
		return nil, err
	}

	out := make([]Snapshot, 0, len(recs))
	for i := range recs {
		out = append(out, *fromRecord(id, &recs[i]))
	}

	return out, nil
}

func (s *SQLiteStore) Get(_ context.Context, id models.DeviceIdentity, version int) (*Snapshot, error) {
	rec, err := s.db.GetSnapshot(id.Key(), version)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, id.Key(), version)
	}

	if err != nil {
		return nil, err
	}

	return fromRecord(id, rec), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
