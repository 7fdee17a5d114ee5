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
	"fmt"
	"sync"
	"time"

	"github.com/mfreeman451/netstate/pkg/models"
)

// deviceLog is the append log for one device, guarded by its own lock.
type deviceLog struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	logs sync.Map // device key -> *deviceLog
	now  func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) log(id models.DeviceIdentity) *deviceLog {
	l, _ := m.logs.LoadOrStore(id.Key(), &deviceLog{})

	return l.(*deviceLog)
}

func (m *MemoryStore) Record(ctx context.Context, id models.DeviceIdentity, rawText string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := m.log(id)

	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		Device:      id,
		CapturedAt:  m.now(),
		Version:     len(l.snapshots) + 1,
		RawText:     rawText,
		ContentHash: ContentHash(rawText),
	}

	l.snapshots = append(l.snapshots, s)

	return &s, nil
}

func (m *MemoryStore) DiffAgainstPrevious(_ context.Context, id models.DeviceIdentity) (*Diff, error) {
	l := m.log(id)

	l.mu.Lock()

	n := len(l.snapshots)
	if n < 2 {
		l.mu.Unlock()
		return nil, nil
	}

	from, to := l.snapshots[n-2], l.snapshots[n-1]

	l.mu.Unlock()

	return Compare(&from, &to)
}

func (m *MemoryStore) Latest(_ context.Context, id models.DeviceIdentity) (*Snapshot, error) {
	l := m.log(id)

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.snapshots) == 0 {
		return nil, nil
	}

	s := l.snapshots[len(l.snapshots)-1]

	return &s, nil
}

func (m *MemoryStore) History(_ context.Context, id models.DeviceIdentity, limit int) ([]Snapshot, error) {
	l := m.log(id)

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Snapshot, 0, len(l.snapshots))

	for i := len(l.snapshots) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}

		out = append(out, l.snapshots[i])
	}

	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id models.DeviceIdentity, version int) (*Snapshot, error) {
	l := m.log(id)

	l.mu.Lock()
	defer l.mu.Unlock()

	if version < 1 || version > len(l.snapshots) {
		return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, id.Key(), version)
	}

	s := l.snapshots[version-1]

	return &s, nil
}

func (*MemoryStore) Close() error {
	return nil
}
