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


package metrics

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfreeman451/netstate/pkg/fleet"
	"github.com/mfreeman451/netstate/pkg/models"
)

// deviceMetrics is the per-device set of buffers, guarded by its own lock.
type deviceMetrics struct {
	mu       sync.RWMutex
	buffers  map[models.MetricName]MetricStore
	lastSeen time.Time
}

// Manager keeps the last Retention samples of every metric for every device.
// It implements fleet.Sink so a run's samples are recorded as it finishes.
type Manager struct {
	devices       sync.Map // Map of device key -> *deviceMetrics
	retention     int
	activeDevices int64 // Atomic counter for active devices
	now           func() time.Time
}

// NewManager creates a Manager keeping retention samples per metric.
func NewManager(retention int) *Manager {
	if retention <= 0 {
		retention = defaultRetention
	}

	return &Manager{
		retention: retention,
		now:       time.Now,
	}
}

// AddSamples records samples under their device's key.
func (m *Manager) AddSamples(samples []models.MetricSample) {
	for i := range samples {
		s := samples[i]
		key := s.Device.Key()

		v, loaded := m.devices.LoadOrStore(key, &deviceMetrics{
			buffers: make(map[models.MetricName]MetricStore),
		})

		if !loaded {
			atomic.AddInt64(&m.activeDevices, 1)
		}

		dm := v.(*deviceMetrics)

		dm.mu.Lock()

		buf, ok := dm.buffers[s.Metric]
		if !ok {
			buf = NewBuffer(m.retention)
			dm.buffers[s.Metric] = buf
		}

		buf.Add(s)
		dm.lastSeen = m.now()

		dm.mu.Unlock()
	}
}

// GetMetrics returns the recent samples of one metric, newest first.
func (m *Manager) GetMetrics(deviceKey string, metric models.MetricName) []models.MetricSample {
	v, ok := m.devices.Load(deviceKey)
	if !ok {
		return nil
	}

	dm := v.(*deviceMetrics)

	dm.mu.RLock()
	defer dm.mu.RUnlock()

	buf, ok := dm.buffers[metric]
	if !ok {
		return nil
	}

	return buf.GetPoints()
}

// GetDeviceMetrics returns every metric recorded for a device, or nil when
// the device is unknown.
func (m *Manager) GetDeviceMetrics(deviceKey string) map[models.MetricName][]models.MetricSample {
	v, ok := m.devices.Load(deviceKey)
	if !ok {
		return nil
	}

	dm := v.(*deviceMetrics)

	dm.mu.RLock()
	defer dm.mu.RUnlock()

	out := make(map[models.MetricName][]models.MetricSample, len(dm.buffers))

	for name, buf := range dm.buffers {
		out[name] = buf.GetPoints()
	}

	return out
}

// GetActiveDevices returns the number of devices with recorded samples.
func (m *Manager) GetActiveDevices() int64 {
	return atomic.LoadInt64(&m.activeDevices)
}

// CleanupStaleDevices forgets devices with no samples in staleDuration.
func (m *Manager) CleanupStaleDevices(staleDuration time.Duration) {
	cutoff := m.now().Add(-staleDuration)

	m.devices.Range(func(key, value interface{}) bool {
		dm := value.(*deviceMetrics)

		dm.mu.RLock()
		stale := dm.lastSeen.Before(cutoff)
		dm.mu.RUnlock()

		if stale {
			if _, loaded := m.devices.LoadAndDelete(key); loaded {
				atomic.AddInt64(&m.activeDevices, -1)
				log.Printf("Dropped metric history for stale device %s", key)
			}
		}

		return true
	})
}

// Publish implements fleet.Sink.
func (m *Manager) Publish(_ context.Context, result *fleet.RunResult) error {
	for i := range result.Outcomes {
		m.AddSamples(result.Outcomes[i].Samples)
	}

	return nil
}
