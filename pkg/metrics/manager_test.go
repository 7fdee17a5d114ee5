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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/netstate/pkg/fleet"
	"github.com/mfreeman451/netstate/pkg/models"
)

var testDevice = models.DeviceIdentity{Address: "10.0.0.1", Profile: models.ProfileCiscoIOS}

func sample(metric models.MetricName, value float64) models.MetricSample {
	return models.MetricSample{Device: testDevice, Metric: metric, Value: value, SampledAt: time.Unix(int64(value), 0)}
}

func TestLockFreeRingBuffer(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		adds   []float64
		want   []float64
		last   float64
		noLast bool
	}{
		{name: "empty", size: 3, noLast: true},
		{name: "partial", size: 3, adds: []float64{1, 2}, want: []float64{2, 1}, last: 2},
		{name: "full", size: 3, adds: []float64{1, 2, 3}, want: []float64{3, 2, 1}, last: 3},
		{name: "wrapped", size: 3, adds: []float64{1, 2, 3, 4, 5}, want: []float64{5, 4, 3}, last: 5},
		{name: "default size", size: 0, adds: []float64{7}, want: []float64{7}, last: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewLockFreeBuffer(tt.size)

			for _, v := range tt.adds {
				buf.Add(sample(models.MetricCPUUsage, v))
			}

			points := buf.GetPoints()
			got := make([]float64, 0, len(points))

			for _, p := range points {
				got = append(got, p.Value)
			}

			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}

			last := buf.GetLastPoint()
			if tt.noLast {
				assert.Nil(t, last)
				return
			}

			require.NotNil(t, last)
			assert.InDelta(t, tt.last, last.Value, 0)
		})
	}
}

func TestManager(t *testing.T) {
	t.Run("records samples per device and metric", func(t *testing.T) {
		m := NewManager(2)

		m.AddSamples([]models.MetricSample{
			sample(models.MetricCPUUsage, 10),
			sample(models.MetricMemoryUsage, 50),
		})
		m.AddSamples([]models.MetricSample{
			sample(models.MetricCPUUsage, 20),
			sample(models.MetricCPUUsage, 30),
		})

		assert.Equal(t, int64(1), m.GetActiveDevices())

		cpu := m.GetMetrics(testDevice.Key(), models.MetricCPUUsage)
		require.Len(t, cpu, 2)
		assert.InDelta(t, 30.0, cpu[0].Value, 0)
		assert.InDelta(t, 20.0, cpu[1].Value, 0)

		all := m.GetDeviceMetrics(testDevice.Key())
		assert.Len(t, all, 2)
		assert.Len(t, all[models.MetricMemoryUsage], 1)
	})

	t.Run("unknown device", func(t *testing.T) {
		m := NewManager(10)

		assert.Nil(t, m.GetMetrics("cisco_ios/192.0.2.1", models.MetricCPUUsage))
		assert.Nil(t, m.GetDeviceMetrics("cisco_ios/192.0.2.1"))
	})

	t.Run("unknown metric", func(t *testing.T) {
		m := NewManager(10)
		m.AddSamples([]models.MetricSample{sample(models.MetricCPUUsage, 1)})

		assert.Nil(t, m.GetMetrics(testDevice.Key(), models.MetricTemperature))
	})

	t.Run("stale devices are dropped", func(t *testing.T) {
		now := time.Unix(1000, 0)

		m := NewManager(10)
		m.now = func() time.Time { return now }

		m.AddSamples([]models.MetricSample{sample(models.MetricCPUUsage, 1)})

		now = now.Add(30 * time.Minute)
		m.CleanupStaleDevices(time.Hour)
		assert.Equal(t, int64(1), m.GetActiveDevices())

		now = now.Add(time.Hour)
		m.CleanupStaleDevices(time.Hour)
		assert.Equal(t, int64(0), m.GetActiveDevices())
		assert.Nil(t, m.GetDeviceMetrics(testDevice.Key()))
	})

	t.Run("concurrent access", func(t *testing.T) {
		m := NewManager(50)

		const goroutines = 10

		const iterations = 100

		var wg sync.WaitGroup

		for i := 0; i < goroutines; i++ {
			wg.Add(1)

			go func(id int) {
				defer wg.Done()

				for j := 0; j < iterations; j++ {
					m.AddSamples([]models.MetricSample{sample(models.MetricCPUUsage, float64(id*1000+j))})
					_ = m.GetMetrics(testDevice.Key(), models.MetricCPUUsage)
				}
			}(i)
		}

		wg.Wait()

		assert.Len(t, m.GetMetrics(testDevice.Key(), models.MetricCPUUsage), 50)
	})
}

func TestManagerPublish(t *testing.T) {
	m := NewManager(10)

	other := models.DeviceIdentity{Address: "10.0.0.2", Profile: models.ProfileJuniperJunos}

	result := &fleet.RunResult{
		Outcomes: []fleet.DeviceOutcome{
			{Device: testDevice, Samples: []models.MetricSample{sample(models.MetricCPUUsage, 42)}},
			{Device: other, Status: fleet.OutcomeFailed},
		},
	}

	require.NoError(t, m.Publish(context.Background(), result))

	assert.Equal(t, int64(1), m.GetActiveDevices())
	assert.Len(t, m.GetMetrics(testDevice.Key(), models.MetricCPUUsage), 1)
	assert.Nil(t, m.GetDeviceMetrics(other.Key()))
}
