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
	"sync/atomic"

	"github.com/mfreeman451/netstate/pkg/models"
)

const defaultRetention = 100

// LockFreeRingBuffer is a fixed-size ring of samples. Writers claim a slot
// with an atomic counter; readers must hold the owning device's lock.
type LockFreeRingBuffer struct {
	points []models.MetricSample
	pos    int64 // Atomic position counter
	size   int64
}

// NewBuffer creates a MetricStore that keeps the last size samples.
func NewBuffer(size int) MetricStore {
	return NewLockFreeBuffer(size)
}

// NewLockFreeBuffer creates a LockFreeRingBuffer with the specified size.
func NewLockFreeBuffer(size int) *LockFreeRingBuffer {
	if size <= 0 {
		size = defaultRetention
	}

	return &LockFreeRingBuffer{
		points: make([]models.MetricSample, size),
		size:   int64(size),
	}
}

// Add stores a sample, overwriting the oldest once the buffer is full.
func (b *LockFreeRingBuffer) Add(sample models.MetricSample) {
	pos := atomic.AddInt64(&b.pos, 1) - 1
	idx := pos % b.size

	b.points[idx] = sample
}

// GetPoints returns the stored samples, newest first.
func (b *LockFreeRingBuffer) GetPoints() []models.MetricSample {
	pos := atomic.LoadInt64(&b.pos)

	n := pos
	if n > b.size {
		n = b.size
	}

	points := make([]models.MetricSample, 0, n)

	for i := int64(0); i < n; i++ {
		idx := (pos - i - 1) % b.size
		points = append(points, b.points[idx])
	}

	return points
}

// GetLastPoint returns the newest sample, or nil when the buffer is empty.
func (b *LockFreeRingBuffer) GetLastPoint() *models.MetricSample {
	pos := atomic.LoadInt64(&b.pos)
	if pos == 0 {
		return nil
	}

	p := b.points[(pos-1)%b.size]

	return &p
}
