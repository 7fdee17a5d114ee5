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


// Package metrics keeps a bounded in-memory history of health samples per device.
package metrics

import (
	"time"

	"github.com/mfreeman451/netstate/pkg/models"
)

//go:generate mockgen -destination=mock_metrics.go -package=metrics github.com/mfreeman451/netstate/pkg/metrics MetricStore,MetricCollector

// MetricStore holds the most recent samples of a single metric.
type MetricStore interface {
	Add(sample models.MetricSample)
	GetPoints() []models.MetricSample
	GetLastPoint() *models.MetricSample
}

// MetricCollector holds recent samples for many devices, keyed by
// DeviceIdentity.Key().
type MetricCollector interface {
	AddSamples(samples []models.MetricSample)
	GetMetrics(deviceKey string, metric models.MetricName) []models.MetricSample
	GetDeviceMetrics(deviceKey string) map[models.MetricName][]models.MetricSample
	CleanupStaleDevices(staleDuration time.Duration)
}
