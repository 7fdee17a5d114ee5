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

// Package models pkg/models/metrics.go
package models

import "time"

// MetricName is one of the fixed health metrics.
type MetricName string

const (
	MetricCPUUsage          MetricName = "cpuUsagePercent"
	MetricMemoryUsage       MetricName = "memoryUsagePercent"
	MetricInterfaceErrors   MetricName = "interfaceErrorCount"
	MetricInterfacesDown    MetricName = "interfaceDownCount"
	MetricTemperature       MetricName = "temperatureCelsius"
	MetricBGPNeighborsDown  MetricName = "bgpDownNeighborCount"
	MetricNTPUnsynchronized MetricName = "ntpUnsynchronized"
)

// MetricNames lists every metric in evaluation order.
var MetricNames = []MetricName{
	MetricCPUUsage,
	MetricMemoryUsage,
	MetricInterfaceErrors,
	MetricInterfacesDown,
	MetricTemperature,
	MetricBGPNeighborsDown,
	MetricNTPUnsynchronized,
}

// Valid reports whether m is a known metric.
func (m MetricName) Valid() bool {
	for _, known := range MetricNames {
		if m == known {
			return true
		}
	}

	return false
}

// MetricSample is one observation of a health metric. Unavailable samples
// carry no value and mean the metric could not be measured.
type MetricSample struct {
	Device      DeviceIdentity `json:"device"`
	Metric      MetricName     `json:"metric"`
	Value       float64        `json:"value"`
	Unavailable bool           `json:"unavailable,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	SampledAt   time.Time      `json:"sampled_at"`
}

// Sample builds an available sample.
func Sample(device DeviceIdentity, metric MetricName, value float64, at time.Time) MetricSample {
	return MetricSample{Device: device, Metric: metric, Value: value, SampledAt: at}
}

// UnavailableSample builds a sample for a metric that could not be measured.
func UnavailableSample(device DeviceIdentity, metric MetricName, reason string, at time.Time) MetricSample {
	return MetricSample{Device: device, Metric: metric, Unavailable: true, Reason: reason, SampledAt: at}
}
