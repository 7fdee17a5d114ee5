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

// Package health compares metric samples against warning and critical
// thresholds.
package health

import (
	"errors"
	"fmt"

	"github.com/mfreeman451/netstate/pkg/models"
)

var (
	ErrNoThresholds     = errors.New("threshold definitions are empty")
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrUnknownMetric    = errors.New("unknown metric")
)

// Severity of a health alert.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Status is the device-level health roll-up.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Threshold holds the warning and critical levels for one metric. Values at
// or above a level trigger it.
type Threshold struct {
	Warning  float64 `json:"warning" yaml:"warning"`
	Critical float64 `json:"critical" yaml:"critical"`
}

// Validate requires critical to be at or above warning.
func (t Threshold) Validate() error {
	if t.Critical < t.Warning {
		return fmt.Errorf("%w: critical %v below warning %v", ErrInvalidThreshold, t.Critical, t.Warning)
	}

	return nil
}

// Thresholds maps metric names to their levels. Metrics without an entry are
// never alerted on.
type Thresholds map[models.MetricName]Threshold

// Validate implements config.Validator.
func (th Thresholds) Validate() error {
	if len(th) == 0 {
		return ErrNoThresholds
	}

	for metric, t := range th {
		if !metric.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
		}

		if err := t.Validate(); err != nil {
			return fmt.Errorf("%s: %w", metric, err)
		}
	}

	return nil
}

// Alert is a sample that crossed a threshold.
type Alert struct {
	Device    models.DeviceIdentity `json:"device"`
	Metric    models.MetricName     `json:"metric"`
	Severity  Severity              `json:"severity"`
	Value     float64               `json:"value"`
	Threshold float64               `json:"threshold"`
	Message   string                `json:"message"`
}

// CoverageGap is a metric that could not be measured.
type CoverageGap struct {
	Device models.DeviceIdentity `json:"device"`
	Metric models.MetricName     `json:"metric"`
	Reason string                `json:"reason,omitempty"`
}

// Report is the outcome of evaluating one batch of samples.
type Report struct {
	Alerts       []Alert       `json:"alerts"`
	CoverageGaps []CoverageGap `json:"coverage_gaps,omitempty"`
	Status       Status        `json:"status"`
}

// Count returns the number of alerts at severity s.
func (r *Report) Count(s Severity) int {
	n := 0

	for i := range r.Alerts {
		if r.Alerts[i].Severity == s {
			n++
		}
	}

	return n
}
