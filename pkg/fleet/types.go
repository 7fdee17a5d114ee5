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

// Package fleet runs the per-device evaluation pipeline across an inventory
// with a bounded worker pool.
package fleet

import (
	"time"

	"github.com/google/uuid"

	"github.com/mfreeman451/netstate/pkg/compliance"
	"github.com/mfreeman451/netstate/pkg/device"
	"github.com/mfreeman451/netstate/pkg/health"
	"github.com/mfreeman451/netstate/pkg/models"
	"github.com/mfreeman451/netstate/pkg/snapshot"
)

const (
	defaultConcurrency = 8
	defaultTimeout     = 30 * time.Second
)

// Config bounds how a run uses the network.
type Config struct {
	MaxConcurrency int
	DeviceTimeout  time.Duration
	// SessionRate caps new device sessions per second. Zero means unlimited.
	SessionRate float64
}

func (c *Config) applyDefaults() {
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = defaultConcurrency
	}

	if c.DeviceTimeout == 0 {
		c.DeviceTimeout = defaultTimeout
	}
}

// Validate checks the run bounds.
func (c *Config) Validate() error {
	if c.MaxConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.DeviceTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.SessionRate < 0 {
		return ErrInvalidRate
	}

	return nil
}

// OutcomeStatus is the terminal state of one device in a run.
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
)

// DeviceOutcome is everything a run learned about one device. A failed
// outcome keeps whatever stages completed before the failure.
type DeviceOutcome struct {
	Device           models.DeviceIdentity `json:"device"`
	Status           OutcomeStatus         `json:"status"`
	ErrorKind        device.ErrorKind      `json:"error_kind,omitempty"`
	Error            string                `json:"error,omitempty"`
	Facts            *device.Facts         `json:"facts,omitempty"`
	SnapshotVersion  int                   `json:"snapshot_version,omitempty"`
	ContentHash      string                `json:"content_hash,omitempty"`
	Changed          bool                  `json:"changed"`
	Diff             *snapshot.Diff        `json:"-"`
	SnapshotArtifact string                `json:"snapshot_artifact,omitempty"`
	DiffArtifact     string                `json:"diff_artifact,omitempty"`
	Compliance       *compliance.Result    `json:"compliance,omitempty"`
	Health           *health.Report        `json:"health,omitempty"`
	Samples          []models.MetricSample `json:"samples,omitempty"`
	Duration         time.Duration         `json:"duration"`
	Err              error                 `json:"-"`
}

func (o *DeviceOutcome) fail(err error) {
	de := device.NewError(o.Device, "evaluate", err)

	o.Status = OutcomeFailed
	o.ErrorKind = de.Kind
	o.Error = de.Error()
	o.Err = de
}

// Signal distinguishes the shapes of a finished run.
type Signal string

const (
	SignalNoDevices    Signal = "no_devices"
	SignalAllFailed    Signal = "all_failed"
	SignalMixed        Signal = "mixed"
	SignalAllSucceeded Signal = "all_succeeded"
)

// Totals are fleet-level counts.
type Totals struct {
	Devices      int `json:"devices"`
	Succeeded    int `json:"succeeded"`
	Failed       int `json:"failed"`
	Changed      int `json:"changed"`
	Compliant    int `json:"compliant"`
	Partial      int `json:"partial"`
	NonCompliant int `json:"non_compliant"`
	NoRules      int `json:"no_rules"` // evaluated against an empty rule set, not counted as compliant
	Healthy      int `json:"healthy"`
	Warning      int `json:"warning"`
	Critical     int `json:"critical"`
}

// RunResult holds one outcome per input device in input order.
type RunResult struct {
	RunID      uuid.UUID       `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Outcomes   []DeviceOutcome `json:"outcomes"`
	Totals     Totals          `json:"totals"`
	Signal     Signal          `json:"signal"`
}

// ExitCode maps the run signal to a process exit status.
func (r *RunResult) ExitCode() int {
	switch r.Signal {
	case SignalNoDevices:
		return 2
	case SignalAllFailed:
		return 1
	case SignalMixed:
		return 3
	case SignalAllSucceeded:
		return 0
	}

	return 1
}

func (r *RunResult) finalize() {
	t := Totals{Devices: len(r.Outcomes)}

	for i := range r.Outcomes {
		o := &r.Outcomes[i]

		if o.Status == OutcomeSucceeded {
			t.Succeeded++
		} else {
			t.Failed++
		}

		if o.Changed {
			t.Changed++
		}

		if o.Compliance != nil {
			switch {
			case o.Compliance.NoRulesApplicable:
				t.NoRules++
			case o.Compliance.Status == compliance.StatusCompliant:
				t.Compliant++
			case o.Compliance.Status == compliance.StatusPartial:
				t.Partial++
			case o.Compliance.Status == compliance.StatusNonCompliant:
				t.NonCompliant++
			}
		}

		if o.Health != nil {
			switch o.Health.Status {
			case health.StatusHealthy:
				t.Healthy++
			case health.StatusWarning:
				t.Warning++
			case health.StatusCritical:
				t.Critical++
			}
		}
	}

	r.Totals = t

	switch {
	case t.Devices == 0:
		r.Signal = SignalNoDevices
	case t.Failed == t.Devices:
		r.Signal = SignalAllFailed
	case t.Failed > 0:
		r.Signal = SignalMixed
	default:
		r.Signal = SignalAllSucceeded
	}
}
