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

package fleet

import (
	"encoding/json"
	"time"

	"github.com/mfreeman451/netstate/pkg/compliance"
	"github.com/mfreeman451/netstate/pkg/db"
	"github.com/mfreeman451/netstate/pkg/device"
	"github.com/mfreeman451/netstate/pkg/health"
	"github.com/mfreeman451/netstate/pkg/models"
)

// DeviceSummary is the per-device line of a run summary.
type DeviceSummary struct {
	Device               string               `json:"device"`
	Address              string               `json:"address"`
	Profile              models.VendorProfile `json:"vendor_profile"`
	Status               OutcomeStatus        `json:"status"`
	CompliancePercentage *float64             `json:"compliance_percentage,omitempty"`
	ComplianceStatus     compliance.Status    `json:"compliance_status,omitempty"`
	NoRulesApplicable    bool                 `json:"no_rules_applicable,omitempty"`
	FailedRules          []string             `json:"failed_rules,omitempty"`
	RequiredFailures     []string             `json:"required_failures,omitempty"`
	HealthStatus         health.Status        `json:"health_status,omitempty"`
	Alerts               []health.Alert       `json:"alerts"`
	CoverageGaps         []health.CoverageGap `json:"coverage_gaps,omitempty"`
	Changed              bool                 `json:"changed"`
	SnapshotVersion      int                  `json:"snapshot_version,omitempty"`
	DiffArtifact         string               `json:"diff_artifact,omitempty"`
	ErrorKind            device.ErrorKind     `json:"error_kind,omitempty"`
	Error                string               `json:"error,omitempty"`
}

// Summary is the structured record of a run handed to report tooling.
type Summary struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Signal     Signal          `json:"signal"`
	Devices    []DeviceSummary `json:"devices"`
	Totals     Totals          `json:"totals"`
}

// Summary flattens the run for reporting.
func (r *RunResult) Summary() *Summary {
	s := &Summary{
		RunID:      r.RunID.String(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Signal:     r.Signal,
		Devices:    make([]DeviceSummary, 0, len(r.Outcomes)),
		Totals:     r.Totals,
	}

	for i := range r.Outcomes {
		s.Devices = append(s.Devices, summarize(&r.Outcomes[i]))
	}

	return s
}

func summarize(o *DeviceOutcome) DeviceSummary {
	ds := DeviceSummary{
		Device:          o.Device.Key(),
		Address:         o.Device.Address,
		Profile:         o.Device.Profile,
		Status:          o.Status,
		Alerts:          []health.Alert{},
		Changed:         o.Changed,
		SnapshotVersion: o.SnapshotVersion,
		DiffArtifact:    o.DiffArtifact,
		ErrorKind:       o.ErrorKind,
		Error:           o.Error,
	}

	if o.Compliance != nil {
		pct := o.Compliance.Percentage
		ds.CompliancePercentage = &pct
		ds.ComplianceStatus = o.Compliance.Status
		ds.NoRulesApplicable = o.Compliance.NoRulesApplicable
		ds.FailedRules = o.Compliance.Failed()
		ds.RequiredFailures = o.Compliance.RequiredFailures
	}

	if o.Health != nil {
		ds.HealthStatus = o.Health.Status
		ds.Alerts = o.Health.Alerts
		ds.CoverageGaps = o.Health.CoverageGaps
	}

	return ds
}

// Record encodes the run for the history database.
func (r *RunResult) Record() (*db.RunRecord, error) {
	body, err := json.Marshal(r.Summary())
	if err != nil {
		return nil, err
	}

	return &db.RunRecord{
		RunID:      r.RunID.String(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Signal:     string(r.Signal),
		Summary:    body,
	}, nil
}

// SampleRecords returns every metric sample of the run for the history
// database.
func (r *RunResult) SampleRecords() []db.SampleRecord {
	var out []db.SampleRecord

	for i := range r.Outcomes {
		for _, s := range r.Outcomes[i].Samples {
			out = append(out, db.SampleRecord{
				RunID:       r.RunID.String(),
				DeviceKey:   s.Device.Key(),
				Metric:      string(s.Metric),
				Value:       s.Value,
				Unavailable: s.Unavailable,
				Reason:      s.Reason,
				SampledAt:   s.SampledAt,
			})
		}
	}

	return out
}
