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

package health

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mfreeman451/netstate/pkg/config"
	"github.com/mfreeman451/netstate/pkg/models"
)

// Evaluate compares samples against thresholds. Critical wins over warning
// for the same sample; unavailable samples become coverage gaps and never
// alert. Alerts are ordered by severity, then metric name, then value.
func Evaluate(samples []models.MetricSample, thresholds Thresholds) *Report {
	report := &Report{
		Alerts: make([]Alert, 0),
		Status: StatusHealthy,
	}

	for i := range samples {
		s := &samples[i]

		if s.Unavailable {
			report.CoverageGaps = append(report.CoverageGaps, CoverageGap{
				Device: s.Device,
				Metric: s.Metric,
				Reason: s.Reason,
			})

			continue
		}

		t, ok := thresholds[s.Metric]
		if !ok {
			continue
		}

		if alert, fired := check(s, t); fired {
			report.Alerts = append(report.Alerts, alert)
		}
	}

	sort.SliceStable(report.Alerts, func(i, j int) bool {
		a, b := report.Alerts[i], report.Alerts[j]

		if a.Severity.rank() != b.Severity.rank() {
			return a.Severity.rank() > b.Severity.rank()
		}

		if a.Metric != b.Metric {
			return a.Metric < b.Metric
		}

		return a.Value > b.Value
	})

	sort.SliceStable(report.CoverageGaps, func(i, j int) bool {
		return report.CoverageGaps[i].Metric < report.CoverageGaps[j].Metric
	})

	if len(report.Alerts) > 0 {
		switch report.Alerts[0].Severity {
		case SeverityCritical:
			report.Status = StatusCritical
		case SeverityWarning:
			report.Status = StatusWarning
		}
	}

	return report
}

func check(s *models.MetricSample, t Threshold) (Alert, bool) {
	var (
		severity Severity
		level    float64
	)

	switch {
	case s.Value >= t.Critical:
		severity, level = SeverityCritical, t.Critical
	case s.Value >= t.Warning:
		severity, level = SeverityWarning, t.Warning
	default:
		return Alert{}, false
	}

	return Alert{
		Device:    s.Device,
		Metric:    s.Metric,
		Severity:  severity,
		Value:     s.Value,
		Threshold: level,
		Message:   fmt.Sprintf("%s %s: %s >= %s", s.Metric, severity, formatValue(s.Value), formatValue(level)),
	}, true
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// LoadThresholds reads and validates a thresholds file (JSON or YAML).
func LoadThresholds(path string) (Thresholds, error) {
	var th Thresholds

	if err := config.LoadAndValidate(path, &th); err != nil {
		return nil, err
	}

	return th, nil
}
