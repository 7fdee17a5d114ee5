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

package alerts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/mfreeman451/netstate/pkg/config"
	"github.com/mfreeman451/netstate/pkg/fleet"
	"github.com/mfreeman451/netstate/pkg/health"
)

// Notifier turns run outcomes into webhook alerts. It implements fleet.Sink.
type Notifier struct {
	alerters []AlertService
}

func NewNotifier(alerters ...AlertService) *Notifier {
	return &Notifier{alerters: alerters}
}

// NewNotifierFromConfig builds one alerter per enabled webhook.
func NewNotifierFromConfig(webhooks []config.WebhookConfig) (*Notifier, error) {
	n := &Notifier{}

	for i := range webhooks {
		if !webhooks[i].Enabled {
			continue
		}

		alerter, err := NewWebhookAlerter(webhooks[i])
		if err != nil {
			return nil, fmt.Errorf("webhook %d: %w", i+1, err)
		}

		n.alerters = append(n.alerters, alerter)
	}

	return n, nil
}

// Len returns the number of enabled alerters.
func (n *Notifier) Len() int {
	return len(n.alerters)
}

// Publish sends one alert per device that failed, has critical health
// alerts, or failed a required compliance rule.
func (n *Notifier) Publish(ctx context.Context, result *fleet.RunResult) error {
	var errs []error

	for i := range result.Outcomes {
		alert := buildAlert(&result.Outcomes[i])
		if alert == nil {
			continue
		}

		alert.Details["run_id"] = result.RunID.String()

		for _, alerter := range n.alerters {
			if !alerter.IsEnabled() {
				continue
			}

			// each alerter may fill in defaults
			a := *alert

			err := alerter.Alert(ctx, &a)

			switch {
			case err == nil:
			case errors.Is(err, errWebhookCooldown), errors.Is(err, errWebhookDisabled):
			default:
				log.Printf("Failed to send alert for %s: %v", alert.Device, err)

				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func buildAlert(o *fleet.DeviceOutcome) *WebhookAlert {
	key := o.Device.Key()

	if o.Status == fleet.OutcomeFailed {
		return &WebhookAlert{
			Level:   Warning,
			Title:   fmt.Sprintf("Device %s evaluation failed", key),
			Message: o.Error,
			Device:  key,
			Details: map[string]any{"error_kind": string(o.ErrorKind)},
		}
	}

	var problems []string

	details := map[string]any{}

	if o.Health != nil && o.Health.Status == health.StatusCritical {
		for _, a := range o.Health.Alerts {
			if a.Severity == health.SeverityCritical {
				problems = append(problems, a.Message)
			}
		}

		details["critical_alerts"] = strconv.Itoa(o.Health.Count(health.SeverityCritical))
	}

	if o.Compliance != nil && len(o.Compliance.RequiredFailures) > 0 {
		problems = append(problems, "required rules failed: "+strings.Join(o.Compliance.RequiredFailures, ", "))
		details["compliance"] = strconv.FormatFloat(o.Compliance.Percentage, 'f', 1, 64) + "%"
	}

	if len(problems) == 0 {
		return nil
	}

	return &WebhookAlert{
		Level:   Error,
		Title:   fmt.Sprintf("Device %s needs attention", key),
		Message: strings.Join(problems, "\n"),
		Device:  key,
		Details: details,
	}
}
