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

package compliance

import (
	"fmt"
	"time"

	"github.com/mfreeman451/netstate/pkg/models"
)

type compiledRule struct {
	Rule
	match matcher
}

// Engine evaluates configurations against validated rule sets. It is safe for
// concurrent use.
type Engine struct {
	rules map[models.VendorProfile][]compiledRule
	now   func() time.Time
}

// Validate checks every rule and compiles its predicate. It implements
// config.Validator so a bad definitions file fails before any device work.
func (rs RuleSets) Validate() error {
	_, err := rs.compile()

	return err
}

func (rs RuleSets) compile() (map[models.VendorProfile][]compiledRule, error) {
	if len(rs) == 0 {
		return nil, ErrNoRuleSets
	}

	out := make(map[models.VendorProfile][]compiledRule, len(rs))

	for profile, rules := range rs {
		if !profile.Valid() {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownVendorProfile, profile)
		}

		seen := make(map[string]struct{}, len(rules))
		compiled := make([]compiledRule, 0, len(rules))

		for i := range rules {
			r := rules[i]

			if r.Name == "" {
				return nil, fmt.Errorf("%w: %s rule %d has no name", ErrInvalidRule, profile, i+1)
			}

			if _, dup := seen[r.Name]; dup {
				return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateRuleName, profile, r.Name)
			}

			seen[r.Name] = struct{}{}

			if !r.Severity.Valid() {
				return nil, fmt.Errorf("%w: %s/%s: %q", ErrUnknownSeverity, profile, r.Name, r.Severity)
			}

			m, err := r.Predicate.compile()
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", profile, r.Name, err)
			}

			compiled = append(compiled, compiledRule{Rule: r, match: m})
		}

		out[profile] = compiled
	}

	return out, nil
}

// NewEngine validates and compiles rule sets.
func NewEngine(rs RuleSets) (*Engine, error) {
	compiled, err := rs.compile()
	if err != nil {
		return nil, err
	}

	return &Engine{rules: compiled, now: time.Now}, nil
}

// Profiles lists profiles that have rules.
func (e *Engine) Profiles() []models.VendorProfile {
	var out []models.VendorProfile

	for _, p := range models.VendorProfiles {
		if _, ok := e.rules[p]; ok {
			out = append(out, p)
		}
	}

	return out
}

// Evaluate scores configText against the rules for profile. A profile with no
// rules yields 100% with NoRulesApplicable set.
func (e *Engine) Evaluate(profile models.VendorProfile, configText string) *Result {
	rules := e.rules[profile]

	res := &Result{
		Device:      models.DeviceIdentity{Profile: profile},
		EvaluatedAt: e.now(),
		Outcomes:    make([]RuleOutcome, 0, len(rules)),
	}

	for i := range rules {
		r := &rules[i]

		passed := r.match(configText)
		weight := r.Severity.Weight()

		res.ScoreMax += weight
		if passed {
			res.ScoreEarned += weight
		} else if r.RequiredForPass {
			res.RequiredFailures = append(res.RequiredFailures, r.Name)
		}

		res.Outcomes = append(res.Outcomes, RuleOutcome{
			Rule:            r.Name,
			Severity:        r.Severity,
			RequiredForPass: r.RequiredForPass,
			Passed:          passed,
		})
	}

	if res.ScoreMax == 0 {
		res.Percentage = 100
		res.NoRulesApplicable = true
	} else {
		res.Percentage = float64(res.ScoreEarned) / float64(res.ScoreMax) * 100
	}

	res.Status = StatusFor(res.Percentage)
	if len(res.RequiredFailures) > 0 {
		res.Status = StatusNonCompliant
	}

	return res
}

// EvaluateDevice evaluates a device's configuration and stamps its identity.
func (e *Engine) EvaluateDevice(id models.DeviceIdentity, configText string) *Result {
	res := e.Evaluate(id.Profile, configText)
	res.Device = id

	return res
}
