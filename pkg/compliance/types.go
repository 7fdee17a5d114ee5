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
	"strings"
	"time"

	"github.com/mfreeman451/netstate/pkg/models"
)

// Severity of a compliance rule.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severityWeights = map[Severity]int{
	SeverityCritical: 10,
	SeverityHigh:     5,
	SeverityMedium:   3,
	SeverityLow:      1,
}

// Weight is the fixed score weight for a severity.
func (s Severity) Weight() int {
	return severityWeights[s]
}

func (s Severity) Valid() bool {
	_, ok := severityWeights[s]

	return ok
}

// UnmarshalText accepts severities in any case.
func (s *Severity) UnmarshalText(text []byte) error {
	v := Severity(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSeverity, text)
	}

	*s = v

	return nil
}

// Status is the compliance class derived from a percentage.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusPartial      Status = "partial"
	StatusNonCompliant Status = "non-compliant"
)

const (
	compliantAt = 90.0
	partialAt   = 70.0
)

// StatusFor classifies a percentage: >= 90 compliant, >= 70 partial,
// anything lower non-compliant.
func StatusFor(percentage float64) Status {
	switch {
	case percentage >= compliantAt:
		return StatusCompliant
	case percentage >= partialAt:
		return StatusPartial
	default:
		return StatusNonCompliant
	}
}

// Op is a predicate operation.
type Op string

const (
	OpContains    Op = "contains"
	OpNotContains Op = "not_contains"
	OpMatches     Op = "matches"
	OpNotMatches  Op = "not_matches"
	OpAll         Op = "all"
	OpAny         Op = "any"
)

// Predicate is a serializable test over configuration text. Leaf operations
// use Pattern; all and any combine Predicates.
type Predicate struct {
	Op         Op          `json:"op" yaml:"op"`
	Pattern    string      `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	IgnoreCase bool        `json:"ignore_case,omitempty" yaml:"ignore_case,omitempty"`
	Predicates []Predicate `json:"predicates,omitempty" yaml:"predicates,omitempty"`
}

// Rule is a named, severity-weighted predicate.
type Rule struct {
	Name            string    `json:"name" yaml:"name"`
	Description     string    `json:"description,omitempty" yaml:"description,omitempty"`
	Severity        Severity  `json:"severity" yaml:"severity"`
	RequiredForPass bool      `json:"required_for_pass,omitempty" yaml:"required_for_pass,omitempty"`
	Predicate       Predicate `json:"predicate" yaml:"predicate"`
}

// RuleSets maps a vendor profile to its ordered rules.
type RuleSets map[models.VendorProfile][]Rule

// RuleOutcome is the result of one rule.
type RuleOutcome struct {
	Rule            string   `json:"rule"`
	Severity        Severity `json:"severity"`
	RequiredForPass bool     `json:"required_for_pass,omitempty"`
	Passed          bool     `json:"passed"`
}

// Result is the scored outcome of evaluating one configuration.
type Result struct {
	Device            models.DeviceIdentity `json:"device"`
	EvaluatedAt       time.Time             `json:"evaluated_at"`
	Outcomes          []RuleOutcome         `json:"outcomes"`
	ScoreEarned       int                   `json:"score_earned"`
	ScoreMax          int                   `json:"score_max"`
	Percentage        float64               `json:"percentage"`
	Status            Status                `json:"status"`
	NoRulesApplicable bool                  `json:"no_rules_applicable,omitempty"`
	RequiredFailures  []string              `json:"required_failures,omitempty"`
}

// Failed returns the names of rules that did not pass.
func (r *Result) Failed() []string {
	var failed []string

	for _, o := range r.Outcomes {
		if !o.Passed {
			failed = append(failed, o.Rule)
		}
	}

	return failed
}
