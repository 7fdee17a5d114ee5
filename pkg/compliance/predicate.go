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
	"regexp"
	"strings"
)

// matcher is a compiled predicate. Matchers are pure and total.
type matcher func(text string) bool

func (p *Predicate) compile() (matcher, error) {
	switch p.Op {
	case OpContains, OpNotContains:
		if p.Pattern == "" {
			return nil, fmt.Errorf("%w: %s needs a pattern", ErrInvalidRule, p.Op)
		}

		m := containsMatcher(p.Pattern, p.IgnoreCase)
		if p.Op == OpNotContains {
			return negate(m), nil
		}

		return m, nil
	case OpMatches, OpNotMatches:
		m, err := regexMatcher(p.Pattern, p.IgnoreCase)
		if err != nil {
			return nil, err
		}

		if p.Op == OpNotMatches {
			return negate(m), nil
		}

		return m, nil
	case OpAll, OpAny:
		return p.compileGroup()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, p.Op)
	}
}

func (p *Predicate) compileGroup() (matcher, error) {
	if len(p.Predicates) == 0 {
		return nil, fmt.Errorf("%w: %s needs at least one predicate", ErrInvalidRule, p.Op)
	}

	children := make([]matcher, 0, len(p.Predicates))

	for i := range p.Predicates {
		m, err := p.Predicates[i].compile()
		if err != nil {
			return nil, err
		}

		children = append(children, m)
	}

	if p.Op == OpAll {
		return func(text string) bool {
			for _, m := range children {
				if !m(text) {
					return false
				}
			}

			return true
		}, nil
	}

	return func(text string) bool {
		for _, m := range children {
			if m(text) {
				return true
			}
		}

		return false
	}, nil
}

func containsMatcher(pattern string, ignoreCase bool) matcher {
	if !ignoreCase {
		return func(text string) bool {
			return strings.Contains(text, pattern)
		}
	}

	lower := strings.ToLower(pattern)

	return func(text string) bool {
		return strings.Contains(strings.ToLower(text), lower)
	}
}

// regexMatcher compiles pattern in multi-line mode so ^ and $ anchor on
// configuration lines.
func regexMatcher(pattern string, ignoreCase bool) (matcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	flags := "(?m)"
	if ignoreCase {
		flags = "(?mi)"
	}

	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return re.MatchString, nil
}

func negate(m matcher) matcher {
	return func(text string) bool {
		return !m(text)
	}
}
