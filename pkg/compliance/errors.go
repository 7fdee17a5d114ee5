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

// Package compliance scores configuration text against severity-weighted rules.
package compliance

import "errors"

var (
	ErrNoRuleSets        = errors.New("rule definitions are empty")
	ErrInvalidRule       = errors.New("invalid rule")
	ErrUnknownSeverity   = errors.New("unknown severity")
	ErrUnknownOperator   = errors.New("unknown predicate operator")
	ErrInvalidPattern    = errors.New("invalid pattern")
	ErrDuplicateRuleName = errors.New("duplicate rule name")
)
