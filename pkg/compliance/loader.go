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
	"github.com/mfreeman451/netstate/pkg/config"
)

// LoadRules reads and validates a rule definitions file (JSON or YAML).
func LoadRules(path string) (RuleSets, error) {
	var rs RuleSets

	if err := config.LoadAndValidate(path, &rs); err != nil {
		return nil, err
	}

	return rs, nil
}

// LoadEngine reads a rule definitions file and compiles an Engine from it.
func LoadEngine(path string) (*Engine, error) {
	rs, err := LoadRules(path)
	if err != nil {
		return nil, err
	}

	return NewEngine(rs)
}
