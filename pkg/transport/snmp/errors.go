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

// Package snmp opens structured SNMP query sessions to network devices.
package snmp

import "errors"

var (
	ErrSNMPNoSuchObject    = errors.New("SNMP NoSuchObject")
	ErrSNMPNoSuchInstance  = errors.New("SNMP NoSuchInstance")
	ErrSNMPEndOfMibView    = errors.New("SNMP EndOfMibView")
	ErrUnsupportedSNMPType = errors.New("unsupported SNMP type")
	ErrUnsupportedVersion  = errors.New("unsupported SNMP version")
	ErrNoCommunity         = errors.New("SNMP community is required")
	ErrNoCLI               = errors.New("SNMP sessions do not run CLI commands")
)
