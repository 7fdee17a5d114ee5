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

package device

import (
	"github.com/mfreeman451/netstate/pkg/models"
)

// Credentials are opaque to the engine and only read by transports.
type Credentials struct {
	Username  string
	Password  string
	KeyFile   string
	Community string
}

// Target is everything a transport needs to open a session.
type Target struct {
	Identity    models.DeviceIdentity
	Address     string
	Port        int
	Credentials Credentials
	SNMP        *models.SNMPTarget
}

// Facts describes a device's platform.
type Facts struct {
	Hostname string `json:"hostname,omitempty"`
	Model    string `json:"model,omitempty"`
	Version  string `json:"version,omitempty"`
	Serial   string `json:"serial,omitempty"`
	Uptime   string `json:"uptime,omitempty"`
}

// InterfaceRecord is one row of interface status. A nil Errors means the
// device did not report error counters for the interface.
type InterfaceRecord struct {
	Name    string  `json:"name"`
	AdminUp bool    `json:"admin_up"`
	OperUp  bool    `json:"oper_up"`
	Errors  *uint64 `json:"errors,omitempty"`
}

// Down reports whether the interface is enabled but not passing traffic.
func (r InterfaceRecord) Down() bool {
	return r.AdminUp && !r.OperUp
}

// Neighbor is one routing adjacency.
type Neighbor struct {
	Address     string `json:"address"`
	State       string `json:"state"`
	Established bool   `json:"established"`
}
