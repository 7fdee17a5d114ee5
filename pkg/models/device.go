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

// Package models pkg/models/device.go
package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownVendorProfile = errors.New("unknown vendor profile")
	ErrAddressRequired      = errors.New("device address is required")
)

// VendorProfile identifies a device's command dialect and output format family.
type VendorProfile string

const (
	ProfileCiscoIOS     VendorProfile = "cisco_ios"
	ProfileCiscoNXOS    VendorProfile = "cisco_nxos"
	ProfileCiscoXR      VendorProfile = "cisco_xr"
	ProfileCiscoASA     VendorProfile = "cisco_asa"
	ProfileAristaEOS    VendorProfile = "arista_eos"
	ProfileJuniperJunos VendorProfile = "juniper_junos"
	ProfileHPComware    VendorProfile = "hp_comware"
	ProfileHPProcurve   VendorProfile = "hp_procurve"
	ProfileDellForce10  VendorProfile = "dell_force10"
	ProfilePaloAltoOS   VendorProfile = "paloalto_panos"
	ProfileGeneric      VendorProfile = "generic"
)

// VendorProfiles lists every supported profile.
var VendorProfiles = []VendorProfile{
	ProfileCiscoIOS,
	ProfileCiscoNXOS,
	ProfileCiscoXR,
	ProfileCiscoASA,
	ProfileAristaEOS,
	ProfileJuniperJunos,
	ProfileHPComware,
	ProfileHPProcurve,
	ProfileDellForce10,
	ProfilePaloAltoOS,
	ProfileGeneric,
}

var profileAliases = map[string]VendorProfile{
	"juniper": ProfileJuniperJunos,
	"junos":   ProfileJuniperJunos,
	"ios":     ProfileCiscoIOS,
	"nxos":    ProfileCiscoNXOS,
	"eos":     ProfileAristaEOS,
	"panos":   ProfilePaloAltoOS,
}

// ParseVendorProfile resolves a profile name or one of its aliases.
func ParseVendorProfile(s string) (VendorProfile, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	for _, p := range VendorProfiles {
		if string(p) == name {
			return p, nil
		}
	}

	if p, ok := profileAliases[name]; ok {
		return p, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownVendorProfile, s)
}

// Valid reports whether p is one of the supported profiles.
func (p VendorProfile) Valid() bool {
	for _, known := range VendorProfiles {
		if p == known {
			return true
		}
	}

	return false
}

// UnmarshalText lets profiles be decoded from JSON and YAML with alias support.
func (p *VendorProfile) UnmarshalText(text []byte) error {
	parsed, err := ParseVendorProfile(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// DeviceIdentity is the stable key for a device.
type DeviceIdentity struct {
	Address string        `json:"address"`
	Profile VendorProfile `json:"vendor_profile"`
}

// Key returns the storage key for the identity.
func (d DeviceIdentity) Key() string {
	return string(d.Profile) + "/" + d.Address
}

func (d DeviceIdentity) String() string {
	return fmt.Sprintf("%s (%s)", d.Address, d.Profile)
}

// SNMPTarget enables structured metric polling for a device.
type SNMPTarget struct {
	Port    uint16 `json:"port,omitempty" yaml:"port,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"` // v1, v2c
}

// DeviceDescriptor is one inventory entry handed to the engine.
type DeviceDescriptor struct {
	Address       string        `json:"address" yaml:"address"`
	Profile       VendorProfile `json:"vendor_profile" yaml:"vendor_profile"`
	CredentialRef string        `json:"credential_ref,omitempty" yaml:"credential_ref,omitempty"`
	Transport     string        `json:"transport,omitempty" yaml:"transport,omitempty"` // defaults to ssh
	Port          int           `json:"port,omitempty" yaml:"port,omitempty"`
	SNMP          *SNMPTarget   `json:"snmp,omitempty" yaml:"snmp,omitempty"`
}

// Identity returns the device's stable key.
func (d *DeviceDescriptor) Identity() DeviceIdentity {
	return DeviceIdentity{Address: d.Address, Profile: d.Profile}
}

// Validate implements config.Validator.
func (d *DeviceDescriptor) Validate() error {
	if strings.TrimSpace(d.Address) == "" {
		return ErrAddressRequired
	}

	if !d.Profile.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownVendorProfile, d.Profile)
	}

	return nil
}

// Inventory is the device list produced by inventory loading.
type Inventory struct {
	Devices []DeviceDescriptor `json:"devices" yaml:"devices"`
}

// Validate implements config.Validator.
func (i *Inventory) Validate() error {
	for idx := range i.Devices {
		if err := i.Devices[idx].Validate(); err != nil {
			return fmt.Errorf("device %d: %w", idx+1, err)
		}
	}

	return nil
}
