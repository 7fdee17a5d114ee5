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

// OIDs are the SNMP objects polled for a profile. Empty entries are skipped.
type OIDs struct {
	CPU           string
	MemoryPercent string
	MemoryUsed    string
	MemoryFree    string
	Temperature   string
}

// Profile carries the commands and parsers for one vendor profile. An empty
// command means the profile has no mapping for that capability.
type Profile struct {
	Name models.VendorProfile

	ConfigCommand      string
	FactsCommand       string
	CPUCommand         string
	MemoryCommand      string
	TemperatureCommand string
	InterfacesCommand  string
	CountersCommand    string
	NeighborsCommand   string
	NTPCommand         string

	ParseInterfaces func(string) ([]InterfaceRecord, error)
	SNMP            OIDs
}

const (
	oidHostCPULoad        = "1.3.6.1.2.1.25.3.3.1.2.1"
	oidCiscoCPU5Min       = "1.3.6.1.4.1.9.9.109.1.1.1.1.8.1"
	oidCiscoMemPoolUsed   = "1.3.6.1.4.1.9.9.48.1.1.1.5.1"
	oidCiscoMemPoolFree   = "1.3.6.1.4.1.9.9.48.1.1.1.6.1"
	oidCiscoEnvTemp       = "1.3.6.1.4.1.9.9.13.1.3.1.3.1"
	oidJuniperREcpu       = "1.3.6.1.4.1.2636.3.1.13.1.8.9.1.0.0"
	oidJuniperREbuffer    = "1.3.6.1.4.1.2636.3.1.13.1.11.9.1.0.0"
	oidJuniperREtemp      = "1.3.6.1.4.1.2636.3.1.13.1.7.9.1.0.0"
	showRunningConfig     = "show running-config"
	showVersion           = "show version"
	showIPInterfaceBrief  = "show ip interface brief"
	showInterfaces        = "show interfaces"
	showIPBGPSummary      = "show ip bgp summary"
	showNTPStatus         = "show ntp status"
	showProcessesCPU      = "show processes cpu"
	showMemoryStatistics  = "show memory statistics"
	showEnvironmentTemp   = "show environment temperature"
	displayCurrentConfig  = "display current-configuration"
	displayVersion        = "display version"
	displayInterfaceBrief = "display interface brief"
)

var ciscoOIDs = OIDs{
	CPU:         oidCiscoCPU5Min,
	MemoryUsed:  oidCiscoMemPoolUsed,
	MemoryFree:  oidCiscoMemPoolFree,
	Temperature: oidCiscoEnvTemp,
}

var profiles = map[models.VendorProfile]*Profile{
	models.ProfileCiscoIOS: {
		ConfigCommand:      showRunningConfig,
		FactsCommand:       showVersion,
		CPUCommand:         showProcessesCPU,
		MemoryCommand:      showMemoryStatistics,
		TemperatureCommand: showEnvironmentTemp,
		InterfacesCommand:  showIPInterfaceBrief,
		CountersCommand:    showInterfaces,
		NeighborsCommand:   showIPBGPSummary,
		NTPCommand:         showNTPStatus,
		ParseInterfaces:    parseStatusProtocolTable,
		SNMP:               ciscoOIDs,
	},
	models.ProfileCiscoNXOS: {
		ConfigCommand:      showRunningConfig,
		FactsCommand:       showVersion,
		CPUCommand:         "show system resources",
		MemoryCommand:      "show system resources",
		TemperatureCommand: "show environment temperature",
		InterfacesCommand:  "show interface brief",
		CountersCommand:    showInterfaces,
		NeighborsCommand:   showIPBGPSummary,
		NTPCommand:         "show ntp peer-status",
		ParseInterfaces:    parseStatusProtocolTable,
		SNMP:               ciscoOIDs,
	},
	models.ProfileCiscoXR: {
		ConfigCommand:      showRunningConfig,
		FactsCommand:       showVersion,
		CPUCommand:         showProcessesCPU,
		MemoryCommand:      "show memory summary",
		TemperatureCommand: "admin show environment temperatures",
		InterfacesCommand:  "show ipv4 interface brief",
		CountersCommand:    showInterfaces,
		NeighborsCommand:   "show bgp summary",
		NTPCommand:         showNTPStatus,
		ParseInterfaces:    parseStatusProtocolTable,
		SNMP:               ciscoOIDs,
	},
	models.ProfileCiscoASA: {
		ConfigCommand:     showRunningConfig,
		FactsCommand:      showVersion,
		CPUCommand:        "show cpu usage",
		MemoryCommand:     "show memory",
		InterfacesCommand: showIPInterfaceBrief,
		CountersCommand:   showInterfaces,
		NeighborsCommand:  "show bgp summary",
		NTPCommand:        showNTPStatus,
		ParseInterfaces:   parseStatusProtocolTable,
		SNMP:              OIDs{CPU: oidCiscoCPU5Min, MemoryUsed: oidCiscoMemPoolUsed, MemoryFree: oidCiscoMemPoolFree},
	},
	models.ProfileAristaEOS: {
		ConfigCommand:      showRunningConfig,
		FactsCommand:       showVersion,
		CPUCommand:         "show processes top once",
		MemoryCommand:      showVersion,
		TemperatureCommand: "show environment temperature",
		InterfacesCommand:  showIPInterfaceBrief,
		CountersCommand:    showInterfaces,
		NeighborsCommand:   showIPBGPSummary,
		NTPCommand:         showNTPStatus,
		ParseInterfaces:    parseStatusProtocolTable,
		SNMP:               OIDs{CPU: oidHostCPULoad},
	},
	models.ProfileJuniperJunos: {
		ConfigCommand:      "show configuration | display set",
		FactsCommand:       showVersion,
		CPUCommand:         "show chassis routing-engine",
		MemoryCommand:      "show chassis routing-engine",
		TemperatureCommand: "show chassis environment",
		InterfacesCommand:  "show interfaces terse",
		NeighborsCommand:   "show bgp summary",
		NTPCommand:         "show ntp associations",
		ParseInterfaces:    parseAdminLinkTable,
		SNMP:               OIDs{
			CPU:           oidJuniperREcpu,
			MemoryPercent: oidJuniperREbuffer,
			Temperature:   oidJuniperREtemp,
		},
	},
	models.ProfileHPComware: {
		ConfigCommand:     displayCurrentConfig,
		FactsCommand:      displayVersion,
		CPUCommand:        "display cpu-usage",
		MemoryCommand:     "display memory",
		InterfacesCommand: displayInterfaceBrief,
		NeighborsCommand:  "display bgp peer",
		NTPCommand:        "display ntp-service status",
		ParseInterfaces:   parseStatusProtocolTable,
		SNMP:              OIDs{CPU: oidHostCPULoad},
	},
	models.ProfileHPProcurve: {
		ConfigCommand:     showRunningConfig,
		FactsCommand:      "show system",
		CPUCommand:        "show cpu",
		MemoryCommand:     "show system",
		InterfacesCommand: "show interfaces brief",
		NTPCommand:        "show ntp status",
		ParseInterfaces:   parseProcurveBrief,
		SNMP:              OIDs{CPU: oidHostCPULoad},
	},
	models.ProfileDellForce10: {
		ConfigCommand:     showRunningConfig,
		FactsCommand:      showVersion,
		CPUCommand:        "show processes cpu summary",
		MemoryCommand:     "show processes memory summary",
		InterfacesCommand: showIPInterfaceBrief,
		CountersCommand:   showInterfaces,
		NeighborsCommand:  showIPBGPSummary,
		NTPCommand:        showNTPStatus,
		ParseInterfaces:   parseStatusProtocolTable,
		SNMP:              OIDs{CPU: oidHostCPULoad},
	},
	models.ProfilePaloAltoOS: {
		ConfigCommand:     "show config running",
		FactsCommand:      "show system info",
		CPUCommand:        "show system resources",
		MemoryCommand:     "show system resources",
		InterfacesCommand: "show interface all",
		NeighborsCommand:  "show routing protocol bgp summary",
		NTPCommand:        "show ntp",
		ParseInterfaces:   parseStatusProtocolTable,
		SNMP:              OIDs{CPU: oidHostCPULoad},
	},
	models.ProfileGeneric: {
		ConfigCommand:     showRunningConfig,
		FactsCommand:      showVersion,
		InterfacesCommand: showIPInterfaceBrief,
		ParseInterfaces:   parseStatusProtocolTable,
		SNMP:              OIDs{CPU: oidHostCPULoad},
	},
}

func init() {
	for name, p := range profiles {
		p.Name = name
	}
}

// LookupProfile returns the command table for a vendor profile. The boolean
// is false when the profile has no table and the generic one was returned.
func LookupProfile(p models.VendorProfile) (*Profile, bool) {
	if prof, ok := profiles[p]; ok {
		return prof, true
	}

	return profiles[models.ProfileGeneric], false
}

// ConfigCommand is the backup command for a profile.
func ConfigCommand(p models.VendorProfile) string {
	prof, _ := LookupProfile(p)

	return prof.ConfigCommand
}
