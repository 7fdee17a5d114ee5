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
	"bufio"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reCPUFiveSeconds = regexp.MustCompile(`(?i)CPU utilization for (?:five|5) seconds\s*[:=]\s*(\d+(?:\.\d+)?)%`)
	reCPUIdleSuffix  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%?\s*(?:idle|id)\b`)
	reCPUIdlePrefix  = regexp.MustCompile(`(?i)\bidle\s+(\d+(?:\.\d+)?)\s*percent`)
	reCPUInLast      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)%\s+in last 5 seconds`)
	reCPUBusy        = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*percent busy`)

	reMemNXOS      = regexp.MustCompile(`(?i)Memory usage:\s*(\d+)K total,\s*(\d+)K used`)
	reMemPercent   = regexp.MustCompile(`(?i)Memory utilization\s+(\d+(?:\.\d+)?)\s*percent`)
	reMemEOSTotal  = regexp.MustCompile(`(?i)Total memory:\s*(\d+)\s*kB`)
	reMemEOSFree   = regexp.MustCompile(`(?i)Free memory:\s*(\d+)\s*kB`)
	reMemXR        = regexp.MustCompile(`(?i)Physical Memory:\s*(\d+)M total \((\d+)M available\)`)
	reMemASA       = regexp.MustCompile(`(?i)Used memory:\s*\d+ bytes \(\s*(\d+)%\)`)
	reMemComware   = regexp.MustCompile(`(?im)^Mem:\s+(\d+)\s+(\d+)`)
	reMemTop       = regexp.MustCompile(`(?i)Mem\s*:\s*(\d+) total,\s*(\d+) free,\s*(\d+) used`)
	reMemProcessor = regexp.MustCompile(`(?m)^Processor\s+\S+\s+(\d+)\s+(\d+)`)

	reTemperature = regexp.MustCompile(`(?i)(-?\d+(?:\.\d+)?)\s*(?:degrees?\s*)?(?:C|Celsius)\b`)

	reNTPUnsynced = regexp.MustCompile(`(?i)\bun-?synchroni[sz]ed\b|\bunsync\b`)
	reNTPSynced   = regexp.MustCompile(`(?i)\bsynchroni[sz]ed\b|\bsync_ntp\b`)

	reNeighborLine = regexp.MustCompile(`^\s*(\d{1,3}(?:\.\d{1,3}){3})\s+\S`)

	reCounterHeader = regexp.MustCompile(`^(\S+) is (?:administratively )?(?:up|down)`)
	reInputErrors   = regexp.MustCompile(`(\d+) input errors`)
	reOutputErrors  = regexp.MustCompile(`(\d+) output errors`)

	reFactsUptime   = regexp.MustCompile(`(?m)^(\S+) uptime is (.+)$`)
	reFactsHostname = regexp.MustCompile(`(?mi)^\s*(?:host-?name|system name)\s*:\s*(\S+)`)
	reFactsVersion  = regexp.MustCompile(`(?mi)(?:^\s*(?:junos|sw-version|software revision)\s*:\s*|\bversion\s+)([\w.()\-]+)`)
	reFactsModel    = regexp.MustCompile(`(?mi)^\s*(?:model|hardware)\s*:\s*(\S+)|^cisco (\S+) .*processor`)
	reFactsSerial   = regexp.MustCompile(`(?mi)(?:processor board id|serial(?:\s*number|num)?\s*:)\s*(\S+)`)
	reFactsUpFor    = regexp.MustCompile(`(?mi)^\s*uptime\s*:\s*(.+)$`)
)

var rejectedPrefixes = []string{
	"% invalid",
	"% unknown",
	"% unrecognized",
	"% incomplete",
	"invalid input",
	"syntax error",
	"unknown command",
}

// commandRejected reports whether output is the device refusing a command.
func commandRejected(out string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(out))
	for _, prefix := range rejectedPrefixes {
		if strings.HasPrefix(trimmed, prefix) || strings.Contains(trimmed, "\n"+prefix) {
			return true
		}
	}

	return false
}

func parseErr(what string) error {
	return fmt.Errorf("%w: no %s found in output", ErrParse, what)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}

	return v
}

func percentInRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// parseCPU extracts a CPU utilization percentage.
func parseCPU(out string) (float64, error) {
	for _, re := range []*regexp.Regexp{reCPUFiveSeconds, reCPUInLast, reCPUBusy} {
		if m := re.FindStringSubmatch(out); m != nil {
			if v := parseFloat(m[1]); percentInRange(v) {
				return v, nil
			}
		}
	}

	for _, re := range []*regexp.Regexp{reCPUIdlePrefix, reCPUIdleSuffix} {
		if m := re.FindStringSubmatch(out); m != nil {
			if v := parseFloat(m[1]); percentInRange(v) {
				return round2(100 - v), nil
			}
		}
	}

	return 0, parseErr("cpu utilization")
}

// parseMemory extracts a memory utilization percentage.
func parseMemory(out string) (float64, error) {
	usedOf := func(used, total float64) (float64, error) {
		if math.IsNaN(used) || math.IsNaN(total) || total <= 0 || used < 0 || used > total {
			return 0, parseErr("memory totals")
		}

		return round2(used / total * 100), nil
	}

	if m := reMemPercent.FindStringSubmatch(out); m != nil {
		if v := parseFloat(m[1]); percentInRange(v) {
			return v, nil
		}
	}

	if m := reMemASA.FindStringSubmatch(out); m != nil {
		if v := parseFloat(m[1]); percentInRange(v) {
			return v, nil
		}
	}

	if m := reMemProcessor.FindStringSubmatch(out); m != nil {
		return usedOf(parseFloat(m[2]), parseFloat(m[1]))
	}

	if m := reMemNXOS.FindStringSubmatch(out); m != nil {
		return usedOf(parseFloat(m[2]), parseFloat(m[1]))
	}

	if m := reMemTop.FindStringSubmatch(out); m != nil {
		return usedOf(parseFloat(m[3]), parseFloat(m[1]))
	}

	if m := reMemComware.FindStringSubmatch(out); m != nil {
		return usedOf(parseFloat(m[2]), parseFloat(m[1]))
	}

	if m := reMemXR.FindStringSubmatch(out); m != nil {
		total, avail := parseFloat(m[1]), parseFloat(m[2])
		return usedOf(total-avail, total)
	}

	total, free := reMemEOSTotal.FindStringSubmatch(out), reMemEOSFree.FindStringSubmatch(out)
	if total != nil && free != nil {
		t, f := parseFloat(total[1]), parseFloat(free[1])
		return usedOf(t-f, t)
	}

	return 0, parseErr("memory utilization")
}

// parseTemperature returns the hottest sensor reading in Celsius.
func parseTemperature(out string) (float64, error) {
	matches := reTemperature.FindAllStringSubmatch(out, -1)

	hottest, found := math.Inf(-1), false

	for _, m := range matches {
		v := parseFloat(m[1])
		if math.IsNaN(v) {
			continue
		}

		found = true

		if v > hottest {
			hottest = v
		}
	}

	if !found {
		return 0, parseErr("temperature reading")
	}

	return hottest, nil
}

// parseNTP returns 1 when the clock is not synchronized and 0 when it is.
func parseNTP(out string) (float64, error) {
	if reNTPUnsynced.MatchString(out) {
		return 1, nil
	}

	if reNTPSynced.MatchString(out) {
		return 0, nil
	}

	sawAssociations := false

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.Contains(strings.ToLower(line), "remote") {
			sawAssociations = true
			continue
		}

		if strings.HasPrefix(line, "*") {
			return 0, nil
		}
	}

	if sawAssociations {
		return 1, nil
	}

	return 0, parseErr("ntp synchronization state")
}

// parseNeighbors reads a BGP summary table. The last column is either a
// prefix count for established sessions or the session state.
func parseNeighbors(out string) ([]Neighbor, error) {
	var neighbors []Neighbor

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()

		m := reNeighborLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		fields := strings.Fields(line)
		state := fields[len(fields)-1]

		established := strings.HasPrefix(strings.ToLower(state), "establ")
		if _, err := strconv.Atoi(state); err == nil {
			established = true
			state = "Established"
		}

		neighbors = append(neighbors, Neighbor{
			Address:     m[1],
			State:       state,
			Established: established,
		})
	}

	return neighbors, nil
}

// parseCounters sums input and output errors per interface from a detailed
// interface listing. Interfaces without counters are absent from the map.
func parseCounters(out string) map[string]uint64 {
	counters := make(map[string]uint64)

	var current string

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()

		if m := reCounterHeader.FindStringSubmatch(line); m != nil {
			current = m[1]
			continue
		}

		if current == "" {
			continue
		}

		for _, re := range []*regexp.Regexp{reInputErrors, reOutputErrors} {
			if m := re.FindStringSubmatch(line); m != nil {
				n, err := strconv.ParseUint(m[1], 10, 64)
				if err != nil {
					continue
				}

				counters[current] += n
			}
		}
	}

	return counters
}

type linkState int

const (
	stateNone linkState = iota
	stateUp
	stateDown
	stateAdminDown
)

func tokenState(tokens []string, i int) (linkState, int) {
	tok := strings.ToLower(tokens[i])

	switch {
	case tok == "up", strings.HasSuffix(tok, "/up"):
		return stateUp, 1
	case tok == "down", tok == "*down", strings.HasSuffix(tok, "/down"):
		return stateDown, 1
	case tok == "administratively" && i+1 < len(tokens) && strings.EqualFold(tokens[i+1], "down"):
		return stateAdminDown, 2
	case tok == "adm", tok == "admin", tok == "admindown", tok == "disabled":
		return stateAdminDown, 1
	}

	return stateNone, 1
}

func lineStates(tokens []string) []linkState {
	var states []linkState

	for i := 0; i < len(tokens); {
		st, n := tokenState(tokens, i)
		if st != stateNone {
			states = append(states, st)
		}

		i += n
	}

	return states
}

func isHeader(name string) bool {
	lower := strings.ToLower(name)

	return lower == "interface" || lower == "port" || lower == "name" || strings.HasPrefix(lower, "---")
}

// parseStatusProtocolTable reads tables where a status column is followed by
// a protocol column, as in "show ip interface brief".
func parseStatusProtocolTable(out string) ([]InterfaceRecord, error) {
	var records []InterfaceRecord

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || isHeader(fields[0]) {
			continue
		}

		states := lineStates(fields[1:])
		if len(states) == 0 {
			continue
		}

		rec := InterfaceRecord{Name: fields[0], AdminUp: true}

		for _, st := range states {
			if st == stateAdminDown {
				rec.AdminUp = false
			}
		}

		rec.OperUp = rec.AdminUp && states[len(states)-1] == stateUp
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, parseErr("interfaces")
	}

	return records, nil
}

// parseAdminLinkTable reads tables with explicit admin and link columns.
func parseAdminLinkTable(out string) ([]InterfaceRecord, error) {
	var records []InterfaceRecord

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || isHeader(fields[0]) {
			continue
		}

		admin, _ := tokenState(fields, 1)
		link, _ := tokenState(fields, 2)

		if admin == stateNone || link == stateNone {
			continue
		}

		records = append(records, InterfaceRecord{
			Name:    fields[0],
			AdminUp: admin == stateUp,
			OperUp:  admin == stateUp && link == stateUp,
		})
	}

	if len(records) == 0 {
		return nil, parseErr("interfaces")
	}

	return records, nil
}

// parseProcurveBrief reads "show interfaces brief" where columns after the
// pipe are intrusion alert, enabled and status.
func parseProcurveBrief(out string) ([]InterfaceRecord, error) {
	var records []InterfaceRecord

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()

		left, right, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}

		name := strings.Fields(left)
		cols := strings.Fields(right)

		if len(name) == 0 || len(cols) < 3 || isHeader(name[0]) {
			continue
		}

		enabled := strings.EqualFold(cols[1], "yes")
		status, _ := tokenState(cols, 2)

		if status == stateNone {
			continue
		}

		records = append(records, InterfaceRecord{
			Name:    name[0],
			AdminUp: enabled,
			OperUp:  enabled && status == stateUp,
		})
	}

	if len(records) == 0 {
		return nil, parseErr("interfaces")
	}

	return records, nil
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}

	return ""
}

// parseFacts pulls what it can from version output. Missing fields stay empty.
func parseFacts(out string) (*Facts, error) {
	if strings.TrimSpace(out) == "" {
		return nil, parseErr("facts")
	}

	facts := &Facts{}

	if m := reFactsUptime.FindStringSubmatch(out); m != nil {
		facts.Hostname = m[1]
		facts.Uptime = strings.TrimSpace(m[2])
	}

	if m := reFactsHostname.FindStringSubmatch(out); m != nil && facts.Hostname == "" {
		facts.Hostname = m[1]
	}

	if m := reFactsUpFor.FindStringSubmatch(out); m != nil && facts.Uptime == "" {
		facts.Uptime = strings.TrimSpace(m[1])
	}

	if m := reFactsVersion.FindStringSubmatch(out); m != nil {
		facts.Version = strings.TrimRight(m[1], ",")
	}

	if m := reFactsModel.FindStringSubmatch(out); m != nil {
		facts.Model = firstGroup(m)
	}

	if m := reFactsSerial.FindStringSubmatch(out); m != nil {
		facts.Serial = m[1]
	}

	return facts, nil
}
