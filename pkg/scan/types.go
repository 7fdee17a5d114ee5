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

// Package scan probes device reachability ahead of a fleet run.
package scan

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownMethod      = errors.New("unknown probe method")
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
	ErrRangeTooLarge      = errors.New("address range too large")
	ErrNoReply            = errors.New("no reply")
	errNotIPv4            = errors.New("host has no IPv4 address")
)

// Method selects how reachability is probed.
type Method string

const (
	MethodICMP Method = "icmp"
	MethodTCP  Method = "tcp"
)

// ParseMethod accepts "icmp" or "tcp".
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodICMP, MethodTCP:
		return Method(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Result is the outcome of probing one host.
type Result struct {
	Host      string        `json:"host"`
	Method    Method        `json:"method"`
	Port      int           `json:"port,omitempty"`
	Reachable bool          `json:"reachable"`
	RTT       time.Duration `json:"rtt"`
	Error     string        `json:"error,omitempty"`
}
