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

package snmp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/mfreeman451/netstate/pkg/device"
)

const (
	defaultPort    = 161
	defaultTimeout = 5 * time.Second
	defaultRetries = 2

	Version1  = "v1"
	Version2c = "v2c"
)

// Transport opens SNMP sessions. The credential community string is used
// for authentication.
type Transport struct {
	Timeout time.Duration
	Retries int
}

var _ device.Transport = (*Transport)(nil)

func NewTransport() *Transport {
	return &Transport{Timeout: defaultTimeout, Retries: defaultRetries}
}

// SNMPError wraps SNMP-specific errors with additional context.
type SNMPError struct {
	Op      string
	Target  string
	Wrapped error
}

func (e *SNMPError) Error() string {
	return fmt.Sprintf("SNMP %s failed for target %s: %v", e.Op, e.Target, e.Wrapped)
}

func (e *SNMPError) Unwrap() error {
	return e.Wrapped
}

// Session is a connected SNMP client. It implements device.OIDGetter.
type Session struct {
	client *gosnmp.GoSNMP
	host   string
	mu     sync.Mutex
}

var (
	_ device.Session   = (*Session)(nil)
	_ device.OIDGetter = (*Session)(nil)
)

func (t *Transport) Open(ctx context.Context, target device.Target) (device.Session, error) {
	client, err := t.newClient(target)
	if err != nil {
		return nil, err
	}

	client.Context = ctx

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %w", device.ErrConnectivity, &SNMPError{Op: "connect", Target: target.Address, Wrapped: err})
	}

	return &Session{client: client, host: target.Address}, nil
}

func (t *Transport) newClient(target device.Target) (*gosnmp.GoSNMP, error) {
	if target.Credentials.Community == "" {
		return nil, fmt.Errorf("%w: %w", device.ErrAuthentication, ErrNoCommunity)
	}

	port := target.Port
	if port == 0 {
		port = defaultPort
	}

	client := &gosnmp.GoSNMP{
		Target:             target.Address,
		Port:               uint16(port), //nolint:gosec // ports are validated by the inventory
		Community:          target.Credentials.Community,
		Timeout:            t.Timeout,
		Retries:            t.Retries,
		ExponentialTimeout: true,
		MaxOids:            gosnmp.MaxOids,
	}

	version := Version2c
	if target.SNMP != nil && target.SNMP.Version != "" {
		version = target.SNMP.Version
	}

	switch version {
	case Version1:
		client.Version = gosnmp.Version1
	case Version2c:
		client.Version = gosnmp.Version2c
	default:
		return nil, fmt.Errorf("%w: %w: %s", device.ErrUnsupportedDevice, ErrUnsupportedVersion, version)
	}

	return client, nil
}

// Execute always fails. CLI output must come from a CLI transport.
func (*Session) Execute(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %w", device.ErrUnsupportedDevice, ErrNoCLI)
}

// GetOIDs fetches oids in chunks of gosnmp.MaxOids. Keys in the result are the
// OIDs as requested, without a leading dot.
func (s *Session) GetOIDs(ctx context.Context, oids []string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.client.Context = ctx

	results := make(map[string]interface{}, len(oids))

	for i := 0; i < len(oids); i += gosnmp.MaxOids {
		end := i + gosnmp.MaxOids
		if end > len(oids) {
			end = len(oids)
		}

		packet, err := s.client.Get(oids[i:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", device.ErrConnectivity, &SNMPError{Op: "get", Target: s.host, Wrapped: err})
		}

		for _, variable := range packet.Variables {
			value, err := convertVariable(variable)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", device.ErrParse, &SNMPError{Op: "convert", Target: s.host, Wrapped: err})
			}

			results[trimDot(variable.Name)] = value
		}
	}

	return results, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil || s.client.Conn == nil {
		return nil
	}

	err := s.client.Conn.Close()
	s.client.Conn = nil

	return err
}

func trimDot(oid string) string {
	if len(oid) > 0 && oid[0] == '.' {
		return oid[1:]
	}

	return oid
}

// convertVariable converts an SNMP variable to the appropriate Go type.
func convertVariable(variable gosnmp.SnmpPDU) (interface{}, error) {
	switch variable.Type {
	case gosnmp.NoSuchObject:
		return nil, ErrSNMPNoSuchObject
	case gosnmp.NoSuchInstance:
		return nil, ErrSNMPNoSuchInstance
	case gosnmp.EndOfMibView:
		return nil, ErrSNMPEndOfMibView
	case gosnmp.OctetString:
		if b, ok := variable.Value.([]byte); ok {
			return string(b), nil
		}
	case gosnmp.Integer:
		if v, ok := variable.Value.(int); ok {
			return v, nil
		}
	case gosnmp.Counter32, gosnmp.Gauge32:
		if v, ok := variable.Value.(uint); ok {
			return uint64(v), nil
		}
	case gosnmp.Uinteger32:
		if v, ok := variable.Value.(uint32); ok {
			return uint64(v), nil
		}
	case gosnmp.Counter64:
		if v, ok := variable.Value.(uint64); ok {
			return v, nil
		}
	case gosnmp.TimeTicks:
		if v, ok := variable.Value.(uint32); ok {
			return time.Duration(v) * time.Second / 100, nil
		}
	case gosnmp.OpaqueFloat:
		if v, ok := variable.Value.(float32); ok {
			return float64(v), nil
		}
	case gosnmp.OpaqueDouble:
		if v, ok := variable.Value.(float64); ok {
			return v, nil
		}
	case gosnmp.IPAddress, gosnmp.ObjectIdentifier:
		if v, ok := variable.Value.(string); ok {
			return v, nil
		}
	}

	return nil, fmt.Errorf("%w: %v (%T)", ErrUnsupportedSNMPType, variable.Type, variable.Value)
}
