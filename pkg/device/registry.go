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
	"fmt"
	"sync"
)

// Transport names. SSH is the default.
const (
	TransportSSH  = "ssh"
	TransportSNMP = "snmp"
)

// Registry stores transports by name.
type Registry interface {
	Register(name string, transport Transport)
	Get(name string) (Transport, error)
}

type transportRegistry struct {
	mu         sync.RWMutex
	transports map[string]Transport
}

func NewRegistry() Registry {
	return &transportRegistry{
		transports: make(map[string]Transport),
	}
}

func (r *transportRegistry) Register(name string, transport Transport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transports[name] = transport
}

func (r *transportRegistry) Get(name string) (Transport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoTransport, name)
	}

	return t, nil
}
