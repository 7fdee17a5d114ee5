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
	"context"
	"fmt"
	"log"

	"github.com/mfreeman451/netstate/pkg/models"
)

// Connector opens facades using registered transports and a credential source.
type Connector struct {
	transports  Registry
	credentials CredentialSource
}

var _ Opener = (*Connector)(nil)

func NewConnector(transports Registry, credentials CredentialSource) *Connector {
	return &Connector{
		transports:  transports,
		credentials: credentials,
	}
}

// Open resolves credentials and opens the primary session, plus an SNMP
// session when the descriptor asks for one. A failed SNMP session is logged
// and the facade falls back to CLI parsing.
func (c *Connector) Open(ctx context.Context, desc *models.DeviceDescriptor) (Device, error) {
	id := desc.Identity()

	creds, err := c.credentials.Lookup(desc.CredentialRef)
	if err != nil {
		return nil, NewError(id, "resolve credentials", err)
	}

	name := desc.Transport
	if name == "" {
		name = TransportSSH
	}

	transport, err := c.transports.Get(name)
	if err != nil {
		return nil, NewError(id, "open session", fmt.Errorf("%w: %w", ErrUnsupportedDevice, err))
	}

	target := Target{
		Identity:    id,
		Address:     desc.Address,
		Port:        desc.Port,
		Credentials: creds,
		SNMP:        desc.SNMP,
	}

	session, err := transport.Open(ctx, target)
	if err != nil {
		return nil, NewError(id, "open session", err)
	}

	var aux Session

	if desc.SNMP != nil && name != TransportSNMP {
		aux = c.openAux(ctx, target)
	}

	return NewFacade(id, session, aux), nil
}

func (c *Connector) openAux(ctx context.Context, target Target) Session {
	transport, err := c.transports.Get(TransportSNMP)
	if err != nil {
		log.Printf("Device %s: %v", target.Address, err)
		return nil
	}

	target.Port = int(target.SNMP.Port)

	session, err := transport.Open(ctx, target)
	if err != nil {
		log.Printf("Device %s: SNMP session failed: %v", target.Address, err)
		return nil
	}

	if _, ok := session.(OIDGetter); !ok {
		log.Printf("Device %s: %v", target.Address, errNoOIDSupport)

		_ = session.Close()

		return nil
	}

	return session
}

// WithDevice opens a device, runs fn and always closes the device, including
// when fn panics or ctx is cancelled.
func WithDevice(ctx context.Context, opener Opener, desc *models.DeviceDescriptor, fn func(Device) error) error {
	dev, err := opener.Open(ctx, desc)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := dev.Close(); closeErr != nil {
			log.Printf("Device %s: failed to close session: %v", desc.Address, closeErr)
		}
	}()

	if err := ctx.Err(); err != nil {
		return NewError(desc.Identity(), "open session", err)
	}

	return fn(dev)
}
