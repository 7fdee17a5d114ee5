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

//go:generate mockgen -destination=mock_device.go -package=device github.com/mfreeman451/netstate/pkg/device Transport,Session,OIDGetter,CredentialSource,Device,Opener

import (
	"context"

	"github.com/mfreeman451/netstate/pkg/models"
)

// Transport opens management sessions to devices.
type Transport interface {
	Open(ctx context.Context, target Target) (Session, error)
}

// Session executes CLI commands against one device.
type Session interface {
	Execute(ctx context.Context, command string) (string, error)
	Close() error
}

// OIDGetter is implemented by sessions that answer structured OID queries.
type OIDGetter interface {
	GetOIDs(ctx context.Context, oids []string) (map[string]interface{}, error)
}

// CredentialSource resolves a credential reference into secrets.
type CredentialSource interface {
	Lookup(ref string) (Credentials, error)
}

// Device is the uniform capability surface over any device backend.
type Device interface {
	Identity() models.DeviceIdentity
	FetchConfig(ctx context.Context) (string, error)
	FetchFacts(ctx context.Context) (*Facts, error)
	FetchMetrics(ctx context.Context) ([]models.MetricSample, error)
	FetchInterfaceStatus(ctx context.Context) ([]InterfaceRecord, error)
	FetchRoutingNeighbors(ctx context.Context) ([]Neighbor, error)
	Close() error
}

// Opener acquires a Device for a descriptor.
type Opener interface {
	Open(ctx context.Context, desc *models.DeviceDescriptor) (Device, error)
}
