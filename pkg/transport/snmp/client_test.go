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
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/netstate/pkg/device"
	"github.com/mfreeman451/netstate/pkg/models"
)

func TestConvertVariable(t *testing.T) {
	tests := []struct {
		name    string
		pdu     gosnmp.SnmpPDU
		want    interface{}
		wantErr error
	}{
		{name: "integer", pdu: gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: 42}, want: 42},
		{name: "gauge", pdu: gosnmp.SnmpPDU{Type: gosnmp.Gauge32, Value: uint(17)}, want: uint64(17)},
		{name: "counter64", pdu: gosnmp.SnmpPDU{Type: gosnmp.Counter64, Value: uint64(1 << 40)}, want: uint64(1 << 40)},
		{name: "string", pdu: gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("edge-rtr-01")}, want: "edge-rtr-01"},
		{name: "timeticks", pdu: gosnmp.SnmpPDU{Type: gosnmp.TimeTicks, Value: uint32(100)}, want: time.Second},
		{name: "no such instance", pdu: gosnmp.SnmpPDU{Type: gosnmp.NoSuchInstance}, wantErr: ErrSNMPNoSuchInstance},
		{name: "wrong go type", pdu: gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: "x"}, wantErr: ErrUnsupportedSNMPType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertVariable(tt.pdu)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClient(t *testing.T) {
	tr := NewTransport()

	base := device.Target{
		Identity:    models.DeviceIdentity{Address: "192.0.2.10", Profile: models.ProfileCiscoIOS},
		Address:     "192.0.2.10",
		Credentials: device.Credentials{Community: "monitor-ro"},
	}

	client, err := tr.newClient(base)
	require.NoError(t, err)
	assert.Equal(t, uint16(defaultPort), client.Port)
	assert.Equal(t, gosnmp.Version2c, client.Version)

	v1 := base
	v1.Port = 1161
	v1.SNMP = &models.SNMPTarget{Version: Version1}

	client, err = tr.newClient(v1)
	require.NoError(t, err)
	assert.Equal(t, uint16(1161), client.Port)
	assert.Equal(t, gosnmp.Version1, client.Version)

	v3 := base
	v3.SNMP = &models.SNMPTarget{Version: "v3"}

	_, err = tr.newClient(v3)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	assert.ErrorIs(t, err, device.ErrUnsupportedDevice)

	noCommunity := base
	noCommunity.Credentials = device.Credentials{}

	_, err = tr.newClient(noCommunity)
	assert.ErrorIs(t, err, device.ErrAuthentication)
}

func TestSessionDoesNotRunCLI(t *testing.T) {
	_, err := (&Session{}).Execute(context.Background(), "show version")
	assert.ErrorIs(t, err, device.ErrUnsupportedDevice)
	assert.NoError(t, (&Session{}).Close())
}

func TestTrimDot(t *testing.T) {
	assert.Equal(t, "1.3.6.1.2.1.1.3.0", trimDot(".1.3.6.1.2.1.1.3.0"))
	assert.Equal(t, "1.3.6.1.2.1.1.3.0", trimDot("1.3.6.1.2.1.1.3.0"))
}
