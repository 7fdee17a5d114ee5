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
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/netstate/pkg/models"
)

var (
	iosID   = models.DeviceIdentity{Address: "10.0.0.1", Profile: models.ProfileCiscoIOS}
	junosID = models.DeviceIdentity{Address: "10.0.0.2", Profile: models.ProfileJuniperJunos}
	fixedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newTestFacade(id models.DeviceIdentity, session, aux Session) *Facade {
	f := NewFacade(id, session, aux)
	f.now = func() time.Time { return fixedAt }

	return f
}

func sampleByName(t *testing.T, samples []models.MetricSample, name models.MetricName) models.MetricSample {
	t.Helper()

	for _, s := range samples {
		if s.Metric == name {
			return s
		}
	}

	t.Fatalf("metric %s not sampled", name)

	return models.MetricSample{}
}

func TestFetchConfig(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		execErr  error
		wantKind ErrorKind
	}{
		{name: "success", output: "hostname r1\n!\nip ssh version 2\n"},
		{name: "empty body", output: "   \n", wantKind: KindConnectivity},
		{name: "timeout", execErr: context.DeadlineExceeded, wantKind: KindConnectivity},
		{name: "auth rejected", execErr: fmt.Errorf("%w: permission denied", ErrAuthentication), wantKind: KindAuthentication},
		{name: "command rejected", output: "% Invalid input detected at '^' marker.", wantKind: KindUnsupportedDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			session := NewMockSession(ctrl)

			session.EXPECT().Execute(gomock.Any(), "show running-config").Return(tt.output, tt.execErr)

			got, err := newTestFacade(iosID, session, nil).FetchConfig(context.Background())
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))

				var de *Error
				require.ErrorAs(t, err, &de)
				assert.Equal(t, iosID, de.Device)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.output, got)
		})
	}
}

func TestFetchConfigUsesProfileCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := NewMockSession(ctrl)

	session.EXPECT().Execute(gomock.Any(), "show configuration | display set").Return("set system host-name r2", nil)

	got, err := newTestFacade(junosID, session, nil).FetchConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "set system host-name r2", got)
}

func TestFetchConfigUnknownProfileFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := NewMockSession(ctrl)

	id := models.DeviceIdentity{Address: "10.0.0.9", Profile: models.VendorProfile("mystery_os")}

	session.EXPECT().Execute(gomock.Any(), "show running-config").Return("hostname x", nil)

	got, err := newTestFacade(id, session, nil).FetchConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hostname x", got)
}

func TestFetchMetricsPartialResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := NewMockSession(ctrl)

	outputs := map[string]string{
		"show processes cpu":           "CPU utilization for five seconds: 95%/1%; one minute: 80%",
		"show memory statistics":       "could not read memory pools",
		"show environment temperature": "% Invalid input detected at '^' marker.",
		"show ntp status":              "Clock is synchronized, stratum 2",
		"show ip interface brief":      "Gi0/0  10.0.0.1  YES NVRAM  up  up\nGi0/1  unassigned  YES unset  up  down",
		"show interfaces":              "Gi0/0 is up, line protocol is up\n     7 input errors, 0 CRC\n     1 output errors\n",
		"show ip bgp summary":          "10.0.0.2  4  65001  10  10  1  0  0  never  Idle",
	}

	session.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd string) (string, error) {
			out, ok := outputs[cmd]
			if !ok {
				return "", fmt.Errorf("unexpected command %q", cmd)
			}

			return out, nil
		}).AnyTimes()

	samples, err := newTestFacade(iosID, session, nil).FetchMetrics(context.Background())
	require.NoError(t, err)
	assert.Len(t, samples, len(models.MetricNames))

	cpu := sampleByName(t, samples, models.MetricCPUUsage)
	assert.False(t, cpu.Unavailable)
	assert.InDelta(t, 95, cpu.Value, 0.001)
	assert.Equal(t, fixedAt, cpu.SampledAt)

	mem := sampleByName(t, samples, models.MetricMemoryUsage)
	assert.True(t, mem.Unavailable)
	assert.NotEmpty(t, mem.Reason)

	assert.True(t, sampleByName(t, samples, models.MetricTemperature).Unavailable)
	assert.InDelta(t, 0, sampleByName(t, samples, models.MetricNTPUnsynchronized).Value, 0.001)

	errs := sampleByName(t, samples, models.MetricInterfaceErrors)
	assert.False(t, errs.Unavailable)
	assert.InDelta(t, 8, errs.Value, 0.001)

	assert.InDelta(t, 1, sampleByName(t, samples, models.MetricInterfacesDown).Value, 0.001)
	assert.InDelta(t, 1, sampleByName(t, samples, models.MetricBGPNeighborsDown).Value, 0.001)
}

func TestFetchMetricsConnectivityAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := NewMockSession(ctrl)

	session.EXPECT().Execute(gomock.Any(), "show processes cpu").Return("", context.DeadlineExceeded)

	_, err := newTestFacade(iosID, session, nil).FetchMetrics(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectivity)
}

func TestFetchInterfaceStatusWithoutCounters(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := NewMockSession(ctrl)

	session.EXPECT().Execute(gomock.Any(), "show interfaces terse").Return("ge-0/0/0  up  up\nge-0/0/1  up  down", nil)

	records, err := newTestFacade(junosID, session, nil).FetchInterfaceStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		assert.Nil(t, r.Errors, "missing counters must not read as zero")
	}

	samples := InterfaceSamples(junosID, records, fixedAt)
	assert.True(t, samples[0].Unavailable)
	assert.InDelta(t, 1, samples[1].Value, 0.001)
}

type snmpSession struct {
	*MockSession
	*MockOIDGetter
}

func TestFetchMetricsPrefersSNMP(t *testing.T) {
	ctrl := gomock.NewController(t)
	cli := NewMockSession(ctrl)
	aux := snmpSession{MockSession: NewMockSession(ctrl), MockOIDGetter: NewMockOIDGetter(ctrl)}

	aux.MockOIDGetter.EXPECT().GetOIDs(gomock.Any(), []string{oidCiscoCPU5Min}).Return(map[string]interface{}{oidCiscoCPU5Min: uint(42)}, nil)
	aux.MockOIDGetter.EXPECT().GetOIDs(gomock.Any(), []string{oidCiscoMemPoolUsed, oidCiscoMemPoolFree}).
		Return(map[string]interface{}{oidCiscoMemPoolUsed: uint64(300), oidCiscoMemPoolFree: uint64(100)}, nil)
	aux.MockOIDGetter.EXPECT().GetOIDs(gomock.Any(), []string{oidCiscoEnvTemp}).Return(nil, errors.New("no such instance"))

	cli.EXPECT().Execute(gomock.Any(), "show environment temperature").Return("Inlet Temperature Value: 30 Degree Celsius", nil)
	cli.EXPECT().Execute(gomock.Any(), gomock.Any()).Return("", nil).AnyTimes()

	samples, err := newTestFacade(iosID, cli, aux).FetchMetrics(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 42, sampleByName(t, samples, models.MetricCPUUsage).Value, 0.001)
	assert.InDelta(t, 75, sampleByName(t, samples, models.MetricMemoryUsage).Value, 0.001)
	assert.InDelta(t, 30, sampleByName(t, samples, models.MetricTemperature).Value, 0.001)
}

func TestFacadeCloseClosesAllSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := NewMockSession(ctrl)
	aux := NewMockSession(ctrl)

	aux.EXPECT().Close().Return(errors.New("snmp close failed"))
	primary.EXPECT().Close().Return(nil)

	err := newTestFacade(iosID, primary, aux).Close()
	assert.EqualError(t, err, "snmp close failed")
}

func TestWithDeviceClosesOnPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	opener := NewMockOpener(ctrl)
	dev := NewMockDevice(ctrl)

	desc := &models.DeviceDescriptor{Address: "10.0.0.1", Profile: models.ProfileCiscoIOS}

	opener.EXPECT().Open(gomock.Any(), desc).Return(dev, nil)
	dev.EXPECT().Close().Return(nil)

	assert.Panics(t, func() {
		_ = WithDevice(context.Background(), opener, desc, func(Device) error {
			panic("boom")
		})
	})
}

func TestWithDeviceCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	opener := NewMockOpener(ctrl)
	dev := NewMockDevice(ctrl)

	desc := &models.DeviceDescriptor{Address: "10.0.0.1", Profile: models.ProfileCiscoIOS}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opener.EXPECT().Open(gomock.Any(), desc).Return(dev, nil)
	dev.EXPECT().Close().Return(nil)

	called := false
	err := WithDevice(ctx, opener, desc, func(Device) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrConnectivity)
	assert.False(t, called)
}
