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

package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/netstate/pkg/compliance"
	"github.com/mfreeman451/netstate/pkg/db"
	"github.com/mfreeman451/netstate/pkg/device"
	"github.com/mfreeman451/netstate/pkg/health"
	"github.com/mfreeman451/netstate/pkg/models"
	"github.com/mfreeman451/netstate/pkg/snapshot"
)

const baseConfig = "hostname core\n!\nip ssh version 2\n!\nline vty 0 4\n transport input ssh\n!\nend\n"

func testEngine(t *testing.T) *compliance.Engine {
	t.Helper()

	e, err := compliance.NewEngine(compliance.RuleSets{
		models.ProfileCiscoIOS: {
			{
				Name:            "SSH enabled",
				Severity:        compliance.SeverityHigh,
				RequiredForPass: true,
				Predicate:       compliance.Predicate{Op: compliance.OpContains, Pattern: "ip ssh version 2"},
			},
			{
				Name:      "NTP configured",
				Severity:  compliance.SeverityMedium,
				Predicate: compliance.Predicate{Op: compliance.OpMatches, Pattern: `^ntp server \S+`},
			},
		},
	})
	require.NoError(t, err)

	return e
}

func testThresholds() health.Thresholds {
	return health.Thresholds{
		models.MetricCPUUsage:    {Warning: 70, Critical: 90},
		models.MetricMemoryUsage: {Warning: 80, Critical: 95},
	}
}

func descriptor(addr string) models.DeviceDescriptor {
	return models.DeviceDescriptor{Address: addr, Profile: models.ProfileCiscoIOS}
}

func identityOf(addr string) models.DeviceIdentity {
	d := descriptor(addr)

	return d.Identity()
}

// fakeFleet hands out mock devices keyed by address.
type fakeFleet struct {
	ctrl    *gomock.Controller
	opener  *device.MockOpener
	mu      sync.Mutex
	devices map[string]*device.MockDevice
	refused map[string]error
}

func newFakeFleet(t *testing.T) *fakeFleet {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fakeFleet{
		ctrl:    ctrl,
		opener:  device.NewMockOpener(ctrl),
		devices: make(map[string]*device.MockDevice),
		refused: make(map[string]error),
	}

	f.opener.EXPECT().Open(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, desc *models.DeviceDescriptor) (device.Device, error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			if err, ok := f.refused[desc.Address]; ok {
				return nil, err
			}

			dev, ok := f.devices[desc.Address]
			if !ok {
				return nil, device.NewError(desc.Identity(), "open session", device.ErrConnectivity)
			}

			return dev, nil
		}).AnyTimes()

	return f
}

// add registers a device that returns config and the given CPU sample and
// expects exactly one Close.
func (f *fakeFleet) add(addr, config string, cpu float64) *device.MockDevice {
	id := identityOf(addr)
	dev := device.NewMockDevice(f.ctrl)

	dev.EXPECT().FetchConfig(gomock.Any()).Return(config, nil).AnyTimes()
	dev.EXPECT().FetchFacts(gomock.Any()).Return(&device.Facts{Hostname: addr}, nil).AnyTimes()
	dev.EXPECT().FetchMetrics(gomock.Any()).Return([]models.MetricSample{
		models.Sample(id, models.MetricCPUUsage, cpu, time.Now()),
		models.UnavailableSample(id, models.MetricMemoryUsage, "could not parse memory output", time.Now()),
	}, nil).AnyTimes()
	dev.EXPECT().Close().Return(nil).Times(1)

	f.mu.Lock()
	f.devices[addr] = dev
	f.mu.Unlock()

	return dev
}

func (f *fakeFleet) refuse(addr string, err error) {
	f.mu.Lock()
	f.refused[addr] = err
	f.mu.Unlock()
}

func addedLines(diff string) []string {
	var added []string

	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			added = append(added, line)
		}
	}

	return added
}

func TestRunMixedFleet(t *testing.T) {
	ctx := context.Background()
	f := newFakeFleet(t)
	store := snapshot.NewMemoryStore()

	unchanged := descriptor("10.0.0.2")
	edited := descriptor("10.0.0.3")

	_, err := store.Record(ctx, unchanged.Identity(), baseConfig)
	require.NoError(t, err)
	_, err = store.Record(ctx, edited.Identity(), baseConfig)
	require.NoError(t, err)

	f.refuse("10.0.0.1", device.NewError(identityOf("10.0.0.1"), "open session",
		fmt.Errorf("%w: dial tcp 10.0.0.1:22: connect: connection refused", device.ErrConnectivity)))
	f.add("10.0.0.2", baseConfig, 20)
	f.add("10.0.0.3", baseConfig+"ntp server 10.0.0.254\n", 95)

	sink := NewMockSink(f.ctrl)
	sink.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	artifactDir := t.TempDir()

	o, err := New(Config{MaxConcurrency: 3, DeviceTimeout: time.Second}, f.opener, store, testEngine(t), testThresholds(),
		WithArtifacts(snapshot.NewArtifactWriter(artifactDir)), WithSinks(sink))
	require.NoError(t, err)

	res, err := o.Run(ctx, []models.DeviceDescriptor{descriptor("10.0.0.1"), unchanged, edited})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 3)

	failed := res.Outcomes[0]
	assert.Equal(t, "10.0.0.1", failed.Device.Address)
	assert.Equal(t, OutcomeFailed, failed.Status)
	assert.Equal(t, device.KindConnectivity, failed.ErrorKind)
	require.ErrorIs(t, failed.Err, device.ErrConnectivity)

	same := res.Outcomes[1]
	assert.Equal(t, OutcomeSucceeded, same.Status)
	assert.False(t, same.Changed)
	assert.Empty(t, same.DiffArtifact)
	assert.Equal(t, 2, same.SnapshotVersion)
	assert.Equal(t, health.StatusHealthy, same.Health.Status)
	require.Len(t, same.Health.CoverageGaps, 1)
	assert.Equal(t, "10.0.0.2", same.Facts.Hostname)

	changed := res.Outcomes[2]
	assert.Equal(t, OutcomeSucceeded, changed.Status)
	assert.True(t, changed.Changed)
	require.NotEmpty(t, changed.DiffArtifact)

	body, err := os.ReadFile(changed.DiffArtifact)
	require.NoError(t, err)
	assert.Equal(t, []string{"+ntp server 10.0.0.254"}, addedLines(string(body)))

	assert.Equal(t, compliance.StatusCompliant, changed.Compliance.Status)
	assert.InDelta(t, 100.0, changed.Compliance.Percentage, 0.001)
	assert.Equal(t, health.StatusCritical, changed.Health.Status)

	assert.Equal(t, Totals{
		Devices: 3, Succeeded: 2, Failed: 1, Changed: 1,
		Compliant: 1, NonCompliant: 1, Healthy: 1, Critical: 1,
	}, res.Totals)
	assert.Equal(t, SignalMixed, res.Signal)
	assert.Equal(t, 3, res.ExitCode())
	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.False(t, res.FinishedAt.Before(res.StartedAt))
}

func TestRunSignals(t *testing.T) {
	t.Run("no devices", func(t *testing.T) {
		f := newFakeFleet(t)

		o, err := New(Config{}, f.opener, snapshot.NewMemoryStore(), testEngine(t), testThresholds())
		require.NoError(t, err)

		res, err := o.Run(context.Background(), nil)
		require.NoError(t, err)

		assert.Empty(t, res.Outcomes)
		assert.Equal(t, SignalNoDevices, res.Signal)
		assert.Equal(t, 2, res.ExitCode())
	})

	t.Run("all failed", func(t *testing.T) {
		f := newFakeFleet(t)

		o, err := New(Config{}, f.opener, snapshot.NewMemoryStore(), testEngine(t), testThresholds())
		require.NoError(t, err)

		res, err := o.Run(context.Background(), []models.DeviceDescriptor{descriptor("10.9.0.1"), descriptor("10.9.0.2")})
		require.NoError(t, err)

		assert.Equal(t, SignalAllFailed, res.Signal)
		assert.Equal(t, 1, res.ExitCode())
	})

	t.Run("all succeeded", func(t *testing.T) {
		f := newFakeFleet(t)
		f.add("10.9.0.3", baseConfig, 10)

		o, err := New(Config{}, f.opener, snapshot.NewMemoryStore(), testEngine(t), testThresholds())
		require.NoError(t, err)

		res, err := o.Run(context.Background(), []models.DeviceDescriptor{descriptor("10.9.0.3")})
		require.NoError(t, err)

		assert.Equal(t, SignalAllSucceeded, res.Signal)
		assert.Equal(t, 0, res.ExitCode())
		assert.False(t, res.Outcomes[0].Changed)
		assert.Equal(t, 1, res.Outcomes[0].SnapshotVersion)
	})
}

func TestRunDeviceTimeout(t *testing.T) {
	f := newFakeFleet(t)

	slow := device.NewMockDevice(f.ctrl)
	slow.EXPECT().FetchConfig(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
		<-ctx.Done()

		return "", ctx.Err()
	})
	slow.EXPECT().Close().Return(nil).Times(1)
	f.devices["10.0.1.1"] = slow

	f.add("10.0.1.2", baseConfig, 10)

	o, err := New(Config{MaxConcurrency: 2, DeviceTimeout: 50 * time.Millisecond},
		f.opener, snapshot.NewMemoryStore(), testEngine(t), testThresholds())
	require.NoError(t, err)

	res, err := o.Run(context.Background(), []models.DeviceDescriptor{descriptor("10.0.1.1"), descriptor("10.0.1.2")})
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcomes[0].Status)
	assert.Equal(t, device.KindConnectivity, res.Outcomes[0].ErrorKind)
	require.ErrorIs(t, res.Outcomes[0].Err, device.ErrConnectivity)
	assert.Equal(t, OutcomeSucceeded, res.Outcomes[1].Status)
}

func TestRunBoundedConcurrencyKeepsOrder(t *testing.T) {
	f := newFakeFleet(t)

	var inFlight, peak int32

	devices := make([]models.DeviceDescriptor, 0, 8)

	for i := 0; i < 8; i++ {
		addr := fmt.Sprintf("10.0.2.%d", i+1)
		devices = append(devices, descriptor(addr))

		id := identityOf(addr)
		dev := device.NewMockDevice(f.ctrl)
		dev.EXPECT().FetchConfig(gomock.Any()).DoAndReturn(func(context.Context) (string, error) {
			n := atomic.AddInt32(&inFlight, 1)
			defer atomic.AddInt32(&inFlight, -1)

			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}

			time.Sleep(20 * time.Millisecond)

			return baseConfig, nil
		})
		dev.EXPECT().FetchFacts(gomock.Any()).Return(nil, device.ErrUnsupportedDevice)
		dev.EXPECT().FetchMetrics(gomock.Any()).Return([]models.MetricSample{
			models.Sample(id, models.MetricCPUUsage, 5, time.Now()),
		}, nil)
		dev.EXPECT().Close().Return(nil)
		f.devices[addr] = dev
	}

	o, err := New(Config{MaxConcurrency: 3, DeviceTimeout: time.Second},
		f.opener, snapshot.NewMemoryStore(), testEngine(t), testThresholds())
	require.NoError(t, err)

	res, err := o.Run(context.Background(), devices)
	require.NoError(t, err)

	require.Len(t, res.Outcomes, len(devices))

	for i := range devices {
		assert.Equal(t, devices[i].Address, res.Outcomes[i].Device.Address)
		assert.Equal(t, OutcomeSucceeded, res.Outcomes[i].Status)
		assert.Nil(t, res.Outcomes[i].Facts)
	}

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.Positive(t, atomic.LoadInt32(&peak))
}

func TestRunMetricsFailureKeepsSnapshot(t *testing.T) {
	f := newFakeFleet(t)

	dev := device.NewMockDevice(f.ctrl)
	dev.EXPECT().FetchConfig(gomock.Any()).Return(baseConfig, nil)
	dev.EXPECT().FetchFacts(gomock.Any()).Return(&device.Facts{}, nil)
	dev.EXPECT().FetchMetrics(gomock.Any()).Return(nil, device.ErrAuthentication)
	dev.EXPECT().Close().Return(nil)
	f.devices["10.0.3.1"] = dev

	o, err := New(Config{}, f.opener, snapshot.NewMemoryStore(), testEngine(t), testThresholds())
	require.NoError(t, err)

	res, err := o.Run(context.Background(), []models.DeviceDescriptor{descriptor("10.0.3.1")})
	require.NoError(t, err)

	out := res.Outcomes[0]
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Equal(t, device.KindAuthentication, out.ErrorKind)
	assert.Equal(t, 1, out.SnapshotVersion)
	require.NotNil(t, out.Compliance)
	assert.Nil(t, out.Health)
}

func TestRunRecoversFromPanic(t *testing.T) {
	f := newFakeFleet(t)

	dev := device.NewMockDevice(f.ctrl)
	dev.EXPECT().FetchConfig(gomock.Any()).DoAndReturn(func(context.Context) (string, error) {
		panic("parser blew up")
	})
	dev.EXPECT().Close().Return(nil).Times(1)
	f.devices["10.0.4.1"] = dev
	f.add("10.0.4.2", baseConfig, 10)

	o, err := New(Config{}, f.opener, snapshot.NewMemoryStore(), testEngine(t), testThresholds())
	require.NoError(t, err)

	res, err := o.Run(context.Background(), []models.DeviceDescriptor{descriptor("10.0.4.1"), descriptor("10.0.4.2")})
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcomes[0].Status)
	assert.Equal(t, device.KindParse, res.Outcomes[0].ErrorKind)
	assert.Contains(t, res.Outcomes[0].Error, "panic: parser blew up")
	assert.Equal(t, OutcomeSucceeded, res.Outcomes[1].Status)
}

func TestRunNoRulesApplicableNotCompliant(t *testing.T) {
	f := newFakeFleet(t)
	f.add("10.0.4.3", baseConfig, 10)

	engine, err := compliance.NewEngine(compliance.RuleSets{
		models.ProfileJuniperJunos: {
			{
				Name:      "NTP configured",
				Severity:  compliance.SeverityMedium,
				Predicate: compliance.Predicate{Op: compliance.OpContains, Pattern: "set system ntp server"},
			},
		},
	})
	require.NoError(t, err)

	o, err := New(Config{}, f.opener, snapshot.NewMemoryStore(), engine, testThresholds())
	require.NoError(t, err)

	res, err := o.Run(context.Background(), []models.DeviceDescriptor{descriptor("10.0.4.3")})
	require.NoError(t, err)

	require.NotNil(t, res.Outcomes[0].Compliance)
	assert.True(t, res.Outcomes[0].Compliance.NoRulesApplicable)
	assert.Equal(t, 1, res.Totals.NoRules)
	assert.Equal(t, 0, res.Totals.Compliant)

	summary := res.Summary()
	require.Len(t, summary.Devices, 1)
	assert.True(t, summary.Devices[0].NoRulesApplicable)

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"no_rules_applicable":true`)
	assert.Contains(t, string(raw), `"no_rules":1`)
}

func TestRunStoreWriteFailure(t *testing.T) {
	f := newFakeFleet(t)
	f.add("10.0.5.1", baseConfig, 10)

	store := snapshot.NewMockStore(f.ctrl)
	store.EXPECT().Record(gomock.Any(), gomock.Any(), baseConfig).
		Return(nil, fmt.Errorf("%w: disk full", device.ErrStoreWrite))

	o, err := New(Config{}, f.opener, store, testEngine(t), testThresholds())
	require.NoError(t, err)

	res, err := o.Run(context.Background(), []models.DeviceDescriptor{descriptor("10.0.5.1")})
	require.NoError(t, err)

	assert.Equal(t, device.KindStoreWrite, res.Outcomes[0].ErrorKind)
	assert.Nil(t, res.Outcomes[0].Compliance)
}

func TestRunCancelledContext(t *testing.T) {
	f := newFakeFleet(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, err := New(Config{MaxConcurrency: 1}, f.opener, snapshot.NewMemoryStore(), testEngine(t), testThresholds())
	require.NoError(t, err)

	devices := []models.DeviceDescriptor{descriptor("10.0.6.1"), descriptor("10.0.6.2"), descriptor("10.0.6.3")}

	res, err := o.Run(ctx, devices)
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 3)

	for i := range devices {
		assert.Equal(t, devices[i].Address, res.Outcomes[i].Device.Address)
		assert.Equal(t, OutcomeFailed, res.Outcomes[i].Status)
		assert.Equal(t, device.KindConnectivity, res.Outcomes[i].ErrorKind)
	}

	assert.Equal(t, SignalAllFailed, res.Signal)
}

func TestRunPersistsHistoryAndIgnoresSinkErrors(t *testing.T) {
	f := newFakeFleet(t)
	f.add("10.0.7.1", baseConfig, 75)

	history := db.NewMockService(f.ctrl)
	history.EXPECT().StoreRun(gomock.Any()).DoAndReturn(func(rec *db.RunRecord) error {
		assert.Equal(t, string(SignalAllSucceeded), rec.Signal)
		assert.Contains(t, string(rec.Summary), `"compliance_status":"non-compliant"`)

		return nil
	})
	history.EXPECT().StoreSamples(gomock.Len(2)).Return(nil)

	sink := NewMockSink(f.ctrl)
	sink.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable"))

	o, err := New(Config{}, f.opener, snapshot.NewMemoryStore(), testEngine(t), testThresholds(),
		WithHistory(history), WithSinks(sink))
	require.NoError(t, err)

	res, err := o.Run(context.Background(), []models.DeviceDescriptor{descriptor("10.0.7.1")})
	require.NoError(t, err)
	assert.Equal(t, SignalAllSucceeded, res.Signal)

	s := res.Summary()
	require.Len(t, s.Devices, 1)
	assert.Equal(t, "cisco_ios/10.0.7.1", s.Devices[0].Device)
	assert.Equal(t, health.StatusWarning, s.Devices[0].HealthStatus)
	assert.Equal(t, []string{"NTP configured"}, s.Devices[0].FailedRules)
	require.NotNil(t, s.Devices[0].CompliancePercentage)
	assert.InDelta(t, 62.5, *s.Devices[0].CompliancePercentage, 0.001)
}

func TestNewRejectsInvalidInput(t *testing.T) {
	f := newFakeFleet(t)
	store := snapshot.NewMemoryStore()
	engine := testEngine(t)

	_, err := New(Config{MaxConcurrency: -1}, f.opener, store, engine, testThresholds())
	require.ErrorIs(t, err, ErrInvalidConcurrency)

	_, err = New(Config{SessionRate: -1}, f.opener, store, engine, testThresholds())
	require.ErrorIs(t, err, ErrInvalidRate)

	_, err = New(Config{}, nil, store, engine, testThresholds())
	require.ErrorIs(t, err, ErrMissingDependency)

	o, err := New(Config{SessionRate: 100}, f.opener, store, engine, testThresholds())
	require.NoError(t, err)

	_, err = o.Run(context.Background(), []models.DeviceDescriptor{{Address: "10.0.8.1", Profile: "vax"}})
	require.ErrorIs(t, err, models.ErrUnknownVendorProfile)
}
