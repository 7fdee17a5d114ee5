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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/netstate/pkg/db"
	"github.com/mfreeman451/netstate/pkg/fleet"
	"github.com/mfreeman451/netstate/pkg/metrics"
	"github.com/mfreeman451/netstate/pkg/models"
	"github.com/mfreeman451/netstate/pkg/snapshot"
)

var rtr1 = models.DeviceIdentity{Address: "10.0.0.1", Profile: models.ProfileCiscoIOS}

const (
	configV1 = "hostname rtr1\n!\nip ssh version 2\n!\nend\n"
	configV2 = "hostname rtr1\n!\nip ssh version 2\nntp server 10.0.0.9\n!\nend\n"
)

func seededStore(t *testing.T) snapshot.Store {
	t.Helper()

	store := snapshot.NewMemoryStore()

	_, err := store.Record(context.Background(), rtr1, configV1)
	require.NoError(t, err)

	_, err = store.Record(context.Background(), rtr1, configV2)
	require.NoError(t, err)

	return store
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, http.NoBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func sampleRun(signal fleet.Signal) *fleet.RunResult {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	return &fleet.RunResult{
		RunID:      uuid.New(),
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Outcomes: []fleet.DeviceOutcome{
			{Device: rtr1, Status: fleet.OutcomeSucceeded, Changed: true, SnapshotVersion: 2},
		},
		Totals: fleet.Totals{Devices: 1, Succeeded: 1, Changed: 1},
		Signal: signal,
	}
}

func TestSnapshotEndpoints(t *testing.T) {
	h := NewServer(seededStore(t)).Handler()

	tests := []struct {
		name     string
		path     string
		status   int
		contains []string
	}{
		{
			name:     "history newest first",
			path:     "/api/devices/cisco_ios/10.0.0.1/snapshots",
			status:   http.StatusOK,
			contains: []string{`"version":2`, `"version":1`},
		},
		{
			name:     "history limit",
			path:     "/api/devices/cisco_ios/10.0.0.1/snapshots?limit=1",
			status:   http.StatusOK,
			contains: []string{`"version":2`},
		},
		{name: "bad limit", path: "/api/devices/cisco_ios/10.0.0.1/snapshots?limit=x", status: http.StatusBadRequest},
		{
			name:     "latest",
			path:     "/api/devices/cisco_ios/10.0.0.1/snapshots/latest",
			status:   http.StatusOK,
			contains: []string{`"version":2`, "ntp server"},
		},
		{
			name:     "profile alias",
			path:     "/api/devices/ios/10.0.0.1/snapshots/1",
			status:   http.StatusOK,
			contains: []string{`"version":1`},
		},
		{name: "missing version", path: "/api/devices/cisco_ios/10.0.0.1/snapshots/9", status: http.StatusNotFound},
		{name: "unknown device", path: "/api/devices/cisco_ios/10.9.9.9/snapshots/latest", status: http.StatusNotFound},
		{name: "unknown device history", path: "/api/devices/cisco_ios/10.9.9.9/snapshots", status: http.StatusNotFound},
		{name: "unknown profile", path: "/api/devices/vax/10.0.0.1/snapshots/latest", status: http.StatusBadRequest},
		{
			name:     "diff against previous",
			path:     "/api/devices/cisco_ios/10.0.0.1/diff",
			status:   http.StatusOK,
			contains: []string{`"changed":true`, `+ntp server 10.0.0.9`, "cisco_ios/10.0.0.1@v1"},
		},
		{
			name:     "diff explicit versions",
			path:     "/api/devices/cisco_ios/10.0.0.1/diff?from=2&to=2",
			status:   http.StatusOK,
			contains: []string{`"changed":false`},
		},
		{name: "diff bad version", path: "/api/devices/cisco_ios/10.0.0.1/diff?from=a&to=2", status: http.StatusBadRequest},
		{name: "diff missing version", path: "/api/devices/cisco_ios/10.0.0.1/diff?from=1&to=7", status: http.StatusNotFound},
		{name: "diff single snapshot", path: "/api/devices/cisco_ios/10.9.9.9/diff", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			for _, want := range tt.contains {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}

	rec := do(t, h, http.MethodGet, "/api/devices/cisco_ios/10.0.0.1/snapshots?limit=1")

	var history []snapshot.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].Version)
}

func TestRunsInMemory(t *testing.T) {
	srv := NewServer(snapshot.NewMemoryStore(), WithMaxRuns(2))
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/runs/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	first := sampleRun(fleet.SignalAllSucceeded)
	second := sampleRun(fleet.SignalMixed)
	third := sampleRun(fleet.SignalAllFailed)

	srv.RecordRun(first)
	srv.RecordRun(second)
	srv.RecordRun(third)

	rec = do(t, h, http.MethodGet, "/api/runs/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary fleet.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, third.RunID.String(), summary.RunID)
	assert.Equal(t, fleet.SignalAllFailed, summary.Signal)

	rec = do(t, h, http.MethodGet, "/api/runs/"+second.RunID.String())
	assert.Equal(t, http.StatusOK, rec.Code)

	// Oldest summary was evicted.
	rec = do(t, h, http.MethodGet, "/api/runs/"+first.RunID.String())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunsFromHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	history := db.NewMockService(ctrl)
	h := NewServer(snapshot.NewMemoryStore(), WithHistory(history)).Handler()

	history.EXPECT().GetLatestRun().Return(&db.RunRecord{
		RunID:   "abc",
		Signal:  "mixed",
		Summary: json.RawMessage(`{"run_id":"abc","signal":"mixed"}`),
	}, nil)

	rec := do(t, h, http.MethodGet, "/api/runs/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"run_id":"abc","signal":"mixed"}`, rec.Body.String())

	history.EXPECT().GetRun("missing").Return(nil, db.ErrNotFound)

	rec = do(t, h, http.MethodGet, "/api/runs/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	history.EXPECT().GetRun("broken").Return(nil, db.ErrFailedToQuery)

	rec = do(t, h, http.MethodGet, "/api/runs/broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricEndpoints(t *testing.T) {
	m := metrics.NewManager(10)
	m.AddSamples([]models.MetricSample{
		models.Sample(rtr1, models.MetricCPUUsage, 35, time.Unix(100, 0)),
		models.Sample(rtr1, models.MetricCPUUsage, 55, time.Unix(200, 0)),
	})

	h := NewServer(snapshot.NewMemoryStore(), WithMetrics(m)).Handler()

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "device metrics", path: "/api/devices/cisco_ios/10.0.0.1/metrics", wantCode: http.StatusOK, wantBody: "cpuUsagePercent"},
		{name: "unknown device", path: "/api/devices/cisco_ios/10.9.9.9/metrics", wantCode: http.StatusNotFound},
		{name: "one metric", path: "/api/devices/cisco_ios/10.0.0.1/metrics/cpuUsagePercent", wantCode: http.StatusOK, wantBody: "55"},
		{name: "metric without samples", path: "/api/devices/cisco_ios/10.0.0.1/metrics/temperatureCelsius", wantCode: http.StatusNotFound},
		{name: "unknown metric", path: "/api/devices/cisco_ios/10.0.0.1/metrics/fanSpeed", wantCode: http.StatusBadRequest},
		{name: "bad profile", path: "/api/devices/toaster/10.0.0.1/metrics", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path)
			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}

	var points []models.MetricSample

	rec := do(t, h, http.MethodGet, "/api/devices/cisco_ios/10.0.0.1/metrics/cpuUsagePercent")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 2)
	assert.InDelta(t, 55.0, points[0].Value, 0)
}

func TestMetricsDisabled(t *testing.T) {
	h := NewServer(snapshot.NewMemoryStore()).Handler()

	rec := do(t, h, http.MethodGet, "/api/devices/cisco_ios/10.0.0.1/metrics")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/devices/cisco_ios/10.0.0.1/metrics/cpuUsagePercent")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricFromHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	history := db.NewMockService(ctrl)
	collector := metrics.NewMockMetricCollector(ctrl)
	h := NewServer(snapshot.NewMemoryStore(), WithHistory(history), WithMetrics(collector)).Handler()

	collector.EXPECT().GetMetrics(rtr1.Key(), models.MetricMemoryUsage).Return(nil).Times(2)
	history.EXPECT().GetMetricHistory(rtr1.Key(), "memoryUsagePercent", gomock.Any(), gomock.Any()).
		Return([]db.SampleRecord{{DeviceKey: rtr1.Key(), Metric: "memoryUsagePercent", Value: 81}}, nil)

	rec := do(t, h, http.MethodGet, "/api/devices/cisco_ios/10.0.0.1/metrics/memoryUsagePercent?hours=6")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"value":81`)

	rec = do(t, h, http.MethodGet, "/api/devices/cisco_ios/10.0.0.1/metrics/memoryUsagePercent?hours=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockRunner(ctrl)
	srv := NewServer(snapshot.NewMemoryStore(), WithRunner(runner))
	h := srv.Handler()

	result := sampleRun(fleet.SignalAllSucceeded)
	runner.EXPECT().Run(gomock.Any()).Return(result, nil)

	rec := do(t, h, http.MethodPost, "/api/runs")
	require.Equal(t, http.StatusCreated, rec.Code)

	var summary fleet.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, result.RunID.String(), summary.RunID)
	require.Len(t, summary.Devices, 1)
	assert.Equal(t, "cisco_ios/10.0.0.1", summary.Devices[0].Device)

	rec = do(t, h, http.MethodGet, "/api/runs/"+result.RunID.String())
	assert.Equal(t, http.StatusOK, rec.Code)

	runner.EXPECT().Run(gomock.Any()).Return(nil, errors.New("inventory unreadable"))

	rec = do(t, h, http.MethodPost, "/api/runs")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory unreadable")
}

func TestTriggerRunRejectsOverlap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockRunner(ctrl)
	h := NewServer(snapshot.NewMemoryStore(), WithRunner(runner)).Handler()

	started := make(chan struct{})
	release := make(chan struct{})

	runner.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) (*fleet.RunResult, error) {
		close(started)
		<-release

		return sampleRun(fleet.SignalAllSucceeded), nil
	})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		rec := do(t, h, http.MethodPost, "/api/runs")
		assert.Equal(t, http.StatusCreated, rec.Code)
	}()

	<-started

	rec := do(t, h, http.MethodPost, "/api/runs")
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(release)
	wg.Wait()
}

func TestTriggerRunDisabled(t *testing.T) {
	h := NewServer(snapshot.NewMemoryStore()).Handler()

	rec := do(t, h, http.MethodPost, "/api/runs")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestCommonMiddleware(t *testing.T) {
	called := false
	h := CommonMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := do(t, h, http.MethodOptions, "/api/runs/latest")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	do(t, h, http.MethodGet, "/api/runs/latest")
	assert.True(t, called)
}

func TestStopBeforeStart(t *testing.T) {
	srv := NewServer(snapshot.NewMemoryStore(), WithListenAddr("127.0.0.1:0"))

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, srv.Start(context.Background()))
}
