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

// Package api pkg/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/mfreeman451/netstate/pkg/db"
	"github.com/mfreeman451/netstate/pkg/fleet"
	"github.com/mfreeman451/netstate/pkg/metrics"
	"github.com/mfreeman451/netstate/pkg/models"
	"github.com/mfreeman451/netstate/pkg/snapshot"
)

const (
	defaultListenAddr   = ":8090"
	defaultMaxRuns      = 100
	defaultHistoryLimit = 50
	defaultMetricWindow = 24 * time.Hour
	readHeaderTimeout   = 10 * time.Second
)

var (
	errRunInProgress = errors.New("a run is already in progress")
	errRunsDisabled  = errors.New("runs are not enabled on this server")
	errNoMetrics     = errors.New("metric history is not enabled on this server")
)

// Server exposes run summaries and stored snapshots over HTTP.
type Server struct {
	mu        sync.RWMutex
	addr      string
	router    *mux.Router
	snapshots snapshot.Store
	history   db.Service
	metrics   metrics.MetricCollector
	runner    Runner
	running   bool
	runs      map[string]*fleet.Summary
	order     []string
	maxRuns   int
	srv       *http.Server
	stopped   bool
}

// Option configures a Server.
type Option func(*Server)

// WithHistory serves run summaries from the history database.
func WithHistory(history db.Service) Option {
	return func(s *Server) {
		s.history = history
	}
}

// WithMetrics serves recent health samples from an in-memory collector.
func WithMetrics(m metrics.MetricCollector) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithRunner enables POST /api/runs.
func WithRunner(r Runner) Option {
	return func(s *Server) {
		s.runner = r
	}
}

// WithListenAddr sets the address Start listens on.
func WithListenAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithMaxRuns bounds the number of summaries kept in memory.
func WithMaxRuns(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxRuns = n
		}
	}
}

func NewServer(snapshots snapshot.Store, opts ...Option) *Server {
	s := &Server{
		addr:      defaultListenAddr,
		router:    mux.NewRouter(),
		snapshots: snapshots,
		runs:      make(map[string]*fleet.Summary),
		maxRuns:   defaultMaxRuns,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(CommonMiddleware)
	s.router.Use(LoggingMiddleware)

	s.router.HandleFunc("/api/runs", s.triggerRun).Methods(http.MethodPost)
	s.router.HandleFunc("/api/runs/latest", s.getLatestRun).Methods(http.MethodGet)
	s.router.HandleFunc("/api/runs/{id}", s.getRun).Methods(http.MethodGet)

	devices := s.router.PathPrefix("/api/devices/{profile}/{address}").Subrouter()
	devices.HandleFunc("/snapshots", s.getSnapshots).Methods(http.MethodGet)
	devices.HandleFunc("/snapshots/latest", s.getLatestSnapshot).Methods(http.MethodGet)
	devices.HandleFunc("/snapshots/{version:[0-9]+}", s.getSnapshot).Methods(http.MethodGet)
	devices.HandleFunc("/diff", s.getDiff).Methods(http.MethodGet)
	devices.HandleFunc("/metrics", s.getDeviceMetrics).Methods(http.MethodGet)
	devices.HandleFunc("/metrics/{metric}", s.getMetric).Methods(http.MethodGet)
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// RecordRun makes a finished run visible through the API.
func (s *Server) RecordRun(result *fleet.RunResult) {
	summary := result.Summary()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[summary.RunID]; !ok {
		s.order = append(s.order, summary.RunID)
	}

	s.runs[summary.RunID] = summary

	for len(s.order) > s.maxRuns {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *Server) triggerRun(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		writeError(w, http.StatusNotImplemented, errRunsDisabled)
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, errRunInProgress)

		return
	}

	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	result, err := s.runner.Run(r.Context())
	if err != nil {
		log.Printf("Triggered run failed: %v", err)
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	s.RecordRun(result)

	writeJSON(w, http.StatusCreated, result.Summary())
}

func (s *Server) getLatestRun(w http.ResponseWriter, _ *http.Request) {
	if s.history != nil {
		rec, err := s.history.GetLatestRun()
		s.writeRunRecord(w, rec, err)

		return
	}

	s.mu.RLock()
	var summary *fleet.Summary
	if n := len(s.order); n > 0 {
		summary = s.runs[s.order[n-1]]
	}
	s.mu.RUnlock()

	if summary == nil {
		http.Error(w, "No runs recorded", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	s.mu.RLock()
	summary, ok := s.runs[runID]
	s.mu.RUnlock()

	if ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	if s.history == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	rec, err := s.history.GetRun(runID)
	s.writeRunRecord(w, rec, err)
}

func (*Server) writeRunRecord(w http.ResponseWriter, rec *db.RunRecord, err error) {
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Printf("Error reading run history: %v", err)
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(rec.Summary); err != nil {
		log.Printf("Error writing run response: %v", err)
	}
}

// identity resolves the {profile}/{address} route variables.
func identity(r *http.Request) (models.DeviceIdentity, error) {
	vars := mux.Vars(r)

	profile, err := models.ParseVendorProfile(vars["profile"])
	if err != nil {
		return models.DeviceIdentity{}, err
	}

	return models.DeviceIdentity{Address: vars["address"], Profile: profile}, nil
}

func (s *Server) getSnapshots(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	limit := defaultHistoryLimit

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
	}

	history, err := s.snapshots.History(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if len(history) == 0 {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (s *Server) getLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := s.snapshots.Latest(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if snap == nil {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	version, err := strconv.Atoi(mux.Vars(r)["version"])
	if err != nil {
		http.Error(w, "Invalid version", http.StatusBadRequest)
		return
	}

	snap, err := s.snapshots.Get(r.Context(), id, version)
	if errors.Is(err, snapshot.ErrNotFound) {
		http.Error(w, "Snapshot not found", http.StatusNotFound)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// getDiff compares the two latest versions, or ?from=&to= when given.
func (s *Server) getDiff(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()

	var d *snapshot.Diff

	if q.Get("from") != "" || q.Get("to") != "" {
		d, err = s.diffVersions(r.Context(), id, q.Get("from"), q.Get("to"))
	} else {
		d, err = s.snapshots.DiffAgainstPrevious(r.Context(), id)
	}

	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		http.Error(w, "Snapshot not found", http.StatusNotFound)
	case errors.Is(err, strconv.ErrSyntax):
		http.Error(w, "Invalid version", http.StatusBadRequest)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	case d == nil:
		http.Error(w, "Fewer than two snapshots recorded", http.StatusNotFound)
	default:
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) diffVersions(ctx context.Context, id models.DeviceIdentity, from, to string) (*snapshot.Diff, error) {
	fromVersion, err := strconv.Atoi(from)
	if err != nil {
		return nil, fmt.Errorf("from: %w", strconv.ErrSyntax)
	}

	toVersion, err := strconv.Atoi(to)
	if err != nil {
		return nil, fmt.Errorf("to: %w", strconv.ErrSyntax)
	}

	a, err := s.snapshots.Get(ctx, id, fromVersion)
	if err != nil {
		return nil, err
	}

	b, err := s.snapshots.Get(ctx, id, toVersion)
	if err != nil {
		return nil, err
	}

	return snapshot.Compare(a, b)
}

func (s *Server) getDeviceMetrics(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		writeError(w, http.StatusNotImplemented, errNoMetrics)
		return
	}

	id, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m := s.metrics.GetDeviceMetrics(id.Key())
	if m == nil {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// getMetric serves the in-memory samples of one metric. When none are held
// and run history is configured, it falls back to the stored samples of the
// last ?hours= (default 24).
func (s *Server) getMetric(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	metric := models.MetricName(mux.Vars(r)["metric"])
	if !metric.Valid() {
		http.Error(w, "Unknown metric", http.StatusBadRequest)
		return
	}

	if s.metrics != nil {
		if points := s.metrics.GetMetrics(id.Key(), metric); len(points) > 0 {
			writeJSON(w, http.StatusOK, points)
			return
		}
	}

	if s.history == nil {
		http.Error(w, "No samples recorded", http.StatusNotFound)
		return
	}

	window := defaultMetricWindow

	if v := r.URL.Query().Get("hours"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			http.Error(w, "Invalid hours", http.StatusBadRequest)
			return
		}

		window = time.Duration(hours) * time.Hour
	}

	end := time.Now()

	records, err := s.history.GetMetricHistory(id.Key(), string(metric), end.Add(-window), end)
	if err != nil {
		log.Printf("Error reading metric history for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, err)

		return
	}

	if len(records) == 0 {
		http.Error(w, "No samples recorded", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// Start serves the API on the configured address until Stop is called.
func (s *Server) Start(context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}

	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	srv := s.srv
	s.mu.Unlock()

	log.Printf("HTTP API listening on %s", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop shuts down a server started with Start.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
