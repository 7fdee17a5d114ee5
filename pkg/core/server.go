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

// Package core assembles a netstate engine from its configuration: storage,
// rules, thresholds, device transports, sinks, the fleet orchestrator and the
// HTTP API.
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mfreeman451/netstate/pkg/alerts"
	"github.com/mfreeman451/netstate/pkg/api"
	"github.com/mfreeman451/netstate/pkg/compliance"
	"github.com/mfreeman451/netstate/pkg/config"
	"github.com/mfreeman451/netstate/pkg/db"
	"github.com/mfreeman451/netstate/pkg/device"
	"github.com/mfreeman451/netstate/pkg/fleet"
	"github.com/mfreeman451/netstate/pkg/health"
	"github.com/mfreeman451/netstate/pkg/metrics"
	"github.com/mfreeman451/netstate/pkg/models"
	"github.com/mfreeman451/netstate/pkg/publish"
	"github.com/mfreeman451/netstate/pkg/snapshot"
	"github.com/mfreeman451/netstate/pkg/transport/snmp"
	"github.com/mfreeman451/netstate/pkg/transport/ssh"
)

// Option customizes how a Server is assembled.
type Option func(*options)

type options struct {
	opener         device.Opener
	knownHostsFile string
	credentialEnv  string
	clock          func() time.Time
}

// WithOpener replaces the SSH/SNMP connector, mainly for tests.
func WithOpener(opener device.Opener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

// WithKnownHosts enables SSH host key verification against a known_hosts file.
func WithKnownHosts(path string) Option {
	return func(o *options) {
		o.knownHostsFile = path
	}
}

// WithCredentialPrefix changes the environment prefix for credential lookups.
func WithCredentialPrefix(prefix string) Option {
	return func(o *options) {
		o.credentialEnv = prefix
	}
}

// WithClock overrides the orchestrator clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// Server owns every long-lived component of an engine.
type Server struct {
	config       *config.EngineConfig
	db           db.Service
	snapshots    snapshot.Store
	engine       *compliance.Engine
	thresholds   health.Thresholds
	orchestrator *fleet.Orchestrator
	metrics      *metrics.Manager
	apiServer    *api.Server
	amqp         *publish.AMQPPublisher
}

var _ api.Runner = (*Server)(nil)

// NewServer builds an engine from cfg. Rule and threshold files are loaded and
// validated here so configuration errors surface before any device is
// contacted.
func NewServer(cfg *config.EngineConfig, opts ...Option) (*Server, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	engine, err := compliance.LoadEngine(cfg.Rules)
	if err != nil {
		return nil, err
	}

	thresholds, err := health.LoadThresholds(cfg.Thresholds)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:     cfg,
		engine:     engine,
		thresholds: thresholds,
		metrics:    metrics.NewManager(cfg.MetricHistory),
	}

	if err := s.openStorage(); err != nil {
		return nil, err
	}

	orchestrator, err := s.buildOrchestrator(o)
	if err != nil {
		_ = s.Close()

		return nil, err
	}

	s.orchestrator = orchestrator

	apiOpts := []api.Option{
		api.WithListenAddr(cfg.ListenAddr),
		api.WithRunner(s),
		api.WithMetrics(s.metrics),
	}
	if s.db != nil {
		apiOpts = append(apiOpts, api.WithHistory(s.db))
	}

	s.apiServer = api.NewServer(s.snapshots, apiOpts...)

	return s, nil
}

func (s *Server) openStorage() error {
	if s.config.DBPath == "" {
		log.Printf("No db_path configured, keeping snapshots in memory")

		s.snapshots = snapshot.NewMemoryStore()

		return nil
	}

	database, err := db.New(s.config.DBPath)
	if err != nil {
		return err
	}

	s.db = database
	s.snapshots = snapshot.NewSQLiteStore(database)

	return nil
}

func (s *Server) buildOrchestrator(o *options) (*fleet.Orchestrator, error) {
	opener := o.opener
	if opener == nil {
		registry := device.NewRegistry()
		registry.Register(device.TransportSSH, ssh.NewTransport(o.knownHostsFile))
		registry.Register(device.TransportSNMP, snmp.NewTransport())

		opener = device.NewConnector(registry, device.NewEnvCredentials(o.credentialEnv))
	}

	var fleetOpts []fleet.Option

	if s.config.ArtifactDir != "" {
		fleetOpts = append(fleetOpts, fleet.WithArtifacts(snapshot.NewArtifactWriter(s.config.ArtifactDir)))
	}

	if s.db != nil {
		fleetOpts = append(fleetOpts, fleet.WithHistory(s.db))
	}

	if o.clock != nil {
		fleetOpts = append(fleetOpts, fleet.WithClock(o.clock))
	}

	sinks, err := s.buildSinks()
	if err != nil {
		return nil, err
	}

	if len(sinks) > 0 {
		fleetOpts = append(fleetOpts, fleet.WithSinks(sinks...))
	}

	return fleet.New(fleet.Config{
		MaxConcurrency: s.config.MaxConcurrency,
		DeviceTimeout:  time.Duration(s.config.DeviceTimeout),
		SessionRate:    s.config.SessionRate,
	}, opener, s.snapshots, s.engine, s.thresholds, fleetOpts...)
}

func (s *Server) buildSinks() ([]fleet.Sink, error) {
	sinks := []fleet.Sink{s.metrics}

	if s.config.SummaryDir != "" {
		fileSink, err := publish.NewFileSink(s.config.SummaryDir)
		if err != nil {
			return nil, err
		}

		sinks = append(sinks, fileSink)
	}

	if len(s.config.Webhooks) > 0 {
		notifier, err := alerts.NewNotifierFromConfig(s.config.Webhooks)
		if err != nil {
			return nil, err
		}

		if notifier.Len() > 0 {
			sinks = append(sinks, notifier)
		}
	}

	if s.config.AMQP != nil {
		s.amqp = publish.NewAMQPPublisher(*s.config.AMQP)
		sinks = append(sinks, s.amqp)
	}

	return sinks, nil
}

// Config returns the validated engine configuration.
func (s *Server) Config() *config.EngineConfig {
	return s.config
}

// Engine returns the loaded compliance engine.
func (s *Server) Engine() *compliance.Engine {
	return s.engine
}

// Metrics returns the in-memory recent sample history.
func (s *Server) Metrics() *metrics.Manager {
	return s.metrics
}

// Snapshots returns the snapshot store.
func (s *Server) Snapshots() snapshot.Store {
	return s.snapshots
}

// API returns the HTTP API server.
func (s *Server) API() *api.Server {
	return s.apiServer
}

// LoadInventory reads the configured device inventory.
func (s *Server) LoadInventory() ([]models.DeviceDescriptor, error) {
	if s.config.Inventory == "" {
		return nil, errNoInventory
	}

	var inv models.Inventory

	if err := config.LoadAndValidate(s.config.Inventory, &inv); err != nil {
		return nil, err
	}

	return inv.Devices, nil
}

// Run evaluates the configured inventory once.
func (s *Server) Run(ctx context.Context) (*fleet.RunResult, error) {
	devices, err := s.LoadInventory()
	if err != nil {
		return nil, err
	}

	return s.RunDevices(ctx, devices)
}

// RunDevices evaluates the given devices once and makes the result visible
// through the API.
func (s *Server) RunDevices(ctx context.Context, devices []models.DeviceDescriptor) (*fleet.RunResult, error) {
	result, err := s.orchestrator.Run(ctx, devices)
	if err != nil {
		return nil, err
	}

	s.apiServer.RecordRun(result)

	return result, nil
}

// Prune removes run and sample history older than the configured retention.
// Snapshots are never pruned.
func (s *Server) Prune() error {
	if s.db == nil {
		return errNoHistory
	}

	if s.config.Retention <= 0 {
		return errNoRetention
	}

	if err := s.db.CleanOldData(time.Duration(s.config.Retention)); err != nil {
		return err
	}

	s.metrics.CleanupStaleDevices(time.Duration(s.config.Retention))

	return nil
}

// Start serves the HTTP API; it implements lifecycle.Service.
func (s *Server) Start(ctx context.Context) error {
	return s.apiServer.Start(ctx)
}

// Stop shuts the HTTP API down.
func (s *Server) Stop(ctx context.Context) error {
	return s.apiServer.Stop(ctx)
}

// Close releases storage and broker connections.
func (s *Server) Close() error {
	var errs []error

	if s.amqp != nil {
		if err := s.amqp.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if s.snapshots != nil {
		if err := s.snapshots.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
