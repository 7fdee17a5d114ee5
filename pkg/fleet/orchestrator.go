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
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mfreeman451/netstate/pkg/compliance"
	"github.com/mfreeman451/netstate/pkg/db"
	"github.com/mfreeman451/netstate/pkg/device"
	"github.com/mfreeman451/netstate/pkg/health"
	"github.com/mfreeman451/netstate/pkg/models"
	"github.com/mfreeman451/netstate/pkg/snapshot"
)

// Orchestrator evaluates a fleet. Each device runs its whole pipeline on one
// worker; workers share only the snapshot store.
type Orchestrator struct {
	cfg        Config
	opener     device.Opener
	snapshots  snapshot.Store
	engine     *compliance.Engine
	thresholds health.Thresholds
	artifacts  *snapshot.ArtifactWriter
	history    db.Service
	sinks      []Sink
	limiter    *rate.Limiter
	now        func() time.Time
}

// Option configures optional orchestrator collaborators.
type Option func(*Orchestrator)

// WithArtifacts writes snapshot and diff files for every run.
func WithArtifacts(w *snapshot.ArtifactWriter) Option {
	return func(o *Orchestrator) {
		o.artifacts = w
	}
}

// WithHistory persists run summaries and health samples.
func WithHistory(history db.Service) Option {
	return func(o *Orchestrator) {
		o.history = history
	}
}

// WithSinks adds sinks that receive every finished run.
func WithSinks(sinks ...Sink) Option {
	return func(o *Orchestrator) {
		o.sinks = append(o.sinks, sinks...)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New validates cfg and builds an orchestrator.
func New(
	cfg Config,
	opener device.Opener,
	snapshots snapshot.Store,
	engine *compliance.Engine,
	thresholds health.Thresholds,
	opts ...Option) (*Orchestrator, error) {
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if opener == nil || snapshots == nil || engine == nil {
		return nil, ErrMissingDependency
	}

	o := &Orchestrator{
		cfg:        cfg,
		opener:     opener,
		snapshots:  snapshots,
		engine:     engine,
		thresholds: thresholds,
		now:        time.Now,
	}

	if cfg.SessionRate > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(cfg.SessionRate), 1)
	}

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Run evaluates every device and returns one outcome per input device in
// input order. Only invalid descriptors abort the run; device failures are
// recorded in their outcomes.
func (o *Orchestrator) Run(ctx context.Context, devices []models.DeviceDescriptor) (*RunResult, error) {
	for i := range devices {
		if err := devices[i].Validate(); err != nil {
			return nil, fmt.Errorf("device %d: %w", i+1, err)
		}
	}

	result := &RunResult{
		RunID:     uuid.New(),
		StartedAt: o.now(),
		Outcomes:  make([]DeviceOutcome, len(devices)),
	}

	log.Printf("Run %s: evaluating %d devices with %d workers", result.RunID, len(devices), o.cfg.MaxConcurrency)

	done := make([]bool, len(devices))

	o.evaluateAll(ctx, devices, result.Outcomes, done)

	for i := range devices {
		if !done[i] {
			result.Outcomes[i] = DeviceOutcome{Device: devices[i].Identity()}
			result.Outcomes[i].fail(fmt.Errorf("%w: %w", ErrRunCancelled, ctx.Err()))
		}
	}

	result.FinishedAt = o.now()
	result.finalize()

	log.Printf("Run %s: finished (%s): %d succeeded, %d failed, %d changed",
		result.RunID, result.Signal, result.Totals.Succeeded, result.Totals.Failed, result.Totals.Changed)

	o.persist(result)
	o.publish(ctx, result)

	return result, nil
}

func (o *Orchestrator) evaluateAll(ctx context.Context, devices []models.DeviceDescriptor, outcomes []DeviceOutcome, done []bool) {
	if len(devices) == 0 {
		return
	}

	workers := o.cfg.MaxConcurrency
	if workers > len(devices) {
		workers = len(devices)
	}

	jobs := make(chan int, workers)

	var wg sync.WaitGroup

	o.startWorkerPool(ctx, &wg, workers, devices, jobs, outcomes, done)

	o.feedDevices(ctx, len(devices), jobs)

	wg.Wait()
}

func (o *Orchestrator) startWorkerPool(
	ctx context.Context,
	wg *sync.WaitGroup,
	workers int,
	devices []models.DeviceDescriptor,
	jobs <-chan int,
	outcomes []DeviceOutcome,
	done []bool) {
	for i := 0; i < workers; i++ {
		wg.Add(1)

		go o.runWorker(ctx, wg, devices, jobs, outcomes, done)
	}
}

func (o *Orchestrator) runWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	devices []models.DeviceDescriptor,
	jobs <-chan int,
	outcomes []DeviceOutcome,
	done []bool) {
	defer wg.Done()

	for {
		select {
		case idx, ok := <-jobs:
			if !ok {
				return
			}

			outcomes[idx] = o.evaluate(ctx, &devices[idx])
			done[idx] = true
		case <-ctx.Done():
			return
		}
	}
}

func (*Orchestrator) feedDevices(ctx context.Context, n int, jobs chan<- int) {
	defer close(jobs)

	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			return
		}
	}
}

// persist stores the run summary and samples when history is configured.
func (o *Orchestrator) persist(result *RunResult) {
	if o.history == nil {
		return
	}

	rec, err := result.Record()
	if err != nil {
		log.Printf("Run %s: failed to encode summary: %v", result.RunID, err)

		return
	}

	if err := o.history.StoreRun(rec); err != nil {
		log.Printf("Run %s: failed to store run: %v", result.RunID, err)

		return
	}

	if samples := result.SampleRecords(); len(samples) > 0 {
		if err := o.history.StoreSamples(samples); err != nil {
			log.Printf("Run %s: failed to store %d samples: %v", result.RunID, len(samples), err)
		}
	}
}

func (o *Orchestrator) publish(ctx context.Context, result *RunResult) {
	for _, sink := range o.sinks {
		if err := sink.Publish(ctx, result); err != nil {
			log.Printf("Run %s: sink %T failed: %v", result.RunID, sink, err)
		}
	}
}
