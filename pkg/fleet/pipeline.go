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

	"github.com/mfreeman451/netstate/pkg/device"
	"github.com/mfreeman451/netstate/pkg/health"
	"github.com/mfreeman451/netstate/pkg/models"
)

// evaluate runs the full pipeline for one device: fetch config, snapshot and
// diff, compliance, then health. It never panics out and always returns an
// outcome for the device.
func (o *Orchestrator) evaluate(ctx context.Context, desc *models.DeviceDescriptor) (outcome DeviceOutcome) {
	start := o.now()
	outcome = DeviceOutcome{Device: desc.Identity(), Status: OutcomeSucceeded}

	defer func() {
		if r := recover(); r != nil {
			outcome.fail(fmt.Errorf("%w: panic: %v", device.ErrParse, r))
		}

		outcome.Duration = o.now().Sub(start)

		if outcome.Status == OutcomeFailed {
			log.Printf("Device %s: %v", desc.Address, outcome.Err)
		}
	}()

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			outcome.fail(device.NewError(outcome.Device, "wait for session slot", err))

			return outcome
		}
	}

	devCtx, cancel := context.WithTimeout(ctx, o.cfg.DeviceTimeout)
	defer cancel()

	err := device.WithDevice(devCtx, o.opener, desc, func(dev device.Device) error {
		return o.inspect(devCtx, dev, &outcome)
	})
	if err != nil {
		if devCtx.Err() != nil && device.KindOf(err) != device.KindConnectivity {
			err = device.NewError(outcome.Device, "evaluate", fmt.Errorf("%w: %w", device.ErrConnectivity, devCtx.Err()))
		}

		outcome.fail(err)
	}

	return outcome
}

func (o *Orchestrator) inspect(ctx context.Context, dev device.Device, outcome *DeviceOutcome) error {
	id := outcome.Device

	text, err := dev.FetchConfig(ctx)
	if err != nil {
		return err
	}

	if facts, err := dev.FetchFacts(ctx); err != nil {
		log.Printf("Device %s: facts unavailable: %v", id.Address, err)
	} else {
		outcome.Facts = facts
	}

	if err := o.recordSnapshot(ctx, id, text, outcome); err != nil {
		return err
	}

	outcome.Compliance = o.engine.EvaluateDevice(id, text)

	samples, err := dev.FetchMetrics(ctx)
	if err != nil {
		return err
	}

	outcome.Samples = samples
	outcome.Health = health.Evaluate(samples, o.thresholds)

	return nil
}

func (o *Orchestrator) recordSnapshot(ctx context.Context, id models.DeviceIdentity, text string, outcome *DeviceOutcome) error {
	snap, err := o.snapshots.Record(ctx, id, text)
	if err != nil {
		return device.NewError(id, "record snapshot", err)
	}

	outcome.SnapshotVersion = snap.Version
	outcome.ContentHash = snap.ContentHash

	diff, err := o.snapshots.DiffAgainstPrevious(ctx, id)
	if err != nil {
		return device.NewError(id, "diff snapshot", err)
	}

	switch {
	case diff == nil:
		log.Printf("Device %s: first snapshot stored (v%d)", id.Address, snap.Version)
	case diff.Changed:
		log.Printf("Device %s: config changed (v%d -> v%d)", id.Address, diff.FromVersion, diff.ToVersion)
	default:
		log.Printf("Device %s: config unchanged (v%d)", id.Address, snap.Version)
	}

	if diff != nil {
		outcome.Diff = diff
		outcome.Changed = diff.Changed
	}

	if o.artifacts == nil {
		return nil
	}

	if outcome.SnapshotArtifact, err = o.artifacts.WriteSnapshot(snap); err != nil {
		return device.NewError(id, "write snapshot artifact", fmt.Errorf("%w: %w", device.ErrStoreWrite, err))
	}

	if outcome.DiffArtifact, err = o.artifacts.WriteDiff(diff); err != nil {
		return device.NewError(id, "write diff artifact", fmt.Errorf("%w: %w", device.ErrStoreWrite, err))
	}

	return nil
}
