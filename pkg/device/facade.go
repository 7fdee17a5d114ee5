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
	"strings"
	"time"

	"github.com/mfreeman451/netstate/pkg/models"
)

// Facade normalizes one device session into the Device capabilities. It holds
// no state beyond the sessions it wraps.
type Facade struct {
	identity models.DeviceIdentity
	profile  *Profile
	session  Session
	oids     OIDGetter
	aux      Session
	now      func() time.Time
}

var _ Device = (*Facade)(nil)

// NewFacade wraps an open session. aux is an optional structured-query session
// which is closed together with the primary one.
func NewFacade(id models.DeviceIdentity, session, aux Session) *Facade {
	profile, ok := LookupProfile(id.Profile)
	if !ok {
		log.Printf("Device %s: no command table for profile %q, using generic commands", id.Address, id.Profile)
	}

	f := &Facade{
		identity: id,
		profile:  profile,
		session:  session,
		aux:      aux,
		now:      time.Now,
	}

	if getter, ok := aux.(OIDGetter); ok {
		f.oids = getter
	} else if getter, ok := session.(OIDGetter); ok {
		f.oids = getter
	}

	return f
}

func (f *Facade) Identity() models.DeviceIdentity {
	return f.identity
}

// Close releases every session held by the facade.
func (f *Facade) Close() error {
	var firstErr error

	for _, s := range []Session{f.aux, f.session} {
		if s == nil {
			continue
		}

		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (f *Facade) run(ctx context.Context, op, command string) (string, error) {
	if command == "" {
		return "", NewError(f.identity, op, fmt.Errorf("%w: %w for %s", ErrUnsupportedDevice, errNoCommand, f.profile.Name))
	}

	out, err := f.session.Execute(ctx, command)
	if err != nil {
		return "", NewError(f.identity, op, err)
	}

	if commandRejected(out) {
		return "", NewError(f.identity, op, fmt.Errorf("%w: %q rejected by device", ErrUnsupportedDevice, command))
	}

	return out, nil
}

// FetchConfig returns the running configuration. An empty body counts as a
// connectivity failure since nothing usable came back from the device.
func (f *Facade) FetchConfig(ctx context.Context) (string, error) {
	out, err := f.run(ctx, "fetch config", f.profile.ConfigCommand)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(out) == "" {
		return "", &Error{Kind: KindConnectivity, Device: f.identity, Op: "fetch config", Err: errEmptyConfig}
	}

	return out, nil
}

func (f *Facade) FetchFacts(ctx context.Context) (*Facts, error) {
	out, err := f.run(ctx, "fetch facts", f.profile.FactsCommand)
	if err != nil {
		return nil, err
	}

	facts, err := parseFacts(out)
	if err != nil {
		return nil, NewError(f.identity, "fetch facts", err)
	}

	return facts, nil
}

// FetchInterfaceStatus returns interfaces in device order. Error counters are
// only set for interfaces the device reported counters for.
func (f *Facade) FetchInterfaceStatus(ctx context.Context) ([]InterfaceRecord, error) {
	const op = "fetch interfaces"

	out, err := f.run(ctx, op, f.profile.InterfacesCommand)
	if err != nil {
		return nil, err
	}

	parse := f.profile.ParseInterfaces
	if parse == nil {
		parse = parseStatusProtocolTable
	}

	records, err := parse(out)
	if err != nil {
		return nil, NewError(f.identity, op, err)
	}

	if f.profile.CountersCommand == "" {
		return records, nil
	}

	detail, err := f.run(ctx, op, f.profile.CountersCommand)
	if err != nil {
		if fatal(err) {
			return nil, err
		}

		log.Printf("Device %s: interface counters unavailable: %v", f.identity.Address, err)

		return records, nil
	}

	counters := parseCounters(detail)

	for i := range records {
		if n, ok := counters[records[i].Name]; ok {
			records[i].Errors = &n
		}
	}

	return records, nil
}

func (f *Facade) FetchRoutingNeighbors(ctx context.Context) ([]Neighbor, error) {
	out, err := f.run(ctx, "fetch neighbors", f.profile.NeighborsCommand)
	if err != nil {
		return nil, err
	}

	return parseNeighbors(out)
}

type metricFetch struct {
	name    models.MetricName
	command string
	oid     func() (float64, error)
	parse   func(string) (float64, error)
}

// FetchMetrics samples every known metric. Fields that cannot be read or
// parsed come back as unavailable samples. Only connectivity and
// authentication failures abort the fetch.
func (f *Facade) FetchMetrics(ctx context.Context) ([]models.MetricSample, error) {
	samples := make([]models.MetricSample, 0, len(models.MetricNames))

	for _, m := range []metricFetch{
		{name: models.MetricCPUUsage, command: f.profile.CPUCommand, oid: f.oidCPU(ctx), parse: parseCPU},
		{name: models.MetricMemoryUsage, command: f.profile.MemoryCommand, oid: f.oidMemory(ctx), parse: parseMemory},
		{name: models.MetricTemperature, command: f.profile.TemperatureCommand, oid: f.oidTemperature(ctx), parse: parseTemperature},
		{name: models.MetricNTPUnsynchronized, command: f.profile.NTPCommand, parse: parseNTP},
	} {
		sample, err := f.sample(ctx, m)
		if err != nil {
			return nil, err
		}

		samples = append(samples, sample)
	}

	ifaceSamples, err := f.interfaceSamples(ctx)
	if err != nil {
		return nil, err
	}

	samples = append(samples, ifaceSamples...)

	bgp, err := f.neighborSample(ctx)
	if err != nil {
		return nil, err
	}

	return append(samples, bgp), nil
}

func (f *Facade) sample(ctx context.Context, m metricFetch) (models.MetricSample, error) {
	if m.oid != nil {
		v, err := m.oid()
		if err == nil {
			return models.Sample(f.identity, m.name, v, f.now()), nil
		}

		log.Printf("Device %s: SNMP %s failed, falling back to CLI: %v", f.identity.Address, m.name, err)
	}

	out, err := f.run(ctx, "fetch metrics", m.command)
	if err != nil {
		if fatal(err) {
			return models.MetricSample{}, err
		}

		return models.UnavailableSample(f.identity, m.name, err.Error(), f.now()), nil
	}

	v, err := m.parse(out)
	if err != nil {
		return models.UnavailableSample(f.identity, m.name, err.Error(), f.now()), nil
	}

	return models.Sample(f.identity, m.name, v, f.now()), nil
}

func (f *Facade) interfaceSamples(ctx context.Context) ([]models.MetricSample, error) {
	records, err := f.FetchInterfaceStatus(ctx)
	if err != nil {
		if fatal(err) {
			return nil, err
		}

		now := f.now()

		return []models.MetricSample{
			models.UnavailableSample(f.identity, models.MetricInterfaceErrors, err.Error(), now),
			models.UnavailableSample(f.identity, models.MetricInterfacesDown, err.Error(), now),
		}, nil
	}

	return InterfaceSamples(f.identity, records, f.now()), nil
}

// InterfaceSamples aggregates interface records into the device-wide error and
// down counts. The error count is unavailable when no interface has counters.
func InterfaceSamples(id models.DeviceIdentity, records []InterfaceRecord, at time.Time) []models.MetricSample {
	var (
		errs      uint64
		counted   bool
		downCount int
	)

	for _, r := range records {
		if r.Down() {
			downCount++
		}

		if r.Errors != nil {
			errs += *r.Errors
			counted = true
		}
	}

	errSample := models.UnavailableSample(id, models.MetricInterfaceErrors, "no interface error counters reported", at)
	if counted {
		errSample = models.Sample(id, models.MetricInterfaceErrors, float64(errs), at)
	}

	return []models.MetricSample{
		errSample,
		models.Sample(id, models.MetricInterfacesDown, float64(downCount), at),
	}
}

func (f *Facade) neighborSample(ctx context.Context) (models.MetricSample, error) {
	neighbors, err := f.FetchRoutingNeighbors(ctx)
	if err != nil {
		if fatal(err) {
			return models.MetricSample{}, err
		}

		return models.UnavailableSample(f.identity, models.MetricBGPNeighborsDown, err.Error(), f.now()), nil
	}

	down := 0

	for _, n := range neighbors {
		if !n.Established {
			down++
		}
	}

	return models.Sample(f.identity, models.MetricBGPNeighborsDown, float64(down), f.now()), nil
}
