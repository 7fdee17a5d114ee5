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

package scan

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	defaultTimeout     = 2 * time.Second
	defaultConcurrency = 16
	defaultTCPPort     = 22
)

// probeFunc checks a single host and returns the round-trip time.
type probeFunc func(ctx context.Context, host string, seq int) (time.Duration, error)

// Config controls a Pinger.
type Config struct {
	Method      Method
	Timeout     time.Duration
	Concurrency int
	// Port is the TCP port dialed by MethodTCP.
	Port int
	// Privileged uses a raw ICMP socket instead of an unprivileged datagram socket.
	Privileged bool
}

// Pinger probes hosts concurrently with a bounded worker pool.
type Pinger struct {
	cfg   Config
	probe probeFunc
}

func NewPinger(cfg Config) (*Pinger, error) {
	if cfg.Method == "" {
		cfg.Method = MethodICMP
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.Concurrency == 0 {
		cfg.Concurrency = defaultConcurrency
	}

	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidConcurrency, cfg.Concurrency)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultTCPPort
	}

	p := &Pinger{cfg: cfg}

	switch cfg.Method {
	case MethodICMP:
		p.probe = newICMPProber(cfg.Timeout, cfg.Privileged).probe
	case MethodTCP:
		p.probe = newTCPProber(cfg.Timeout, cfg.Port).probe
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, cfg.Method)
	}

	return p, nil
}

// Ping probes every host and returns one result per host in input order.
func (p *Pinger) Ping(ctx context.Context, hosts []string) []Result {
	results := make([]Result, len(hosts))
	jobs := make(chan int, p.cfg.Concurrency)

	var wg sync.WaitGroup

	p.startWorkerPool(ctx, &wg, hosts, jobs, results)
	p.feedHosts(ctx, len(hosts), jobs)

	wg.Wait()

	for i := range results {
		if results[i].Method == "" {
			results[i] = p.result(hosts[i])
			results[i].Error = ctx.Err().Error()
		}
	}

	return results
}

func (p *Pinger) startWorkerPool(ctx context.Context, wg *sync.WaitGroup, hosts []string, jobs <-chan int, results []Result) {
	for i := 0; i < p.cfg.Concurrency; i++ {
		wg.Add(1)

		go p.runWorker(ctx, wg, hosts, jobs, results)
	}
}

func (p *Pinger) runWorker(ctx context.Context, wg *sync.WaitGroup, hosts []string, jobs <-chan int, results []Result) {
	defer wg.Done()

	for {
		select {
		case idx, ok := <-jobs:
			if !ok {
				return
			}

			results[idx] = p.probeHost(ctx, hosts[idx], idx+1)
		case <-ctx.Done():
			return
		}
	}
}

func (*Pinger) feedHosts(ctx context.Context, n int, jobs chan<- int) {
	defer close(jobs)

	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pinger) result(host string) Result {
	r := Result{Host: host, Method: p.cfg.Method}
	if p.cfg.Method == MethodTCP {
		r.Port = p.cfg.Port
	}

	return r
}

func (p *Pinger) probeHost(ctx context.Context, host string, seq int) Result {
	r := p.result(host)

	rtt, err := p.probe(ctx, host, seq)
	if err != nil {
		log.Printf("Host %s unreachable via %s: %v", host, p.cfg.Method, err)

		r.Error = err.Error()

		return r
	}

	r.Reachable = true
	r.RTT = rtt

	return r
}
