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
	"log"
	"net"
	"strconv"
	"time"
)

// tcpProber treats a completed TCP handshake as reachable.
type tcpProber struct {
	timeout time.Duration
	port    int
}

func newTCPProber(timeout time.Duration, port int) *tcpProber {
	return &tcpProber{timeout: timeout, port: port}
}

func (t *tcpProber) probe(ctx context.Context, host string, _ int) (time.Duration, error) {
	connCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var d net.Dialer

	start := time.Now()

	conn, err := d.DialContext(connCtx, "tcp", net.JoinHostPort(host, strconv.Itoa(t.port)))
	if err != nil {
		return 0, err
	}

	rtt := time.Since(start)

	if err := conn.Close(); err != nil {
		log.Printf("Error closing connection: %v", err)
	}

	return rtt, nil
}
