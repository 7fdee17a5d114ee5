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
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const (
	protocolICMP = 1
	maxPacket    = 1500
)

var echoPayload = []byte("netstate-reachability")

// icmpProber sends one echo request per host on its own socket, so replies
// never need to be demultiplexed across goroutines.
type icmpProber struct {
	timeout    time.Duration
	privileged bool
	id         int
}

func newICMPProber(timeout time.Duration, privileged bool) *icmpProber {
	return &icmpProber{
		timeout:    timeout,
		privileged: privileged,
		id:         os.Getpid() & 0xffff,
	}
}

func (p *icmpProber) listen() (*icmp.PacketConn, error) {
	if p.privileged {
		return icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	}

	return icmp.ListenPacket("udp4", "0.0.0.0")
}

func (p *icmpProber) destination(ip net.IP) net.Addr {
	if p.privileged {
		return &net.IPAddr{IP: ip}
	}

	return &net.UDPAddr{IP: ip}
}

func (p *icmpProber) probe(ctx context.Context, host string, seq int) (time.Duration, error) {
	ip, err := resolveIPv4(ctx, host)
	if err != nil {
		return 0, err
	}

	conn, err := p.listen()
	if err != nil {
		return 0, fmt.Errorf("failed to open ICMP socket: %w", err)
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := conn.SetDeadline(deadline); err != nil {
		return 0, err
	}

	request, err := buildEcho(p.id, seq)
	if err != nil {
		return 0, err
	}

	start := time.Now()

	if _, err := conn.WriteTo(request, p.destination(ip)); err != nil {
		return 0, fmt.Errorf("failed to send echo: %w", err)
	}

	buf := make([]byte, maxPacket)

	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return 0, fmt.Errorf("%w from %s: %w", ErrNoReply, ip, err)
		}

		if !sameIP(peer, ip) {
			continue
		}

		if isEchoReply(buf[:n], seq) {
			return time.Since(start), nil
		}
	}
}

// buildEcho marshals an ICMPv4 echo request.
func buildEcho(id, seq int) ([]byte, error) {
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id & 0xffff,
			Seq:  seq & 0xffff,
			Data: echoPayload,
		},
	}

	return msg.Marshal(nil)
}

// isEchoReply reports whether b is an echo reply for seq. The identifier is
// not compared because unprivileged sockets have it rewritten by the kernel.
func isEchoReply(b []byte, seq int) bool {
	msg, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil || msg.Type != ipv4.ICMPTypeEchoReply {
		return false
	}

	echo, ok := msg.Body.(*icmp.Echo)

	return ok && echo.Seq == seq&0xffff
}

func sameIP(addr net.Addr, ip net.IP) bool {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP.Equal(ip)
	case *net.UDPAddr:
		return a.IP.Equal(ip)
	default:
		return false
	}
}

func resolveIPv4(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}

		return nil, fmt.Errorf("%w: %s", errNotIPv4, host)
	}

	addrs, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, err
	}

	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: %s", errNotIPv4, host)
	}

	return addrs[0].To4(), nil
}
