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
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

func listenTCP(t *testing.T) (string, int) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	t.Cleanup(func() { _ = lis.Close() })

	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}

			_ = conn.Close()
		}
	}()

	host, port, err := net.SplitHostPort(lis.Addr().String())
	require.NoError(t, err)

	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	return host, p
}

// closedPort returns a loopback port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())

	return port
}

func TestPingTCP(t *testing.T) {
	host, port := listenTCP(t)

	p, err := NewPinger(Config{Method: MethodTCP, Port: port, Timeout: time.Second, Concurrency: 2})
	require.NoError(t, err)

	results := p.Ping(context.Background(), []string{host, "localhost", host})
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, []string{host, "localhost", host}[i], r.Host)
		assert.Equal(t, MethodTCP, r.Method)
		assert.Equal(t, port, r.Port)
	}

	assert.True(t, results[0].Reachable)
	assert.Empty(t, results[0].Error)
	assert.True(t, results[2].Reachable)
}

func TestPingTCPUnreachable(t *testing.T) {
	port := closedPort(t)

	p, err := NewPinger(Config{Method: MethodTCP, Port: port, Timeout: time.Second})
	require.NoError(t, err)

	results := p.Ping(context.Background(), []string{"127.0.0.1"})
	require.Len(t, results, 1)
	assert.False(t, results[0].Reachable)
	assert.NotEmpty(t, results[0].Error)
}

func TestPingCancelledContext(t *testing.T) {
	p, err := NewPinger(Config{Method: MethodTCP, Port: 22, Concurrency: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := p.Ping(ctx, []string{"192.0.2.1", "192.0.2.2", "192.0.2.3"})
	require.Len(t, results, 3)

	for _, r := range results {
		assert.False(t, r.Reachable)
		assert.NotEmpty(t, r.Error)
	}
}

func TestNewPingerValidation(t *testing.T) {
	_, err := NewPinger(Config{Method: "udp"})
	require.ErrorIs(t, err, ErrUnknownMethod)

	_, err = NewPinger(Config{Concurrency: -1})
	require.ErrorIs(t, err, ErrInvalidConcurrency)

	p, err := NewPinger(Config{})
	require.NoError(t, err)
	assert.Equal(t, MethodICMP, p.cfg.Method)
	assert.Equal(t, defaultTimeout, p.cfg.Timeout)
	assert.Equal(t, defaultConcurrency, p.cfg.Concurrency)

	m, err := ParseMethod("tcp")
	require.NoError(t, err)
	assert.Equal(t, MethodTCP, m)

	_, err = ParseMethod("arp")
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestEchoEncoding(t *testing.T) {
	req, err := buildEcho(0x1234, 7)
	require.NoError(t, err)

	msg, err := icmp.ParseMessage(protocolICMP, req)
	require.NoError(t, err)
	assert.Equal(t, ipv4.ICMPTypeEcho, msg.Type)

	echo, ok := msg.Body.(*icmp.Echo)
	require.True(t, ok)
	assert.Equal(t, 0x1234, echo.ID)
	assert.Equal(t, 7, echo.Seq)

	// A request is not a reply.
	assert.False(t, isEchoReply(req, 7))

	reply, err := (&icmp.Message{
		Type: ipv4.ICMPTypeEchoReply,
		Body: &icmp.Echo{ID: 99, Seq: 7, Data: echoPayload},
	}).Marshal(nil)
	require.NoError(t, err)

	assert.True(t, isEchoReply(reply, 7))
	assert.False(t, isEchoReply(reply, 8))
	assert.False(t, isEchoReply([]byte{0x01}, 7))
}

func TestSameIP(t *testing.T) {
	ip := net.ParseIP("10.0.0.1").To4()

	assert.True(t, sameIP(&net.IPAddr{IP: ip}, ip))
	assert.True(t, sameIP(&net.UDPAddr{IP: ip}, ip))
	assert.False(t, sameIP(&net.UDPAddr{IP: net.ParseIP("10.0.0.2")}, ip))
	assert.False(t, sameIP(&net.TCPAddr{IP: ip}, ip))
}

func TestResolveIPv4(t *testing.T) {
	ip, err := resolveIPv4(context.Background(), "10.1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3", ip.String())

	_, err = resolveIPv4(context.Background(), "2001:db8::1")
	require.ErrorIs(t, err, errNotIPv4)
}

func TestExpandHosts(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr error
	}{
		{
			name: "plain hosts keep order and drop duplicates",
			args: []string{"rtr1", "10.0.0.1", "rtr1", " "},
			want: []string{"rtr1", "10.0.0.1"},
		},
		{
			name: "slash 30",
			args: []string{"10.0.0.0/30"},
			want: []string{"10.0.0.1", "10.0.0.2"},
		},
		{
			name: "slash 31 keeps both",
			args: []string{"10.0.0.4/31"},
			want: []string{"10.0.0.4", "10.0.0.5"},
		},
		{
			name: "slash 32",
			args: []string{"10.0.0.9/32", "10.0.0.9"},
			want: []string{"10.0.0.9"},
		},
		{
			name:    "too large",
			args:    []string{"10.0.0.0/16"},
			wantErr: ErrRangeTooLarge,
		},
		{
			name:    "ipv6 range",
			args:    []string{"2001:db8::/126"},
			wantErr: errNotIPv4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandHosts(tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ExpandHosts([]string{"10.0.0.0/33"})
	require.Error(t, err)
}

func TestGenerateIPsFromCIDRSize(t *testing.T) {
	ips, err := GenerateIPsFromCIDR("192.168.1.0/24")
	require.NoError(t, err)
	require.Len(t, ips, 254)
	assert.Equal(t, "192.168.1.1", ips[0].String())
	assert.Equal(t, "192.168.1.254", ips[253].String())

	ips, err = GenerateIPsFromCIDR("172.16.0.0/20")
	require.NoError(t, err)
	assert.Len(t, ips, maxExpandedHosts)
}

func TestIsFirstOrLastAddress(t *testing.T) {
	_, network, err := net.ParseCIDR("10.0.0.0/24")
	require.NoError(t, err)

	assert.True(t, IsFirstOrLastAddress(net.ParseIP("10.0.0.0"), network))
	assert.True(t, IsFirstOrLastAddress(net.ParseIP("10.0.0.255"), network))
	assert.False(t, IsFirstOrLastAddress(net.ParseIP("10.0.0.7"), network))
	assert.False(t, IsFirstOrLastAddress(net.ParseIP("2001:db8::1"), network))
}
