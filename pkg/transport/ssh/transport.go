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

// Package ssh opens CLI sessions to network devices over SSH.
package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/mfreeman451/netstate/pkg/device"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
)

var (
	errNoAuthMethod = errors.New("no authentication method provided (need password or private key)")
	errClosed       = errors.New("session is closed")
)

// Transport dials devices with x/crypto/ssh and runs each command in its own
// exec channel.
type Transport struct {
	DialTimeout    time.Duration
	KnownHostsFile string // empty disables host key verification
}

var _ device.Transport = (*Transport)(nil)

func NewTransport(knownHostsFile string) *Transport {
	return &Transport{
		DialTimeout:    defaultDialTimeout,
		KnownHostsFile: knownHostsFile,
	}
}

func (t *Transport) Open(ctx context.Context, target device.Target) (device.Session, error) {
	cfg, err := t.clientConfig(target.Credentials)
	if err != nil {
		return nil, err
	}

	port := target.Port
	if port == 0 {
		port = defaultPort
	}

	address := net.JoinHostPort(target.Address, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: t.DialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to dial %s: %w", device.ErrConnectivity, address, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, cfg)
	if err != nil {
		_ = conn.Close()

		return nil, classifyHandshake(err)
	}

	_ = conn.SetDeadline(time.Time{})

	return &Session{client: ssh.NewClient(sshConn, chans, reqs), address: address}, nil
}

func (t *Transport) clientConfig(creds device.Credentials) (*ssh.ClientConfig, error) {
	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // device fleets rarely ship managed host keys

	if t.KnownHostsFile != "" {
		cb, err := knownhosts.New(t.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts: %w", err)
		}

		hostKeyCallback = cb
	}

	cfg := &ssh.ClientConfig{
		User:            creds.Username,
		HostKeyCallback: hostKeyCallback,
		Timeout:         t.DialTimeout,
	}

	if creds.KeyFile != "" {
		signer, err := loadPrivateKeyFromFile(creds.KeyFile, creds.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", device.ErrAuthentication, err)
		}

		cfg.Auth = append(cfg.Auth, ssh.PublicKeys(signer))
	}

	if creds.Password != "" {
		cfg.Auth = append(cfg.Auth,
			ssh.Password(creds.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = creds.Password
				}

				return answers, nil
			}),
		)
	}

	if len(cfg.Auth) == 0 {
		return nil, fmt.Errorf("%w: %w", device.ErrAuthentication, errNoAuthMethod)
	}

	return cfg, nil
}

func loadPrivateKeyFromFile(path, passphrase string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(data)

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) && passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(data, []byte(passphrase))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return signer, nil
}

func classifyHandshake(err error) error {
	msg := err.Error()

	if strings.Contains(msg, "unable to authenticate") || strings.Contains(msg, "no supported methods remain") {
		return fmt.Errorf("%w: %w", device.ErrAuthentication, err)
	}

	return fmt.Errorf("%w: handshake failed: %w", device.ErrConnectivity, err)
}

// Session is an authenticated SSH connection to one device.
type Session struct {
	client  *ssh.Client
	address string
}

// Execute runs command in a fresh exec channel and returns its stdout.
// Stderr is logged and never part of the result. Cancelling ctx at any
// point, including while the device has not yet answered the channel open,
// closes the connection and reports a connectivity failure.
func (s *Session) Execute(ctx context.Context, command string) (string, error) {
	client := s.client
	if client == nil {
		return "", fmt.Errorf("%w: %w", device.ErrConnectivity, errClosed)
	}

	done := make(chan execResult, 1)

	go func() {
		done <- run(client, command)
	}()

	select {
	case <-ctx.Done():
		// Closing the client unblocks a pending channel open or exec.
		_ = client.Close()

		return "", fmt.Errorf("%w: %q on %s: %w", device.ErrConnectivity, command, s.address, ctx.Err())
	case res := <-done:
		if res.stderr != "" {
			log.Printf("Device %s: %q wrote to stderr: %s", s.address, command, strings.TrimSpace(res.stderr))
		}

		var exitErr *ssh.ExitError
		if res.err != nil && !errors.As(res.err, &exitErr) {
			return "", fmt.Errorf("%w: %q on %s: %w", device.ErrConnectivity, command, s.address, res.err)
		}

		if exitErr != nil {
			log.Printf("Device %s: %q exited with status %d", s.address, command, exitErr.ExitStatus())
		}

		return res.stdout, nil
	}
}

type execResult struct {
	stdout string
	stderr string
	err    error
}

// run opens an exec channel and waits for command to finish. Stdout and
// stderr are copied by separate goroutines, so each gets its own buffer.
func run(client *ssh.Client, command string) execResult {
	sess, err := client.NewSession()
	if err != nil {
		return execResult{err: fmt.Errorf("failed to create session: %w", err)}
	}
	defer func() { _ = sess.Close() }()

	var stdout, stderr bytes.Buffer

	sess.Stdout = &stdout
	sess.Stderr = &stderr

	err = sess.Run(command)

	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (s *Session) Close() error {
	if s.client == nil {
		return nil
	}

	err := s.client.Close()
	s.client = nil

	return err
}
