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

package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mfreeman451/netstate/pkg/config"
)

func TestNewSecurityProvider(t *testing.T) {
	certDir := t.TempDir()
	generateTestCertificates(t, certDir)

	tests := []struct {
		name    string
		cfg     *config.SecurityConfig
		want    interface{}
		wantErr error
	}{
		{name: "nil config", cfg: nil, want: &NoSecurityProvider{}},
		{name: "mode none", cfg: &config.SecurityConfig{Mode: config.SecurityModeNone}, want: &NoSecurityProvider{}},
		{name: "empty mode", cfg: &config.SecurityConfig{}, want: &NoSecurityProvider{}},
		{
			name:    "unknown mode",
			cfg:     &config.SecurityConfig{Mode: "spiffe"},
			wantErr: errUnknownSecurityMode,
		},
		{
			name:    "invalid role",
			cfg:     &config.SecurityConfig{Mode: config.SecurityModeMTLS, CertDir: certDir, Role: "agent"},
			wantErr: errInvalidServiceRole,
		},
		{
			name:    "missing server certificates",
			cfg:     &config.SecurityConfig{Mode: config.SecurityModeMTLS, CertDir: t.TempDir()},
			wantErr: errFailedToLoadServerCreds,
		},
		{
			name:    "missing client certificates",
			cfg:     &config.SecurityConfig{Mode: config.SecurityModeMTLS, CertDir: t.TempDir(), Role: config.RoleClient},
			wantErr: errFailedToLoadClientCreds,
		},
		{
			name: "mtls server",
			cfg:  &config.SecurityConfig{Mode: config.SecurityModeMTLS, CertDir: certDir, Role: config.RoleServer},
			want: &MTLSProvider{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewSecurityProvider(context.Background(), tt.cfg)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, provider)
			assert.NoError(t, provider.Close())
		})
	}
}

func TestMTLSProviderRoles(t *testing.T) {
	certDir := t.TempDir()
	generateTestCertificates(t, certDir)

	ctx := context.Background()

	server, err := NewMTLSProvider(&config.SecurityConfig{
		Mode:    config.SecurityModeMTLS,
		CertDir: certDir,
	})
	require.NoError(t, err)

	opt, err := server.GetServerCredentials(ctx)
	require.NoError(t, err)
	assert.NotNil(t, opt)

	_, err = server.GetClientCredentials(ctx)
	require.ErrorIs(t, err, errServiceNotClient)

	client, err := NewMTLSProvider(&config.SecurityConfig{
		Mode:       config.SecurityModeMTLS,
		CertDir:    certDir,
		ServerName: "localhost",
		Role:       config.RoleClient,
	})
	require.NoError(t, err)

	dialOpt, err := client.GetClientCredentials(ctx)
	require.NoError(t, err)
	assert.NotNil(t, dialOpt)

	_, err = client.GetServerCredentials(ctx)
	require.ErrorIs(t, err, errServiceNotServer)

	_, err = NewMTLSProvider(nil)
	require.ErrorIs(t, err, errSecurityConfigRequired)
}

// startHealthServer serves the health service on a loopback port and returns
// its address.
func startHealthServer(t *testing.T, opts ...ServerOption) (*Server, string) {
	t.Helper()

	srv := NewServer("127.0.0.1:0", opts...)
	srv.SetServing("netstate", true)

	addr, err := srv.Listen()
	require.NoError(t, err)

	errCh := make(chan error, 1)

	go func() { errCh <- srv.Start() }()

	t.Cleanup(func() {
		srv.Stop(context.Background())
		assert.NoError(t, <-errCh)
	})

	return srv, addr.String()
}

func TestHealthRoundTripInsecure(t *testing.T) {
	srv, addr := startHealthServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewClient(ctx, &ConnectionConfig{Address: addr}, WithMaxRetries(1))
	require.NoError(t, err)

	defer func() { assert.NoError(t, client.Close()) }()

	ok, err := client.CheckHealth(ctx, "netstate")
	require.NoError(t, err)
	assert.True(t, ok)

	srv.SetServing("netstate", false)

	ok, err = client.CheckHealth(ctx, "netstate")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = client.CheckHealth(ctx, "unknown")
	require.Error(t, err)
}

func TestHealthRoundTripMTLS(t *testing.T) {
	certDir := t.TempDir()
	generateTestCertificates(t, certDir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverProvider, err := NewSecurityProvider(ctx, &config.SecurityConfig{
		Mode:    config.SecurityModeMTLS,
		CertDir: certDir,
		Role:    config.RoleServer,
	})
	require.NoError(t, err)

	creds, err := serverProvider.GetServerCredentials(ctx)
	require.NoError(t, err)

	_, addr := startHealthServer(t, WithServerOptions(creds))

	client, err := NewClient(ctx, &ConnectionConfig{
		Address: addr,
		Security: &config.SecurityConfig{
			Mode:       config.SecurityModeMTLS,
			CertDir:    certDir,
			ServerName: "localhost",
			Role:       config.RoleClient,
		},
	}, WithMaxRetries(1))
	require.NoError(t, err)

	defer func() { assert.NoError(t, client.Close()) }()

	ok, err := client.CheckHealth(ctx, "netstate")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewClientErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := NewClient(context.Background(), nil)
	require.ErrorIs(t, err, errConnectionConfigRequired)

	errBoom := errors.New("boom")

	provider := NewMockSecurityProvider(ctrl)
	provider.EXPECT().GetClientCredentials(gomock.Any()).Return(nil, errBoom)

	_, err = NewClient(context.Background(), &ConnectionConfig{Address: "127.0.0.1:1"},
		WithSecurityProvider(provider))
	require.ErrorIs(t, err, errBoom)

	provider = NewMockSecurityProvider(ctrl)
	provider.EXPECT().GetClientCredentials(gomock.Any()).Return(grpc.WithTransportCredentials(insecure.NewCredentials()), nil)
	provider.EXPECT().Close().Return(nil)

	client, err := NewClient(context.Background(), &ConnectionConfig{Address: "127.0.0.1:1"},
		WithSecurityProvider(provider))
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}

func TestRecoveryInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/netstate.Test/Panic"}

	_, err := RecoveryInterceptor(context.Background(), nil, info,
		func(context.Context, interface{}) (interface{}, error) {
			panic("boom")
		})
	require.ErrorIs(t, err, errInternalError)

	resp, err := LoggingInterceptor(context.Background(), "req", info,
		func(_ context.Context, req interface{}) (interface{}, error) {
			return req, nil
		})
	require.NoError(t, err)
	assert.Equal(t, "req", resp)
}
