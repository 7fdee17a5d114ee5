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

// Package grpc pkg/grpc/security.go provides secure gRPC communication options
package grpc

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mfreeman451/netstate/pkg/config"
)

// NoSecurityProvider implements SecurityProvider with no security (development only).
type NoSecurityProvider struct{}

func (*NoSecurityProvider) GetClientCredentials(context.Context) (grpc.DialOption, error) {
	return grpc.WithTransportCredentials(insecure.NewCredentials()), nil
}

func (*NoSecurityProvider) GetServerCredentials(context.Context) (grpc.ServerOption, error) {
	return grpc.Creds(insecure.NewCredentials()), nil
}

func (*NoSecurityProvider) Close() error {
	return nil
}

// MTLSProvider implements SecurityProvider with mutual TLS.
type MTLSProvider struct {
	config      *config.SecurityConfig
	clientCreds credentials.TransportCredentials
	serverCreds credentials.TransportCredentials
	needsClient bool
	needsServer bool
}

func NewMTLSProvider(cfg *config.SecurityConfig) (*MTLSProvider, error) {
	if cfg == nil {
		return nil, errSecurityConfigRequired
	}

	provider := &MTLSProvider{
		config: cfg,
	}

	// Determine which credentials are needed based on role
	switch cfg.Role {
	case config.RoleServer, "":
		provider.needsServer = true // netstate serve health endpoint
	case config.RoleClient:
		provider.needsClient = true // netstate health probe
	default:
		return nil, fmt.Errorf("%w: %s", errInvalidServiceRole, cfg.Role)
	}

	log.Printf("Initializing mTLS provider - Role: %s, NeedsClient: %v, NeedsServer: %v",
		cfg.Role, provider.needsClient, provider.needsServer)

	var err error
	if provider.needsClient {
		provider.clientCreds, err = loadClientCredentials(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errFailedToLoadClientCreds, err)
		}
	}

	if provider.needsServer {
		provider.serverCreds, err = loadServerCredentials(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errFailedToLoadServerCreds, err)
		}
	}

	return provider, nil
}

func (*MTLSProvider) Close() error {
	return nil
}

func loadCAPool(certDir string) (*x509.CertPool, error) {
	caFile := filepath.Join(certDir, "root.pem")

	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToReadCACert, err)
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("%w: %s", errFailedToAppendCACert, caFile)
	}

	return caPool, nil
}

func loadClientCredentials(cfg *config.SecurityConfig) (credentials.TransportCredentials, error) {
	log.Printf("Loading client credentials from %s", cfg.CertDir)

	clientCert := filepath.Join(cfg.CertDir, "client.pem")
	clientKey := filepath.Join(cfg.CertDir, "client-key.pem")

	certificate, err := tls.LoadX509KeyPair(clientCert, clientKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToLoadClientCert, err)
	}

	caPool, err := loadCAPool(cfg.CertDir)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{certificate},
		RootCAs:      caPool,
		ServerName:   cfg.ServerName, // Use the provided server name without port
		MinVersion:   tls.VersionTLS13,
	}

	return credentials.NewTLS(tlsConfig), nil
}

func loadServerCredentials(cfg *config.SecurityConfig) (credentials.TransportCredentials, error) {
	log.Printf("Loading server credentials from %s", cfg.CertDir)

	serverCert := filepath.Join(cfg.CertDir, "server.pem")
	serverKey := filepath.Join(cfg.CertDir, "server-key.pem")

	certificate, err := tls.LoadX509KeyPair(serverCert, serverKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToLoadServerCert, err)
	}

	// CA for client verification
	caPool, err := loadCAPool(cfg.CertDir)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{certificate},
		ClientCAs:    caPool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS13,
	}

	return credentials.NewTLS(tlsConfig), nil
}

func (p *MTLSProvider) GetClientCredentials(_ context.Context) (grpc.DialOption, error) {
	if !p.needsClient {
		return nil, errServiceNotClient
	}

	return grpc.WithTransportCredentials(p.clientCreds), nil
}

func (p *MTLSProvider) GetServerCredentials(context.Context) (grpc.ServerOption, error) {
	if !p.needsServer {
		return nil, errServiceNotServer
	}

	return grpc.Creds(p.serverCreds), nil
}

// NewSecurityProvider creates the appropriate security provider based on mode.
func NewSecurityProvider(_ context.Context, cfg *config.SecurityConfig) (SecurityProvider, error) {
	if cfg == nil {
		log.Printf("No security config provided, using no security")
		return &NoSecurityProvider{}, nil
	}

	log.Printf("Creating security provider with mode: %s", cfg.Mode)

	switch cfg.Mode {
	case config.SecurityModeNone, "":
		return &NoSecurityProvider{}, nil
	case config.SecurityModeMTLS:
		return NewMTLSProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownSecurityMode, cfg.Mode)
	}
}
