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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultMaxConcurrency = 8
	defaultDeviceTimeout  = 30 * time.Second
	defaultMetricHistory  = 100
)

var (
	errMissingRules         = errors.New("rules file is required")
	errMissingThresholds    = errors.New("thresholds file is required")
	errInvalidConcurrency   = errors.New("max_concurrency must be positive")
	errInvalidTimeout       = errors.New("device_timeout must be positive")
	errInvalidRate          = errors.New("session_rate must not be negative")
	errInvalidMetricHistory = errors.New("metric_history must not be negative")
	errMissingWebhookURL    = errors.New("enabled webhook requires a url")
	errMissingAMQPURL       = errors.New("amqp requires a url")
	errInvalidRetention     = errors.New("retention must not be negative")
	errMissingCertDir       = errors.New("mtls requires cert_dir")
	errUnknownSecurity      = errors.New("unknown security mode")
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return err
	}

	return d.set(v)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) set(v interface{}) error {
	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case int:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// WebhookConfig represents a webhook notification configuration.
type WebhookConfig struct {
	Enabled  bool     `json:"enabled" yaml:"enabled"`
	URL      string   `json:"url" yaml:"url"`
	Cooldown Duration `json:"cooldown" yaml:"cooldown"`
	Template string   `json:"template" yaml:"template"`
	Headers  []Header `json:"headers,omitempty" yaml:"headers,omitempty"` // Optional custom headers
}

// Header represents a custom HTTP header.
type Header struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// AMQPConfig configures publishing run summaries to RabbitMQ.
type AMQPConfig struct {
	URL          string `json:"url" yaml:"url"`
	Exchange     string `json:"exchange" yaml:"exchange"`
	ExchangeType string `json:"exchange_type,omitempty" yaml:"exchange_type,omitempty"` // defaults to topic
	RoutingKey   string `json:"routing_key" yaml:"routing_key"`
	Durable      bool   `json:"durable" yaml:"durable"`
}

// SecurityMode selects transport security for the gRPC health endpoint.
type SecurityMode string

const (
	SecurityModeNone SecurityMode = "none"
	SecurityModeMTLS SecurityMode = "mtls"
)

// ServiceRole tells the security provider which credentials to load.
type ServiceRole string

const (
	RoleServer ServiceRole = "server"
	RoleClient ServiceRole = "client"
)

// SecurityConfig holds mTLS settings. CertDir contains root.pem plus
// server.pem/server-key.pem and client.pem/client-key.pem.
type SecurityConfig struct {
	Mode       SecurityMode `json:"mode" yaml:"mode"`
	CertDir    string       `json:"cert_dir" yaml:"cert_dir"`
	ServerName string       `json:"server_name,omitempty" yaml:"server_name,omitempty"`
	Role       ServiceRole  `json:"role,omitempty" yaml:"role,omitempty"`
}

// Validate implements Validator.
func (s *SecurityConfig) Validate() error {
	switch s.Mode {
	case "", SecurityModeNone:
		return nil
	case SecurityModeMTLS:
		if s.CertDir == "" {
			return errMissingCertDir
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", errUnknownSecurity, s.Mode)
	}
}

// EngineConfig is the top-level configuration for netstate.
type EngineConfig struct {
	Inventory      string          `json:"inventory" yaml:"inventory"`
	Rules          string          `json:"rules" yaml:"rules"`
	Thresholds     string          `json:"thresholds" yaml:"thresholds"`
	DBPath         string          `json:"db_path" yaml:"db_path"`           // empty keeps snapshots in memory
	ArtifactDir    string          `json:"artifact_dir" yaml:"artifact_dir"` // empty disables artifact files
	MaxConcurrency int             `json:"max_concurrency" yaml:"max_concurrency"`
	DeviceTimeout  Duration        `json:"device_timeout" yaml:"device_timeout"`
	SessionRate    float64         `json:"session_rate" yaml:"session_rate"` // new sessions per second, 0 is unlimited
	ListenAddr     string          `json:"listen_addr" yaml:"listen_addr"`
	GrpcAddr       string          `json:"grpc_addr,omitempty" yaml:"grpc_addr,omitempty"`
	Webhooks       []WebhookConfig `json:"webhooks,omitempty" yaml:"webhooks,omitempty"`
	AMQP           *AMQPConfig     `json:"amqp,omitempty" yaml:"amqp,omitempty"`
	SummaryDir     string          `json:"summary_dir,omitempty" yaml:"summary_dir,omitempty"`
	Retention      Duration        `json:"retention,omitempty" yaml:"retention,omitempty"` // run and sample history kept by prune
	MetricHistory  int             `json:"metric_history,omitempty" yaml:"metric_history,omitempty"` // samples kept in memory per device metric
	Security       *SecurityConfig `json:"security,omitempty" yaml:"security,omitempty"`
}

// ApplyDefaults fills unset fields.
func (c *EngineConfig) ApplyDefaults() {
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = defaultMaxConcurrency
	}

	if c.DeviceTimeout == 0 {
		c.DeviceTimeout = Duration(defaultDeviceTimeout)
	}

	if c.MetricHistory == 0 {
		c.MetricHistory = defaultMetricHistory
	}
}

// Validate implements Validator. Defaults are applied first.
func (c *EngineConfig) Validate() error {
	c.ApplyDefaults()

	if c.Rules == "" {
		return errMissingRules
	}

	if c.Thresholds == "" {
		return errMissingThresholds
	}

	if c.MaxConcurrency < 0 {
		return errInvalidConcurrency
	}

	if c.DeviceTimeout < 0 {
		return errInvalidTimeout
	}

	if c.SessionRate < 0 {
		return errInvalidRate
	}

	if c.MetricHistory < 0 {
		return errInvalidMetricHistory
	}

	for i, wh := range c.Webhooks {
		if wh.Enabled && wh.URL == "" {
			return fmt.Errorf("webhook %d: %w", i+1, errMissingWebhookURL)
		}
	}

	if c.AMQP != nil && c.AMQP.URL == "" {
		return errMissingAMQPURL
	}

	if c.Retention < 0 {
		return errInvalidRetention
	}

	if c.Security != nil {
		return c.Security.Validate()
	}

	return nil
}

// Resolve rewrites relative file references against the config file location.
func (c *EngineConfig) Resolve(configPath string) {
	c.Inventory = ResolvePath(configPath, c.Inventory)
	c.Rules = ResolvePath(configPath, c.Rules)
	c.Thresholds = ResolvePath(configPath, c.Thresholds)
	c.DBPath = ResolvePath(configPath, c.DBPath)
	c.ArtifactDir = ResolvePath(configPath, c.ArtifactDir)
	c.SummaryDir = ResolvePath(configPath, c.SummaryDir)

	if c.Security != nil {
		c.Security.CertDir = ResolvePath(configPath, c.Security.CertDir)
	}
}
