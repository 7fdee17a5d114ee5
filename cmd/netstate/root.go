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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mfreeman451/netstate/pkg/config"
	"github.com/mfreeman451/netstate/pkg/core"
)

const defaultConfigPath = "/etc/netstate/netstate.json"

var (
	configPath     string
	knownHostsFile string
)

var rootCmd = &cobra.Command{
	Use:           "netstate",
	Short:         "Evaluate configuration drift, compliance and health across a network device fleet",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit status out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command and exits with the command's status.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	fmt.Fprintln(os.Stderr, "Error:", err)

	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to the engine config file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&knownHostsFile, "known-hosts", "", "SSH known_hosts file; empty disables host key verification")
}

func loadConfig() (*config.EngineConfig, error) {
	cfg, err := config.LoadEngineConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// newServer assembles the engine described by --config.
func newServer() (*core.Server, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var opts []core.Option
	if knownHostsFile != "" {
		opts = append(opts, core.WithKnownHosts(knownHostsFile))
	}

	return core.NewServer(cfg, opts...)
}
