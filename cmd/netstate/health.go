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
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfreeman451/netstate/pkg/config"
	"github.com/mfreeman451/netstate/pkg/grpc"
)

var (
	healthAddr       string
	healthService    string
	healthCertDir    string
	healthServerName string
	healthTimeout    time.Duration
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Query the gRPC health endpoint of a running netstate serve",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
		defer cancel()

		connCfg := &grpc.ConnectionConfig{Address: healthAddr}

		if healthCertDir != "" {
			connCfg.Security = &config.SecurityConfig{
				Mode:       config.SecurityModeMTLS,
				CertDir:    healthCertDir,
				ServerName: healthServerName,
				Role:       config.RoleClient,
			}
		}

		client, err := grpc.NewClient(ctx, connCfg, grpc.WithMaxRetries(1))
		if err != nil {
			return err
		}

		defer func() { _ = client.Close() }()

		serving, err := client.CheckHealth(ctx, healthService)
		if err != nil {
			return err
		}

		if !serving {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: NOT_SERVING\n", healthAddr)
			return &exitError{code: 1}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: SERVING\n", healthAddr)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().StringVar(&healthAddr, "addr", "localhost"+defaultGRPCAddr, "gRPC health endpoint address")
	healthCmd.Flags().StringVar(&healthService, "service", "netstate", "Service name to check")
	healthCmd.Flags().StringVar(&healthCertDir, "cert-dir", "", "Directory with root.pem, client.pem and client-key.pem for mTLS")
	healthCmd.Flags().StringVar(&healthServerName, "server-name", "", "Expected server certificate name for mTLS")
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 5*time.Second, "Overall timeout")
}
