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
	"log"

	"github.com/spf13/cobra"

	"github.com/mfreeman451/netstate/pkg/lifecycle"
)

const defaultGRPCAddr = ":50090"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and gRPC health endpoint; runs are triggered with POST /api/runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newServer()
		if err != nil {
			return err
		}

		defer func() {
			if err := s.Close(); err != nil {
				log.Printf("Failed to close engine: %v", err)
			}
		}()

		cfg := s.Config()

		grpcAddr := cfg.GrpcAddr
		if grpcAddr == "" {
			grpcAddr = defaultGRPCAddr
		}

		security := cfg.Security
		if security != nil {
			copied := *security
			copied.Role = ""
			security = &copied
		}

		return lifecycle.RunServer(cmd.Context(), &lifecycle.ServerOptions{
			ListenAddr:  grpcAddr,
			ServiceName: "netstate",
			Service:     s,
			Security:    security,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
