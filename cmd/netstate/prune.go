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
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove run and health sample history older than the configured retention",
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

		if err := s.Prune(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "pruned history older than %v\n", time.Duration(s.Config().Retention))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
