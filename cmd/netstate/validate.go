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

	"github.com/spf13/cobra"

	"github.com/mfreeman451/netstate/pkg/compliance"
	"github.com/mfreeman451/netstate/pkg/config"
	"github.com/mfreeman451/netstate/pkg/health"
	"github.com/mfreeman451/netstate/pkg/models"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the engine config, rules, thresholds and inventory without contacting devices",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		rules, err := compliance.LoadRules(cfg.Rules)
		if err != nil {
			return err
		}

		thresholds, err := health.LoadThresholds(cfg.Thresholds)
		if err != nil {
			return err
		}

		devices := 0

		if cfg.Inventory != "" {
			var inv models.Inventory
			if err := config.LoadAndValidate(cfg.Inventory, &inv); err != nil {
				return err
			}

			devices = len(inv.Devices)
		}

		ruleCount := 0
		for _, r := range rules {
			ruleCount += len(r)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d rules across %d profiles, %d thresholds, %d devices)\n",
			configPath, ruleCount, len(rules), len(thresholds), devices)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
