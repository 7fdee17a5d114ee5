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
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mfreeman451/netstate/pkg/compliance"
	"github.com/mfreeman451/netstate/pkg/models"
)

var (
	complianceConfigFile string
	complianceProfile    string
	complianceRules      string
)

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Score a saved configuration file against the compliance rules",
	Long: `Score a saved configuration file against the compliance rules without
contacting the device. Exits 1 when the result is non-compliant.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		profile, err := models.ParseVendorProfile(complianceProfile)
		if err != nil {
			return err
		}

		rulesPath := complianceRules
		if rulesPath == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rulesPath = cfg.Rules
		}

		engine, err := compliance.LoadEngine(rulesPath)
		if err != nil {
			return err
		}

		text, err := os.ReadFile(complianceConfigFile)
		if err != nil {
			return fmt.Errorf("failed to read configuration: %w", err)
		}

		result := engine.Evaluate(profile, string(text))

		if err := printCompliance(cmd.OutOrStdout(), complianceConfigFile, profile, result); err != nil {
			return err
		}

		if result.Status == compliance.StatusNonCompliant {
			return &exitError{code: 1}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(complianceCmd)
	complianceCmd.Flags().StringVar(&complianceConfigFile, "config-file", "", "Saved device configuration to check")
	complianceCmd.Flags().StringVar(&complianceProfile, "profile", "", "Vendor profile of the configuration (e.g. cisco_ios, juniper)")
	complianceCmd.Flags().StringVar(&complianceRules, "rules", "", "Rules file; defaults to the rules file named in --config")
	_ = complianceCmd.MarkFlagRequired("config-file")
	_ = complianceCmd.MarkFlagRequired("profile")
}

func printCompliance(w io.Writer, source string, profile models.VendorProfile, r *compliance.Result) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "RULE\tSEVERITY\tRESULT")

	for _, o := range r.Outcomes {
		state := "pass"
		if !o.Passed {
			state = "FAIL"
			if o.RequiredForPass {
				state = "FAIL (required)"
			}
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Rule, o.Severity, state)
	}

	if r.NoRulesApplicable {
		fmt.Fprintf(tw, "\n%s: no rules apply to %s\n", source, profile)
	}

	fmt.Fprintf(tw, "\n%s: %.1f%% (%d/%d) %s\n", source, r.Percentage, r.ScoreEarned, r.ScoreMax, r.Status)

	return tw.Flush()
}
