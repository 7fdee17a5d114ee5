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
	"encoding/json"
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mfreeman451/netstate/pkg/fleet"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate every device in the inventory once",
	Long: `Evaluate every device in the inventory once.

Exit status: 0 all devices succeeded, 1 all devices failed, 2 no devices
configured, 3 mixed outcomes.`,
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

		result, err := s.Run(cmd.Context())
		if err != nil {
			return err
		}

		if runJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if err := enc.Encode(result.Summary()); err != nil {
				return err
			}
		} else if err := printSummary(cmd.OutOrStdout(), result.Summary()); err != nil {
			return err
		}

		if code := result.ExitCode(); code != 0 {
			return &exitError{code: code}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the run summary as JSON")
}

func printSummary(w io.Writer, s *fleet.Summary) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "DEVICE\tSTATUS\tCOMPLIANCE\tHEALTH\tCHANGED\tERROR")

	for i := range s.Devices {
		d := &s.Devices[i]

		compliance := "-"

		switch {
		case d.NoRulesApplicable:
			compliance = "n/a (no rules)"
		case d.CompliancePercentage != nil:
			compliance = fmt.Sprintf("%.1f%% %s", *d.CompliancePercentage, d.ComplianceStatus)
		}

		healthStatus := "-"
		if d.HealthStatus != "" {
			healthStatus = fmt.Sprintf("%s (%d alerts)", d.HealthStatus, len(d.Alerts))
		}

		errText := "-"
		if d.Error != "" {
			errText = fmt.Sprintf("[%s] %s", d.ErrorKind, d.Error)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n",
			d.Device, d.Status, compliance, healthStatus, d.Changed, errText)
	}

	t := s.Totals
	fmt.Fprintf(tw, "\nrun %s: %s, %d devices, %d succeeded, %d failed, %d changed\n",
		s.RunID, s.Signal, t.Devices, t.Succeeded, t.Failed, t.Changed)

	return tw.Flush()
}
