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

	"github.com/spf13/cobra"

	"github.com/mfreeman451/netstate/pkg/models"
	"github.com/mfreeman451/netstate/pkg/snapshot"
)

var diffFrom, diffTo int

var diffCmd = &cobra.Command{
	Use:   "diff <profile> <address>",
	Short: "Show the unified diff between stored configuration versions of a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := models.ParseVendorProfile(args[0])
		if err != nil {
			return err
		}

		id := models.DeviceIdentity{Address: args[1], Profile: profile}

		s, err := newServer()
		if err != nil {
			return err
		}

		defer func() {
			if err := s.Close(); err != nil {
				log.Printf("Failed to close engine: %v", err)
			}
		}()

		var d *snapshot.Diff

		if diffFrom > 0 || diffTo > 0 {
			from, err := s.Snapshots().Get(cmd.Context(), id, diffFrom)
			if err != nil {
				return err
			}

			to, err := s.Snapshots().Get(cmd.Context(), id, diffTo)
			if err != nil {
				return err
			}

			if d, err = snapshot.Compare(from, to); err != nil {
				return err
			}
		} else if d, err = s.Snapshots().DiffAgainstPrevious(cmd.Context(), id); err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		switch {
		case d == nil:
			fmt.Fprintf(out, "%s: fewer than two snapshots recorded\n", id.Key())
		case !d.Changed:
			fmt.Fprintf(out, "%s: v%d and v%d are identical\n", id.Key(), d.FromVersion, d.ToVersion)
		default:
			fmt.Fprint(out, d.Text)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().IntVar(&diffFrom, "from", 0, "Older version (defaults to the previous version)")
	diffCmd.Flags().IntVar(&diffTo, "to", 0, "Newer version (defaults to the latest version)")
	diffCmd.MarkFlagsRequiredTogether("from", "to")
}
