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
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfreeman451/netstate/pkg/config"
	"github.com/mfreeman451/netstate/pkg/models"
	"github.com/mfreeman451/netstate/pkg/scan"
)

var (
	pingMethod      string
	pingPort        int
	pingTimeout     time.Duration
	pingConcurrency int
	pingPrivileged  bool
)

var pingCmd = &cobra.Command{
	Use:   "ping [host|cidr ...]",
	Short: "Probe reachability of the given hosts, or of every inventory device",
	Long: `Probe reachability of the given hosts, or of every inventory device when no
hosts are given. Exits 1 when any host is unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		method, err := scan.ParseMethod(pingMethod)
		if err != nil {
			return err
		}

		hosts, err := pingTargets(args)
		if err != nil {
			return err
		}

		pinger, err := scan.NewPinger(scan.Config{
			Method:      method,
			Timeout:     pingTimeout,
			Concurrency: pingConcurrency,
			Port:        pingPort,
			Privileged:  pingPrivileged,
		})
		if err != nil {
			return err
		}

		results := pinger.Ping(cmd.Context(), hosts)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "HOST\tREACHABLE\tRTT\tERROR")

		unreachable := 0

		for _, r := range results {
			rtt, errText := "-", "-"

			if r.Reachable {
				rtt = r.RTT.Round(time.Microsecond).String()
			} else {
				unreachable++
				errText = r.Error
			}

			fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", r.Host, r.Reachable, rtt, errText)
		}

		if err := tw.Flush(); err != nil {
			return err
		}

		if unreachable > 0 {
			return &exitError{code: 1}
		}

		return nil
	},
}

func pingTargets(args []string) ([]string, error) {
	if len(args) > 0 {
		return scan.ExpandHosts(args)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var inv models.Inventory
	if err := config.LoadAndValidate(cfg.Inventory, &inv); err != nil {
		return nil, err
	}

	hosts := make([]string, 0, len(inv.Devices))
	for i := range inv.Devices {
		hosts = append(hosts, inv.Devices[i].Address)
	}

	return scan.ExpandHosts(hosts)
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().StringVar(&pingMethod, "method", string(scan.MethodICMP), "Probe method: icmp or tcp")
	pingCmd.Flags().IntVar(&pingPort, "port", 22, "TCP port for --method tcp")
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 2*time.Second, "Per-host probe timeout")
	pingCmd.Flags().IntVar(&pingConcurrency, "concurrency", 16, "Maximum concurrent probes")
	pingCmd.Flags().BoolVar(&pingPrivileged, "privileged", false, "Use a raw ICMP socket (requires CAP_NET_RAW)")
}
