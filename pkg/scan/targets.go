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

package scan

import (
	"fmt"
	"net"
	"strings"
)

// maxExpandedHosts bounds CIDR expansion; a /20 is the largest accepted range.
const maxExpandedHosts = 4094

// ExpandHosts turns host names, addresses and IPv4 CIDR ranges into a flat
// host list, preserving argument order and dropping duplicates.
func ExpandHosts(args []string) ([]string, error) {
	seen := make(map[string]struct{}, len(args))
	out := make([]string, 0, len(args))

	add := func(h string) {
		if _, ok := seen[h]; ok {
			return
		}

		seen[h] = struct{}{}
		out = append(out, h)
	}

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}

		if !strings.Contains(arg, "/") {
			add(arg)
			continue
		}

		ips, err := GenerateIPsFromCIDR(arg)
		if err != nil {
			return nil, err
		}

		for _, ip := range ips {
			add(ip.String())
		}
	}

	return out, nil
}

// GenerateIPsFromCIDR returns the usable addresses of an IPv4 range. Network
// and broadcast addresses are skipped except for /31 and /32.
func GenerateIPsFromCIDR(network string) ([]net.IP, error) {
	ip, ipnet, err := net.ParseCIDR(network)
	if err != nil {
		return nil, err
	}

	if ip.To4() == nil {
		return nil, fmt.Errorf("%w: %s", errNotIPv4, network)
	}

	ones, bits := ipnet.Mask.Size()
	if ones >= 31 {
		out := make([]net.IP, 0, 2)

		for cur := dup(ipnet.IP.To4()); ipnet.Contains(cur); Inc(cur) {
			out = append(out, dup(cur))

			if ones == 32 {
				break
			}
		}

		return out, nil
	}

	size := (1 << uint(bits-ones)) - 2
	if size > maxExpandedHosts {
		return nil, fmt.Errorf("%w: %s has %d hosts", ErrRangeTooLarge, network, size)
	}

	ips := make([]net.IP, 0, size)

	for cur := dup(ipnet.IP.To4()); ipnet.Contains(cur); Inc(cur) {
		if IsFirstOrLastAddress(cur, ipnet) {
			continue
		}

		ips = append(ips, dup(cur))
	}

	return ips, nil
}

func dup(ip net.IP) net.IP {
	out := make(net.IP, len(ip))
	copy(out, ip)

	return out
}

// IsFirstOrLastAddress reports whether ip is the network or broadcast address.
func IsFirstOrLastAddress(ip net.IP, network *net.IPNet) bool {
	ipv4 := ip.To4()
	if ipv4 == nil {
		return false
	}

	networkIP := network.IP.To4()
	if networkIP == nil {
		return false
	}

	if ipv4.Equal(networkIP) {
		return true
	}

	broadcast := make(net.IP, 4)
	for i := 0; i < 4; i++ {
		broadcast[i] = networkIP[i] | ^network.Mask[i]
	}

	return ipv4.Equal(broadcast)
}

// Inc increments an IP address in place.
func Inc(ip net.IP) {
	for i := len(ip) - 1; i >= 0; i-- {
		ip[i]++
		if ip[i] > 0 {
			break
		}
	}
}
