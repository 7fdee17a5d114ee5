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

package device

import (
	"context"
	"fmt"
	"strings"
)

func (f *Facade) oidFetch(ctx context.Context, oid string) func() (float64, error) {
	if f.oids == nil || oid == "" {
		return nil
	}

	return func() (float64, error) {
		return f.oidValue(ctx, oid)
	}
}

func (f *Facade) oidCPU(ctx context.Context) func() (float64, error) {
	return f.oidFetch(ctx, f.profile.SNMP.CPU)
}

func (f *Facade) oidTemperature(ctx context.Context) func() (float64, error) {
	return f.oidFetch(ctx, f.profile.SNMP.Temperature)
}

func (f *Facade) oidMemory(ctx context.Context) func() (float64, error) {
	if f.oids == nil {
		return nil
	}

	oids := f.profile.SNMP

	if oids.MemoryPercent != "" {
		return f.oidFetch(ctx, oids.MemoryPercent)
	}

	if oids.MemoryUsed == "" || oids.MemoryFree == "" {
		return nil
	}

	return func() (float64, error) {
		values, err := f.oids.GetOIDs(ctx, []string{oids.MemoryUsed, oids.MemoryFree})
		if err != nil {
			return 0, err
		}

		used, err := toFloat(values[oids.MemoryUsed])
		if err != nil {
			return 0, err
		}

		free, err := toFloat(values[oids.MemoryFree])
		if err != nil {
			return 0, err
		}

		if used+free <= 0 {
			return 0, fmt.Errorf("%w: empty memory pool", ErrParse)
		}

		return round2(used / (used + free) * 100), nil
	}
}

func (f *Facade) oidValue(ctx context.Context, oid string) (float64, error) {
	values, err := f.oids.GetOIDs(ctx, []string{oid})
	if err != nil {
		return 0, err
	}

	v, ok := values[oid]
	if !ok {
		v, ok = values["."+strings.TrimPrefix(oid, ".")]
	}

	if !ok {
		return 0, fmt.Errorf("%w: %s not returned", ErrParse, oid)
	}

	return toFloat(v)
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: unexpected value type %T", ErrParse, v)
	}
}
