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
	"fmt"
	"os"
	"strings"
)

const defaultCredentialPrefix = "NETSTATE"

// EnvCredentials resolves credential references from environment variables
// named <PREFIX>_<REF>_USERNAME, _PASSWORD, _KEY_FILE and _COMMUNITY.
type EnvCredentials struct {
	Prefix string
	lookup func(string) (string, bool)
}

func NewEnvCredentials(prefix string) *EnvCredentials {
	if prefix == "" {
		prefix = defaultCredentialPrefix
	}

	return &EnvCredentials{Prefix: prefix, lookup: os.LookupEnv}
}

func (e *EnvCredentials) Lookup(ref string) (Credentials, error) {
	if ref == "" {
		return Credentials{}, nil
	}

	base := e.Prefix + "_" + envName(ref)

	var (
		creds Credentials
		found bool
	)

	for suffix, dst := range map[string]*string{
		"_USERNAME":  &creds.Username,
		"_PASSWORD":  &creds.Password,
		"_KEY_FILE":  &creds.KeyFile,
		"_COMMUNITY": &creds.Community,
	} {
		if v, ok := e.lookup(base + suffix); ok {
			*dst = v
			found = true
		}
	}

	if !found {
		return Credentials{}, fmt.Errorf("%w: %w: %s", ErrAuthentication, errCredentialUnset, ref)
	}

	return creds, nil
}

func envName(ref string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, ref)
}
