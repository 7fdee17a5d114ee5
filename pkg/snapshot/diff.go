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

package snapshot

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// Label names a snapshot in diff headers and artifact names.
func Label(s *Snapshot) string {
	return fmt.Sprintf("%s@v%d", s.Device.Key(), s.Version)
}

// Compare diffs two snapshots of the same device. Hashes are compared first
// and the unified diff is only built when they differ.
func Compare(from, to *Snapshot) (*Diff, error) {
	d := &Diff{
		Device:      to.Device,
		FromVersion: from.Version,
		ToVersion:   to.Version,
		Changed:     from.ContentHash != to.ContentHash,
	}

	if !d.Changed {
		return d, nil
	}

	text, err := UnifiedDiff(from, to)
	if err != nil {
		return nil, err
	}

	d.Text = text

	return d, nil
}

// UnifiedDiff renders a line-oriented unified diff between two snapshots.
func UnifiedDiff(from, to *Snapshot) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(from.RawText),
		B:        difflib.SplitLines(to.RawText),
		FromFile: Label(from),
		ToFile:   Label(to),
		FromDate: from.CapturedAt.UTC().Format("2006-01-02T15:04:05Z"),
		ToDate:   to.CapturedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Context:  diffContext,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build diff for %s: %w", to.Device.Key(), err)
	}

	return text, nil
}
