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
	"os"
	"path/filepath"
	"strings"
)

const (
	artifactDirPerm  = 0o750
	artifactFilePerm = 0o640
)

// ArtifactWriter writes snapshot and diff files under
// <dir>/<profile>/<address>/ for report tooling.
type ArtifactWriter struct {
	Dir string
}

func NewArtifactWriter(dir string) *ArtifactWriter {
	return &ArtifactWriter{Dir: dir}
}

func (w *ArtifactWriter) deviceDir(s *Snapshot) string {
	return w.dirFor(string(s.Device.Profile), s.Device.Address)
}

func (w *ArtifactWriter) dirFor(profile, address string) string {
	return filepath.Join(w.Dir, safeName(profile), safeName(address))
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '%', '*', '?':
			return '_'
		}

		return r
	}, s)
}

// WriteSnapshot writes the plain configuration text and returns its path.
func (w *ArtifactWriter) WriteSnapshot(s *Snapshot) (string, error) {
	dir := w.deviceDir(s)
	path := filepath.Join(dir, fmt.Sprintf("v%06d.cfg", s.Version))

	if err := write(dir, path, s.RawText); err != nil {
		return "", err
	}

	return path, nil
}

// WriteDiff writes a changed diff and returns its path. Unchanged diffs
// produce no artifact.
func (w *ArtifactWriter) WriteDiff(d *Diff) (string, error) {
	if d == nil || !d.Changed {
		return "", nil
	}

	dir := w.dirFor(string(d.Device.Profile), d.Device.Address)
	path := filepath.Join(dir, fmt.Sprintf("v%06d-v%06d.diff", d.FromVersion, d.ToVersion))

	if err := write(dir, path, d.Text); err != nil {
		return "", err
	}

	return path, nil
}

func write(dir, path, body string) error {
	if err := os.MkdirAll(dir, artifactDirPerm); err != nil {
		return fmt.Errorf("failed to create artifact dir '%s': %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(body), artifactFilePerm); err != nil {
		return fmt.Errorf("failed to write artifact '%s': %w", path, err)
	}

	return nil
}
