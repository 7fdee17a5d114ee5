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

// Package publish hands finished run summaries to files and message brokers.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mfreeman451/netstate/pkg/fleet"
)

var (
	errClientClosed = errors.New("publisher is closed")
	errNoDirectory  = errors.New("summary directory is required")
)

const (
	summaryDirPerm  = 0o750
	summaryFilePerm = 0o640
	summaryLayout   = "20060102_150405"
)

// FileSink writes each run summary as summary_<timestamp>.json.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		return nil, errNoDirectory
	}

	return &FileSink{Dir: dir}, nil
}

// Path returns the file a run is written to.
func (s *FileSink) Path(result *fleet.RunResult) string {
	return filepath.Join(s.Dir, fmt.Sprintf("summary_%s.json", result.StartedAt.UTC().Format(summaryLayout)))
}

func (s *FileSink) Publish(_ context.Context, result *fleet.RunResult) error {
	body, err := json.MarshalIndent(result.Summary(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.MkdirAll(s.Dir, summaryDirPerm); err != nil {
		return fmt.Errorf("failed to create summary dir '%s': %w", s.Dir, err)
	}

	path := s.Path(result)

	if err := os.WriteFile(path, body, summaryFilePerm); err != nil {
		return fmt.Errorf("failed to write summary '%s': %w", path, err)
	}

	log.Printf("Run %s: summary written to %s", result.RunID, path)

	return nil
}
