// Copyright 2026 Repovault, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report records a summary of each backup run. The summary is
// written as metadata.json next to the backup data so external tooling
// can inspect run history, durations, and API usage without parsing
// logs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileName is the report file written into the backup destination.
const FileName = "metadata.json"

// RunReport is the persisted summary of one backup run.
type RunReport struct {
	ToolVersion string     `json:"tool_version"`
	RunID       string     `json:"run_id"`
	Parameters  RunParams  `json:"parameters"`
	Results     RunResults `json:"results"`
	Incremental bool       `json:"incremental"`
}

// RunParams captures the inputs of a run, preserved so a run can be
// reproduced when troubleshooting.
type RunParams struct {
	Owner      string     `json:"owner"`
	Repository string     `json:"repository"`
	Since      *time.Time `json:"since,omitempty"`
	PageSize   int        `json:"page_size"`
}

// RunResults holds the outcome counters of a run.
type RunResults struct {
	RecordsWritten int       `json:"records_written"`
	FailedIssues   int       `json:"failed_issues"`
	FailedPulls    int       `json:"failed_pulls"`
	APICalls       int       `json:"api_calls_made"`
	Duration       string    `json:"duration"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Tracker captures the start of a run and assembles the report at the
// end. Create one before the first API call so the duration covers the
// whole run.
type Tracker struct {
	startTime time.Time
}

// New creates a tracker anchored at the current time.
func New() *Tracker {
	return &Tracker{startTime: time.Now()}
}

// StartTime returns the moment the tracker was created. The backup
// state is stamped with this time so entries changed mid-run are picked
// up again next time.
func (t *Tracker) StartTime() time.Time {
	return t.startTime
}

// Generate assembles the final report from the run's outcome counters.
func (t *Tracker) Generate(toolVersion string, params RunParams, incremental bool, results RunResults) *RunReport {
	completedAt := time.Now()
	results.StartedAt = t.startTime
	results.CompletedAt = completedAt
	results.Duration = completedAt.Sub(t.startTime).String()

	return &RunReport{
		ToolVersion: toolVersion,
		RunID:       fmt.Sprintf("%s-%d", runType(incremental), t.startTime.Unix()),
		Parameters:  params,
		Results:     results,
		Incremental: incremental,
	}
}

// Save writes the report to metadata.json in dest, atomically via a
// temporary file and rename so a crash never leaves a truncated report.
func Save(r *RunReport, dest string) error {
	path := filepath.Join(dest, FileName)
	tmp := path + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := Write(r, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write report: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close report file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("save report file: %w", err)
	}
	return nil
}

// Write serializes the report as indented JSON to w.
func Write(r *RunReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func runType(incremental bool) string {
	if incremental {
		return "incremental"
	}
	return "full"
}
