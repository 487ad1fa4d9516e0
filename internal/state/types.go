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

package state

import "time"

// CurrentVersion is the current state schema version. Version 2 added the
// failed-entry fields; version 1 documents still load, with those fields
// defaulting to empty.
const CurrentVersion = 2

// FileName is the name of the state file inside the backup destination.
const FileName = "state.json"

// BackupState is the persisted cursor and failure memory that makes backup
// runs incremental and resumable.
type BackupState struct {
	// Version indicates the schema version of this state file.
	Version int `json:"version"`

	// LastBackup is the UTC instant the last successful backup run started.
	// The start time, not the end time: an entry updated mid-run falls
	// after this instant and is picked up again on the next pass.
	LastBackup time.Time `json:"last_backup"`

	// FailedIssues holds issue numbers that could not be loaded in the
	// run that wrote this state. They are retried on the next run.
	FailedIssues []int `json:"failed_issues"`

	// FailedPulls holds pull request numbers that could not be loaded in
	// the run that wrote this state. They are retried on the next run.
	FailedPulls []int `json:"failed_pulls"`
}
