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

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/repovault/repovault/internal/log"
)

// FilePath returns the state file path for a backup destination.
func FilePath(destination string) string {
	return filepath.Join(destination, FileName)
}

// Load reads the backup state from the destination directory. A missing,
// unreadable, undeserializable, or unknown-version state file all yield
// nil: the caller falls back to a full backup. Forward-incompatible state
// is never partially trusted.
func Load(destination string) *BackupState {
	logger := log.Named("state")
	path := FilePath(destination)

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Info().Str("path", path).Err(err).Msg("no backup state found, doing a full backup")
		return nil
	}

	var st BackupState
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("backup state could not be deserialized, doing a full backup")
		return nil
	}

	switch st.Version {
	case CurrentVersion, 1:
		// Version 1 lacks the failure fields; they stay nil and load as
		// empty retry lists.
	default:
		logger.Warn().Int("version", st.Version).Msg("backup state version is unknown, doing a full backup")
		return nil
	}

	logger.Info().Time("last_backup", st.LastBackup).Msg("doing an incremental backup")
	if len(st.FailedIssues) > 0 {
		logger.Info().Ints("issues", st.FailedIssues).Msg("retrying previously failed issues")
	}
	if len(st.FailedPulls) > 0 {
		logger.Info().Ints("pulls", st.FailedPulls).Msg("retrying previously failed pull requests")
	}
	return &st
}

// Save writes the backup state to the destination directory. The write goes
// to a temporary file first and is moved into place with an atomic rename,
// so a crash mid-write cannot leave a truncated state file behind.
func Save(st *BackupState, destination string) error {
	st.Version = CurrentVersion
	if st.FailedIssues == nil {
		st.FailedIssues = []int{}
	}
	if st.FailedPulls == nil {
		st.FailedPulls = []int{}
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	path := FilePath(destination)
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	log.Named("state").Info().Str("path", path).Msg("written backup state")
	return nil
}
