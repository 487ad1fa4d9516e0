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

// Package main implements the repovault command-line interface. The
// tool backs up the issues and pull requests of a GitHub repository to
// local JSON files, fetching incrementally on repeated runs.
//
// The CLI supports:
//   - Full backup on the first run, incremental updates afterwards
//   - Automatic retry of entries a previous run failed to load
//   - GitHub token authentication via flag, token file, or environment
//   - GitHub Enterprise endpoints via configuration
//   - Graceful error handling with distinct exit codes
//
// Usage:
//
//	repovault backup <owner>/<repo> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	repovault backup golang/go --dest ./go-backup
//
// Exit codes:
//   - 0: Success
//   - 1: Destination directories could not be created
//   - 2: GitHub client could not be constructed
//   - 3: API error (fatal listing failure, or run completed with failures)
//   - 4: No GitHub token present
//   - 5: Internal pipeline failure
//   - 6: Record or state file could not be written
package main
