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

// Package errors defines sentinel errors for consistent error handling across
// the application. These errors map to specific exit codes in the CLI for
// proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrCreateDirs indicates the destination directory tree could not be created.
	// Maps to exit code 1.
	ErrCreateDirs = errors.New("could not create destination directories")

	// ErrClientInit indicates the GitHub client could not be constructed
	// from the supplied credentials or endpoint configuration.
	// Maps to exit code 2.
	ErrClientInit = errors.New("could not construct github client")

	// ErrListingFetch indicates a listing page could not be fetched from the
	// GitHub API. This aborts the whole run.
	// Maps to exit code 3.
	ErrListingFetch = errors.New("could not fetch listing page")

	// ErrPartialFetch indicates the run completed but one or more entries
	// could not be enriched. Records that did load were still written.
	// Maps to exit code 3.
	ErrPartialFetch = errors.New("some issues or pull requests failed to load")

	// ErrMissingToken indicates no GitHub personal access token was provided.
	// Maps to exit code 4.
	ErrMissingToken = errors.New("no github personal access token present")

	// ErrInternal indicates a coordination failure between the fetch and
	// write halves of the pipeline, such as a panicked goroutine.
	// Maps to exit code 5.
	ErrInternal = errors.New("internal pipeline failure")

	// ErrWriteFailed indicates a record could not be serialized or written
	// to the destination. This aborts the whole run.
	// Maps to exit code 6.
	ErrWriteFailed = errors.New("could not write record")

	// ErrStateWrite indicates the backup state file could not be written
	// at the end of a run.
	// Maps to exit code 6.
	ErrStateWrite = errors.New("could not write backup state")
)
