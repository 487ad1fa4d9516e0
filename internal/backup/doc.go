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

// Package backup implements the fetch-dispatch-persist pipeline.
//
// A Fetcher walks the paginated listing of issues and pull requests
// changed since the last backup, enriches each entry with its timeline
// events (and, for pull requests, review comments and the canonical pull
// body), and sends the assembled records into a bounded channel. A Writer
// drains that channel and persists one JSON file per entry. The two run
// concurrently; the channel bound is the backpressure between them.
//
// Enrichment failures are recorded per entry and retried on the next run
// via the backup state; listing-page and write failures abort the run.
package backup
