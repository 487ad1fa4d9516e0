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

// Package github wraps the GitHub REST API behind a small page-oriented
// client interface.
//
// Every remote operation is a single page fetch or a single get-by-number,
// routed through a shared executor that retries exactly once after waiting
// out the rate-limit window. Pagination is driven by the callers through
// CollectAll, which walks numbered pages until the API reports no next
// page. The Client interface exists so the backup pipeline can be tested
// against MockClient without touching the network.
package github
