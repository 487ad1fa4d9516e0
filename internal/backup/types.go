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

package backup

import (
	"fmt"

	gh "github.com/google/go-github/v68/github"
)

// RecordBuffer is the capacity of the channel between fetcher and writer.
// A full channel blocks the fetcher; that bound is the backpressure
// mechanism and also caps how many enriched records sit in memory.
const RecordBuffer = 100

// Kind tags a record as an issue or a pull request.
type Kind string

const (
	KindIssue Kind = "issue"
	KindPull  Kind = "pull"
)

// Record is a fully enriched issue or pull request, ready to persist.
// Exactly one of Issue and Pull is set, matching Type. A record is built
// once by enrichment, sent once, written once, and never mutated.
type Record struct {
	Type     Kind                     `json:"type"`
	Issue    *gh.Issue                `json:"issue,omitempty"`
	Pull     *gh.PullRequest          `json:"pull,omitempty"`
	Events   []*gh.Timeline           `json:"events"`
	Comments []*gh.PullRequestComment `json:"comments,omitempty"`
}

// Number returns the repository-scoped entry number.
func (r *Record) Number() int {
	if r.Type == KindPull {
		return r.Pull.GetNumber()
	}
	return r.Issue.GetNumber()
}

// String implements fmt.Stringer for log output.
func (r *Record) String() string {
	if r.Type == KindPull {
		return fmt.Sprintf("pull-request #%d", r.Number())
	}
	return fmt.Sprintf("issue #%d", r.Number())
}

// Result is the fetcher's terminal output: the entry numbers that could
// not be enriched. It feeds the next backup state so those entries are
// retried until they succeed.
type Result struct {
	FailedIssues []int
	FailedPulls  []int
}

// Failed reports whether any entry failed to load.
func (r *Result) Failed() bool {
	return len(r.FailedIssues) > 0 || len(r.FailedPulls) > 0
}
