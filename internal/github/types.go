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

package github

import (
	"context"
	"time"

	gh "github.com/google/go-github/v68/github"
)

const (
	// MaxPageSize is the GitHub API's maximum page size. Requesting full
	// pages minimizes the request count against the rate limit.
	MaxPageSize = 100

	// StartPage is the first page index; GitHub starts counting at 1.
	StartPage = 1
)

// Page holds one page of results plus the index of the page that follows.
type Page[T any] struct {
	Items []T

	// Next is the 1-based index of the next page, or 0 when this page is
	// the last one.
	Next int
}

// ListOptions configures one listing-page fetch.
type ListOptions struct {
	// Page is the 1-based page index to request.
	Page int

	// Since restricts the listing to entries updated at or after this
	// instant, sorted by update time ascending. When nil the full history
	// is requested instead, sorted by creation time ascending.
	Since *time.Time

	// PageSize is the number of items per page. Defaults to MaxPageSize.
	PageSize int
}

// RateStatus is a snapshot of the core rate-limit quota.
type RateStatus struct {
	Remaining int
	Reset     time.Time
}

// Client defines the page-oriented interface to the GitHub API.
// All implementations carry the single-retry rate-limit policy; see
// package documentation. The interface allows for easy mocking in tests.
type Client interface {
	// ListEntries retrieves one page of the combined issue and pull
	// request listing for a repository. Pull requests appear as issues
	// with their pull-request link set.
	ListEntries(ctx context.Context, owner, repo string, opts ListOptions) (*Page[*gh.Issue], error)

	// GetIssue retrieves a single issue by number.
	GetIssue(ctx context.Context, owner, repo string, number int) (*gh.Issue, error)

	// GetPull retrieves the canonical pull request body by number.
	GetPull(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error)

	// ListTimeline retrieves one page of timeline events for an issue or
	// pull request.
	ListTimeline(ctx context.Context, owner, repo string, number, page int) (*Page[*gh.Timeline], error)

	// ListReviewComments retrieves one page of review comments for a pull
	// request.
	ListReviewComments(ctx context.Context, owner, repo string, number, page int) (*Page[*gh.PullRequestComment], error)

	// RateStatus queries the remaining core quota and its reset instant.
	RateStatus(ctx context.Context) (*RateStatus, error)
}
