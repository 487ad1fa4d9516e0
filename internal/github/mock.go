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
	"fmt"
	"time"

	gh "github.com/google/go-github/v68/github"
)

// MockClient is a scriptable implementation of the Client interface for
// testing. Listing pages are served from ListingPages in order; entry
// sub-resources come from the maps, keyed by entry number.
type MockClient struct {
	// ListingPages holds the scripted listing, one slice per page.
	ListingPages [][]*gh.Issue

	// Issues and Pulls are served by GetIssue / GetPull.
	Issues map[int]*gh.Issue
	Pulls  map[int]*gh.PullRequest

	// Timelines and Comments are served as a single page per entry.
	Timelines map[int][]*gh.Timeline
	Comments  map[int][]*gh.PullRequestComment

	// ListErrOnPage makes ListEntries fail on the given page (0 = never).
	ListErrOnPage int
	ListErr       error

	// TimelineErrs makes ListTimeline fail for the given entry numbers.
	TimelineErrs map[int]error

	// Rate is returned by RateStatus.
	Rate RateStatus

	// Call tracking for verification.
	ListCalls      int
	GetIssueCalls  []int
	GetPullCalls   []int
	TimelineCalls  []int
	CommentCalls   []int
	RateCalls      int
	LastSince      *time.Time
	LastListedPage int
}

// NewMockClient creates a mock with empty data and a healthy rate quota.
func NewMockClient() *MockClient {
	return &MockClient{
		Issues:       map[int]*gh.Issue{},
		Pulls:        map[int]*gh.PullRequest{},
		Timelines:    map[int][]*gh.Timeline{},
		Comments:     map[int][]*gh.PullRequestComment{},
		TimelineErrs: map[int]error{},
		Rate:         RateStatus{Remaining: GitHubRateLimit, Reset: time.Now().Add(time.Hour)},
	}
}

// ListEntries implements Client.
func (m *MockClient) ListEntries(ctx context.Context, owner, repo string, opts ListOptions) (*Page[*gh.Issue], error) {
	m.ListCalls++
	m.LastSince = opts.Since
	m.LastListedPage = opts.Page

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ListErrOnPage != 0 && opts.Page == m.ListErrOnPage {
		if m.ListErr != nil {
			return nil, m.ListErr
		}
		return nil, fmt.Errorf("listing page %d unavailable", opts.Page)
	}

	if len(m.ListingPages) == 0 {
		return &Page[*gh.Issue]{}, nil
	}
	if opts.Page > len(m.ListingPages) {
		return nil, fmt.Errorf("page %d out of range", opts.Page)
	}

	page := &Page[*gh.Issue]{Items: m.ListingPages[opts.Page-1]}
	if opts.Page < len(m.ListingPages) {
		page.Next = opts.Page + 1
	}
	return page, nil
}

// GetIssue implements Client.
func (m *MockClient) GetIssue(ctx context.Context, owner, repo string, number int) (*gh.Issue, error) {
	m.GetIssueCalls = append(m.GetIssueCalls, number)
	issue, ok := m.Issues[number]
	if !ok {
		return nil, fmt.Errorf("issue #%d not found", number)
	}
	return issue, nil
}

// GetPull implements Client.
func (m *MockClient) GetPull(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error) {
	m.GetPullCalls = append(m.GetPullCalls, number)
	pull, ok := m.Pulls[number]
	if !ok {
		return nil, fmt.Errorf("pull #%d not found", number)
	}
	return pull, nil
}

// ListTimeline implements Client.
func (m *MockClient) ListTimeline(ctx context.Context, owner, repo string, number, page int) (*Page[*gh.Timeline], error) {
	m.TimelineCalls = append(m.TimelineCalls, number)
	if err, ok := m.TimelineErrs[number]; ok {
		return nil, err
	}
	return &Page[*gh.Timeline]{Items: m.Timelines[number]}, nil
}

// ListReviewComments implements Client.
func (m *MockClient) ListReviewComments(ctx context.Context, owner, repo string, number, page int) (*Page[*gh.PullRequestComment], error) {
	m.CommentCalls = append(m.CommentCalls, number)
	return &Page[*gh.PullRequestComment]{Items: m.Comments[number]}, nil
}

// RateStatus implements Client.
func (m *MockClient) RateStatus(ctx context.Context) (*RateStatus, error) {
	m.RateCalls++
	st := m.Rate
	return &st, nil
}

// IssueListing builds an issue as it appears in a listing page.
func IssueListing(number int, title string) *gh.Issue {
	return &gh.Issue{
		Number: gh.Ptr(number),
		Title:  gh.Ptr(title),
	}
}

// PullListing builds a pull request as it appears in a listing page: an
// issue carrying the pull-request marker.
func PullListing(number int, title string) *gh.Issue {
	return &gh.Issue{
		Number:           gh.Ptr(number),
		Title:            gh.Ptr(title),
		PullRequestLinks: &gh.PullRequestLinks{URL: gh.Ptr(fmt.Sprintf("https://api.github.com/repos/o/r/pulls/%d", number))},
	}
}
