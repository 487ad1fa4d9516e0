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
	"sync/atomic"
	"time"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 30 * time.Second

// listingEpoch is the lower bound used for full-history listings. The
// GitHub API doesn't return anything if you give it 1970-01-01 00:00:00
// UTC, so give it 1970-01-02.
var listingEpoch = time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)

// RESTClient implements Client on top of the go-github REST client.
type RESTClient struct {
	gh       *gh.Client
	limiter  *RateLimiter
	apiCalls atomic.Int64
}

// NewRESTClient creates an authenticated REST client. An empty apiEndpoint
// targets api.github.com; otherwise the endpoint is used as a GitHub
// Enterprise base URL.
func NewRESTClient(ctx context.Context, token, apiEndpoint string) (*RESTClient, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	client := gh.NewClient(tc)
	if apiEndpoint != "" {
		var err error
		client, err = client.WithEnterpriseURLs(apiEndpoint, apiEndpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid api endpoint %q: %w", apiEndpoint, err)
		}
	}

	return &RESTClient{
		gh:      client,
		limiter: NewRateLimiter(),
	}, nil
}

// ListEntries implements Client.
func (c *RESTClient) ListEntries(ctx context.Context, owner, repo string, opts ListOptions) (*Page[*gh.Issue], error) {
	return execute(ctx, c.RateStatus, func() (*Page[*gh.Issue], error) {
		if err := c.before(ctx); err != nil {
			return nil, err
		}

		// With no prior backup the whole history is walked in creation
		// order; with one, only entries updated since then, in update
		// order. Ascending traversal either way, so pagination drift can
		// only repeat entries, never skip them.
		sort := "created"
		since := listingEpoch
		if opts.Since != nil {
			sort = "updated"
			since = *opts.Since
		}

		issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, &gh.IssueListByRepoOptions{
			State:     "all",
			Sort:      sort,
			Direction: "asc",
			Since:     since,
			ListOptions: gh.ListOptions{
				Page:    opts.Page,
				PerPage: c.pageSize(opts.PageSize),
			},
		})
		c.after(resp)
		if err != nil {
			return nil, err
		}
		return &Page[*gh.Issue]{Items: issues, Next: resp.NextPage}, nil
	})
}

// GetIssue implements Client.
func (c *RESTClient) GetIssue(ctx context.Context, owner, repo string, number int) (*gh.Issue, error) {
	return execute(ctx, c.RateStatus, func() (*gh.Issue, error) {
		if err := c.before(ctx); err != nil {
			return nil, err
		}
		issue, resp, err := c.gh.Issues.Get(ctx, owner, repo, number)
		c.after(resp)
		if err != nil {
			return nil, err
		}
		return issue, nil
	})
}

// GetPull implements Client.
func (c *RESTClient) GetPull(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error) {
	return execute(ctx, c.RateStatus, func() (*gh.PullRequest, error) {
		if err := c.before(ctx); err != nil {
			return nil, err
		}
		pull, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
		c.after(resp)
		if err != nil {
			return nil, err
		}
		return pull, nil
	})
}

// ListTimeline implements Client.
func (c *RESTClient) ListTimeline(ctx context.Context, owner, repo string, number, page int) (*Page[*gh.Timeline], error) {
	return execute(ctx, c.RateStatus, func() (*Page[*gh.Timeline], error) {
		if err := c.before(ctx); err != nil {
			return nil, err
		}
		events, resp, err := c.gh.Issues.ListIssueTimeline(ctx, owner, repo, number, &gh.ListOptions{
			Page:    page,
			PerPage: MaxPageSize,
		})
		c.after(resp)
		if err != nil {
			return nil, err
		}
		return &Page[*gh.Timeline]{Items: events, Next: resp.NextPage}, nil
	})
}

// ListReviewComments implements Client.
func (c *RESTClient) ListReviewComments(ctx context.Context, owner, repo string, number, page int) (*Page[*gh.PullRequestComment], error) {
	return execute(ctx, c.RateStatus, func() (*Page[*gh.PullRequestComment], error) {
		if err := c.before(ctx); err != nil {
			return nil, err
		}
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, number, &gh.PullRequestListCommentsOptions{
			ListOptions: gh.ListOptions{
				Page:    page,
				PerPage: MaxPageSize,
			},
		})
		c.after(resp)
		if err != nil {
			return nil, err
		}
		return &Page[*gh.PullRequestComment]{Items: comments, Next: resp.NextPage}, nil
	})
}

// RateStatus implements Client. The quota query does not go through the
// proactive limiter or the executor: it hits a separate, unmetered
// endpoint and is what the executor itself calls while deciding whether
// to wait.
func (c *RESTClient) RateStatus(ctx context.Context) (*RateStatus, error) {
	limits, resp, err := c.gh.RateLimit.Get(ctx)
	c.after(resp)
	if err != nil {
		return nil, err
	}
	core := limits.GetCore()
	return &RateStatus{
		Remaining: core.Remaining,
		Reset:     core.Reset.Time,
	}, nil
}

// APICalls returns the number of HTTP requests issued so far.
func (c *RESTClient) APICalls() int {
	return int(c.apiCalls.Load())
}

func (c *RESTClient) pageSize(requested int) int {
	if requested < 1 || requested > MaxPageSize {
		return MaxPageSize
	}
	return requested
}

func (c *RESTClient) before(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

func (c *RESTClient) after(resp *gh.Response) {
	c.apiCalls.Add(1)
	if resp == nil || resp.Response == nil {
		return
	}
	c.limiter.UpdateFromResponse(resp.Response)
}
