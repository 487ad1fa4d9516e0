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
	"context"
	"fmt"
	"sync"

	gh "github.com/google/go-github/v68/github"

	"github.com/repovault/repovault/internal/github"
)

// Enricher assembles self-contained records by fetching an entry's
// sub-resources. Sub-fetches of one entry run concurrently with each
// other; any single failure fails the whole enrichment, so an entry is
// never partially recorded.
type Enricher struct {
	client github.Client
	owner  string
	repo   string
}

// NewEnricher creates an enricher for one repository.
func NewEnricher(client github.Client, owner, repo string) *Enricher {
	return &Enricher{client: client, owner: owner, repo: repo}
}

// EnrichIssue builds the record for an issue. When the issue body was
// already obtained during listing it is reused; a retried issue from a
// prior run passes nil and is fetched fresh.
func (e *Enricher) EnrichIssue(ctx context.Context, number int, listed *gh.Issue) (*Record, error) {
	var (
		wg        sync.WaitGroup
		events    []*gh.Timeline
		eventsErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		events, eventsErr = e.timeline(ctx, number)
	}()

	issue := listed
	var issueErr error
	if issue == nil {
		issue, issueErr = e.client.GetIssue(ctx, e.owner, e.repo, number)
	}
	wg.Wait()

	if issueErr != nil {
		return nil, fmt.Errorf("fetch issue #%d: %w", number, issueErr)
	}
	if eventsErr != nil {
		return nil, fmt.Errorf("fetch timeline for issue #%d: %w", number, eventsErr)
	}

	return &Record{Type: KindIssue, Issue: issue, Events: events}, nil
}

// EnrichPull builds the record for a pull request. The canonical pull
// body, the timeline events, and the review comments are three
// independent remote fetches; running them in parallel bounds the
// wall-clock latency per entry.
func (e *Enricher) EnrichPull(ctx context.Context, number int) (*Record, error) {
	var (
		wg          sync.WaitGroup
		pull        *gh.PullRequest
		pullErr     error
		events      []*gh.Timeline
		eventsErr   error
		comments    []*gh.PullRequestComment
		commentsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		pull, pullErr = e.client.GetPull(ctx, e.owner, e.repo, number)
	}()
	go func() {
		defer wg.Done()
		events, eventsErr = e.timeline(ctx, number)
	}()
	go func() {
		defer wg.Done()
		comments, commentsErr = github.CollectAll(func(page int) (*github.Page[*gh.PullRequestComment], error) {
			return e.client.ListReviewComments(ctx, e.owner, e.repo, number, page)
		})
	}()
	wg.Wait()

	if pullErr != nil {
		return nil, fmt.Errorf("fetch pull #%d: %w", number, pullErr)
	}
	if eventsErr != nil {
		return nil, fmt.Errorf("fetch timeline for pull #%d: %w", number, eventsErr)
	}
	if commentsErr != nil {
		return nil, fmt.Errorf("fetch review comments for pull #%d: %w", number, commentsErr)
	}

	return &Record{Type: KindPull, Pull: pull, Events: events, Comments: comments}, nil
}

func (e *Enricher) timeline(ctx context.Context, number int) ([]*gh.Timeline, error) {
	return github.CollectAll(func(page int) (*github.Page[*gh.Timeline], error) {
		return e.client.ListTimeline(ctx, e.owner, e.repo, number, page)
	})
}
