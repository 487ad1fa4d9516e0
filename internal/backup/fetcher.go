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
	"time"

	gh "github.com/google/go-github/v68/github"

	vaulterrors "github.com/repovault/repovault/internal/errors"
	"github.com/repovault/repovault/internal/github"
	"github.com/repovault/repovault/internal/log"
	"github.com/repovault/repovault/internal/state"
)

// workItem is one entry awaiting enrichment. For issues fresh from a
// listing page, listed carries the already-fetched body; retried issues
// from a prior run leave it nil and are fetched fresh.
type workItem struct {
	kind   Kind
	number int
	listed *gh.Issue
}

// Fetcher walks the listing of changed entries, enriches each one, and
// streams the records to the writer. It is the producing half of the
// pipeline.
type Fetcher struct {
	client   github.Client
	enricher *Enricher
	owner    string
	repo     string
	pageSize int
}

// NewFetcher creates a fetcher for one repository.
func NewFetcher(client github.Client, owner, repo string, pageSize int) *Fetcher {
	return &Fetcher{
		client:   client,
		enricher: NewEnricher(client, owner, repo),
		owner:    owner,
		repo:     repo,
		pageSize: pageSize,
	}
}

// Run fetches all issues and pull requests changed since the prior
// backup, plus the entries the prior run failed on, and sends each
// enriched record to out. The send blocks when the writer is behind.
// A closed stop channel means the writer died; further work is pointless
// and Run returns an error.
//
// Per-entry enrichment failures are collected into the returned Result
// and do not abort the run. A listing-page failure does.
func (f *Fetcher) Run(ctx context.Context, prior *state.BackupState, out chan<- *Record, stop <-chan struct{}) (*Result, error) {
	logger := log.Named("fetch")
	logger.Info().Str("owner", f.owner).Str("repo", f.repo).Msg("start to load issues and pulls from GitHub")

	var since *time.Time
	if prior != nil {
		t := prior.LastBackup
		since = &t
	}

	res := &Result{}
	loadedIssues := 0
	loadedPulls := 0

	page := github.StartPage
	for {
		pg, err := f.client.ListEntries(ctx, f.owner, f.repo, github.ListOptions{
			Page:     page,
			Since:    since,
			PageSize: f.pageSize,
		})
		if err != nil {
			logger.Error().Int("page", page).Err(err).Msg("could not load listing page from GitHub")
			return nil, fmt.Errorf("%w: page %d: %v", vaulterrors.ErrListingFetch, page, err)
		}

		items := make([]workItem, 0, len(pg.Items))
		for _, entry := range pg.Items {
			if entry.IsPullRequest() {
				items = append(items, workItem{kind: KindPull, number: entry.GetNumber()})
			} else {
				items = append(items, workItem{kind: KindIssue, number: entry.GetNumber(), listed: entry})
			}
		}

		// The final processing pass also re-attempts everything the
		// prior run failed on. Their listing metadata is gone, so issue
		// bodies are re-fetched fresh.
		if pg.Next == 0 && prior != nil {
			for _, n := range prior.FailedIssues {
				items = append(items, workItem{kind: KindIssue, number: n})
			}
			for _, n := range prior.FailedPulls {
				items = append(items, workItem{kind: KindPull, number: n})
			}
		}

		for _, item := range items {
			var rec *Record
			var err error
			switch item.kind {
			case KindPull:
				rec, err = f.enricher.EnrichPull(ctx, item.number)
			default:
				rec, err = f.enricher.EnrichIssue(ctx, item.number, item.listed)
			}
			if err != nil {
				logger.Error().Err(err).Msgf("could not get %s #%d", item.kind, item.number)
				if item.kind == KindPull {
					res.FailedPulls = append(res.FailedPulls, item.number)
				} else {
					res.FailedIssues = append(res.FailedIssues, item.number)
				}
				continue
			}

			select {
			case out <- rec:
				if item.kind == KindPull {
					loadedPulls++
				} else {
					loadedIssues++
				}
			case <-stop:
				return nil, fmt.Errorf("%w: writer stopped, aborting fetch", vaulterrors.ErrInternal)
			}
		}

		if pg.Next == 0 {
			break
		}
		page = pg.Next
	}

	logger.Info().
		Int("issues", loadedIssues).
		Int("pulls", loadedPulls).
		Msg("loaded issues and pulls from GitHub")
	return res, nil
}
