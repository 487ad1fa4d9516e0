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

package backup_test

import (
	"context"
	"errors"
	"testing"

	gh "github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repovault/repovault/internal/backup"
	"github.com/repovault/repovault/internal/github"
)

func TestEnrichIssueReusesListedBody(t *testing.T) {
	mock := github.NewMockClient()
	mock.Timelines[1] = []*gh.Timeline{{Event: gh.Ptr("closed")}}

	listed := github.IssueListing(1, "listed body")
	e := backup.NewEnricher(mock, "octocat", "hello-world")
	rec, err := e.EnrichIssue(context.Background(), 1, listed)
	require.NoError(t, err)

	assert.Equal(t, backup.KindIssue, rec.Type)
	assert.Same(t, listed, rec.Issue)
	require.Len(t, rec.Events, 1)
	assert.Equal(t, "closed", rec.Events[0].GetEvent())
	assert.Empty(t, mock.GetIssueCalls)
}

func TestEnrichIssueFetchesWhenNotListed(t *testing.T) {
	mock := github.NewMockClient()
	mock.Issues[4] = &gh.Issue{Number: gh.Ptr(4), Title: gh.Ptr("fetched body")}

	e := backup.NewEnricher(mock, "octocat", "hello-world")
	rec, err := e.EnrichIssue(context.Background(), 4, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, rec.Number())
	assert.Equal(t, "fetched body", rec.Issue.GetTitle())
	assert.Equal(t, []int{4}, mock.GetIssueCalls)
}

func TestEnrichIssueFailsWhole(t *testing.T) {
	mock := github.NewMockClient()
	mock.TimelineErrs[2] = errors.New("timeline unavailable")

	e := backup.NewEnricher(mock, "octocat", "hello-world")
	rec, err := e.EnrichIssue(context.Background(), 2, github.IssueListing(2, "doomed"))
	require.Error(t, err)
	assert.Nil(t, rec, "a partially enriched entry must not surface")
}

func TestEnrichPull(t *testing.T) {
	mock := github.NewMockClient()
	mock.Pulls[6] = &gh.PullRequest{Number: gh.Ptr(6), Title: gh.Ptr("a pull")}
	mock.Timelines[6] = []*gh.Timeline{{Event: gh.Ptr("merged")}}
	mock.Comments[6] = []*gh.PullRequestComment{{Body: gh.Ptr("nit")}}

	e := backup.NewEnricher(mock, "octocat", "hello-world")
	rec, err := e.EnrichPull(context.Background(), 6)
	require.NoError(t, err)

	assert.Equal(t, backup.KindPull, rec.Type)
	assert.Equal(t, 6, rec.Number())
	require.Len(t, rec.Events, 1)
	require.Len(t, rec.Comments, 1)
	assert.Equal(t, "nit", rec.Comments[0].GetBody())
}

func TestEnrichPullFailsWhole(t *testing.T) {
	mock := github.NewMockClient()
	// Pull 11 is absent, but its timeline and comments resolve fine.
	mock.Timelines[11] = []*gh.Timeline{{Event: gh.Ptr("closed")}}

	e := backup.NewEnricher(mock, "octocat", "hello-world")
	rec, err := e.EnrichPull(context.Background(), 11)
	require.Error(t, err)
	assert.Nil(t, rec)
}
