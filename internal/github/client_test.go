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

package github_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	gh "github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repovault/repovault/internal/apierror"
	"github.com/repovault/repovault/internal/github"
	"github.com/repovault/repovault/test/testutil"
)

func newTestClient(t *testing.T, stub *testutil.GitHubStub) *github.RESTClient {
	t.Helper()
	client, err := github.NewRESTClient(context.Background(), "test-token", stub.Endpoint())
	require.NoError(t, err)
	return client
}

func TestListEntriesFullHistory(t *testing.T) {
	stub := testutil.NewGitHubStub(t)
	stub.HandleRateLimit(4999, time.Now().Add(time.Hour))

	var gotQuery map[string]string
	stub.Handle("/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"state":     q.Get("state"),
			"sort":      q.Get("sort"),
			"direction": q.Get("direction"),
			"since":     q.Get("since"),
			"per_page":  q.Get("per_page"),
		}
		testutil.WriteJSON(w, []map[string]any{
			{"number": 1, "title": "first"},
			{"number": 2, "title": "second", "pull_request": map[string]any{"url": "https://example.com/pulls/2"}},
		})
	})

	client := newTestClient(t, stub)
	page, err := client.ListEntries(context.Background(), "o", "r", github.ListOptions{Page: github.StartPage})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, 0, page.Next)
	assert.Equal(t, 1, page.Items[0].GetNumber())
	assert.False(t, page.Items[0].IsPullRequest())
	assert.True(t, page.Items[1].IsPullRequest())

	assert.Equal(t, "all", gotQuery["state"])
	assert.Equal(t, "created", gotQuery["sort"])
	assert.Equal(t, "asc", gotQuery["direction"])
	assert.Equal(t, "100", gotQuery["per_page"])
	// The literal epoch means "no filter" to the API, so full history
	// starts one day later.
	assert.Contains(t, gotQuery["since"], "1970-01-02")
}

func TestListEntriesIncremental(t *testing.T) {
	stub := testutil.NewGitHubStub(t)
	stub.HandleRateLimit(4999, time.Now().Add(time.Hour))

	var gotSort, gotSince string
	stub.Handle("/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		gotSort = r.URL.Query().Get("sort")
		gotSince = r.URL.Query().Get("since")
		testutil.WriteJSON(w, []map[string]any{})
	})

	since := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	client := newTestClient(t, stub)
	_, err := client.ListEntries(context.Background(), "o", "r", github.ListOptions{Page: 1, Since: &since})
	require.NoError(t, err)

	assert.Equal(t, "updated", gotSort)
	assert.Contains(t, gotSince, "2026-02-14")
}

func TestListEntriesPagination(t *testing.T) {
	stub := testutil.NewGitHubStub(t)
	stub.HandleRateLimit(4999, time.Now().Add(time.Hour))

	stub.Handle("/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			testutil.WriteJSON(w, []map[string]any{{"number": 3}})
			return
		}
		testutil.LinkNext(w, r, 2)
		testutil.WriteJSON(w, []map[string]any{{"number": 1}, {"number": 2}})
	})

	client := newTestClient(t, stub)
	entries, err := github.CollectAll(func(page int) (*github.Page[*gh.Issue], error) {
		return client.ListEntries(context.Background(), "o", "r", github.ListOptions{Page: page})
	})
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].GetNumber())
	assert.Equal(t, 3, entries[2].GetNumber())
	assert.Equal(t, 2, stub.Requests("/repos/o/r/issues"))
}

func TestGetIssueRetriesAfterRateLimit(t *testing.T) {
	stub := testutil.NewGitHubStub(t)
	// Reset already passed: the executor should retry without a long sleep.
	stub.HandleRateLimit(4999, time.Now().Add(-time.Minute))

	stub.Handle("/repos/o/r/issues/7", func(w http.ResponseWriter, r *http.Request) {
		if stub.Requests("/repos/o/r/issues/7") == 1 {
			testutil.WriteRateLimited(w, time.Now().Add(-time.Minute))
			return
		}
		testutil.WriteJSON(w, map[string]any{"number": 7, "title": "flaky"})
	})

	client := newTestClient(t, stub)
	issue, err := client.GetIssue(context.Background(), "o", "r", 7)
	require.NoError(t, err)

	assert.Equal(t, 7, issue.GetNumber())
	assert.Equal(t, 2, stub.Requests("/repos/o/r/issues/7"))
	assert.Equal(t, 1, stub.Requests("/rate_limit"))
}

func TestGetIssueGivesUpAfterSecondRejection(t *testing.T) {
	stub := testutil.NewGitHubStub(t)
	stub.HandleRateLimit(4999, time.Now().Add(-time.Minute))

	stub.Handle("/repos/o/r/issues/7", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "server error"}`))
	})

	client := newTestClient(t, stub)
	_, err := client.GetIssue(context.Background(), "o", "r", 7)
	require.Error(t, err)

	assert.True(t, apierror.IsAPIError(err))
	assert.Equal(t, 2, stub.Requests("/repos/o/r/issues/7"))
}

func TestGetPull(t *testing.T) {
	stub := testutil.NewGitHubStub(t)
	stub.HandleRateLimit(4999, time.Now().Add(time.Hour))

	stub.Handle("/repos/o/r/pulls/9", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, map[string]any{"number": 9, "title": "a pull"})
	})

	client := newTestClient(t, stub)
	pull, err := client.GetPull(context.Background(), "o", "r", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, pull.GetNumber())
}

func TestListTimelineAndReviewComments(t *testing.T) {
	stub := testutil.NewGitHubStub(t)
	stub.HandleRateLimit(4999, time.Now().Add(time.Hour))

	stub.Handle("/repos/o/r/issues/3/timeline", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		testutil.WriteJSON(w, []map[string]any{{"event": "closed"}, {"event": "reopened"}})
	})
	stub.Handle("/repos/o/r/pulls/3/comments", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, []map[string]any{{"id": 1, "body": "lgtm"}})
	})

	client := newTestClient(t, stub)

	events, err := client.ListTimeline(context.Background(), "o", "r", 3, github.StartPage)
	require.NoError(t, err)
	require.Len(t, events.Items, 2)
	assert.Equal(t, "closed", events.Items[0].GetEvent())

	comments, err := client.ListReviewComments(context.Background(), "o", "r", 3, github.StartPage)
	require.NoError(t, err)
	require.Len(t, comments.Items, 1)
	assert.Equal(t, "lgtm", comments.Items[0].GetBody())
}

func TestRateStatus(t *testing.T) {
	stub := testutil.NewGitHubStub(t)
	reset := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	stub.HandleRateLimit(123, reset)

	client := newTestClient(t, stub)
	st, err := client.RateStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 123, st.Remaining)
	assert.True(t, st.Reset.Equal(reset), "reset = %v, want %v", st.Reset, reset)
}
