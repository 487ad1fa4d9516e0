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

// Package testutil provides common test helpers for repovault.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// apiPrefix mirrors the /api/v3 prefix the client's enterprise-endpoint
// support appends to custom base URLs.
const apiPrefix = "/api/v3"

// GitHubStub is an httptest server that impersonates the GitHub REST API.
// Tests register handlers per path; request counts are tracked per path
// for verification.
type GitHubStub struct {
	*httptest.Server
	mux    *http.ServeMux
	counts map[string]*atomic.Int32
}

// NewGitHubStub starts a stub server. It is shut down automatically when
// the test finishes.
func NewGitHubStub(t *testing.T) *GitHubStub {
	t.Helper()

	mux := http.NewServeMux()
	stub := &GitHubStub{
		mux:    mux,
		counts: map[string]*atomic.Int32{},
	}
	stub.Server = httptest.NewServer(mux)
	t.Cleanup(stub.Close)
	return stub
}

// Endpoint returns the base URL to hand to the client under test.
func (s *GitHubStub) Endpoint() string {
	return s.URL + apiPrefix + "/"
}

// Handle registers a handler for an API path (without the /api/v3 prefix).
func (s *GitHubStub) Handle(path string, handler http.HandlerFunc) {
	counter := &atomic.Int32{}
	s.counts[path] = counter
	s.mux.HandleFunc(apiPrefix+path, func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		handler(w, r)
	})
}

// Requests returns how many times the given path was hit.
func (s *GitHubStub) Requests(path string) int {
	counter, ok := s.counts[path]
	if !ok {
		return 0
	}
	return int(counter.Load())
}

// HandleRateLimit serves the /rate_limit endpoint with a fixed quota.
func (s *GitHubStub) HandleRateLimit(remaining int, reset time.Time) {
	s.Handle("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, map[string]any{
			"resources": map[string]any{
				"core": map[string]any{
					"limit":     5000,
					"remaining": remaining,
					"reset":     reset.Unix(),
				},
			},
		})
	})
}

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// WriteRateLimited writes the 403 response GitHub sends when the core
// quota is exhausted, with the reset headers set.
func WriteRateLimited(w http.ResponseWriter, reset time.Time) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Limit", "5000")
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"message": "API rate limit exceeded for user"}`))
}

// LinkNext sets the Link header advertising a next page on the same path.
func LinkNext(w http.ResponseWriter, r *http.Request, nextPage int) {
	url := fmt.Sprintf("http://%s%s?page=%d", r.Host, r.URL.Path, nextPage)
	w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, url))
}
