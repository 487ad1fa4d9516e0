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

// Package apierror classifies errors returned by the GitHub API client.
// The retry policy depends on telling "the API rejected the request" apart
// from "the request never got a well-formed answer": only the former is
// worth retrying after a rate-limit wait.
package apierror

import (
	"errors"
	"net"
	"net/url"

	gh "github.com/google/go-github/v68/github"
)

// IsAPIError reports whether err is an error response from the GitHub API
// itself, as opposed to a transport failure or a malformed response.
func IsAPIError(err error) bool {
	if err == nil {
		return false
	}

	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) {
		return true
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var abuseErr *gh.AbuseRateLimitError
	return errors.As(err, &abuseErr)
}

// IsRateLimit reports whether err is a primary or secondary rate limit
// rejection.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var abuseErr *gh.AbuseRateLimitError
	return errors.As(err, &abuseErr)
}

// IsNotFound reports whether err is a 404 response from the API.
func IsNotFound(err error) bool {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == 404
	}
	return false
}

// IsNetworkError reports whether err is a transport-level failure: DNS,
// dial, TLS, timeout. Such errors are never retried.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
