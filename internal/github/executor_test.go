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
	"errors"
	"net/http"
	"testing"
	"time"

	gh "github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiRejection builds an API-level error, the kind the executor retries.
func apiRejection() error {
	req, _ := http.NewRequest(http.MethodGet, "https://api.github.com/repos/o/r/issues/1", nil)
	return &gh.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusForbidden, Request: req},
		Message:  "API rate limit exceeded",
	}
}

// exhaustedQuota reports zero remaining with a reset instant already in
// the past, so tests exercise the wait path without sleeping.
func exhaustedQuota(calls *int) rateStatusFunc {
	return func(ctx context.Context) (*RateStatus, error) {
		*calls++
		return &RateStatus{Remaining: 0, Reset: time.Now().Add(-10 * time.Second)}, nil
	}
}

func healthyQuota(calls *int) rateStatusFunc {
	return func(ctx context.Context) (*RateStatus, error) {
		*calls++
		return &RateStatus{Remaining: 4999, Reset: time.Now().Add(time.Hour)}, nil
	}
}

func TestExecuteSuccessFirstAttempt(t *testing.T) {
	statusCalls := 0
	calls := 0

	v, err := execute(context.Background(), healthyQuota(&statusCalls), func() (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, statusCalls, "no rate status query on success")
}

func TestExecuteRetriesOnceAfterAPIError(t *testing.T) {
	statusCalls := 0
	calls := 0

	v, err := execute(context.Background(), exhaustedQuota(&statusCalls), func() (string, error) {
		calls++
		if calls == 1 {
			return "", apiRejection()
		}
		return "recovered", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, statusCalls, "rate status queried exactly once between attempts")
}

func TestExecuteAtMostTwoAttempts(t *testing.T) {
	statusCalls := 0
	calls := 0
	rejection := apiRejection()

	_, err := execute(context.Background(), exhaustedQuota(&statusCalls), func() (int, error) {
		calls++
		return 0, rejection
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, rejection)
	assert.Equal(t, 2, calls, "a second rejection must not trigger another retry")
}

func TestExecuteDoesNotRetryTransportErrors(t *testing.T) {
	statusCalls := 0
	calls := 0
	netErr := errors.New("dial tcp: connection refused")

	_, err := execute(context.Background(), healthyQuota(&statusCalls), func() (int, error) {
		calls++
		return 0, netErr
	})

	require.ErrorIs(t, err, netErr)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, statusCalls)
}

func TestExecuteSkipsWaitWhenQuotaRemains(t *testing.T) {
	statusCalls := 0
	calls := 0
	start := time.Now()

	_, err := execute(context.Background(), healthyQuota(&statusCalls), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, apiRejection()
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Less(t, time.Since(start), time.Second, "no sleep when quota has headroom")
}

func TestExecutePropagatesStatusQueryFailure(t *testing.T) {
	statusErr := errors.New("rate limit endpoint unreachable")
	calls := 0

	_, err := execute(context.Background(), func(ctx context.Context) (*RateStatus, error) {
		return nil, statusErr
	}, func() (int, error) {
		calls++
		return 0, apiRejection()
	})

	require.ErrorIs(t, err, statusErr)
	assert.Equal(t, 1, calls)
}

func TestExecuteHonorsContextDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	status := func(ctx context.Context) (*RateStatus, error) {
		// Far-future reset forces a long wait; cancellation must cut it short.
		return &RateStatus{Remaining: 0, Reset: time.Now().Add(time.Hour)}, nil
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := execute(ctx, status, func() (int, error) {
		return 0, apiRejection()
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}
