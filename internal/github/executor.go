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

	"github.com/repovault/repovault/internal/apierror"
	"github.com/repovault/repovault/internal/log"
)

// resetSlack is added past the reported reset instant; the remote's reset
// clock is not exact.
const resetSlack = 2 * time.Second

// rateStatusFunc queries the current rate-limit quota.
type rateStatusFunc func(ctx context.Context) (*RateStatus, error)

// execute runs call once. If the API rejects the first attempt, it waits
// out the rate-limit window and retries exactly once. Transport errors and
// malformed responses are never retried, and a second rejection propagates
// as-is. This is the only retry point in the program; every remote
// operation is a single call through here and inherits the policy.
func execute[T any](ctx context.Context, status rateStatusFunc, call func() (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		v, err := call()
		if err == nil {
			return v, nil
		}
		if attempt > 0 || !apierror.IsAPIError(err) {
			return zero, err
		}
		// Retry once in case we hit the rate limit.
		if waitErr := waitOnRateLimit(ctx, status); waitErr != nil {
			return zero, waitErr
		}
	}
}

// waitOnRateLimit blocks until the rate-limit window has passed. When the
// quota still has headroom the rejection had some other cause and the
// retry proceeds immediately.
func waitOnRateLimit(ctx context.Context, status rateStatusFunc) error {
	st, err := status(ctx)
	if err != nil {
		return fmt.Errorf("could not get rate limit status: %w", err)
	}
	if st.Remaining > 0 {
		return nil
	}

	delay := time.Until(st.Reset) + resetSlack
	if delay <= 0 {
		return nil
	}

	logger := log.Named("github")
	logger.Info().
		Time("reset", st.Reset).
		Dur("wait", delay).
		Msg("rate limit hit, waiting for reset")

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	logger.Info().Msg("rate limit has reset")
	return nil
}
