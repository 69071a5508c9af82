// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/kbsearch/core"
)

// IsRetryable reports whether an embedding failure may succeed on another
// attempt. Input, configuration and dimension errors never do, and neither
// does cancellation. A per-call timeout is retried.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, core.ErrEmptyInput),
		errors.Is(err, core.ErrConfiguration),
		errors.Is(err, core.ErrDimensionMismatch),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// RetryWithBackoff runs operation up to maxAttempts times, waiting baseDelay
// after the first failure and doubling the wait each time. Errors rejected by
// IsRetryable are returned at once, otherwise the last error is returned.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var err error
	for attempt := range maxAttempts {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err = operation(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == maxAttempts-1 {
			break
		}

		wait := baseDelay << attempt
		slog.Debug("attempt failed, backing off", "attempt", attempt+1, "max_attempts", maxAttempts, "wait", wait, "err", err)
		if serr := sleep(ctx, wait); serr != nil {
			return serr
		}
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
