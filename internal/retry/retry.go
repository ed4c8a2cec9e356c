// Package retry implements fixed-delay retries that rotate through a
// credential pool, one credential per attempt.
package retry

import (
	"context"
	"fmt"
	"time"

	retrygo "github.com/avast/retry-go"

	"github.com/korryu3/github-profile-trophy/internal/domain"
)

// Rotator re-issues a failed operation once per credential in the pool,
// waiting a fixed delay between attempts. The delay is deliberately not a
// backoff: a failed attempt swaps to the next credential, it does not wait
// out the endpoint. A Rotator is stateless; concurrent Do calls are
// independent.
type Rotator struct {
	attempts uint
	delay    time.Duration
}

// NewRotator sizes the retrier to the credential pool: one attempt per
// credential. A pool of one degrades to a single attempt with no retry.
func NewRotator(poolSize int, delay time.Duration) *Rotator {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Rotator{attempts: uint(poolSize), delay: delay}
}

// Do invokes op with credential index 0 and, on failure, retries with
// indices 1..N-1 after the configured delay. The first success returns
// immediately. Once every credential has been tried, the last attempt's
// error is wrapped in a retry-exhausted failure.
func (r *Rotator) Do(ctx context.Context, op func(credential int) error) error {
	credential := -1
	err := retrygo.Do(
		func() error {
			credential++
			return op(credential)
		},
		retrygo.Context(ctx),
		retrygo.Attempts(r.attempts),
		retrygo.Delay(r.delay),
		retrygo.DelayType(retrygo.FixedDelay),
		retrygo.LastErrorOnly(true),
	)
	if err != nil {
		return domain.NewQueryError(domain.KindRetryExhausted,
			fmt.Sprintf("all %d credentials failed", r.attempts), err)
	}
	return nil
}
