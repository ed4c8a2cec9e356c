package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/korryu3/github-profile-trophy/internal/domain"
)

func TestRotator_RotatesCredentialsUntilSuccess(t *testing.T) {
	rotator := NewRotator(3, time.Millisecond)

	var used []int
	err := rotator.Do(context.Background(), func(credential int) error {
		used = append(used, credential)
		if credential < 2 {
			return errors.New("simulated failure")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, used, "credentials must be tried in pool order")
}

func TestRotator_StopsOnFirstSuccess(t *testing.T) {
	rotator := NewRotator(3, time.Millisecond)

	attempts := 0
	err := rotator.Do(context.Background(), func(credential int) error {
		attempts++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRotator_ExhaustionWrapsLastCause(t *testing.T) {
	rotator := NewRotator(3, time.Millisecond)
	lastCause := errors.New("final credential rejected")

	attempts := 0
	err := rotator.Do(context.Background(), func(credential int) error {
		attempts++
		if credential == 2 {
			return lastCause
		}
		return fmt.Errorf("credential %d rejected", credential)
	})

	assert.Equal(t, 3, attempts, "no extra attempt after the pool is exhausted")
	assert.True(t, domain.IsKind(err, domain.KindRetryExhausted))
	assert.ErrorIs(t, err, lastCause, "terminal failure must carry the last cause")
}

func TestRotator_SingleCredentialMeansNoRetry(t *testing.T) {
	rotator := NewRotator(1, time.Millisecond)

	attempts := 0
	err := rotator.Do(context.Background(), func(credential int) error {
		attempts++
		return errors.New("simulated failure")
	})

	assert.Equal(t, 1, attempts)
	assert.True(t, domain.IsKind(err, domain.KindRetryExhausted))
}

func TestRotator_ContextCancellationStopsRetrying(t *testing.T) {
	rotator := NewRotator(5, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := rotator.Do(ctx, func(credential int) error {
		attempts++
		cancel()
		return errors.New("simulated failure")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}
