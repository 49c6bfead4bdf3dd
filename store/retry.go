package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/magnusdahl/hotcore/internal/metrics"
)

// retryOptimistic runs op up to attempts times, retrying only when the
// optimistic precondition failed (another writer touched a watched key between
// snapshot and commit). Each attempt is all-or-nothing: a failed attempt
// leaves no visible state, so retrying restarts from a fresh snapshot.
//
// Any error other than a conflict propagates immediately. Exhausting the
// bound returns ErrConcurrencyExhausted wrapping the attempt count.
func retryOptimistic(ctx context.Context, attempts int, log zerolog.Logger, op func(ctx context.Context) error) error {
	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}

		metrics.Default().ConflictRetriesTotal.Inc()
		log.Warn().
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("optimistic transaction conflict")

		if attempt == attempts {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	metrics.Default().RetriesExhaustedTotal.Inc()
	return fmt.Errorf("%w after %d attempts", ErrConcurrencyExhausted, attempts)
}
