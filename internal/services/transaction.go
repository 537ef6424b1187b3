package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"printstore/internal/repository"
)

// txRunner runs a unit of work in one transaction and replays it when the
// final order write loses an optimistic-lock race.
type txRunner struct {
	store       repository.Store
	maxAttempts int
	logger      *zap.Logger
}

func newTxRunner(store repository.Store, maxAttempts int, logger *zap.Logger) txRunner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return txRunner{store: store, maxAttempts: maxAttempts, logger: logger}
}

// run calls fn until it commits, fails with an error other than a version
// conflict, or the attempts are exhausted. fn must re-read everything it
// writes.
func (r txRunner) run(ctx context.Context, op string, fn func(tx repository.Store) error) error {
	for attempt := 1; ; attempt++ {
		err := r.store.Transaction(ctx, fn)
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}
		if attempt >= r.maxAttempts {
			r.logger.Warn("giving up after version conflicts",
				zap.String("operation", op),
				zap.Int("attempts", attempt))
			return ErrConcurrentUpdate
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logger.Debug("retrying after version conflict",
			zap.String("operation", op),
			zap.Int("attempt", attempt))
	}
}
