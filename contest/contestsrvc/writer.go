package contestsrvc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/logger"
	"github.com/programme-lv/contests/srvcerror"
)

// contestWriter runs read-modify-write cycles on a contest document. Writers
// in this process are serialized per contest; writers in other processes are
// detected through the version check and the whole cycle is retried.
type contestWriter struct {
	repo       ContestRepo
	locks      *keyedMutex
	retryLimit int
	backoff    time.Duration
}

// mutateFunc changes c in place and reports whether anything needs saving.
type mutateFunc func(c *domain.Contest) (bool, error)

func (w *contestWriter) mutate(ctx context.Context, id uuid.UUID, fn mutateFunc) (domain.Contest, error) {
	unlock := w.locks.Lock(id)
	defer unlock()

	log := logger.FromContext(ctx).With("contest_uuid", id)
	for attempt := 1; ; attempt++ {
		c, err := w.repo.GetContest(ctx, id)
		if err != nil {
			return domain.Contest{}, mapErr(err, id)
		}

		changed, err := fn(&c)
		if err != nil {
			return domain.Contest{}, mapErr(err, id)
		}
		if !changed {
			return c, nil
		}

		err = w.repo.SaveContest(ctx, &c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return domain.Contest{}, mapErr(err, id)
		}
		if attempt >= w.retryLimit {
			log.Warn("giving up after version conflicts", "attempts", attempt)
			return domain.Contest{}, newErrConcurrencyConflict().SetDebug(err)
		}

		log.Debug("version conflict, retrying", "attempt", attempt, "version", c.Version)
		select {
		case <-time.After(w.backoff * time.Duration(attempt)):
		case <-ctx.Done():
			log.Debug("request cancelled while waiting to retry", "attempt", attempt)
			return domain.Contest{}, srvcerror.ErrInternalSE().SetDebug(ctx.Err())
		}
	}
}

// delete removes the contest while holding its lock so that it cannot
// disappear in the middle of another writer's cycle in this process.
func (w *contestWriter) delete(ctx context.Context, id uuid.UUID) error {
	unlock := w.locks.Lock(id)
	defer unlock()
	return mapErr(w.repo.DeleteContest(ctx, id), id)
}
