package memrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
)

type InMemContestRepo struct {
	lock     sync.Mutex
	contests map[uuid.UUID]domain.Contest
}

func NewInMemContestRepo() *InMemContestRepo {
	return &InMemContestRepo{contests: make(map[uuid.UUID]domain.Contest)}
}

func (r *InMemContestRepo) GetContest(ctx context.Context, id uuid.UUID) (domain.Contest, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	c, ok := r.contests[id]
	if !ok {
		return domain.Contest{}, domain.ErrContestNotFound
	}
	return c.Clone(), nil
}

func (r *InMemContestRepo) ListContests(ctx context.Context) ([]domain.Contest, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	res := make([]domain.Contest, 0, len(r.contests))
	for _, c := range r.contests {
		res = append(res, c.Clone())
	}
	return res, nil
}

func (r *InMemContestRepo) SaveContest(ctx context.Context, c *domain.Contest) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	cur, ok := r.contests[c.UUID]
	switch {
	case !ok && c.Version != 0:
		return domain.ErrContestNotFound
	case ok && cur.Version != c.Version:
		return domain.ErrVersionConflict
	}
	c.Version++
	r.contests[c.UUID] = c.Clone()
	return nil
}

func (r *InMemContestRepo) DeleteContest(ctx context.Context, id uuid.UUID) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.contests[id]; !ok {
		return domain.ErrContestNotFound
	}
	delete(r.contests, id)
	return nil
}

type InMemSubmRepo struct {
	lock  sync.Mutex
	subms []domain.Submission
	seen  map[uuid.UUID]struct{}
}

func NewInMemSubmRepo() *InMemSubmRepo {
	return &InMemSubmRepo{seen: make(map[uuid.UUID]struct{})}
}

func (r *InMemSubmRepo) StoreSubm(ctx context.Context, s domain.Submission) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.seen[s.UUID]; ok {
		return domain.ErrSubmissionExists
	}
	r.seen[s.UUID] = struct{}{}
	r.subms = append(r.subms, s)
	return nil
}

func (r *InMemSubmRepo) ListSubms(ctx context.Context, contestUUID uuid.UUID, userUUID uuid.UUID) ([]domain.Submission, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	var res []domain.Submission
	for _, s := range r.subms {
		if s.ContestUUID == contestUUID && s.UserUUID == userUUID {
			res = append(res, s)
		}
	}
	return res, nil
}

func (r *InMemSubmRepo) Count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.subms)
}
