package contestsrvc

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
)

type ListContestsParams struct {
	Role domain.Role
}

type listContestsHandler struct {
	repo ContestRepo
	now  func() time.Time
}

// Handle returns every contest ordered by start time, redacted for the role.
func (h listContestsHandler) Handle(ctx context.Context, p ListContestsParams) ([]domain.View, error) {
	now := h.now()
	contests, err := h.repo.ListContests(ctx)
	if err != nil {
		return nil, newErrPersistenceFailure().SetDebug(err)
	}
	slices.SortStableFunc(contests, func(a, b domain.Contest) int {
		return a.StartTime.Compare(b.StartTime)
	})

	views := make([]domain.View, len(contests))
	for i := range contests {
		views[i] = domain.Redact(&contests[i], now, p.Role)
	}
	return views, nil
}

type GetContestParams struct {
	ContestUUID uuid.UUID
	Role        domain.Role
}

type getContestHandler struct {
	repo ContestRepo
	now  func() time.Time
}

func (h getContestHandler) Handle(ctx context.Context, p GetContestParams) (domain.View, error) {
	now := h.now()
	c, err := h.repo.GetContest(ctx, p.ContestUUID)
	if err != nil {
		return domain.View{}, mapErr(err, p.ContestUUID)
	}
	return domain.Redact(&c, now, p.Role), nil
}

type GetLeaderboardParams struct {
	ContestUUID uuid.UUID
	Limit       int // 0 means domain.DefaultLeaderboardLimit
}

type getLeaderboardHandler struct {
	repo ContestRepo
}

func (h getLeaderboardHandler) Handle(ctx context.Context, p GetLeaderboardParams) ([]domain.LeaderboardEntry, error) {
	c, err := h.repo.GetContest(ctx, p.ContestUUID)
	if err != nil {
		return nil, mapErr(err, p.ContestUUID)
	}
	limit := min(p.Limit, domain.MaxLeaderboardLimit)
	return c.TopLeaderboard(limit), nil
}

type ListSubmsParams struct {
	ContestUUID uuid.UUID
	UserUUID    uuid.UUID
}

type listSubmsHandler struct {
	contests ContestRepo
	subms    SubmRepo
}

// Handle lists the user's submissions of an existing contest, oldest first.
func (h listSubmsHandler) Handle(ctx context.Context, p ListSubmsParams) ([]domain.Submission, error) {
	if _, err := h.contests.GetContest(ctx, p.ContestUUID); err != nil {
		return nil, mapErr(err, p.ContestUUID)
	}
	subms, err := h.subms.ListSubms(ctx, p.ContestUUID, p.UserUUID)
	if err != nil {
		return nil, newErrPersistenceFailure().SetDebug(err)
	}
	slices.SortStableFunc(subms, func(a, b domain.Submission) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return subms, nil
}
