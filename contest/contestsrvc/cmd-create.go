package contestsrvc

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/logger"
)

type ProblemParams struct {
	ProblemID string
	Points    *int // defaults to domain.DefaultProblemPoints
}

type CreateContestParams struct {
	CreatedBy   uuid.UUID
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Problems    []ProblemParams
}

type createContestHandler struct {
	repo      ContestRepo
	validator *contestValidator
	now       func() time.Time
}

func (h createContestHandler) Handle(ctx context.Context, p CreateContestParams) (domain.Contest, error) {
	now := h.now()

	title := strings.TrimSpace(p.Title)
	c := domain.Contest{
		UUID:        uuid.New(),
		Slug:        slug.Make(title),
		Title:       title,
		Description: p.Description,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Problems:    toContestProblems(p.Problems),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   now,
	}
	if err := h.validator.check(ctx, &c, now, true); err != nil {
		return domain.Contest{}, err
	}
	c.RefreshStatus(now)

	if err := h.repo.SaveContest(ctx, &c); err != nil {
		return domain.Contest{}, mapErr(err, c.UUID)
	}

	logger.FromContext(ctx).Info("created contest",
		"contest_uuid", c.UUID, "slug", c.Slug, "created_by", c.CreatedBy)
	return c, nil
}

func toContestProblems(params []ProblemParams) []domain.ContestProblem {
	if params == nil {
		return nil
	}
	res := make([]domain.ContestProblem, len(params))
	for i, p := range params {
		points := domain.DefaultProblemPoints
		if p.Points != nil {
			points = *p.Points
		}
		res[i] = domain.ContestProblem{ProblemID: strings.TrimSpace(p.ProblemID), Points: points}
	}
	return res
}
