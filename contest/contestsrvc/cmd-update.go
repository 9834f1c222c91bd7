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

// UpdateContestParams is a partial update; nil fields keep their value.
type UpdateContestParams struct {
	ContestUUID uuid.UUID
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Problems    []ProblemParams // nil keeps the current problems
}

type updateContestHandler struct {
	writer    *contestWriter
	validator *contestValidator
	now       func() time.Time
}

func (h updateContestHandler) Handle(ctx context.Context, p UpdateContestParams) (domain.Contest, error) {
	now := h.now()

	c, err := h.writer.mutate(ctx, p.ContestUUID, func(c *domain.Contest) (bool, error) {
		if p.Title != nil {
			c.Title = strings.TrimSpace(*p.Title)
			c.Slug = slug.Make(c.Title)
		}
		if p.Description != nil {
			c.Description = *p.Description
		}
		if p.StartTime != nil {
			c.StartTime = *p.StartTime
		}
		if p.EndTime != nil {
			c.EndTime = *p.EndTime
		}
		if p.Problems != nil {
			c.Problems = toContestProblems(p.Problems)
		}
		if err := h.validator.check(ctx, c, now, false); err != nil {
			return false, err
		}
		c.RefreshStatus(now)
		return true, nil
	})
	if err != nil {
		return domain.Contest{}, err
	}

	logger.FromContext(ctx).Info("updated contest", "contest_uuid", c.UUID, "version", c.Version)
	return c, nil
}
