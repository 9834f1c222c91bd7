package contestsrvc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/logger"
)

type JoinContestParams struct {
	ContestUUID uuid.UUID
	UserUUID    uuid.UUID
}

type joinContestHandler struct {
	writer *contestWriter
	now    func() time.Time
}

func (h joinContestHandler) Handle(ctx context.Context, p JoinContestParams) error {
	now := h.now()
	joined := false
	_, err := h.writer.mutate(ctx, p.ContestUUID, func(c *domain.Contest) (bool, error) {
		changed, err := c.Join(p.UserUUID, now)
		if err != nil || !changed {
			return false, err
		}
		c.RefreshStatus(now)
		joined = true
		return true, nil
	})
	if err != nil {
		return err
	}
	if joined {
		logger.FromContext(ctx).Info("user joined contest",
			"contest_uuid", p.ContestUUID, "user_uuid", p.UserUUID)
	}
	return nil
}
