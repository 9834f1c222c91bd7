package contestsrvc

import (
	"context"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/logger"
)

type DeleteContestParams struct {
	ContestUUID uuid.UUID
}

// deleteContestHandler removes the contest document only. Submissions stay
// in the submission log.
type deleteContestHandler struct {
	writer *contestWriter
}

func (h deleteContestHandler) Handle(ctx context.Context, p DeleteContestParams) error {
	if err := h.writer.delete(ctx, p.ContestUUID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("deleted contest", "contest_uuid", p.ContestUUID)
	return nil
}
