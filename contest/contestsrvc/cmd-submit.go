package contestsrvc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/judge"
	"github.com/programme-lv/contests/logger"
	"github.com/programme-lv/contests/srvcerror"
)

type SubmitSolParams struct {
	ContestUUID uuid.UUID
	ProblemID   string
	UserUUID    uuid.UUID
	Username    string
	Language    string
	Code        string
}

type SubmitSolResult struct {
	Submission  domain.Submission
	Leaderboard []domain.LeaderboardEntry
}

type submitSolHandler struct {
	contests  ContestRepo
	subms     SubmRepo
	judge     JudgeFacade
	codeStore CodeStoreFacade
	writer    *contestWriter
	now       func() time.Time
}

// Handle checks, in order: the contest exists, the user participates, the
// contest is running, the problem belongs to it, the payload is valid. Then
// the solution is judged, the submission appended to the log and the score
// folded into the leaderboard.
func (h submitSolHandler) Handle(ctx context.Context, p SubmitSolParams) (SubmitSolResult, error) {
	now := h.now()
	log := logger.FromContext(ctx).With(
		"contest_uuid", p.ContestUUID, "user_uuid", p.UserUUID, "problem_id", p.ProblemID)

	c, err := h.contests.GetContest(ctx, p.ContestUUID)
	if err != nil {
		return SubmitSolResult{}, mapErr(err, p.ContestUUID)
	}
	if err := c.CanSubmit(p.UserUUID, now); err != nil {
		return SubmitSolResult{}, mapErr(err, p.ContestUUID)
	}
	if _, ok := c.Problem(p.ProblemID); !ok {
		return SubmitSolResult{}, newErrProblemNotFound(p.ProblemID)
	}
	if err := validateSubmission(p.Language, p.Code); err != nil {
		return SubmitSolResult{}, err
	}

	subm := domain.Submission{
		UUID:        uuid.New(),
		ContestUUID: p.ContestUUID,
		UserUUID:    p.UserUUID,
		ProblemID:   p.ProblemID,
		Language:    domain.Language(p.Language),
		Code:        p.Code,
		IsInContest: true,
		CreatedAt:   now,
	}

	verdict, err := h.judge.Evaluate(ctx, judge.Request{
		SubmUUID:  subm.UUID,
		ProblemID: p.ProblemID,
		Language:  p.Language,
		Code:      p.Code,
	})
	if err != nil {
		return SubmitSolResult{}, srvcerror.ErrInternalSE().SetDebug(fmt.Errorf("judge: %w", err))
	}
	if verdict.Score < 0 {
		return SubmitSolResult{}, srvcerror.ErrInternalSE().
			SetDebug(fmt.Errorf("judge returned negative score %d", verdict.Score))
	}
	subm.Score = verdict.Score
	subm.Verdict = verdict.Label

	if h.codeStore != nil {
		key, err := h.codeStore.Archive(ctx, subm.ContestUUID, subm.UUID, subm.Code)
		if err != nil {
			return SubmitSolResult{}, newErrPersistenceFailure().SetDebug(err)
		}
		subm.CodeKey = key
		subm.Code = ""
	}

	if err := h.subms.StoreSubm(ctx, subm); err != nil {
		return SubmitSolResult{}, newErrPersistenceFailure().SetDebug(err)
	}

	updated, err := h.writer.mutate(ctx, p.ContestUUID, func(c *domain.Contest) (bool, error) {
		// the document may have changed since the first read
		if err := c.CanSubmit(p.UserUUID, now); err != nil {
			return false, err
		}
		if err := c.RecordScore(p.UserUUID, p.Username, p.ProblemID, subm.UUID, subm.Score); err != nil {
			return false, err
		}
		c.RefreshStatus(now)
		return true, nil
	})
	if err != nil {
		log.Warn("submission stored but leaderboard not updated", "subm_uuid", subm.UUID, "error", err)
		return SubmitSolResult{}, err
	}

	log.Info("recorded submission", "subm_uuid", subm.UUID, "score", subm.Score)
	return SubmitSolResult{
		Submission:  subm,
		Leaderboard: updated.Clone().Leaderboard,
	}, nil
}
