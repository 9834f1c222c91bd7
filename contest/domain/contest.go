package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const DefaultProblemPoints = 4

type ContestProblem struct {
	ProblemID string
	Points    int
}

type Contest struct {
	UUID        uuid.UUID
	Slug        string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Problems    []ContestProblem

	CreatedBy    uuid.UUID
	Participants []uuid.UUID
	Leaderboard  []LeaderboardEntry

	Status    Phase
	Version   int64
	CreatedAt time.Time
}

func (c *Contest) IsParticipant(userUUID uuid.UUID) bool {
	return slices.Contains(c.Participants, userUUID)
}

func (c *Contest) Problem(problemID string) (ContestProblem, bool) {
	for _, p := range c.Problems {
		if p.ProblemID == problemID {
			return p, true
		}
	}
	return ContestProblem{}, false
}

// Join adds the user to the participants. It reports whether the contest
// changed; joining twice is a no-op.
func (c *Contest) Join(userUUID uuid.UUID, now time.Time) (bool, error) {
	if c.PhaseAt(now) == PhaseCompleted {
		return false, ErrContestEnded
	}
	if c.IsParticipant(userUUID) {
		return false, nil
	}
	c.Participants = append(c.Participants, userUUID)
	return true, nil
}

// CanSubmit checks membership first, then the time window.
func (c *Contest) CanSubmit(userUUID uuid.UUID, now time.Time) error {
	if !c.IsParticipant(userUUID) {
		return ErrNotParticipant
	}
	switch c.PhaseAt(now) {
	case PhaseUpcoming:
		return ErrContestNotStarted
	case PhaseCompleted:
		return ErrContestEnded
	}
	return nil
}

// Clone returns a deep copy.
func (c Contest) Clone() Contest {
	c.Problems = slices.Clone(c.Problems)
	c.Participants = slices.Clone(c.Participants)
	c.Leaderboard = cloneEntries(c.Leaderboard)
	return c
}
