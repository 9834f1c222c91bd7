package domain

import (
	"slices"
	"sort"

	"github.com/google/uuid"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type ProblemScore struct {
	ProblemID string
	Score     int
}

type LeaderboardEntry struct {
	UserUUID      uuid.UUID
	Username      string
	TotalScore    int
	ProblemScores []ProblemScore
	Submissions   []uuid.UUID
	Rank          int
}

// RecordScore folds a judged submission into the leaderboard. Only the best
// score per problem counts, the total is recomputed from scratch and ranks
// are reassigned after a stable sort by total descending. A non-empty
// username replaces the display name kept on the entry.
func (c *Contest) RecordScore(userUUID uuid.UUID, username string, problemID string, submUUID uuid.UUID, score int) error {
	if score < 0 {
		return ErrNegativeScore
	}

	idx := slices.IndexFunc(c.Leaderboard, func(e LeaderboardEntry) bool {
		return e.UserUUID == userUUID
	})
	if idx == -1 {
		c.Leaderboard = append(c.Leaderboard, LeaderboardEntry{UserUUID: userUUID})
		idx = len(c.Leaderboard) - 1
	}

	entry := &c.Leaderboard[idx]
	if username != "" {
		entry.Username = username
	}
	entry.Submissions = append(entry.Submissions, submUUID)
	entry.mergeBest(problemID, score)
	entry.TotalScore = entry.sumScores()

	c.rerank()
	return nil
}

func (e *LeaderboardEntry) mergeBest(problemID string, score int) {
	for i := range e.ProblemScores {
		if e.ProblemScores[i].ProblemID == problemID {
			e.ProblemScores[i].Score = max(e.ProblemScores[i].Score, score)
			return
		}
	}
	e.ProblemScores = append(e.ProblemScores, ProblemScore{ProblemID: problemID, Score: score})
}

func (e *LeaderboardEntry) sumScores() int {
	total := 0
	for _, ps := range e.ProblemScores {
		total += ps.Score
	}
	return total
}

func (c *Contest) rerank() {
	sort.SliceStable(c.Leaderboard, func(i, j int) bool {
		return c.Leaderboard[i].TotalScore > c.Leaderboard[j].TotalScore
	})
	for i := range c.Leaderboard {
		c.Leaderboard[i].Rank = i + 1
	}
}

// TopLeaderboard returns a copy of the first limit entries in stored order.
// A non-positive limit means DefaultLeaderboardLimit.
func (c *Contest) TopLeaderboard(limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > len(c.Leaderboard) {
		limit = len(c.Leaderboard)
	}
	return cloneEntries(c.Leaderboard[:limit])
}

func cloneEntries(entries []LeaderboardEntry) []LeaderboardEntry {
	if entries == nil {
		return nil
	}
	res := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		e.ProblemScores = slices.Clone(e.ProblemScores)
		e.Submissions = slices.Clone(e.Submissions)
		res[i] = e
	}
	return res
}
