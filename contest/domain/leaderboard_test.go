package domain_test

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireRanksConsistent(t *testing.T, lb []domain.LeaderboardEntry) {
	t.Helper()
	for i, e := range lb {
		require.Equal(t, i+1, e.Rank)
		if i > 0 {
			require.GreaterOrEqual(t, lb[i-1].TotalScore, e.TotalScore)
		}
		sum := 0
		seen := map[string]bool{}
		for _, ps := range e.ProblemScores {
			require.False(t, seen[ps.ProblemID], "duplicate problem score for %s", ps.ProblemID)
			seen[ps.ProblemID] = true
			sum += ps.Score
		}
		require.Equal(t, sum, e.TotalScore)
	}
}

func TestRecordScoreKeepsBestPerProblem(t *testing.T) {
	c := newContest()
	user := uuid.New()

	require.NoError(t, c.RecordScore(user, "", "p1", uuid.New(), 40))
	require.NoError(t, c.RecordScore(user, "", "p1", uuid.New(), 70))
	require.NoError(t, c.RecordScore(user, "", "p1", uuid.New(), 20))
	require.NoError(t, c.RecordScore(user, "", "p2", uuid.New(), 0))

	require.Len(t, c.Leaderboard, 1)
	e := c.Leaderboard[0]
	assert.Equal(t, 70, e.TotalScore)
	assert.Equal(t, []domain.ProblemScore{{ProblemID: "p1", Score: 70}, {ProblemID: "p2", Score: 0}}, e.ProblemScores)
	assert.Len(t, e.Submissions, 4)
	assert.Equal(t, 1, e.Rank)
}

func TestRecordScoreKeepsLatestUsername(t *testing.T) {
	c := newContest()
	user := uuid.New()

	require.NoError(t, c.RecordScore(user, "anna", "p1", uuid.New(), 10))
	require.NoError(t, c.RecordScore(user, "", "p2", uuid.New(), 5))
	assert.Equal(t, "anna", c.Leaderboard[0].Username)

	require.NoError(t, c.RecordScore(user, "anna.b", "p1", uuid.New(), 1))
	assert.Equal(t, "anna.b", c.Leaderboard[0].Username)
	assert.Equal(t, "anna.b", c.TopLeaderboard(1)[0].Username)
}

func TestRecordScoreRejectsNegative(t *testing.T) {
	c := newContest()
	err := c.RecordScore(uuid.New(), "", "p1", uuid.New(), -1)
	require.ErrorIs(t, err, domain.ErrNegativeScore)
	assert.Empty(t, c.Leaderboard)
}

func TestLowerScoreNeverDecreasesTotal(t *testing.T) {
	c := newContest()
	user := uuid.New()
	require.NoError(t, c.RecordScore(user, "", "p1", uuid.New(), 50))

	before := c.Leaderboard[0].TotalScore
	require.NoError(t, c.RecordScore(user, "", "p1", uuid.New(), 10))
	assert.Equal(t, before, c.Leaderboard[0].TotalScore)
}

// A joins, scores 70 and B overtakes with 90; A's weaker resubmission
// changes nothing.
func TestLeaderboardOvertakeScenario(t *testing.T) {
	c := newContest()
	a, b := uuid.New(), uuid.New()

	require.NoError(t, c.RecordScore(a, "", "p1", uuid.New(), 70))
	require.Len(t, c.Leaderboard, 1)
	assert.Equal(t, a, c.Leaderboard[0].UserUUID)
	assert.Equal(t, 1, c.Leaderboard[0].Rank)

	require.NoError(t, c.RecordScore(b, "", "p1", uuid.New(), 90))
	require.Len(t, c.Leaderboard, 2)
	assert.Equal(t, b, c.Leaderboard[0].UserUUID)
	assert.Equal(t, 90, c.Leaderboard[0].TotalScore)
	assert.Equal(t, a, c.Leaderboard[1].UserUUID)
	assert.Equal(t, 2, c.Leaderboard[1].Rank)

	require.NoError(t, c.RecordScore(a, "", "p1", uuid.New(), 60))
	assert.Equal(t, b, c.Leaderboard[0].UserUUID)
	assert.Equal(t, 70, c.Leaderboard[1].TotalScore)
	assert.Len(t, c.Leaderboard[1].Submissions, 2)
}

func TestEqualTotalsKeepStableOrder(t *testing.T) {
	c := newContest()
	a, b, d := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, c.RecordScore(a, "", "p1", uuid.New(), 50))
	require.NoError(t, c.RecordScore(b, "", "p2", uuid.New(), 50))
	require.NoError(t, c.RecordScore(d, "", "p3", uuid.New(), 80))

	got := []uuid.UUID{c.Leaderboard[0].UserUUID, c.Leaderboard[1].UserUUID, c.Leaderboard[2].UserUUID}
	assert.Equal(t, []uuid.UUID{d, a, b}, got)
	assert.Equal(t, []int{1, 2, 3}, []int{c.Leaderboard[0].Rank, c.Leaderboard[1].Rank, c.Leaderboard[2].Rank})
}

func TestTotalIsSumOfMaximaForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))
	problems := []string{"p1", "p2", "p3"}
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	for round := 0; round < 50; round++ {
		c := newContest()
		best := map[uuid.UUID]map[string]int{}
		for i := 0; i < 40; i++ {
			u := users[rng.IntN(len(users))]
			p := problems[rng.IntN(len(problems))]
			s := rng.IntN(101)
			require.NoError(t, c.RecordScore(u, "", p, uuid.New(), s))
			if best[u] == nil {
				best[u] = map[string]int{}
			}
			if prev, ok := best[u][p]; !ok || s > prev {
				best[u][p] = s
			}
		}

		requireRanksConsistent(t, c.Leaderboard)
		require.Len(t, c.Leaderboard, len(best))
		for _, e := range c.Leaderboard {
			want := 0
			for _, s := range best[e.UserUUID] {
				want += s
			}
			require.Equal(t, want, e.TotalScore)
		}
	}
}

func TestTopLeaderboard(t *testing.T) {
	c := newContest()
	for i := 0; i < 15; i++ {
		require.NoError(t, c.RecordScore(uuid.New(), "", "p1", uuid.New(), i))
	}

	top := c.TopLeaderboard(0)
	require.Len(t, top, domain.DefaultLeaderboardLimit)
	assert.Equal(t, 14, top[0].TotalScore)

	assert.Len(t, c.TopLeaderboard(3), 3)
	assert.Len(t, c.TopLeaderboard(100), 15)

	top[0].TotalScore = -5
	top[0].ProblemScores[0].Score = -5
	assert.Equal(t, 14, c.Leaderboard[0].TotalScore, "returned entries must be copies")
	assert.Equal(t, 14, c.Leaderboard[0].ProblemScores[0].Score)
}
