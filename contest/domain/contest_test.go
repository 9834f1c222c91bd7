package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2030, 3, 14, 12, 0, 0, 0, time.UTC)

func newContest() domain.Contest {
	return domain.Contest{
		UUID:      uuid.New(),
		Title:     "Pavasara kauss",
		StartTime: t0,
		EndTime:   t0.Add(3 * time.Hour),
		Problems: []domain.ContestProblem{
			{ProblemID: "p1", Points: 100},
			{ProblemID: "p2", Points: 100},
			{ProblemID: "p3", Points: 100},
		},
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	c := newContest()
	user := uuid.New()

	changed, err := c.Join(user, t0.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = c.Join(user, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, []uuid.UUID{user}, c.Participants)
	assert.Empty(t, c.Leaderboard, "joining must not create a leaderboard entry")
}

func TestJoinAfterEndFails(t *testing.T) {
	c := newContest()
	changed, err := c.Join(uuid.New(), c.EndTime.Add(time.Second))
	require.ErrorIs(t, err, domain.ErrContestEnded)
	assert.False(t, changed)
	assert.Empty(t, c.Participants)
}

func TestJoinExactlyAtEndSucceeds(t *testing.T) {
	c := newContest()
	changed, err := c.Join(uuid.New(), c.EndTime)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestCanSubmitChecksMembershipBeforeWindow(t *testing.T) {
	c := newContest()
	member := uuid.New()
	stranger := uuid.New()
	_, err := c.Join(member, t0.Add(-time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name string
		user uuid.UUID
		now  time.Time
		want error
	}{
		{"stranger before start", stranger, t0.Add(-time.Minute), domain.ErrNotParticipant},
		{"stranger after end", stranger, c.EndTime.Add(time.Minute), domain.ErrNotParticipant},
		{"member before start", member, t0.Add(-time.Minute), domain.ErrContestNotStarted},
		{"member after end", member, c.EndTime.Add(time.Minute), domain.ErrContestEnded},
		{"member at start", member, t0, nil},
		{"member at end", member, c.EndTime, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.CanSubmit(tt.user, tt.now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := newContest()
	user := uuid.New()
	_, err := c.Join(user, t0)
	require.NoError(t, err)
	require.NoError(t, c.RecordScore(user, "", "p1", uuid.New(), 10))

	cp := c.Clone()
	cp.Problems[0].Points = 1
	cp.Participants[0] = uuid.New()
	cp.Leaderboard[0].ProblemScores[0].Score = 99

	assert.Equal(t, 100, c.Problems[0].Points)
	assert.Equal(t, user, c.Participants[0])
	assert.Equal(t, 10, c.Leaderboard[0].ProblemScores[0].Score)
}
