package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactHidesUpcomingFromNonAdmins(t *testing.T) {
	c := newContest()
	c.Slug = "pavasara-kauss"
	c.Description = "apraksts"
	c.CreatedBy = uuid.New()
	_, err := c.Join(uuid.New(), t0.Add(-time.Hour))
	require.NoError(t, err)

	for _, role := range []domain.Role{domain.RoleGuest, domain.RoleUser} {
		v := domain.Redact(&c, t0.Add(-time.Minute), role)
		assert.True(t, v.Hidden)
		assert.Equal(t, domain.HiddenDetailsNotice, v.Notice)
		assert.Equal(t, c.UUID, v.UUID)
		assert.Equal(t, c.Title, v.Title)
		assert.Equal(t, c.Description, v.Description)
		assert.Equal(t, c.StartTime, v.StartTime)
		assert.Equal(t, c.EndTime, v.EndTime)
		assert.Nil(t, v.Problems)
		assert.Nil(t, v.Participants)
		assert.Empty(t, v.Slug)
		assert.Equal(t, uuid.Nil, v.CreatedBy)
	}

	admin := domain.Redact(&c, t0.Add(-time.Minute), domain.RoleAdmin)
	assert.False(t, admin.Hidden)
	assert.Len(t, admin.Problems, 3)
	assert.Equal(t, domain.PhaseUpcoming, admin.Phase)
}

func TestRedactShowsEverythingOnceStarted(t *testing.T) {
	c := newContest()
	for _, now := range []time.Time{t0, t0.Add(time.Hour), c.EndTime.Add(time.Hour)} {
		v := domain.Redact(&c, now, domain.RoleGuest)
		assert.False(t, v.Hidden)
		assert.Empty(t, v.Notice)
		assert.Equal(t, c.Problems, v.Problems)
	}
}

func TestRedactDoesNotMutateOrAlias(t *testing.T) {
	c := newContest()
	v := domain.Redact(&c, t0, domain.RoleUser)
	v.Problems[0].ProblemID = "changed"
	assert.Equal(t, "p1", c.Problems[0].ProblemID)
}
