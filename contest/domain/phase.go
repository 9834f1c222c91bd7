package domain

import "time"

type Phase string

const (
	PhaseUpcoming  Phase = "upcoming"
	PhaseOngoing   Phase = "ongoing"
	PhaseCompleted Phase = "completed"
)

// PhaseAt classifies now against the closed window [start, end].
func PhaseAt(now, start, end time.Time) Phase {
	if now.Before(start) {
		return PhaseUpcoming
	}
	if now.After(end) {
		return PhaseCompleted
	}
	return PhaseOngoing
}

func (c *Contest) PhaseAt(now time.Time) Phase {
	return PhaseAt(now, c.StartTime, c.EndTime)
}

// RefreshStatus updates the cached status. Decisions never read Status.
func (c *Contest) RefreshStatus(now time.Time) {
	c.Status = c.PhaseAt(now)
}

// TimeLeft is zero for completed contests.
func (c *Contest) TimeLeft(now time.Time) time.Duration {
	left := c.EndTime.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
