package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const HiddenDetailsNotice = "sacensību detaļas ir paslēptas līdz to sākumam"

// View is what a viewer is allowed to see of a contest. When Hidden is set
// only the identifying fields and the notice are filled in.
type View struct {
	UUID        uuid.UUID
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time

	Hidden bool
	Notice string

	Slug         string
	Phase        Phase
	TimeLeft     time.Duration
	Problems     []ContestProblem
	CreatedBy    uuid.UUID
	Participants []uuid.UUID
	Leaderboard  []LeaderboardEntry
	CreatedAt    time.Time
}

// Redact projects the contest for a viewer with the given role. Admins see
// everything; everybody else sees only the summary until the contest starts.
func Redact(c *Contest, now time.Time, role Role) View {
	phase := c.PhaseAt(now)
	if role != RoleAdmin && phase == PhaseUpcoming {
		return View{
			UUID:        c.UUID,
			Title:       c.Title,
			Description: c.Description,
			StartTime:   c.StartTime,
			EndTime:     c.EndTime,
			Hidden:      true,
			Notice:      HiddenDetailsNotice,
		}
	}
	full := c.Clone()
	return View{
		UUID:         full.UUID,
		Title:        full.Title,
		Description:  full.Description,
		StartTime:    full.StartTime,
		EndTime:      full.EndTime,
		Slug:         full.Slug,
		Phase:        phase,
		TimeLeft:     full.TimeLeft(now),
		Problems:     full.Problems,
		CreatedBy:    full.CreatedBy,
		Participants: full.Participants,
		Leaderboard:  full.Leaderboard,
		CreatedAt:    full.CreatedAt,
	}
}
