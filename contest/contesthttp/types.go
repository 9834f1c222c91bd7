package contesthttp

import (
	"time"

	"github.com/programme-lv/contests/contest/domain"
)

type ContestProblem struct {
	ProblemID string `json:"problem_id"`
	Points    int    `json:"points"`
}

type ProblemScore struct {
	ProblemID string `json:"problem_id"`
	Score     int    `json:"score"`
}

type LeaderboardEntry struct {
	Rank          int            `json:"rank"`
	UserUUID      string         `json:"user_uuid"`
	Username      string         `json:"username,omitempty"`
	TotalScore    int            `json:"total_score"`
	ProblemScores []ProblemScore `json:"problem_scores"`
	Submissions   []string       `json:"submissions"`
}

// Contest is the response body of every contest route. Hidden contests
// carry only the summary fields and the notice.
type Contest struct {
	UUID        string    `json:"uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`

	Hidden bool   `json:"hidden,omitempty"`
	Notice string `json:"notice,omitempty"`

	Slug         string             `json:"slug,omitempty"`
	Status       string             `json:"status,omitempty"`
	TimeLeftMs   *int64             `json:"time_left_ms,omitempty"`
	Problems     []ContestProblem   `json:"problems,omitempty"`
	CreatedBy    string             `json:"created_by,omitempty"`
	Participants []string           `json:"participants,omitempty"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard,omitempty"`
	CreatedAt    *time.Time         `json:"created_at,omitempty"`
}

type Submission struct {
	UUID        string    `json:"uuid"`
	ContestUUID string    `json:"contest_uuid"`
	UserUUID    string    `json:"user_uuid"`
	ProblemID   string    `json:"problem_id"`
	Language    string    `json:"language"`
	Code        string    `json:"code,omitempty"`
	CodeKey     string    `json:"code_key,omitempty"`
	Verdict     string    `json:"verdict,omitempty"`
	Score       int       `json:"score"`
	IsInContest bool      `json:"is_in_contest"`
	CreatedAt   time.Time `json:"created_at"`
}

type SubmitResponse struct {
	Submission  Submission         `json:"submission"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var languageNames = map[domain.Language]string{
	domain.LangPython: "Python 3",
	domain.LangJava:   "Java",
	domain.LangCpp:    "C++",
}

func mapContestView(v domain.View) Contest {
	res := Contest{
		UUID:        v.UUID.String(),
		Title:       v.Title,
		Description: v.Description,
		StartTime:   v.StartTime,
		EndTime:     v.EndTime,
		Hidden:      v.Hidden,
		Notice:      v.Notice,
	}
	if v.Hidden {
		return res
	}

	timeLeft := v.TimeLeft.Milliseconds()
	createdAt := v.CreatedAt
	res.Slug = v.Slug
	res.Status = string(v.Phase)
	res.TimeLeftMs = &timeLeft
	res.CreatedAt = &createdAt
	res.CreatedBy = v.CreatedBy.String()

	res.Problems = make([]ContestProblem, len(v.Problems))
	for i, p := range v.Problems {
		res.Problems[i] = ContestProblem{ProblemID: p.ProblemID, Points: p.Points}
	}
	res.Participants = make([]string, len(v.Participants))
	for i, p := range v.Participants {
		res.Participants[i] = p.String()
	}
	res.Leaderboard = mapLeaderboard(v.Leaderboard)
	return res
}

func mapLeaderboard(entries []domain.LeaderboardEntry) []LeaderboardEntry {
	res := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		scores := make([]ProblemScore, len(e.ProblemScores))
		for j, s := range e.ProblemScores {
			scores[j] = ProblemScore{ProblemID: s.ProblemID, Score: s.Score}
		}
		subms := make([]string, len(e.Submissions))
		for j, s := range e.Submissions {
			subms[j] = s.String()
		}
		res[i] = LeaderboardEntry{
			Rank:          e.Rank,
			UserUUID:      e.UserUUID.String(),
			Username:      e.Username,
			TotalScore:    e.TotalScore,
			ProblemScores: scores,
			Submissions:   subms,
		}
	}
	return res
}

func mapSubm(s domain.Submission) Submission {
	return Submission{
		UUID:        s.UUID.String(),
		ContestUUID: s.ContestUUID.String(),
		UserUUID:    s.UserUUID.String(),
		ProblemID:   s.ProblemID,
		Language:    string(s.Language),
		Code:        s.Code,
		CodeKey:     s.CodeKey,
		Verdict:     s.Verdict,
		Score:       s.Score,
		IsInContest: s.IsInContest,
		CreatedAt:   s.CreatedAt,
	}
}
