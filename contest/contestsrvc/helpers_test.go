package contestsrvc_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/contestsrvc"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/contest/memrepo"
	"github.com/programme-lv/contests/judge"
	"github.com/programme-lv/contests/problem"
	"github.com/programme-lv/contests/srvcerror"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type judgeMock struct {
	evaluate func(ctx context.Context, req judge.Request) (judge.Verdict, error)
}

func (m *judgeMock) Evaluate(ctx context.Context, req judge.Request) (judge.Verdict, error) {
	return m.evaluate(ctx, req)
}

// scoreJudge treats the submitted code as "score:<n>".
func scoreJudge() *judgeMock {
	return &judgeMock{evaluate: func(ctx context.Context, req judge.Request) (judge.Verdict, error) {
		var score int
		if _, err := fmt.Sscanf(req.Code, "score:%d", &score); err != nil {
			return judge.Verdict{}, err
		}
		return judge.Verdict{Score: score, Label: "accepted"}, nil
	}}
}

type fixture struct {
	srvc     *contestsrvc.ContestSrvc
	clock    *fakeClock
	contests *memrepo.InMemContestRepo
	subms    *memrepo.InMemSubmRepo
	catalog  *problem.InMemCatalog
	admin    uuid.UUID
}

func newFixture(t *testing.T, opts ...contestsrvc.Option) *fixture {
	t.Helper()
	f := &fixture{
		clock:    &fakeClock{now: t0.Add(-24 * time.Hour)},
		contests: memrepo.NewInMemContestRepo(),
		subms:    memrepo.NewInMemSubmRepo(),
		catalog: problem.NewInMemCatalog(
			problem.Problem{ID: "aplusb", FullName: "A+B", MaxPoints: 100},
			problem.Problem{ID: "kvadrati", FullName: "Kvadrāti", MaxPoints: 100},
			problem.Problem{ID: "grafs", FullName: "Grafs", MaxPoints: 100},
			problem.Problem{ID: "koks", FullName: "Koks"},
		),
		admin: uuid.New(),
	}
	opts = append([]contestsrvc.Option{
		contestsrvc.WithClock(f.clock.Now),
		contestsrvc.WithRetry(5, 0),
	}, opts...)
	f.srvc = contestsrvc.NewContestSrvc(f.contests, f.subms, f.catalog, scoreJudge(), opts...)
	return f
}

func scoreCode(score int) string {
	return fmt.Sprintf("score:%d", score)
}

func intPtr(i int) *int { return &i }

func validCreateParams(createdBy uuid.UUID) contestsrvc.CreateContestParams {
	return contestsrvc.CreateContestParams{
		CreatedBy:   createdBy,
		Title:       "Pavasara kauss 2030",
		Description: "Trīs uzdevumi, trīs stundas",
		StartTime:   t0,
		EndTime:     t0.Add(3 * time.Hour),
		Problems: []contestsrvc.ProblemParams{
			{ProblemID: "aplusb", Points: intPtr(100)},
			{ProblemID: "kvadrati", Points: intPtr(100)},
			{ProblemID: "grafs"},
		},
	}
}

// newOngoingContest creates a contest, joins the given users and moves the
// clock inside the contest window.
func (f *fixture) newOngoingContest(t *testing.T, users ...uuid.UUID) domain.Contest {
	t.Helper()
	ctx := context.Background()
	c, err := f.srvc.CreateContest.Handle(ctx, validCreateParams(f.admin))
	require.NoError(t, err)
	for _, u := range users {
		require.NoError(t, f.srvc.JoinContest.Handle(ctx, contestsrvc.JoinContestParams{ContestUUID: c.UUID, UserUUID: u}))
	}
	f.clock.Set(t0.Add(time.Hour))
	return c
}

func (f *fixture) submit(ctx context.Context, contestUUID uuid.UUID, user uuid.UUID, problemID string, score int) (contestsrvc.SubmitSolResult, error) {
	return f.srvc.SubmitSol.Handle(ctx, contestsrvc.SubmitSolParams{
		ContestUUID: contestUUID,
		ProblemID:   problemID,
		UserUUID:    user,
		Language:    "cpp",
		Code:        scoreCode(score),
	})
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, srvcerror.Code(err), "unexpected error: %v", err)
}
