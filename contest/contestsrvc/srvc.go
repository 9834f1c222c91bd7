package contestsrvc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/judge"
	"github.com/programme-lv/contests/problem"
	decorator "github.com/programme-lv/contests/srvccqs"
)

type ContestRepo interface {
	GetContest(ctx context.Context, id uuid.UUID) (domain.Contest, error)
	ListContests(ctx context.Context) ([]domain.Contest, error)
	// SaveContest writes c only if the stored version still equals
	// c.Version and then increments c.Version. A zero version means create.
	SaveContest(ctx context.Context, c *domain.Contest) error
	DeleteContest(ctx context.Context, id uuid.UUID) error
}

type SubmRepo interface {
	StoreSubm(ctx context.Context, s domain.Submission) error
	ListSubms(ctx context.Context, contestUUID uuid.UUID, userUUID uuid.UUID) ([]domain.Submission, error)
}

type ProblemCatalogFacade interface {
	GetProblem(ctx context.Context, id string) (problem.Problem, error)
}

type JudgeFacade interface {
	Evaluate(ctx context.Context, req judge.Request) (judge.Verdict, error)
}

type CodeStoreFacade interface {
	Archive(ctx context.Context, contestUUID, submUUID uuid.UUID, code string) (string, error)
}

type ContestSrvc struct {
	CreateContest decorator.CmdResHandler[CreateContestParams, domain.Contest]
	UpdateContest decorator.CmdResHandler[UpdateContestParams, domain.Contest]
	DeleteContest decorator.CmdHandler[DeleteContestParams]
	JoinContest   decorator.CmdHandler[JoinContestParams]
	SubmitSol     decorator.CmdResHandler[SubmitSolParams, SubmitSolResult]

	ListContests   decorator.QueryHandler[ListContestsParams, []domain.View]
	GetContest     decorator.QueryHandler[GetContestParams, domain.View]
	GetLeaderboard decorator.QueryHandler[GetLeaderboardParams, []domain.LeaderboardEntry]
	ListSubms      decorator.QueryHandler[ListSubmsParams, []domain.Submission]
}

const (
	DefaultRetryLimit   = 5
	DefaultRetryBackoff = 20 * time.Millisecond
)

type options struct {
	codeStore    CodeStoreFacade
	now          func() time.Time
	retryLimit   int
	retryBackoff time.Duration
}

type Option func(*options)

// WithCodeStore archives submitted code instead of keeping it inline.
func WithCodeStore(cs CodeStoreFacade) Option {
	return func(o *options) { o.codeStore = cs }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithRetry(limit int, backoff time.Duration) Option {
	return func(o *options) {
		if limit > 0 {
			o.retryLimit = limit
		}
		if backoff >= 0 {
			o.retryBackoff = backoff
		}
	}
}

func NewContestSrvc(
	contests ContestRepo,
	subms SubmRepo,
	catalog ProblemCatalogFacade,
	judge JudgeFacade,
	opts ...Option,
) *ContestSrvc {
	o := options{
		now:          time.Now,
		retryLimit:   DefaultRetryLimit,
		retryBackoff: DefaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(&o)
	}

	writer := &contestWriter{
		repo:       contests,
		locks:      newKeyedMutex(),
		retryLimit: o.retryLimit,
		backoff:    o.retryBackoff,
	}
	validator := newContestValidator(catalog)

	return &ContestSrvc{
		CreateContest: decorator.LogCmdRes[CreateContestParams, domain.Contest]("create_contest",
			createContestHandler{repo: contests, validator: validator, now: o.now}),
		UpdateContest: decorator.LogCmdRes[UpdateContestParams, domain.Contest]("update_contest",
			updateContestHandler{writer: writer, validator: validator, now: o.now}),
		DeleteContest: decorator.LogCmd[DeleteContestParams]("delete_contest",
			deleteContestHandler{writer: writer}),
		JoinContest: decorator.LogCmd[JoinContestParams]("join_contest",
			joinContestHandler{writer: writer, now: o.now}),
		SubmitSol: decorator.LogCmdRes[SubmitSolParams, SubmitSolResult]("submit_sol",
			submitSolHandler{
				contests:  contests,
				subms:     subms,
				judge:     judge,
				codeStore: o.codeStore,
				writer:    writer,
				now:       o.now,
			}),
		ListContests: decorator.LogQuery[ListContestsParams, []domain.View]("list_contests",
			listContestsHandler{repo: contests, now: o.now}),
		GetContest: decorator.LogQuery[GetContestParams, domain.View]("get_contest",
			getContestHandler{repo: contests, now: o.now}),
		GetLeaderboard: decorator.LogQuery[GetLeaderboardParams, []domain.LeaderboardEntry]("get_leaderboard",
			getLeaderboardHandler{repo: contests}),
		ListSubms: decorator.LogQuery[ListSubmsParams, []domain.Submission]("list_subms",
			listSubmsHandler{contests: contests, subms: subms}),
	}
}
