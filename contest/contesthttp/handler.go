package contesthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/programme-lv/contests/auth"
	"github.com/programme-lv/contests/contest/contestsrvc"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/httpjson"
	"github.com/programme-lv/contests/logger"
	"github.com/programme-lv/contests/srvcerror"
)

type ContestHttpHandler struct {
	contestSrvc *contestsrvc.ContestSrvc
	now         func() time.Time
}

func NewContestHttpHandler(contestSrvc *contestsrvc.ContestSrvc) *ContestHttpHandler {
	return &ContestHttpHandler{contestSrvc: contestSrvc, now: time.Now}
}

// RegisterRoutes expects the auth middleware to run before the handlers.
func (h *ContestHttpHandler) RegisterRoutes(r chi.Router) {
	r.Get("/languages", h.ListLanguages)
	r.Route("/contests", func(r chi.Router) {
		r.Get("/", h.ListContests)
		r.Post("/", h.CreateContest)
		r.Route("/{contestId}", func(r chi.Router) {
			r.Get("/", h.GetContest)
			r.Put("/", h.UpdateContest)
			r.Delete("/", h.DeleteContest)
			r.Post("/join", h.JoinContest)
			r.Post("/problems/{problemId}/submit", h.SubmitSol)
			r.Get("/leaderboard", h.GetLeaderboard)
			r.Get("/submissions", h.ListSubms)
		})
	})
}

func (h *ContestHttpHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpjson.HandleError(logger.FromContext(r.Context()), w, err)
}

func roleOf(claims *auth.JwtClaims) domain.Role {
	switch {
	case claims == nil:
		return domain.RoleGuest
	case claims.IsAdmin():
		return domain.RoleAdmin
	default:
		return domain.RoleUser
	}
}

func requireUser(r *http.Request) (uuid.UUID, error) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return uuid.Nil, srvcerror.ErrUnauthenticated()
	}
	id, err := claims.UserUUID()
	if err != nil {
		return uuid.Nil, srvcerror.ErrUnauthenticated().SetDebug(err)
	}
	return id, nil
}

func requireAdmin(r *http.Request) (uuid.UUID, error) {
	id, err := requireUser(r)
	if err != nil {
		return uuid.Nil, err
	}
	if !auth.ClaimsFromContext(r.Context()).IsAdmin() {
		return uuid.Nil, srvcerror.ErrForbidden()
	}
	return id, nil
}

func contestIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "contestId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, srvcerror.New(
			contestsrvc.ErrCodeContestNotFound,
			"sacensības '"+raw+"' netika atrastas",
		).SetHttpStatusCode(http.StatusNotFound).SetDebug(err)
	}
	return id, nil
}
