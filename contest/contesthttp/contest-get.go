package contesthttp

import (
	"net/http"
	"strconv"

	"github.com/programme-lv/contests/auth"
	"github.com/programme-lv/contests/contest/contestsrvc"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/httpjson"
	"github.com/programme-lv/contests/srvcerror"
)

func (h *ContestHttpHandler) ListContests(w http.ResponseWriter, r *http.Request) {
	views, err := h.contestSrvc.ListContests.Handle(r.Context(), contestsrvc.ListContestsParams{
		Role: roleOf(auth.ClaimsFromContext(r.Context())),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response := make([]Contest, len(views))
	for i, v := range views {
		response[i] = mapContestView(v)
	}
	httpjson.WriteSuccessJson(w, response)
}

func (h *ContestHttpHandler) GetContest(w http.ResponseWriter, r *http.Request) {
	id, err := contestIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.contestSrvc.GetContest.Handle(r.Context(), contestsrvc.GetContestParams{
		ContestUUID: id,
		Role:        roleOf(auth.ClaimsFromContext(r.Context())),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, mapContestView(view))
}

func (h *ContestHttpHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := contestIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.fail(w, r, srvcerror.New(
				contestsrvc.ErrCodeValidation,
				"nederīgs ierobežojums",
			).SetHttpStatusCode(http.StatusBadRequest).
				SetDetails("limit must be a positive integer"))
			return
		}
	}

	entries, err := h.contestSrvc.GetLeaderboard.Handle(r.Context(), contestsrvc.GetLeaderboardParams{
		ContestUUID: id,
		Limit:       limit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, mapLeaderboard(entries))
}

func (h *ContestHttpHandler) ListSubms(w http.ResponseWriter, r *http.Request) {
	userUUID, err := requireUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := contestIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	subms, err := h.contestSrvc.ListSubms.Handle(r.Context(), contestsrvc.ListSubmsParams{
		ContestUUID: id,
		UserUUID:    userUUID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response := make([]Submission, len(subms))
	for i, s := range subms {
		response[i] = mapSubm(s)
	}
	httpjson.WriteSuccessJson(w, response)
}

func (h *ContestHttpHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	response := make([]Language, len(domain.Languages))
	for i, l := range domain.Languages {
		response[i] = Language{ID: string(l), Name: languageNames[l]}
	}
	httpjson.WriteSuccessJson(w, response)
}
