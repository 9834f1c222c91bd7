package contesthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/programme-lv/contests/auth"
	"github.com/programme-lv/contests/contest/contestsrvc"
	"github.com/programme-lv/contests/httpjson"
)

func (h *ContestHttpHandler) JoinContest(w http.ResponseWriter, r *http.Request) {
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

	err = h.contestSrvc.JoinContest.Handle(r.Context(), contestsrvc.JoinContestParams{
		ContestUUID: id,
		UserUUID:    userUUID,
	})
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

func (h *ContestHttpHandler) SubmitSol(w http.ResponseWriter, r *http.Request) {
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

	var request struct {
		Language string `json:"language"`
		Code     string `json:"code"`
	}
	if err := httpjson.DecodeBody(r, &request); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.contestSrvc.SubmitSol.Handle(r.Context(), contestsrvc.SubmitSolParams{
		ContestUUID: id,
		ProblemID:   chi.URLParam(r, "problemId"),
		UserUUID:    userUUID,
		Username:    auth.ClaimsFromContext(r.Context()).Username,
		Language:    request.Language,
		Code:        request.Code,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpjson.WriteSuccessJsonStatus(w, http.StatusCreated, SubmitResponse{
		Submission:  mapSubm(res.Submission),
		Leaderboard: mapLeaderboard(res.Leaderboard),
	})
}
