package contesthttp

import (
	"net/http"
	"time"

	"github.com/programme-lv/contests/contest/contestsrvc"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/httpjson"
)

type problemRequest struct {
	ProblemID string `json:"problem_id"`
	Points    *int   `json:"points"`
}

func mapProblemParams(problems []problemRequest) []contestsrvc.ProblemParams {
	res := make([]contestsrvc.ProblemParams, len(problems))
	for i, p := range problems {
		res[i] = contestsrvc.ProblemParams{ProblemID: p.ProblemID, Points: p.Points}
	}
	return res
}

func (h *ContestHttpHandler) CreateContest(w http.ResponseWriter, r *http.Request) {
	adminUUID, err := requireAdmin(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var request struct {
		Title       string           `json:"title"`
		Description string           `json:"description"`
		StartTime   time.Time        `json:"start_time"`
		EndTime     time.Time        `json:"end_time"`
		Problems    []problemRequest `json:"problems"`
	}
	if err := httpjson.DecodeBody(r, &request); err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := h.contestSrvc.CreateContest.Handle(r.Context(), contestsrvc.CreateContestParams{
		CreatedBy:   adminUUID,
		Title:       request.Title,
		Description: request.Description,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		Problems:    mapProblemParams(request.Problems),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.WriteSuccessJsonStatus(w, http.StatusCreated,
		mapContestView(domain.Redact(&c, h.now(), domain.RoleAdmin)))
}

func (h *ContestHttpHandler) UpdateContest(w http.ResponseWriter, r *http.Request) {
	if _, err := requireAdmin(r); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := contestIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var request struct {
		Title       *string           `json:"title"`
		Description *string           `json:"description"`
		StartTime   *time.Time        `json:"start_time"`
		EndTime     *time.Time        `json:"end_time"`
		Problems    *[]problemRequest `json:"problems"`
	}
	if err := httpjson.DecodeBody(r, &request); err != nil {
		h.fail(w, r, err)
		return
	}

	params := contestsrvc.UpdateContestParams{
		ContestUUID: id,
		Title:       request.Title,
		Description: request.Description,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
	}
	if request.Problems != nil {
		params.Problems = mapProblemParams(*request.Problems)
	}

	c, err := h.contestSrvc.UpdateContest.Handle(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpjson.WriteSuccessJson(w, mapContestView(domain.Redact(&c, h.now(), domain.RoleAdmin)))
}

func (h *ContestHttpHandler) DeleteContest(w http.ResponseWriter, r *http.Request) {
	if _, err := requireAdmin(r); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := contestIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	err = h.contestSrvc.DeleteContest.Handle(r.Context(), contestsrvc.DeleteContestParams{
		ContestUUID: id,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
