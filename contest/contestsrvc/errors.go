package contestsrvc

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/srvcerror"
)

const (
	ErrCodeContestNotFound     = "contest_not_found"
	ErrCodeProblemNotFound     = "problem_not_found"
	ErrCodeValidation          = "validation_error"
	ErrCodeContestNotStarted   = "contest_not_started"
	ErrCodeContestEnded        = "contest_ended"
	ErrCodeNotParticipant      = "not_participant"
	ErrCodeConcurrencyConflict = "concurrency_conflict"
	ErrCodePersistenceFailure  = "persistence_failure"
)

func newErrContestNotFound(id uuid.UUID) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestNotFound,
		fmt.Sprintf("sacensības '%s' netika atrastas", id),
	).SetHttpStatusCode(http.StatusNotFound)
}

func newErrProblemNotFound(problemID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeProblemNotFound,
		fmt.Sprintf("uzdevums '%s' šajās sacensībās netika atrasts", problemID),
	).SetHttpStatusCode(http.StatusNotFound)
}

func newErrValidation(violations []string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeValidation,
		"nederīgi sacensību dati",
	).SetHttpStatusCode(http.StatusBadRequest).SetDetails(violations...)
}

func newErrContestNotStarted() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestNotStarted,
		"sacensības vēl nav sākušās",
	).SetHttpStatusCode(http.StatusBadRequest)
}

func newErrContestEnded() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestEnded,
		"sacensības ir beigušās",
	).SetHttpStatusCode(http.StatusBadRequest)
}

func newErrNotParticipant() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNotParticipant,
		"lietotājs nav sacensību dalībnieks",
	).SetHttpStatusCode(http.StatusForbidden)
}

func newErrConcurrencyConflict() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeConcurrencyConflict,
		"sacensības šobrīd tiek mainītas, mēģiniet vēlreiz",
	).SetHttpStatusCode(http.StatusServiceUnavailable)
}

func newErrPersistenceFailure() *srvcerror.Error {
	return srvcerror.New(
		ErrCodePersistenceFailure,
		"neizdevās saglabāt datus",
	).SetHttpStatusCode(http.StatusInternalServerError)
}

// mapErr turns domain and store errors into service errors.
func mapErr(err error, contestUUID uuid.UUID) error {
	var srvcErr *srvcerror.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &srvcErr):
		return err
	case errors.Is(err, domain.ErrContestNotFound):
		return newErrContestNotFound(contestUUID)
	case errors.Is(err, domain.ErrNotParticipant):
		return newErrNotParticipant()
	case errors.Is(err, domain.ErrContestNotStarted):
		return newErrContestNotStarted()
	case errors.Is(err, domain.ErrContestEnded):
		return newErrContestEnded()
	case errors.Is(err, domain.ErrVersionConflict):
		return newErrConcurrencyConflict().SetDebug(err)
	default:
		return newErrPersistenceFailure().SetDebug(err)
	}
}
