package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/programme-lv/contests/srvcerror"
)

type JsonResponse struct {
	Status  string   `json:"status"` // "success" or "error"
	Data    any      `json:"data,omitempty"`
	ErrCode string   `json:"code,omitempty"`
	ErrMsg  string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

func WriteSuccessJson(w http.ResponseWriter, data any) {
	WriteSuccessJsonStatus(w, http.StatusOK, data)
}

func WriteSuccessJsonStatus(w http.ResponseWriter, statusCode int, data any) {
	resp := JsonResponse{
		Status: "success",
		Data:   data,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func WriteErrorJson(w http.ResponseWriter, errMsg string, statusCode int, errCode string, details ...string) {
	resp := JsonResponse{
		Status:  "error",
		ErrMsg:  errMsg,
		ErrCode: errCode,
		Details: details,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func writeInternalErrorJson(w http.ResponseWriter) {
	WriteErrorJson(w,
		http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError,
		srvcerror.ErrCodeInternalServerError)
}

func HandleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	srvcErr := &srvcerror.Error{}
	if errors.As(err, &srvcErr) {
		if srvcErr.DebugInfo() != nil {
			logger.Warn("service error", "error", err, "code", srvcErr.ErrorCode(), "debug", srvcErr.DebugInfo())
		} else {
			logger.Warn("service error", "error", err, "code", srvcErr.ErrorCode())
		}
		if srvcErr.HttpStatusCode() >= http.StatusInternalServerError {
			logger.Error("internal server error", "error", err, "code", srvcErr.ErrorCode())
		}
		WriteErrorJson(w, srvcErr.Error(), srvcErr.HttpStatusCode(), srvcErr.ErrorCode(), srvcErr.Details()...)
		return
	}
	logger.Error("internal server error", "error", err)
	writeInternalErrorJson(w)
}

// DecodeBody reads a JSON request body into dst rejecting unknown fields.
func DecodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return srvcerror.New("invalid_request_body", "nederīgs pieprasījuma saturs").
			SetHttpStatusCode(http.StatusBadRequest).
			SetDetails(err.Error()).
			SetDebug(err)
	}
	return nil
}
