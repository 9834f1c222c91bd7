package srvcerror

import (
	"errors"
	"net/http"
)

type Error struct {
	errorCode  string
	msgToUser  string   // public
	details    []string // public, e.g. every violated validation rule
	dbgInfoErr error    // private, for debugging

	httpStatus int // optional, for HTTP responses
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) Details() []string {
	return e.details
}

func (e *Error) SetDetails(details ...string) *Error {
	e.details = append([]string(nil), details...)
	return e
}

func (e *Error) DebugInfo() error {
	return e.dbgInfoErr
}

func (e *Error) SetDebug(err error) *Error {
	e.dbgInfoErr = err
	return e
}

// Unwrap exposes the debug error so that errors.Is can see through it.
func (e *Error) Unwrap() error {
	return e.dbgInfoErr
}

func (e *Error) HttpStatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

func (e *Error) SetHttpStatusCode(code int) *Error {
	e.httpStatus = code
	return e
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}

// Code returns the error code of the first *Error in err's chain or "".
func Code(err error) string {
	var srvcErr *Error
	if errors.As(err, &srvcErr) {
		return srvcErr.ErrorCode()
	}
	return ""
}

const ErrCodeInternalServerError = "internal_server_error"

func ErrInternalSE() *Error {
	return New(
		ErrCodeInternalServerError,
		"iekšēja servera kļūda",
	).SetHttpStatusCode(http.StatusInternalServerError)
}

const (
	ErrCodeUnauthenticated = "unauthenticated"
	ErrCodeForbidden       = "forbidden"
)

func ErrUnauthenticated() *Error {
	return New(
		ErrCodeUnauthenticated,
		"lietotājs nav autentificējies",
	).SetHttpStatusCode(http.StatusUnauthorized)
}

func ErrForbidden() *Error {
	return New(
		ErrCodeForbidden,
		"lietotājam nav atļaujas veikt šo darbību",
	).SetHttpStatusCode(http.StatusForbidden)
}
