package domain

import "errors"

var (
	ErrContestEnded      = errors.New("contest has ended")
	ErrContestNotStarted = errors.New("contest has not started")
	ErrNotParticipant    = errors.New("user is not a contest participant")
	ErrNegativeScore     = errors.New("score must not be negative")
)

// Errors returned by contest and submission stores.
var (
	ErrContestNotFound  = errors.New("contest not found")
	ErrVersionConflict  = errors.New("contest version conflict")
	ErrSubmissionExists = errors.New("submission already exists")
)
