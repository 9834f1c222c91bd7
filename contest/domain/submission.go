package domain

import (
	"time"

	"github.com/google/uuid"
)

type Language string

const (
	LangPython Language = "python"
	LangJava   Language = "java"
	LangCpp    Language = "cpp"
)

var Languages = []Language{LangPython, LangJava, LangCpp}

func (l Language) Valid() bool {
	switch l {
	case LangPython, LangJava, LangCpp:
		return true
	}
	return false
}

// MaxCodeBytes limits the size of submitted source code.
const MaxCodeBytes = 64 * 1024

// Submission is an append-only record of one scored attempt.
type Submission struct {
	UUID        uuid.UUID
	ContestUUID uuid.UUID
	UserUUID    uuid.UUID
	ProblemID   string
	Language    Language

	// Code is empty when the source was archived under CodeKey.
	Code    string
	CodeKey string

	Verdict     string
	Score       int
	IsInContest bool
	CreatedAt   time.Time
}
