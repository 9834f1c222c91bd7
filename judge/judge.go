package judge

import (
	"context"

	"github.com/google/uuid"
)

type Request struct {
	SubmUUID  uuid.UUID
	ProblemID string
	Language  string
	Code      string
}

type Verdict struct {
	Score int
	Label string
}

const LabelPending = "pending"

// FixedScoreJudge awards the same score to every submission. It stands in
// for a real tester in development and tests.
type FixedScoreJudge struct {
	Score int
	Label string
}

func (j FixedScoreJudge) Evaluate(ctx context.Context, req Request) (Verdict, error) {
	label := j.Label
	if label == "" {
		label = LabelPending
	}
	return Verdict{Score: j.Score, Label: label}, nil
}
