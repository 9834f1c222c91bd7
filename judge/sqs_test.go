package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTester answers every request it receives with score = len(code).
type fakeTester struct {
	mu       sync.Mutex
	requests []sqsEvalReq
	results  chan types.Message
	inflight map[string]types.Message
	deleted  int
	released int
	silent   bool
}

func newFakeTester() *fakeTester {
	return &fakeTester{
		results:  make(chan types.Message, 16),
		inflight: make(map[string]types.Message),
	}
}

func (f *fakeTester) SendMessage(ctx context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	raw, err := decodeBody(*in.MessageBody)
	if err != nil {
		return nil, err
	}
	var req sqsEvalReq
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if !f.silent {
		res, _ := json.Marshal(sqsEvalRes{EvalUuid: req.EvalUuid, Score: len(req.Code), Verdict: "accepted"})
		f.results <- types.Message{
			Body:          aws.String(string(res)),
			ReceiptHandle: aws.String(fmt.Sprintf("rh-%s", req.EvalUuid)),
		}
	}
	return &sqs.SendMessageOutput{}, nil
}

func (f *fakeTester) ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	select {
	case msg := <-f.results:
		f.mu.Lock()
		f.inflight[*msg.ReceiptHandle] = msg
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: []types.Message{msg}}, nil
	case <-time.After(20 * time.Millisecond):
		return &sqs.ReceiveMessageOutput{}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeTester) DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	delete(f.inflight, *in.ReceiptHandle)
	f.deleted++
	f.mu.Unlock()
	return &sqs.DeleteMessageOutput{}, nil
}

// ChangeMessageVisibility puts the message back on the queue.
func (f *fakeTester) ChangeMessageVisibility(ctx context.Context, in *sqs.ChangeMessageVisibilityInput, _ ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error) {
	f.mu.Lock()
	msg, ok := f.inflight[*in.ReceiptHandle]
	delete(f.inflight, *in.ReceiptHandle)
	if ok {
		f.released++
	}
	f.mu.Unlock()
	if ok {
		go func() { f.results <- msg }()
	}
	return &sqs.ChangeMessageVisibilityOutput{}, nil
}

func (f *fakeTester) counts() (deleted, released int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted, f.released
}

func TestSqsJudgeRoundTrip(t *testing.T) {
	tester := newFakeTester()
	j := NewSqsJudge(tester, "req-url", "res-url", 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go j.Run(ctx)

	var wg sync.WaitGroup
	for i := 1; i <= 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			code := fmt.Sprintf("%0*d", n, 0)
			v, err := j.Evaluate(ctx, Request{SubmUUID: uuid.New(), ProblemID: "aplusb", Language: "cpp", Code: code})
			assert.NoError(t, err)
			assert.Equal(t, n, v.Score)
			assert.Equal(t, "accepted", v.Label)
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		tester.mu.Lock()
		defer tester.mu.Unlock()
		return tester.deleted == 5
	}, time.Second, 10*time.Millisecond)

	tester.mu.Lock()
	defer tester.mu.Unlock()
	require.Len(t, tester.requests, 5)
	assert.Equal(t, "res-url", tester.requests[0].ResSqsUrl)
	assert.Equal(t, "aplusb", tester.requests[0].ProblemID)
}

func TestSqsJudgeSharedResultQueue(t *testing.T) {
	tester := newFakeTester()
	a := NewSqsJudge(tester, "req-url", "res-url", 5*time.Second)
	b := NewSqsJudge(tester, "req-url", "res-url", 5*time.Second)
	a.releaseDelay = 0
	b.releaseDelay = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	const n = 10
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v, err := a.Evaluate(ctx, Request{SubmUUID: uuid.New(), ProblemID: "aplusb", Language: "cpp", Code: fmt.Sprintf("%0*d", n, 0)})
			assert.NoError(t, err)
			assert.Equal(t, n, v.Score)
		}(i)
	}

	// b sees a's results first and must hand them back untouched.
	require.Eventually(t, func() bool {
		_, released := tester.counts()
		return released > 0
	}, time.Second, 5*time.Millisecond)
	deleted, _ := tester.counts()
	assert.Zero(t, deleted)

	go a.Run(ctx)
	wg.Wait()

	require.Eventually(t, func() bool {
		deleted, _ := tester.counts()
		return deleted == n
	}, time.Second, 10*time.Millisecond)
}

func TestSqsJudgeTimesOut(t *testing.T) {
	tester := newFakeTester()
	tester.silent = true
	j := NewSqsJudge(tester, "req-url", "res-url", 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go j.Run(ctx)

	_, err := j.Evaluate(ctx, Request{ProblemID: "aplusb", Language: "python", Code: "print(1)"})
	require.ErrorIs(t, err, ErrJudgeTimeout)
}

func TestFixedScoreJudge(t *testing.T) {
	v, err := FixedScoreJudge{Score: 7}.Evaluate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, Verdict{Score: 7, Label: LabelPending}, v)
}
