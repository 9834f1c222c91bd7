package judge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/contests/logger"
)

var ErrJudgeTimeout = errors.New("judge did not respond in time")

type SqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

// DefaultReleaseDelay is how long a result addressed to another instance
// stays hidden before it is offered again.
const DefaultReleaseDelay = time.Second

type sqsEvalReq struct {
	EvalUuid  string `json:"eval_uuid"`
	ResSqsUrl string `json:"res_sqs_url"`
	ProblemID string `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

type sqsEvalRes struct {
	EvalUuid string `json:"eval_uuid"`
	Score    int    `json:"score"`
	Verdict  string `json:"verdict"`
	ErrorMsg string `json:"error_msg,omitempty"`
}

// SqsJudge sends evaluation requests to a tester through one queue and
// collects the results from another. Run must be running for Evaluate
// to ever receive a verdict. Several instances may share the result queue:
// each deletes only the results it was waiting for and hands the others
// back to the queue.
type SqsJudge struct {
	client       SqsClient
	reqUrl       string
	resUrl       string
	timeout      time.Duration
	releaseDelay time.Duration

	mu      sync.Mutex
	waiting map[string]chan sqsEvalRes
}

func NewSqsJudge(client SqsClient, reqUrl, resUrl string, timeout time.Duration) *SqsJudge {
	return &SqsJudge{
		client:       client,
		reqUrl:       reqUrl,
		resUrl:       resUrl,
		timeout:      timeout,
		releaseDelay: DefaultReleaseDelay,
		waiting:      make(map[string]chan sqsEvalRes),
	}
}

func (j *SqsJudge) Evaluate(ctx context.Context, req Request) (Verdict, error) {
	evalUuid, err := uuid.NewV7()
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to generate UUID: %w", err)
	}
	id := evalUuid.String()

	ch := make(chan sqsEvalRes, 1)
	j.mu.Lock()
	j.waiting[id] = ch
	j.mu.Unlock()
	defer func() {
		j.mu.Lock()
		delete(j.waiting, id)
		j.mu.Unlock()
	}()

	if err := j.enqueue(ctx, id, req); err != nil {
		return Verdict{}, err
	}

	timer := time.NewTimer(j.timeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		if res.ErrorMsg != "" {
			return Verdict{}, fmt.Errorf("tester failed: %s", res.ErrorMsg)
		}
		return Verdict{Score: res.Score, Label: res.Verdict}, nil
	case <-timer.C:
		return Verdict{}, ErrJudgeTimeout
	case <-ctx.Done():
		return Verdict{}, ctx.Err()
	}
}

func (j *SqsJudge) enqueue(ctx context.Context, id string, req Request) error {
	jsonReq, err := json.Marshal(sqsEvalReq{
		EvalUuid:  id,
		ResSqsUrl: j.resUrl,
		ProblemID: req.ProblemID,
		Language:  req.Language,
		Code:      req.Code,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation request: %w", err)
	}

	body, err := encodeBody(jsonReq)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Debug("enqueueing evaluation",
		"eval_uuid", id, "problem_id", req.ProblemID, "language", req.Language)

	_, err = j.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(j.reqUrl),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to evaluation queue: %w", err)
	}
	return nil
}

// Run polls the response queue until ctx is cancelled, handing results to
// waiting Evaluate calls.
func (j *SqsJudge) Run(ctx context.Context) {
	log := logger.FromContext(ctx)
	for ctx.Err() == nil {
		output, err := j.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(j.resUrl),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     5,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("failed to receive messages", "error", err)
			sleepCtx(ctx, time.Second)
			continue
		}

		for _, msg := range output.Messages {
			if msg.ReceiptHandle == nil {
				continue
			}
			if msg.Body != nil && !j.dispatch(ctx, *msg.Body) {
				j.release(ctx, msg.ReceiptHandle)
				continue
			}
			_, err := j.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(j.resUrl),
				ReceiptHandle: msg.ReceiptHandle,
			})
			if err != nil {
				log.Warn("failed to delete message", "error", err)
			}
		}
	}
}

// dispatch reports false only for a well-formed result that no Evaluate
// call of this instance is waiting for. Malformed bodies count as handled.
func (j *SqsJudge) dispatch(ctx context.Context, body string) bool {
	var res sqsEvalRes
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		logger.FromContext(ctx).Warn("failed to unmarshal evaluation result", "error", err)
		return true
	}

	j.mu.Lock()
	ch, ok := j.waiting[res.EvalUuid]
	j.mu.Unlock()
	if !ok {
		logger.FromContext(ctx).Debug("result belongs to another instance", "eval_uuid", res.EvalUuid)
		return false
	}
	select {
	case ch <- res:
	default:
	}
	return true
}

// release makes a result visible again after releaseDelay so that the
// instance which sent the request can pick it up.
func (j *SqsJudge) release(ctx context.Context, receiptHandle *string) {
	_, err := j.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(j.resUrl),
		ReceiptHandle:     receiptHandle,
		VisibilityTimeout: int32(j.releaseDelay / time.Second),
	})
	if err != nil {
		logger.FromContext(ctx).Warn("failed to release message", "error", err)
	}
}

func encodeBody(data []byte) (string, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create Zstd encoder: %w", err)
	}
	defer encoder.Close()
	compressed := encoder.EncodeAll(data, make([]byte, 0, len(data)))
	return base64.StdEncoding.EncodeToString(compressed), nil
}

func decodeBody(body string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Zstd decoder: %w", err)
	}
	defer decoder.Close()
	return decoder.DecodeAll(compressed, nil)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
