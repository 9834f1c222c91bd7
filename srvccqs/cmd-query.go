package decorator

import (
	"context"
	"time"

	"github.com/programme-lv/contests/logger"
)

// P - params
type CmdHandler[P any] interface {
	Handle(ctx context.Context, p P) error
}

// P - params, R - result of the command
type CmdResHandler[P any, R any] interface {
	Handle(ctx context.Context, p P) (R, error)
}

// Q - query, R - result
type QueryHandler[Q any, R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

type cmdLogging[P any] struct {
	name string
	next CmdHandler[P]
}

func (d cmdLogging[P]) Handle(ctx context.Context, p P) error {
	start := time.Now()
	err := d.next.Handle(ctx, p)
	logResult(ctx, d.name, start, err)
	return err
}

type resLogging[P any, R any] struct {
	name string
	next interface {
		Handle(ctx context.Context, p P) (R, error)
	}
}

func (d resLogging[P, R]) Handle(ctx context.Context, p P) (R, error) {
	start := time.Now()
	res, err := d.next.Handle(ctx, p)
	logResult(ctx, d.name, start, err)
	return res, err
}

// LogCmd wraps a command handler so that every call is logged with its duration.
func LogCmd[P any](name string, h CmdHandler[P]) CmdHandler[P] {
	return cmdLogging[P]{name: name, next: h}
}

func LogCmdRes[P any, R any](name string, h CmdResHandler[P, R]) CmdResHandler[P, R] {
	return resLogging[P, R]{name: name, next: h}
}

func LogQuery[Q any, R any](name string, h QueryHandler[Q, R]) QueryHandler[Q, R] {
	return resLogging[Q, R]{name: name, next: h}
}

func logResult(ctx context.Context, name string, start time.Time, err error) {
	log := logger.FromContext(ctx)
	took := time.Since(start)
	if err != nil {
		log.Debug("handler failed", "handler", name, "took", took, "error", err)
		return
	}
	log.Debug("handler done", "handler", name, "took", took)
}
