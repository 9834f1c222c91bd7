package decorator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/programme-lv/contests/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoQuery struct{}

func (echoQuery) Handle(ctx context.Context, q string) (string, error) {
	if q == "" {
		return "", errors.New("empty")
	}
	return q + q, nil
}

func TestLogQueryPassesThroughAndLogs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := logger.WithLogger(context.Background(), log)

	h := LogQuery[string, string]("echo", echoQuery{})

	res, err := h.Handle(ctx, "ab")
	require.NoError(t, err)
	assert.Equal(t, "abab", res)
	assert.Contains(t, buf.String(), "handler=echo")

	_, err = h.Handle(ctx, "")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "handler failed")
}
