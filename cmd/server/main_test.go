package main

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeDrainsRequestsBeforeStoppingWorkers(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-workerCtx.Done()
	}()

	entered := make(chan struct{})
	release := make(chan struct{})
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		// stands in for a submission waiting on the judge poller
		if workerCtx.Err() != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})}

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- serve(ctx, server, ln, stopWorkers, &wg) }()

	status := make(chan int, 1)
	go func() {
		res, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			status <- 0
			return
		}
		res.Body.Close()
		status <- res.StatusCode
	}()

	<-entered
	cancel()
	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, workerCtx.Err(), "workers stopped while a request was in flight")
	close(release)

	assert.Equal(t, http.StatusOK, <-status)
	require.NoError(t, <-served)
	assert.ErrorIs(t, workerCtx.Err(), context.Canceled)
}
