package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunServerGracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	log, hook := test.NewNullLogger()

	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		// Simulate work.
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte("done"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- runServer(ctx, ln, handler, time.Second, log) }()

	respc := make(chan string, 1)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/", ln.Addr()))
		if err != nil {
			respc <- err.Error()
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		respc <- string(body)
	}()

	<-started
	cancel()

	assert.Equal(t, "done", <-respc, "in-flight request completes")
	require.NoError(t, <-errc)

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "shutting down")
	assert.Contains(t, messages, "server stopped")
}

func TestRunServerListenerError(t *testing.T) {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())
	log, _ := test.NewNullLogger()

	err = runServer(context.Background(), ln, http.NotFoundHandler(), time.Second, log)
	assert.Error(t, err)
}
