package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	appkafka "example.com/socialfeed/internal/broker"
	"example.com/socialfeed/internal/store/storetest"
	"github.com/stretchr/testify/require"
)

// TestServer_GracefulShutdown verifies that Run serves requests and returns
// once its context is cancelled.
func TestServer_GracefulShutdown(t *testing.T) {
	st := storetest.New(t)
	mockKafka := &appkafka.MockKafka{}
	s := New(st, appkafka.NewActivityPublisher(mockKafka), testConfig(t))

	// reserve a free port
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, s, addr, "", "") }()

	// Wait until the server accepts requests
	url := fmt.Sprintf("http://%s/search?q=x", addr)
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		require.NoError(t, mockKafka.Close())
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shutdown gracefully within the expected time")
	}
}
