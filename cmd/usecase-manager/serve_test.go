package main

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/usecase-manager/internal/api"
)

func TestRunWithShutdown(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	health := api.NewHealthHandler()
	handler := http.NewServeMux()
	handler.Handle("/health", health)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- runWithShutdown(ctx, log, ln, handler, health)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("runWithShutdown did not return within timeout")
	}

	rec := httptest.NewRecorder()
	health.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunWithShutdown_ServeError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = runWithShutdown(context.Background(), slog.New(slog.DiscardHandler), ln,
		http.NotFoundHandler(), api.NewHealthHandler())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serve")
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(slog.New(slog.DiscardHandler))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "usecase-manager dev\n", out.String())
}

func TestServeCmd_RequiresConfig(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("TEMPLATE_URL_PREFIX", "")

	cmd := newRootCmd(slog.New(slog.DiscardHandler))
	cmd.SetArgs([]string{"serve"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}
