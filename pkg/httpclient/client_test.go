package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Post(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := New(DefaultConfig())
	resp, err := client.Post(context.Background(), srv.URL, "application/json", strings.NewReader(`{"ok":true}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, gotBody)
}

func TestCircuitBreaker_TripsOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := CircuitBreakerConfig{
		Name:         "test-breaker",
		MaxRequests:  1,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := NewCircuitBreakerClient(New(Config{Timeout: time.Second, MaxRetries: 0}), cfg, logger)

	for i := 0; i < 3; i++ {
		_, err := cb.Post(context.Background(), srv.URL, "application/json", nil)
		assert.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	before := calls.Load()
	_, err := cb.Post(context.Background(), srv.URL, "application/json", nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, before, calls.Load(), "open breaker must not hit the server")
}

func TestCircuitBreaker_PassesSuccessThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := NewCircuitBreakerClient(New(DefaultConfig()), DefaultCircuitBreakerConfig("pass-through"), logger)

	resp, err := cb.Post(context.Background(), srv.URL, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
