package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAIConfig(baseURL string) AIConfig {
	return AIConfig{
		BaseURL:        baseURL,
		Model:          "test-model",
		APIKey:         "test-key",
		MaxAttempts:    5,
		AttemptTimeout: 2 * time.Second,
		RetryBase:      10 * time.Millisecond,
	}
}

func genContentBody(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\\':
			out += `\\`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestGenerate_RetriesOn503WithBackoff(t *testing.T) {
	var mu sync.Mutex
	var hits []time.Time

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, time.Now())
		n := len(hits)
		mu.Unlock()

		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(genContentBody("hello")))
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	client := NewAIClient(cfg)

	text, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hits, 3)

	// Delays grow exponentially: the gap before the second retry must be at
	// least double the gap before the first.
	gap1 := hits[1].Sub(hits[0])
	gap2 := hits[2].Sub(hits[1])
	assert.GreaterOrEqual(t, gap1, 2*cfg.RetryBase)
	assert.GreaterOrEqual(t, gap2, 4*cfg.RetryBase)
	assert.GreaterOrEqual(t, gap2, 2*gap1-cfg.RetryBase)
}

func TestGenerate_NonRetryableStatusFailsImmediately(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"invalid argument","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	client := NewAIClient(testAIConfig(srv.URL))
	_, err := client.Generate(context.Background(), "prompt")

	var aiErr *AIServiceError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, http.StatusBadRequest, aiErr.Status)
	assert.Equal(t, "invalid argument", aiErr.Message)
	assert.Equal(t, 1, hits, "400 must not be retried")
}

func TestGenerate_RetriesExhausted(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	cfg.MaxAttempts = 3
	client := NewAIClient(cfg)

	_, err := client.Generate(context.Background(), "prompt")

	var aiErr *AIServiceError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, http.StatusServiceUnavailable, aiErr.Status)
	assert.Equal(t, 3, hits)
}

func TestGenerate_EmptyPayloadIsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewAIClient(testAIConfig(srv.URL))
	_, err := client.Generate(context.Background(), "prompt")

	var aiErr *AIServiceError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, http.StatusOK, aiErr.Status)
	assert.Contains(t, aiErr.Message, "empty response payload")
}

func TestGenerate_UnparseablePayloadIsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := NewAIClient(testAIConfig(srv.URL))
	_, err := client.Generate(context.Background(), "prompt")

	var aiErr *AIServiceError
	require.ErrorAs(t, err, &aiErr)
	assert.Contains(t, aiErr.Message, "unrecognized response payload")
}

func TestGenerate_CancelDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	cfg.RetryBase = time.Second
	client := NewAIClient(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := client.Generate(ctx, "prompt")
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second, "cancellation must interrupt the backoff timer")
}
