package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MangalNathYadav/mealmatrixx-sub000/config"
	"github.com/MangalNathYadav/mealmatrixx-sub000/logger"

	"github.com/google/uuid"
)

// AIConfig parameterizes the single generative client. Endpoint, model and
// generation parameters are configuration chosen at construction time; there
// is one client type, not one per model.
type AIConfig struct {
	BaseURL         string
	Model           string
	APIKey          string
	Temperature     float64
	MaxOutputTokens int

	MaxAttempts    int           // retry ceiling, 503/timeout only
	AttemptTimeout time.Duration // per-attempt ceiling
	RetryBase      time.Duration // backoff unit: delay = RetryBase * 2^attempt
}

// AIConfigFromEnv builds the production configuration.
func AIConfigFromEnv() AIConfig {
	return AIConfig{
		BaseURL:         config.GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		Model:           config.GetEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		APIKey:          config.GetEnv("GEMINI_API_KEY", ""),
		Temperature:     config.GetEnvFloat("GEMINI_TEMPERATURE", 0.4),
		MaxOutputTokens: config.GetEnvInt("GEMINI_MAX_OUTPUT_TOKENS", 1024),
		MaxAttempts:     config.GetEnvInt("GEMINI_MAX_ATTEMPTS", 10),
		AttemptTimeout:  config.GetEnvDuration("GEMINI_ATTEMPT_TIMEOUT", 30*time.Second),
		RetryBase:       config.GetEnvDuration("GEMINI_RETRY_BASE", time.Second),
	}
}

// TextGenerator is what the insight service depends on; *AIClient is the
// production implementation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIClient calls the Gemini generateContent endpoint. Calls are independent
// and may run concurrently; the client holds no per-call mutable state.
type AIClient struct {
	cfg    AIConfig
	client *http.Client
}

func NewAIClient(cfg AIConfig) *AIClient {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 30 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = time.Second
	}
	// The http.Client carries no timeout of its own: per-attempt deadlines
	// come from the context so retries and cancellation compose.
	return &AIClient{cfg: cfg, client: &http.Client{}}
}

type genRequest struct {
	Contents []genContent `json:"contents"`
	Config   genConfig    `json:"generationConfig"`
}

type genContent struct {
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type genResponse struct {
	Candidates []struct {
		Content struct {
			Parts []genPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends the prompt and returns the generated text.
//
// Retry policy: 503 and per-attempt timeouts back off exponentially
// (RetryBase * 2^attempt) up to MaxAttempts; each retry reconstructs the
// request identically. Any other non-2xx, or a 2xx without a usable
// candidate, fails immediately with an AIServiceError carrying the upstream
// status and message. The backoff timer is tied to ctx, so abandoning the
// caller cancels pending retries.
func (c *AIClient) Generate(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.cfg.RetryBase * (1 << attempt)
			logger.Debug("ai retry scheduled", "request_id", requestID, "attempt", attempt, "delay", delay)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}

		text, retryable, err := c.attempt(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logger.Warn("ai attempt failed", "request_id", requestID, "attempt", attempt, "error", err)
	}
	logger.Error("ai retries exhausted", "request_id", requestID, "attempts", c.cfg.MaxAttempts)
	return "", lastErr
}

// attempt performs one request. The bool reports whether the failure is
// retryable (503 or timeout/abort).
func (c *AIClient) attempt(ctx context.Context, prompt string) (string, bool, error) {
	actx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
	defer cancel()

	body := genRequest{
		Contents: []genContent{{Parts: []genPart{{Text: prompt}}}},
		Config:   genConfig{Temperature: c.cfg.Temperature, MaxOutputTokens: c.cfg.MaxOutputTokens},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(actx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// caller abandoned the call; don't keep retrying
			return "", false, ctx.Err()
		}
		// network-level failure or attempt timeout: retryable
		return "", true, &AIServiceError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, &AIServiceError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", true, upstreamError(resp.StatusCode, respBytes)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, upstreamError(resp.StatusCode, respBytes)
	}

	var out genResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", false, &AIServiceError{Status: resp.StatusCode, Message: "unrecognized response payload"}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", false, &AIServiceError{Status: resp.StatusCode, Message: "empty response payload"}
	}

	var text string
	for _, p := range out.Candidates[0].Content.Parts {
		text += p.Text
	}
	if text == "" {
		return "", false, &AIServiceError{Status: resp.StatusCode, Message: "empty response payload"}
	}
	return text, false, nil
}

// upstreamError prefers the {error:{code,message,status}} envelope, falling
// back to a snippet of the raw body.
func upstreamError(status int, body []byte) *AIServiceError {
	var env apiErrorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error.Message != "" {
		return &AIServiceError{Status: status, Message: env.Error.Message}
	}
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return &AIServiceError{Status: status, Message: msg}
}
