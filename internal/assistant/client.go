package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/spring-sisters/spring-backend/internal/logger"
)

const maxResponseBytes = 1 << 20

// Message is one chat turn. Content is a string or a []ContentPart.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ClientOptions configures the gateway client.
type ClientOptions struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	RequestsPerSec int
}

// Client talks to an OpenAI compatible chat completions gateway. Calls are
// never retried.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	metrics *Metrics
}

func NewClient(opt ClientOptions) *Client {
	if opt.Timeout <= 0 {
		opt.Timeout = 60 * time.Second
	}
	if opt.RequestsPerSec <= 0 {
		opt.RequestsPerSec = 5
	}
	return &Client{
		baseURL: strings.TrimRight(opt.BaseURL, "/"),
		apiKey:  opt.APIKey,
		http:    &http.Client{Timeout: opt.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opt.RequestsPerSec), opt.RequestsPerSec*2),
		metrics: &Metrics{},
	}
}

func (c *Client) Stats() Stats { return c.metrics.Snapshot() }

// Complete sends one chat completion and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, model string, messages []Message, jsonMode bool) (string, error) {
	log := logger.NewLogger(ctx)

	if !c.limiter.Allow() {
		c.metrics.recordRateLimited()
		log.LogWarn("gateway_complete", "local rate limit hit")
		return "", ErrRateLimited
	}

	body := completionRequest{Model: model, Messages: messages}
	if jsonMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal completion: %w", err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.record(duration, err)
		log.LogError("gateway_complete", err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.record(duration, err)
		return "", fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := statusError(resp.StatusCode)
		c.metrics.record(duration, statusErr)
		log.LogWarnf("gateway_complete", "gateway returned status %d", resp.StatusCode)
		return "", statusErr
	}
	c.metrics.record(duration, nil)

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil || len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: completion envelope", ErrMalformedPayload)
	}
	log.LogInfof("gateway_complete", "model=%s latency=%s", model, duration)
	return out.Choices[0].Message.Content, nil
}

func statusError(code int) error {
	switch code {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrCreditsExhausted
	default:
		return fmt.Errorf("%w: status %d", ErrUpstream, code)
	}
}
