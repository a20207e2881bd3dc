package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/intellisort/intellisort/pkg/lifecycle"
)

// maxErrorBody bounds how much of an upstream error body is carried into
// diagnostics.
const maxErrorBody = 4096

type client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type classifyRequest struct {
	Image string `json:"image"`
}

// New creates a classifier gateway from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	return NewWithClient(
		cfg.BaseURL,
		&http.Client{Timeout: cfg.TimeoutDuration()},
		logger,
	)
}

// NewWithClient creates a classifier gateway with a caller-supplied HTTP
// client. Tests use this to substitute the transport.
func NewWithClient(baseURL string, httpClient *http.Client, logger *slog.Logger) System {
	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With("system", "classifier"),
	}
}

func (c *client) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting classifier gateway", "base_url", c.baseURL)

	lc.OnStartup(func() {
		if err := c.Ping(lc.Context()); err != nil {
			// classification requests will fail with ErrUnavailable until the
			// upstream recovers; the service itself still comes up
			c.logger.Warn("classifier health probe failed", "error", err)
			return
		}
		c.logger.Info("classifier reachable")
	})

	return nil
}

func (c *client) Classify(ctx context.Context, image string) (*Result, error) {
	body, err := json.Marshal(classifyRequest{Image: image})
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf(
			"%w: status %d: %s",
			ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(detail)),
		)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	result := normalize(raw)
	c.logger.Info(
		"image classified",
		"waste_category", stringOrEmpty(result.WasteCategory),
		"disposal_type", stringOrEmpty(result.DisposalType),
		"has_confidence", result.Confidence != nil,
	)

	return result, nil
}

func (c *client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrUnavailable, resp.StatusCode)
	}

	return nil
}

// normalize applies the presence rules for the untyped upstream response:
// string fields are taken verbatim only when present as JSON strings, and
// confidence only when the value is a JSON number. Everything else is nil.
func normalize(raw map[string]any) *Result {
	result := &Result{}

	if v, ok := raw["waste_category"].(string); ok {
		result.WasteCategory = &v
	}
	if v, ok := raw["disposal_type"].(string); ok {
		result.DisposalType = &v
	}
	if v, ok := raw["confidence"].(float64); ok {
		result.Confidence = &v
	}
	if v, ok := raw["tip"].(string); ok {
		result.Tip = &v
	}

	return result
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
