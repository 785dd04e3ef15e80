package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"affiliate-dashboard/internal/domain/period"

	"github.com/rs/zerolog"
)

// DefaultTimeout 上游請求逾時。
const DefaultTimeout = 10 * time.Second

// ErrUnauthorized 上游回應 401，呼叫端應視為已登出。
var ErrUnauthorized = errors.New("upstream unauthorized")

// APIError 上游回傳的非 2xx 回應。
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: upstream status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: upstream status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// TokenSource 提供 bearer token，並在 401 時清除身分。
type TokenSource interface {
	Token() string
	Invalidate()
}

// Client 呼叫外部指標 API。
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With().Str("component", "backend").Logger(),
	}
}

// WithTokens 回傳綁定指定身分的 client，共用連線設定。
func (c *Client) WithTokens(tokens TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// BaseURL 上游位址。
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) call(ctx context.Context, method, path string, params url.Values, in, out any) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL = fullURL + "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("upstream request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("upstream call")

	if resp.StatusCode == http.StatusUnauthorized {
		if c.tokens != nil {
			c.tokens.Invalidate()
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(raw),
			Method:  method,
			Path:    path,
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func periodParams(p period.Period) url.Values {
	if p.QueryValue() == "" {
		return nil
	}
	return url.Values{"period": []string{p.QueryValue()}}
}

// Health 檢查上游是否可連線。
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil, nil)
}
