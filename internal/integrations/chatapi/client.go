package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zhouzirui/genie/internal/model/chat"
)

// DefaultURL is the chat endpoint of a locally running api process.
const DefaultURL = "http://localhost:8080/api/chat"

// maxReplyBytes bounds how much of a reply body is read.
const maxReplyBytes = 1 << 20

// ErrEmptyPrompt is returned by Send for blank prompts.
var ErrEmptyPrompt = errors.New("chatapi: prompt must not be empty")

// chatRequest is the body the chat endpoint expects.
type chatRequest struct {
	Prompt string `json:"prompt"`
	ChatID string `json:"chatId"`
}

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("chatapi: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client posts prompts to the chat endpoint and returns the raw reply text.
type Client struct {
	url        string
	httpClient *http.Client
	strict     bool
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets a whole-request timeout. Zero means none.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithStrictStatus controls whether non-2xx responses are returned as
// *HTTPStatusError (true, the default) or as ordinary replies (false).
func WithStrictStatus(strict bool) Option {
	return func(c *Client) {
		c.strict = strict
	}
}

// NewClient creates a client for the chat endpoint at url.
func NewClient(url string, opts ...Option) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("chatapi: backend url %q must be http or https", url)
	}

	c := &Client{
		url:        strings.TrimRight(url, "/"),
		httpClient: &http.Client{},
		strict:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the chat endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return http.DefaultClient
}

// Send posts prompt for chatID and returns the response body verbatim.
func (c *Client) Send(ctx context.Context, prompt, chatID string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	body, err := json.Marshal(chatRequest{Prompt: prompt, ChatID: chatID})
	if err != nil {
		return "", fmt.Errorf("chatapi: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chatapi: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req, c.strict)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// History fetches the backend transcript of chatID.
func (c *Client) History(ctx context.Context, chatID string) ([]chat.Message, error) {
	url := c.url + "/" + chatID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("chatapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	raw, err := c.do(req, true)
	if err != nil {
		return nil, err
	}

	var messages []chat.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("chatapi: decode history: %w", err)
	}
	return messages, nil
}

func (c *Client) do(req *http.Request, strict bool) ([]byte, error) {
	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatapi: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if strict && (res.StatusCode < 200 || res.StatusCode >= 300) {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        req.URL.String(),
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("chatapi: read response body: %w", err)
	}
	return buf, nil
}
