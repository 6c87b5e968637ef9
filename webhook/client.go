// Package webhook implements cove.ContentService by posting messages to an
// HTTP webhook that answers with card content.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/cove"
)

// ErrNoURL is returned by Submit when the client has no endpoint.
var ErrNoURL = errors.New("webhook url not configured")

// maxBody caps how much of a response body is read.
const maxBody = 1 << 20

// Client posts chat messages to a webhook.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the webhook at url. Request deadlines come from
// the context passed to Submit.
func New(url string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		url:        strings.TrimSpace(url),
		logger:     log.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string { return c.url }

type chatRequest struct {
	ChatID   string `json:"chat_id"`
	UserName string `json:"user_name"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

type chatResponse struct {
	Content  string            `json:"content"`
	Message  string            `json:"message"`
	Response string            `json:"response"`
	Rich     *cove.RichContent `json:"rich"`
}

// Submit implements cove.ContentService.
func (c *Client) Submit(ctx context.Context, in cove.ContentRequest) (cove.ContentResponse, error) {
	if c.url == "" {
		return cove.ContentResponse{}, ErrNoURL
	}

	body, err := json.Marshal(chatRequest{
		ChatID:   in.ChatID,
		UserName: in.UserName,
		Message:  in.Text,
		Category: in.Category,
	})
	if err != nil {
		return cove.ContentResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return cove.ContentResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cove.ContentResponse{}, fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return cove.ContentResponse{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("webhook responded with error status", "status", resp.StatusCode, "card", in.CardID)
		return cove.ContentResponse{}, &cove.StatusError{Code: resp.StatusCode}
	}

	out := decodeResponse(respBody)
	c.logger.Debug("webhook answered", "card", in.CardID, "note", in.Note, "bytes", len(respBody))
	return out, nil
}

// decodeResponse extracts card content from a response body. JSON bodies
// are read from content, message or response in that order; anything else
// is taken as plain text.
func decodeResponse(body []byte) cove.ContentResponse {
	text := strings.TrimSpace(string(body))
	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return cove.ContentResponse{Content: text}
	}
	out := cove.ContentResponse{Rich: cr.Rich}
	switch {
	case cr.Content != "":
		out.Content = cr.Content
	case cr.Message != "":
		out.Content = cr.Message
	case cr.Response != "":
		out.Content = cr.Response
	default:
		out.Content = text
	}
	return out
}
