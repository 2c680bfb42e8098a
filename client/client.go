// Package client is the Go client for the journal API. It mirrors the five
// collections in a state cache, normalizes backend identifiers, computes
// derived views and performs snapshot import/export.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"lovelog-backend/domain"
)

// APIError is a non-2xx response from the server, carrying the `{message}`
// body when one was sent.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the journal REST API. No timeout or cancellation is
// applied beyond what the caller's context carries; overlapping calls are
// not deduplicated.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the Bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API rooted at baseURL (e.g.
// "http://localhost:3001/api/v1").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the Bearer token, typically after login.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Memories

func (c *Client) ListMemories(ctx context.Context) ([]domain.Memory, error) {
	var out []domain.Memory
	err := c.do(ctx, http.MethodGet, "/memories", nil, &out)
	return out, err
}

func (c *Client) CreateMemory(ctx context.Context, m domain.Memory) (domain.Memory, error) {
	var out domain.Memory
	err := c.do(ctx, http.MethodPost, "/memories", m, &out)
	return out, err
}

func (c *Client) UpdateMemory(ctx context.Context, id string, patch interface{}) (domain.Memory, error) {
	var out domain.Memory
	err := c.do(ctx, http.MethodPut, "/memories/"+id, patch, &out)
	return out, err
}

func (c *Client) DeleteMemory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/memories/"+id, nil, nil)
}

func (c *Client) ClearMemories(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/memories/clear", nil, nil)
}

// Anniversaries

func (c *Client) ListAnniversaries(ctx context.Context) ([]domain.Anniversary, error) {
	var out []domain.Anniversary
	err := c.do(ctx, http.MethodGet, "/anniversaries", nil, &out)
	return out, err
}

func (c *Client) CreateAnniversary(ctx context.Context, a domain.Anniversary) (domain.Anniversary, error) {
	var out domain.Anniversary
	err := c.do(ctx, http.MethodPost, "/anniversaries", a, &out)
	return out, err
}

func (c *Client) UpdateAnniversary(ctx context.Context, id string, patch interface{}) (domain.Anniversary, error) {
	var out domain.Anniversary
	err := c.do(ctx, http.MethodPut, "/anniversaries/"+id, patch, &out)
	return out, err
}

func (c *Client) DeleteAnniversary(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/anniversaries/"+id, nil, nil)
}

func (c *Client) ClearAnniversaries(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/anniversaries/clear", nil, nil)
}

// Messages

func (c *Client) ListMessages(ctx context.Context) ([]domain.Message, error) {
	var out []domain.Message
	err := c.do(ctx, http.MethodGet, "/messages", nil, &out)
	return out, err
}

func (c *Client) CreateMessage(ctx context.Context, m domain.Message) (domain.Message, error) {
	var out domain.Message
	err := c.do(ctx, http.MethodPost, "/messages", m, &out)
	return out, err
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/messages/"+id, nil, nil)
}

func (c *Client) ClearMessages(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/messages/clear", nil, nil)
}

// Wishes

func (c *Client) ListWishes(ctx context.Context) ([]domain.Wish, error) {
	var out []domain.Wish
	err := c.do(ctx, http.MethodGet, "/wishes", nil, &out)
	return out, err
}

func (c *Client) CreateWish(ctx context.Context, w domain.Wish) (domain.Wish, error) {
	var out domain.Wish
	err := c.do(ctx, http.MethodPost, "/wishes", w, &out)
	return out, err
}

func (c *Client) UpdateWish(ctx context.Context, id string, patch interface{}) (domain.Wish, error) {
	var out domain.Wish
	err := c.do(ctx, http.MethodPut, "/wishes/"+id, patch, &out)
	return out, err
}

func (c *Client) DeleteWish(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/wishes/"+id, nil, nil)
}

func (c *Client) ClearWishes(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/wishes/clear", nil, nil)
}

// Moods

func (c *Client) ListMoods(ctx context.Context) ([]domain.Mood, error) {
	var out []domain.Mood
	err := c.do(ctx, http.MethodGet, "/moods", nil, &out)
	return out, err
}

func (c *Client) CreateMood(ctx context.Context, m domain.Mood) (domain.Mood, error) {
	var out domain.Mood
	err := c.do(ctx, http.MethodPost, "/moods", m, &out)
	return out, err
}

func (c *Client) UpdateMood(ctx context.Context, id string, patch interface{}) (domain.Mood, error) {
	var out domain.Mood
	err := c.do(ctx, http.MethodPut, "/moods/"+id, patch, &out)
	return out, err
}

func (c *Client) DeleteMood(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/moods/"+id, nil, nil)
}

func (c *Client) ClearMoods(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/moods/clear", nil, nil)
}

// Auth

// AuthResult is the server's register/login response.
type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", credentials{username, password}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", credentials{username, password}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}
