// Package api is the typed HTTP client for the CodeLens API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codelens/internal/models"
)

// DefaultTimeout bounds every API call from the client side. Server-side
// work keeps running past it; the client just stops waiting.
const DefaultTimeout = 30 * time.Second

// Client talks to a CodeLens API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a Client for the given server base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthResponse is the body returned by register and login.
type AuthResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	LastCode string `json:"lastCode"`
	Token    string `json:"token"`
}

// Profile is the authenticated profile view, including recent history.
type Profile struct {
	ID            uint                  `json:"id"`
	Name          string                `json:"name"`
	Email         string                `json:"email"`
	LastCode      string                `json:"lastCode"`
	ReviewHistory []models.ReviewRecord `json:"reviewHistory"`
}

// Register creates an account and returns the session data.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns the session data, including the last
// autosaved snippet.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Review submits code for review. An empty token is fine; the review then
// simply is not recorded in any history.
func (c *Client) Review(ctx context.Context, token, code string) (string, error) {
	var out struct {
		Review string `json:"review"`
	}
	err := c.do(ctx, http.MethodPost, "/ai/get-response", token, map[string]string{
		"prompt": code,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Review, nil
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends changed fields; empty fields keep their value.
func (c *Client) UpdateProfile(ctx context.Context, token, name, email string) (*Profile, error) {
	var out Profile
	err := c.do(ctx, http.MethodPut, "/auth/profile", token, map[string]string{
		"name":  name,
		"email": email,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches the review history, newest first.
func (c *Client) History(ctx context.Context, token string) ([]models.ReviewRecord, error) {
	var out []models.ReviewRecord
	if err := c.do(ctx, http.MethodGet, "/auth/history", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddHistory records a code/review pair explicitly.
func (c *Client) AddHistory(ctx context.Context, token, code, review string) error {
	return c.do(ctx, http.MethodPost, "/auth/history", token, map[string]string{
		"code":   code,
		"review": review,
	}, nil)
}

// SaveCode autosaves the in-progress snippet and returns the stored value.
func (c *Client) SaveCode(ctx context.Context, token, code string) (string, error) {
	var out struct {
		LastCode string `json:"lastCode"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/save-code", token, map[string]string{
		"code": code,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.LastCode, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindUnexpected, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindUnexpected, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindUnexpected, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: errBody.Error}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &Error{Kind: KindUnexpected, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
