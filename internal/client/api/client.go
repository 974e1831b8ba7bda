// Package api is the REST client for the healthlog backend. Server failures
// surface as *APIError carrying the HTTP status and the stable error code
// from the response envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIError is a server-reported failure.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// IsAuthFailure reports whether the error is a 401-class rejection, the
// signal that drives the bootstrap refresh-then-retry path.
func (e *APIError) IsAuthFailure() bool {
	return e.Status == http.StatusUnauthorized
}

// Account mirrors the server's account resource.
type Account struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Settings  json.RawMessage `json:"settings"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TokenPair mirrors the server's token pair resource.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is the register/login response body.
type AuthResult struct {
	Account *Account   `json:"account"`
	Tokens  *TokenPair `json:"tokens"`
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Register creates an account and returns the first session.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": password, "name": name,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Refresh exchanges a refresh token for a rotated pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refreshToken": refreshToken,
	}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout revokes a refresh token server-side. The endpoint always succeeds;
// an error here means the server was unreachable.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", "", map[string]string{
		"refreshToken": refreshToken,
	}, nil)
}

// GetMe resolves the account behind an access token.
func (c *Client) GetMe(ctx context.Context, accessToken string) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, "/account/me", accessToken, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("request encode error: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("request build error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("response decode error: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	// A body that does not parse still yields a usable status-only error.
	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	code := envelope.Error.Code
	if code == "" {
		code = "UNKNOWN"
	}

	return &APIError{
		Status:    resp.StatusCode,
		Code:      code,
		Message:   envelope.Error.Message,
		RequestID: envelope.Error.RequestID,
	}
}
