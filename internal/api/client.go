package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"sandyadmin/internal/model"
)

// Client talks to the Sandy Market admin REST API.
//
// All calls are fallible and are never retried automatically; callers decide
// whether a failure is surfaced (user-initiated actions) or swallowed
// (background flows). The bearer token is owned by the session store, which
// is the only writer via SetToken.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Error is a non-2xx response from the remote API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status=%d message=%s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the remote rejected the bearer token.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NewClient creates a client for the given base URL, e.g.
// "https://api.sandymarket.example.com".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetToken installs the bearer token used on subsequent calls. An empty
// string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope wraps list responses: { "success": bool, "data": [...] }.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. The token is not installed
// on the client; that is the session store's job.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			return "", model.ErrInvalidCredentials
		}
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("login: empty token in response")
	}
	return out.Token, nil
}

// GetCurrentUser fetches the profile of the authenticated admin.
func (c *Client) GetCurrentUser(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetAllOrders fetches the full order list. The payload is wrapped in the
// { success, data } envelope.
func (c *Client) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("get orders: backend reported failure: %s", env.Message)
	}

	var orders []model.Order
	if err := json.Unmarshal(env.Data, &orders); err != nil {
		return nil, fmt.Errorf("get orders: decode data: %w", err)
	}
	return orders, nil
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus asks the backend to move an order to the given status.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	var env envelope
	path := fmt.Sprintf("/api/orders/%d/status", orderID)
	if err := c.do(ctx, http.MethodPatch, path, updateStatusRequest{Status: status}, &env); err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("update order status: backend reported failure: %s", env.Message)
	}
	return nil
}

type fcmTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform,omitempty"`
}

// UpdateFCMToken registers this device's push token with the backend so it
// becomes a notification target for new orders.
func (c *Client) UpdateFCMToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPut, "/api/users/fcm-token", fcmTokenRequest{Token: token}, nil)
}

// do issues one JSON request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error body, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
