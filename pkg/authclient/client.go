// Package authclient calls the external auth service. The shop never issues
// tokens itself; it only asks the auth service to rotate an expired pair.
package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/hoversale/pkg/tokens"
)

const (
	refreshPath    = "/auth/refresh"
	defaultTimeout = 5 * time.Second
	maxErrorBody   = 512
)

var (
	// ErrSessionExpired means the auth service refused the refresh token.
	// The session is over and the user has to log in again.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnavailable covers transport failures, 5xx answers and malformed
	// payloads. The session may still be valid.
	ErrUnavailable = errors.New("auth service unavailable")
)

// StatusError is a non-200 answer from the auth service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("auth service answered %d", e.Code)
	}
	return fmt.Sprintf("auth service answered %d: %s", e.Code, e.Body)
}

// Unwrap sorts the answer into ErrSessionExpired or ErrUnavailable.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return ErrSessionExpired
	}
	return ErrUnavailable
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(authServiceURL string) *Client {
	return NewClientWithTimeout(authServiceURL, defaultTimeout)
}

func NewClientWithTimeout(authServiceURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(authServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// RefreshResponse is the rotated token pair. Expiries are unix seconds.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
	IsAdmin      bool   `json:"is_admin"`
}

func (r *RefreshResponse) AccessExpiry() time.Time  { return time.Unix(r.AccessExp, 0) }
func (r *RefreshResponse) RefreshExpiry() time.Time { return time.Unix(r.RefreshExp, 0) }

func (r *RefreshResponse) validate() error {
	if r.AccessToken == "" || r.RefreshToken == "" {
		return errors.New("token missing in refresh response")
	}
	if r.AccessExp <= 0 || r.RefreshExp <= 0 {
		return errors.New("expiry missing in refresh response")
	}
	return nil
}

// RefreshTokens exchanges the refresh token for a new pair. The expired
// access token is forwarded so the auth service can bind the rotation to it.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken, accessToken string) (*RefreshResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: refreshToken})
	if accessToken != "" {
		req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: accessToken})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var result RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode refresh response: %w", ErrUnavailable, err)
	}
	if err := result.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &result, nil
}
