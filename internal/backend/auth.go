package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nfrund/folio/internal/domain"
)

// AuthStatus asks the API whether token belongs to a signed-in admin
// (GET /auth/status).
func (c *Client) AuthStatus(ctx context.Context, token string) (*domain.AuthStatus, error) {
	var status domain.AuthStatus
	if err := c.getJSON(ctx, "/auth/status", token, &status); err != nil {
		var apiErr *APIError
		// A rejected token is an answer, not a failure.
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return &domain.AuthStatus{Authenticated: false}, nil
		}
		return nil, err
	}
	return &status, nil
}

// Login exchanges admin credentials for a bearer token (POST /login).
func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("backend: encoding login: %w", err)
	}
	status, raw, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/login",
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	var result domain.LoginResult
	if decodeErr := json.Unmarshal(raw, &result); decodeErr != nil {
		if status < 200 || status >= 300 {
			return nil, newAPIError(http.MethodPost, "/login", status, raw)
		}
		return nil, fmt.Errorf("backend: decoding POST /login: %w", decodeErr)
	}
	if status < 200 || status >= 300 {
		result.Success = false
		if result.Error == "" {
			result.Error = errorMessage(raw)
		}
	} else if result.Token != "" {
		result.Success = true
	}
	return &result, nil
}

// Logout tells the API to end the session (POST /logout). Callers clear their
// local token regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) error {
	status, raw, err := c.do(ctx, request{method: http.MethodPost, path: "/logout", token: token})
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return newAPIError(http.MethodPost, "/logout", status, raw)
	}
	return nil
}
