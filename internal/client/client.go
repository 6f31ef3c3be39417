// Package client is a small HTTP client for the microauth API, used by the
// command-line tool and handy for integration tests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Register signs up a new user and returns the user view, including the
// issued token.
func (c *Client) Register(ctx context.Context, username, password string) (map[string]any, error) {
	return c.postCredentials(ctx, "/sign-up", username, password)
}

// SignIn authenticates an existing user and returns the user view,
// including the issued token.
func (c *Client) SignIn(ctx context.Context, username, password string) (map[string]any, error) {
	return c.postCredentials(ctx, "/sign-in", username, password)
}

// CheckUsername reports whether username is already taken.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	u := c.baseURL + "/check-username/" + url.PathEscape(username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, apiError(resp)
	}

	var exists bool
	if err := json.NewDecoder(resp.Body).Decode(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (c *Client) postCredentials(ctx context.Context, path, username, password string) (map[string]any, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var view map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return nil, err
	}
	return view, nil
}

// apiError extracts the server's error message from a non-200 response.
func apiError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Errorf("%s", body.Message)
}
