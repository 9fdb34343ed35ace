package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/motoki/aniterm/internal/domain"
)

const (
	// The server proxy historically cut connections at 30 seconds; match it
	// so hangs surface as NetworkError instead of waiting forever.
	defaultTimeout = 30 * time.Second

	userAgent = "Aniterm/1.0"
)

// Client is the single outbound transport to the catalog API. It attaches
// the bearer token from the token store on every request, logs every
// exchange, and normalizes failures into the domain error taxonomy.
type Client struct {
	baseURL    string
	tokens     domain.TokenStore
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new catalog API client.
func NewClient(baseURL string, tokens domain.TokenStore, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// do performs one authenticated HTTP request and returns the raw response
// body. Transport failures come back as *domain.NetworkError; explicit
// server rejections as *domain.HTTPError. A 401 clears the stored token
// before the error is returned.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "url", reqURL, "error", err)
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}

	c.logger.Debug("api response", "method", method, "url", reqURL, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		// The session is no longer valid; drop the token so the caller
		// lands back on the login flow. Redirecting is not our concern.
		c.logger.Warn("authentication rejected, clearing stored token", "url", reqURL)
		if err := c.tokens.Clear(); err != nil {
			c.logger.Error("failed to clear token", "error", err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Error("api request rejected", "method", method, "url", reqURL,
			"status", resp.StatusCode, "body", string(respBody))
		return nil, &domain.HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// get issues a GET and decodes the JSON response into dest.
func (c *Client) get(ctx context.Context, path string, dest any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// post issues a POST and, when dest is non-nil, decodes the response into it.
func (c *Client) post(ctx context.Context, path string, payload, dest any) error {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// put issues a PUT and, when dest is non-nil, decodes the response into it.
// Some update endpoints answer 204 with an empty body; dest is left
// untouched in that case.
func (c *Client) put(ctx context.Context, path string, payload, dest any) error {
	body, err := c.do(ctx, http.MethodPut, path, payload)
	if err != nil {
		return err
	}
	if dest == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// delete issues a DELETE. Success is determined by status only; the
// response body is ignored.
func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}
