// Package client talks to a planner server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"planner-cli/internal/habitlist"
	"planner-cli/internal/model"
)

var (
	_ habitlist.Client  = (*HTTPClient)(nil)
	_ habitlist.Renamer = (*HTTPClient)(nil)
)

// HTTPClient implements habitlist.Client and habitlist.Renamer against the
// planner HTTP API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient targets baseURL (e.g. "http://localhost:8080"). A zero timeout
// leaves requests bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) FetchCurrentWeek(ctx context.Context) (*model.WeeklyHabits, error) {
	var wh model.WeeklyHabits
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/weeks/current", nil, &wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

func (c *HTTPClient) Week(ctx context.Context, wk model.Week) (*model.WeeklyHabits, error) {
	var wh model.WeeklyHabits
	path := fmt.Sprintf("/api/v1/weeks/%d/%d", wk.Year, wk.Number)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

func (c *HTTPClient) ToggleHabit(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/habits/toggle", map[string]string{"name": name}, nil)
}

func (c *HTTPClient) AddHabit(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/habits", map[string]string{"name": name}, nil)
}

func (c *HTTPClient) RemoveHabit(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/habits/remove", map[string]string{"name": name}, nil)
}

func (c *HTTPClient) ReorderHabits(ctx context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}
	return c.doJSON(ctx, http.MethodPut, "/api/v1/habits/order", map[string][]string{"names": names}, nil)
}

func (c *HTTPClient) RenameHabit(ctx context.Context, oldName, newName string) error {
	body := map[string]string{"old_name": oldName, "new_name": newName}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/habits/rename", body, nil)
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status back onto the model's sentinel errors so callers
// can use errors.Is regardless of transport.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return model.ErrHabitNotFound
	case http.StatusConflict:
		return model.ErrHabitExists
	case http.StatusBadRequest:
		return model.ErrInvalidRequest
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return model.ErrUnavailable
	}
	return nil
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
