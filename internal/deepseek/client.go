// Package deepseek implements a read-only client for the DeepSeek REST API.
//
// The API exposes a dedicated balance endpoint alongside the usual
// OpenAI-compatible model catalog:
//
//	GET https://api.deepseek.com/user/balance
//	GET https://api.deepseek.com/models
//	GET https://api.deepseek.com/usage?start_date=...&end_date=...
//
// All requests are authenticated with a bearer token. Non-2xx responses map
// to *APIError, transport failures to *NetworkError. There is no retry logic.
package deepseek

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dsbc/internal/version"
)

const (
	defaultBaseURL = "https://api.deepseek.com"

	requestTimeout = 10 * time.Second
	healthTimeout  = 5 * time.Second
)

// Client talks to the DeepSeek API with a fixed bearer token.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBalance fetches the account balance.
func (c *Client) GetBalance(ctx context.Context) (Balance, error) {
	var wire balanceResponse
	if err := c.getJSON(ctx, "/user/balance", nil, &wire); err != nil {
		return Balance{}, fmt.Errorf("fetching balance: %w", err)
	}

	bal := Balance{
		Total:     wire.Total,
		Available: wire.Available,
		Used:      wire.Used,
		Currency:  wire.Currency,
		AccountID: wire.AccountID,
	}
	if bal.Currency == "" {
		bal.Currency = "USD"
	}
	if wire.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, wire.Timestamp); err == nil {
			bal.Timestamp = ts
		}
	}
	return bal, nil
}

// GetModels fetches the model catalog with pricing, in upstream order.
func (c *Client) GetModels(ctx context.Context) ([]Model, error) {
	var wire modelsResponse
	if err := c.getJSON(ctx, "/models", nil, &wire); err != nil {
		return nil, fmt.Errorf("fetching models: %w", err)
	}

	models := make([]Model, 0, len(wire.Data))
	for _, entry := range wire.Data {
		m := Model{
			ID:               entry.ID,
			Name:             entry.Name,
			ContextWindow:    entry.ContextWindow,
			InputPricePer1K:  parsePrice(entry.Pricing.Input),
			OutputPricePer1K: parsePrice(entry.Pricing.Output),
		}
		if m.Name == "" {
			m.Name = m.ID
		}
		models = append(models, m)
	}
	return models, nil
}

// GetUsage fetches aggregate usage for an optional date range.
// Dates are YYYY-MM-DD; empty strings omit the bound.
func (c *Client) GetUsage(ctx context.Context, startDate, endDate string) (Usage, error) {
	params := url.Values{}
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}

	var wire usageResponse
	if err := c.getJSON(ctx, "/usage", params, &wire); err != nil {
		return Usage{}, fmt.Errorf("fetching usage: %w", err)
	}

	return Usage{
		StartDate:     wire.StartDate,
		EndDate:       wire.EndDate,
		TotalRequests: wire.TotalRequests,
		TotalTokens:   wire.TotalTokens,
		TotalCost:     wire.TotalCost,
		Currency:      wire.Currency,
	}, nil
}

// HealthCheck probes the balance endpoint with a short timeout. Any 2xx
// response counts as healthy; every failure mode reports unhealthy instead
// of returning an error.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, "/user/balance", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "dsbc/"+version.Version)
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := c.newRequest(ctx, path, params)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: "reading response for " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response for %s: %w", path, err)
	}
	return nil
}

// extractErrorMessage pulls a message out of an error body shaped either as
// {"error": {"message": "..."}} or {"message": "..."}.
func extractErrorMessage(body []byte) string {
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return ""
	}
	if wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}
	return wrapped.Message
}

// parsePrice converts a decimal-string price to a float64, returning -1 when
// the API omitted it or it does not parse.
func parsePrice(s string) float64 {
	if s == "" {
		return -1
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return -1
	}
	return f
}
