package deepseek

import "time"

// Balance is the account's credit balance as reported by GET /user/balance.
type Balance struct {
	Total     float64
	Available float64
	Used      float64
	Currency  string
	AccountID string
	Timestamp time.Time
}

// UsagePercent returns how much of the total balance has been consumed,
// or -1 when the total is zero.
func (b Balance) UsagePercent() float64 {
	if b.Total <= 0 {
		return -1
	}
	return b.Used / b.Total * 100
}

// Model is a vendor-offered inference model with pricing metadata.
// Prices are per 1K tokens; a negative price means the API did not report one.
type Model struct {
	ID               string
	Name             string
	ContextWindow    int
	InputPricePer1K  float64
	OutputPricePer1K float64
}

// Usage is an aggregate usage report for a date range.
type Usage struct {
	StartDate     string
	EndDate       string
	TotalRequests int64
	TotalTokens   int64
	TotalCost     float64
	Currency      string
}

// balanceResponse is the JSON wire format of GET /user/balance.
type balanceResponse struct {
	Total     float64 `json:"total"`
	Available float64 `json:"available"`
	Used      float64 `json:"used"`
	Currency  string  `json:"currency"`
	AccountID string  `json:"account_id"`
	Timestamp string  `json:"timestamp"`
}

// modelsResponse is the JSON wire format of GET /models.
type modelsResponse struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	ContextWindow int          `json:"context_window"`
	Pricing       modelPricing `json:"pricing"`
}

// Prices come back as decimal strings, e.g. "0.00014".
type modelPricing struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// usageResponse is the JSON wire format of GET /usage.
type usageResponse struct {
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalRequests int64   `json:"total_requests"`
	TotalTokens   int64   `json:"total_tokens"`
	TotalCost     float64 `json:"total_cost"`
	Currency      string  `json:"currency"`
}
