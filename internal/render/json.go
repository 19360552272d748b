package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"

	"dsbc/internal/deepseek"
)

type balanceJSON struct {
	TotalBalance     float64 `json:"total_balance"`
	AvailableBalance float64 `json:"available_balance"`
	UsedBalance      float64 `json:"used_balance"`
	Currency         string  `json:"currency"`
	AccountID        string  `json:"account_id,omitempty"`
	Timestamp        string  `json:"timestamp,omitempty"`
}

type modelJSON struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ContextWindow    int      `json:"context_window"`
	InputPricePer1K  *float64 `json:"input_price_per_1k"`
	OutputPricePer1K *float64 `json:"output_price_per_1k"`
}

type modelsJSON struct {
	Models []modelJSON `json:"models"`
}

type usageJSON struct {
	StartDate     string  `json:"start_date,omitempty"`
	EndDate       string  `json:"end_date,omitempty"`
	TotalRequests int64   `json:"total_requests"`
	TotalTokens   int64   `json:"total_tokens"`
	TotalCost     float64 `json:"total_cost"`
	Currency      string  `json:"currency,omitempty"`
}

type healthJSON struct {
	Healthy bool `json:"healthy"`
}

// BalanceJSON renders the balance as a JSON document with snake_case keys
// and an ISO-8601 timestamp.
func BalanceJSON(b deepseek.Balance) (string, error) {
	doc := balanceJSON{
		TotalBalance:     b.Total,
		AvailableBalance: b.Available,
		UsedBalance:      b.Used,
		Currency:         b.Currency,
		AccountID:        b.AccountID,
	}
	if !b.Timestamp.IsZero() {
		doc.Timestamp = b.Timestamp.UTC().Format(time.RFC3339)
	}
	return marshal(doc)
}

// ModelsJSON renders the model catalog. Prices the API omitted come out null.
func ModelsJSON(models []deepseek.Model) (string, error) {
	doc := modelsJSON{
		Models: lo.Map(models, func(m deepseek.Model, _ int) modelJSON {
			return modelJSON{
				ID:               m.ID,
				Name:             m.Name,
				ContextWindow:    m.ContextWindow,
				InputPricePer1K:  priceOrNil(m.InputPricePer1K),
				OutputPricePer1K: priceOrNil(m.OutputPricePer1K),
			}
		}),
	}
	return marshal(doc)
}

// UsageJSON renders the usage report.
func UsageJSON(u deepseek.Usage) (string, error) {
	return marshal(usageJSON{
		StartDate:     u.StartDate,
		EndDate:       u.EndDate,
		TotalRequests: u.TotalRequests,
		TotalTokens:   u.TotalTokens,
		TotalCost:     u.TotalCost,
		Currency:      u.Currency,
	})
}

// HealthJSON renders the health probe result.
func HealthJSON(healthy bool) (string, error) {
	return marshal(healthJSON{Healthy: healthy})
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(data), nil
}

func priceOrNil(p float64) *float64 {
	if p < 0 {
		return nil
	}
	return &p
}
