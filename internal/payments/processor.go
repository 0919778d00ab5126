// Package payments records client payments against a third-party card
// processor. When no processor credentials are configured, intents are
// generated locally so the rest of the flow still works in development.
package payments

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Processor creates payment intents with the upstream card processor.
type Processor interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (string, error)
}

type restProcessor struct {
	client *resty.Client
}

type intentRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type intentResponse struct {
	ID string `json:"id"`
}

// NewRestProcessor talks to the processor's HTTP API.
func NewRestProcessor(baseURL, apiKey string) Processor {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &restProcessor{client: client}
}

func (p *restProcessor) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	var out intentResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(intentRequest{Amount: amount.StringFixed(2), Currency: currency}).
		SetResult(&out).
		Post("/v1/payment_intents")
	if err != nil {
		return "", fmt.Errorf("payment processor request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("payment processor returned %s", resp.Status())
	}
	if out.ID == "" {
		return "", fmt.Errorf("payment processor returned no intent id")
	}
	return out.ID, nil
}

type localProcessor struct{}

// NewLocalProcessor issues synthetic intent ids without any network calls.
func NewLocalProcessor() Processor {
	return localProcessor{}
}

func (localProcessor) CreateIntent(_ context.Context, _ decimal.Decimal, _ string) (string, error) {
	return "local_" + uuid.NewString(), nil
}
