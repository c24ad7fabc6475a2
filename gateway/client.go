package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the external payment gateway. Deposits flow the other way:
// the gateway confirms paid invoices through the payment webhook.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a gateway client
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Invoice is a payment request created at the gateway
type Invoice struct {
	ID         string `json:"id"`
	PaymentURL string `json:"payment_url"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
}

type createInvoiceRequest struct {
	AccountRef string `json:"account_ref"`
	Amount     int64  `json:"amount"`
}

// CreateInvoice opens a deposit invoice for the account. The gateway calls
// the payment webhook once the invoice is paid.
func (c *Client) CreateInvoice(ctx context.Context, accountRef string, amount int64) (*Invoice, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invoice amount must be positive")
	}

	body, err := json.Marshal(createInvoiceRequest{AccountRef: accountRef, Amount: amount})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/invoices", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build invoice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned http %d", res.StatusCode)
	}

	var invoice Invoice
	if err := json.NewDecoder(res.Body).Decode(&invoice); err != nil {
		return nil, fmt.Errorf("failed to decode invoice response: %w", err)
	}
	return &invoice, nil
}

// PayoutRequest asks the gateway to execute an approved withdrawal
type PayoutRequest struct {
	WithdrawalRef string `json:"withdrawal_ref"`
	Address       string `json:"address"`
	Amount        int64  `json:"amount"`
}

// RequestPayout submits an approved withdrawal for execution
func (c *Client) RequestPayout(ctx context.Context, payout PayoutRequest) error {
	body, err := json.Marshal(payout)
	if err != nil {
		return fmt.Errorf("failed to marshal payout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payouts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build payout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("gateway returned http %d", res.StatusCode)
	}
	return nil
}
