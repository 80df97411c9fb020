package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/integration"
)

const (
	defaultQuickBooksBaseURL = "https://quickbooks.api.intuit.com"
	quickBooksMinorVersion   = "75"

	// maxQuickBooksResponseSize limits the response body size to prevent memory exhaustion
	maxQuickBooksResponseSize = 1 * 1024 * 1024
)

// QuickBooksConfig holds the QuickBooks Online connection settings
type QuickBooksConfig struct {
	RealmID        string
	BaseURL        string
	TimeoutSeconds int
}

// Validate checks that the configuration is usable
func (c *QuickBooksConfig) Validate() error {
	if c.RealmID == "" {
		return fmt.Errorf("quickbooks: realm id is required")
	}
	return nil
}

// QuickBooksAdapter implements the AccountingGateway port against the
// QuickBooks Online v3 REST API. The bearer token comes from the injected
// TokenSource; OAuth refresh is handled outside the adapter.
type QuickBooksAdapter struct {
	config     *QuickBooksConfig
	tokens     integration.TokenSource
	baseURL    string
	httpClient *http.Client
}

// NewQuickBooksAdapter creates a new QuickBooks adapter
func NewQuickBooksAdapter(config *QuickBooksConfig, tokens integration.TokenSource) (*QuickBooksAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, fmt.Errorf("quickbooks: token source is required")
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultQuickBooksBaseURL
	}
	timeout := config.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	return &QuickBooksAdapter{
		config:  config,
		tokens:  tokens,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

type qbLine struct {
	Amount      json.Number            `json:"Amount"`
	DetailType  string                 `json:"DetailType"`
	Description string                 `json:"Description,omitempty"`
	Detail      map[string]interface{} `json:"SalesItemLineDetail,omitempty"`
}

type qbSalesReceipt struct {
	TxnDate       string   `json:"TxnDate"`
	PaymentRefNum string   `json:"PaymentRefNum,omitempty"`
	PrivateNote   string   `json:"PrivateNote,omitempty"`
	Line          []qbLine `json:"Line"`
}

type qbPayment struct {
	TxnDate     string      `json:"TxnDate"`
	TotalAmt    json.Number `json:"TotalAmt"`
	PrivateNote string      `json:"PrivateNote,omitempty"`
}

type qbCustomer struct {
	DisplayName      string       `json:"DisplayName"`
	PrimaryEmailAddr *qbEmailAddr `json:"PrimaryEmailAddr,omitempty"`
}

type qbEmailAddr struct {
	Address string `json:"Address"`
}

type qbEntityRef struct {
	ID string `json:"Id"`
}

// CreateSalesReceipt posts a completed sale as a QuickBooks sales receipt
func (a *QuickBooksAdapter) CreateSalesReceipt(ctx context.Context, receipt integration.SalesReceipt) (string, error) {
	body := qbSalesReceipt{
		TxnDate:       receipt.SaleDate.Format("2006-01-02"),
		PaymentRefNum: receipt.PaymentMethod,
		PrivateNote:   fmt.Sprintf("transaction %s via %s", receipt.TransactionID, receipt.Channel),
		Line: []qbLine{{
			Amount:      json.Number(receipt.SalePrice.StringFixed(2)),
			DetailType:  "SalesItemLineDetail",
			Description: receipt.ItemName,
			Detail: map[string]interface{}{
				"Qty":       1,
				"UnitPrice": json.Number(receipt.SalePrice.StringFixed(2)),
			},
		}},
	}

	var result struct {
		SalesReceipt qbEntityRef `json:"SalesReceipt"`
	}
	if err := a.post(ctx, "salesreceipt", body, &result); err != nil {
		return "", err
	}
	return result.SalesReceipt.ID, nil
}

// CreatePayment posts a settled payout batch as a QuickBooks payment
func (a *QuickBooksAdapter) CreatePayment(ctx context.Context, payment integration.PayoutPayment) (string, error) {
	txnDate := payment.PaidAt
	if txnDate.IsZero() {
		txnDate = time.Now()
	}
	body := qbPayment{
		TxnDate:     txnDate.Format("2006-01-02"),
		TotalAmt:    json.Number(payment.Amount.StringFixed(2)),
		PrivateNote: fmt.Sprintf("payout %s to %s by %s", payment.PayoutID, payment.ProviderName, payment.Method),
	}

	var result struct {
		Payment qbEntityRef `json:"Payment"`
	}
	if err := a.post(ctx, "payment", body, &result); err != nil {
		return "", err
	}
	return result.Payment.ID, nil
}

// CreateCustomer creates the QuickBooks customer record for a provider
func (a *QuickBooksAdapter) CreateCustomer(ctx context.Context, customer integration.Customer) (string, error) {
	body := qbCustomer{DisplayName: customer.Name}
	if customer.Email != "" {
		body.PrimaryEmailAddr = &qbEmailAddr{Address: customer.Email}
	}

	var result struct {
		Customer qbEntityRef `json:"Customer"`
	}
	if err := a.post(ctx, "customer", body, &result); err != nil {
		return "", err
	}
	return result.Customer.ID, nil
}

func (a *QuickBooksAdapter) post(ctx context.Context, entity string, body, result interface{}) error {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("quickbooks: obtain token: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("quickbooks: marshal %s: %w", entity, err)
	}

	url := fmt.Sprintf("%s/v3/company/%s/%s?minorversion=%s", a.baseURL, a.config.RealmID, entity, quickBooksMinorVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("quickbooks: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("quickbooks: create %s: %w", entity, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxQuickBooksResponseSize))
	if err != nil {
		return fmt.Errorf("quickbooks: read %s response: %w", entity, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("quickbooks: create %s failed with status %d: %s", entity, resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("quickbooks: decode %s response: %w", entity, err)
	}
	return nil
}

// StaticTokenSource returns a fixed token. Used in development and tests;
// production wires a source backed by the OAuth refresh flow.
type StaticTokenSource string

// Token returns the fixed token value
func (s StaticTokenSource) Token(_ context.Context) (string, error) {
	return string(s), nil
}

// Ensure interfaces are satisfied
var (
	_ integration.AccountingGateway = (*QuickBooksAdapter)(nil)
	_ integration.TokenSource       = StaticTokenSource("")
)
