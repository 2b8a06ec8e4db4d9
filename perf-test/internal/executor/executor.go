package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// systemFundingAccountID is the well-known counter-party the server
// seeds for unilateral system credits; Withdraw simulates an outflow
// by transferring into it.
const systemFundingAccountID = "00000000-0000-0000-0000-000000000001"

type Executor struct {
	client  *http.Client
	baseURL string
}

func New(baseURL string) *Executor {
	return &Executor{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        1000,
				MaxIdleConnsPerHost: 100,
				MaxConnsPerHost:     100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: baseURL,
	}
}

func (e *Executor) CreateAccount(ctx context.Context, currency string) (string, error) {
	payload := map[string]interface{}{
		"currency": currency,
		"type":     "MAIN",
	}

	respBody, err := e.post(ctx, "/accounts", payload)
	if err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse create account response: %w", err)
	}

	return result.ID, nil
}

func (e *Executor) Deposit(ctx context.Context, accountID string, amount float64) error {
	payload := map[string]string{"amount": fmt.Sprintf("%.2f", amount)}
	_, err := e.post(ctx, fmt.Sprintf("/accounts/%s/deposit", accountID), payload)
	return err
}

// Withdraw simulates an outflow by transferring amount from accountID
// into the system funding account; there is no standalone withdraw
// endpoint, only balanced transfers.
func (e *Executor) Withdraw(ctx context.Context, accountID string, amount float64) error {
	return e.Transfer(ctx, accountID, systemFundingAccountID, amount)
}

func (e *Executor) Transfer(ctx context.Context, fromID, toID string, amount float64) error {
	payload := map[string]string{
		"from":   fromID,
		"to":     toID,
		"amount": fmt.Sprintf("%.2f", amount),
	}
	_, err := e.post(ctx, "/transfers", payload)
	return err
}

func (e *Executor) GetBalance(ctx context.Context, accountID string) (float64, error) {
	resp, err := e.get(ctx, fmt.Sprintf("/accounts/%s/balance", accountID))
	if err != nil {
		return 0, err
	}

	var result struct {
		Balance string `json:"balance"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return 0, fmt.Errorf("failed to parse balance response: %w", err)
	}

	var balance float64
	if _, err := fmt.Sscanf(result.Balance, "%f", &balance); err != nil {
		return 0, fmt.Errorf("failed to parse balance value: %w", err)
	}

	return balance, nil
}

func (e *Executor) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Load-Test", "true")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody.String())
	}

	return respBody.Bytes(), nil
}

func (e *Executor) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Load-Test", "true")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody.String())
	}

	return respBody.Bytes(), nil
}
