package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	paymentpkg "github.com/Klainnoble1/backend-logistics/payment"
)

const defaultChapaBaseURL = "https://api.chapa.co/v1"

// ChapaGateway talks to the Chapa hosted-checkout API. All confirmation goes
// through Verify; callback bodies are never trusted.
type ChapaGateway struct {
	secretKey string
	baseURL   string
	currency  string
	client    *http.Client
}

func NewChapaGateway(secretKey, baseURL, currency string) *ChapaGateway {
	if baseURL == "" {
		baseURL = defaultChapaBaseURL
	}
	if currency == "" {
		currency = "ETB"
	}
	return &ChapaGateway{
		secretKey: secretKey,
		baseURL:   baseURL,
		currency:  currency,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type chapaInitRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Email    string `json:"email"`
	TxRef    string `json:"tx_ref"`
}

type chapaInitResponse struct {
	Status string `json:"status"`
	Data   struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

func (g *ChapaGateway) Initialize(ctx context.Context, txRef string, amount float64, email string) (*paymentpkg.CheckoutSession, error) {
	body, err := json.Marshal(chapaInitRequest{
		Amount:   fmt.Sprintf("%.2f", amount),
		Currency: g.currency,
		Email:    email,
		TxRef:    txRef,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chapa initialize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chapa initialize: status %d", resp.StatusCode)
	}

	var out chapaInitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("chapa initialize: decode: %w", err)
	}
	if out.Status != "success" || out.Data.CheckoutURL == "" {
		return nil, fmt.Errorf("chapa initialize: rejected with status %q", out.Status)
	}
	return &paymentpkg.CheckoutSession{CheckoutURL: out.Data.CheckoutURL, TxRef: txRef}, nil
}

type chapaVerifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		TxRef    string  `json:"tx_ref"`
		Status   string  `json:"status"`
	} `json:"data"`
}

func (g *ChapaGateway) Verify(ctx context.Context, txRef string) (*paymentpkg.VerifiedTransaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/transaction/verify/"+txRef, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chapa verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chapa verify: status %d", resp.StatusCode)
	}

	var out chapaVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("chapa verify: decode: %w", err)
	}
	return &paymentpkg.VerifiedTransaction{
		TxRef:    out.Data.TxRef,
		Amount:   out.Data.Amount,
		Currency: out.Data.Currency,
		Paid:     out.Status == "success" && out.Data.Status == "success",
	}, nil
}
