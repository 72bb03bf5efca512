package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// receipt identifiers longer than this are rejected by the gateway.
const maxReceiptLen = 40

// RazorpayClient creates payment orders and verifies capture signatures.
// The key secret never leaves this package; callers only see the public
// key id needed to open the checkout UI.
type RazorpayClient struct {
	KeyID     string
	BaseURL   string
	keySecret string
	client    *http.Client
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		KeyID:     keyID,
		BaseURL:   defaultBaseURL,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether gateway credentials are present.
func (r *RazorpayClient) Configured() bool {
	return r.KeyID != "" && r.keySecret != ""
}

type OrderRequest struct {
	Amount   int64             // rupees; converted to paise on the wire
	Currency string
	Receipt  string
	Notes    map[string]string
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type orderPayload struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

func (r *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid amount %d", req.Amount)
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("rcpt_%d", time.Now().UnixMilli())
	}
	if len(receipt) > maxReceiptLen {
		receipt = receipt[:maxReceiptLen]
	}
	notes := req.Notes
	if notes == nil {
		notes = map[string]string{}
	}

	payload := orderPayload{
		Amount:   req.Amount * 100, // paise
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/v1/orders", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.KeyID, r.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("razorpay error %d: %s", resp.StatusCode, string(body))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

// VerifySignature recomputes the capture signature (HMAC-SHA256 over
// "order_id|payment_id" keyed by the gateway secret) and compares it in
// constant time. The client-side claim is never trusted.
func (r *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	if r.keySecret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(r.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
