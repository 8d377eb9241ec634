package upigate

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrConfigInvalid    = errors.New("upigate config invalid")
	ErrRequestFailed    = errors.New("upigate request failed")
	ErrResponseInvalid  = errors.New("upigate response invalid")
	ErrSignatureInvalid = errors.New("upigate signature invalid")
)

// Gateway order status values.
const (
	OrderStatusCreated   = "created"
	OrderStatusAttempted = "attempted"
	OrderStatusPaid      = "paid"
)

// Config holds the merchant credentials for the UPIGate gateway.
type Config struct {
	BaseURL       string `json:"base_url"`
	KeyID         string `json:"key_id"`
	KeySecret     string `json:"key_secret"`
	WebhookSecret string `json:"webhook_secret"`
	Timeout       time.Duration
}

// Client talks to the UPIGate REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient validates the config and builds a client.
func NewClient(cfg Config) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)
	cfg.KeySecret = strings.TrimSpace(cfg.KeySecret)
	cfg.WebhookSecret = strings.TrimSpace(cfg.WebhookSecret)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("%w: key_id and key_secret are required", ErrConfigInvalid)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// CreateOrderInput is the gateway order creation input. Amount is in the
// smallest currency unit (paise).
type CreateOrderInput struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// GatewayOrder is a gateway-side order.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder registers an order with the gateway before collecting a
// payment against it.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*GatewayOrder, error) {
	if input.Amount <= 0 || input.Receipt == "" {
		return nil, fmt.Errorf("%w: amount and receipt are required", ErrConfigInvalid)
	}
	if input.Currency == "" {
		input.Currency = "INR"
	}
	respBytes, err := c.postJSON(ctx, "/v1/orders", input)
	if err != nil {
		return nil, err
	}
	var order GatewayOrder
	if err := json.Unmarshal(respBytes, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrResponseInvalid)
	}
	return &order, nil
}

// PaymentSignature computes the client-side checkout signature for a
// (gateway order, payment) pair.
func (c *Client) PaymentSignature(gatewayOrderID, paymentID string) string {
	return signHex([]byte(gatewayOrderID+"|"+paymentID), c.cfg.KeySecret)
}

// VerifyPaymentSignature checks the signature the client submits after a
// checkout. Comparison is constant time.
func (c *Client) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) error {
	expected := c.PaymentSignature(gatewayOrderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature)))) {
		return ErrSignatureInvalid
	}
	return nil
}

// VerifyWebhook checks the webhook signature over the raw request body.
// The body must be the exact bytes received, before any JSON decoding.
func (c *Client) VerifyWebhook(body []byte, signature string) error {
	if c.cfg.WebhookSecret == "" {
		return fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	expected := signHex(body, c.cfg.WebhookSecret)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature)))) {
		return ErrSignatureInvalid
	}
	return nil
}

// WebhookEvent is a decoded webhook notification.
type WebhookEvent struct {
	Event            string `json:"event"`
	OrderID          string `json:"order_id"`
	PaymentID        string `json:"payment_id"`
	Amount           int64  `json:"amount"`
	Method           string `json:"method"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

// ParseWebhook decodes a webhook body. Callers verify the signature first.
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if event.Event == "" || event.OrderID == "" {
		return nil, fmt.Errorf("%w: missing event or order_id", ErrResponseInvalid)
	}
	return &event, nil
}

func signHex(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(respBytes)))
	}
	return respBytes, nil
}
