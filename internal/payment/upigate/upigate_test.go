package upigate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:       "https://gateway.test",
		KeyID:         "key_test",
		KeySecret:     "secret_test",
		WebhookSecret: "whsec_test",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{KeyID: "k", KeySecret: "s"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for missing base_url, got %v", err)
	}
	if _, err := NewClient(Config{BaseURL: "https://gateway.test"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for missing keys, got %v", err)
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := newTestClient(t)

	sig := client.PaymentSignature("order_abc", "pay_xyz")
	if err := client.VerifyPaymentSignature("order_abc", "pay_xyz", sig); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := client.VerifyPaymentSignature("order_abc", "pay_other", sig); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyWebhook(t *testing.T) {
	client := newTestClient(t)
	body := []byte(`{"event":"payment.captured","order_id":"order_abc","payment_id":"pay_xyz","amount":49900}`)

	mac := hmac.New(sha256.New, []byte("whsec_test"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	if err := client.VerifyWebhook(body, sig); err != nil {
		t.Fatalf("valid webhook rejected: %v", err)
	}

	// Any mutation of the raw body must invalidate the signature.
	tampered := []byte(`{"event":"payment.captured","order_id":"order_abc","payment_id":"pay_xyz","amount":1}`)
	if err := client.VerifyWebhook(tampered, sig); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestParseWebhook(t *testing.T) {
	event, err := ParseWebhook([]byte(`{"event":"payment.failed","order_id":"order_abc","payment_id":"pay_xyz","error_code":"BAD_UPI"}`))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if event.Event != "payment.failed" || event.OrderID != "order_abc" || event.ErrorCode != "BAD_UPI" {
		t.Fatalf("unexpected event: %+v", event)
	}

	if _, err := ParseWebhook([]byte(`{"payment_id":"pay_xyz"}`)); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}
	if _, err := ParseWebhook([]byte(`not-json`)); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}
}
