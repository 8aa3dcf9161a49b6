package client

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
	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
	"storefront-api/internal/model"
	"time"
)

// PaymentClient talks to the payment provider's intent API. Amounts are
// always minor currency units.
type PaymentClient interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*model.PaymentIntent, error)
	GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error)
	VerifyWebhookSignature(headers http.Header, body []byte) error
}

type paymentClientImpl struct {
	httpClient    *http.Client
	baseApiURL    string
	secretKey     string
	webhookSecret string
}

func NewPaymentClient(cfg *config.Payment) PaymentClient {
	return &paymentClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:    cfg.BaseApiURL,
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (c *paymentClientImpl) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*model.PaymentIntent, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"metadata": metadata,
		"automatic_payment_methods": map[string]bool{
			"enabled": true,
		},
	}

	var intent model.PaymentIntent
	if err := c.postJSON(ctx, "/v1/payment_intents", payload, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *paymentClientImpl) GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseApiURL+"/v1/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream(err, "payment provider get intent")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperr.NotFound("payment intent %s not found", intentID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, apperr.Upstream(nil, "payment provider error %d: %s", resp.StatusCode, string(b))
	}

	var intent model.PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, apperr.Upstream(err, "decode intent response")
	}
	return &intent, nil
}

// VerifyWebhookSignature checks the provider's HMAC-SHA256 signature header
// against the raw body before any payload field is trusted.
func (c *paymentClientImpl) VerifyWebhookSignature(headers http.Header, body []byte) error {
	signature := headers.Get("X-Webhook-Signature")
	if signature == "" {
		return apperr.Unauthorized("missing webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return apperr.Unauthorized("webhook signature mismatch")
	}
	return nil
}

func (c *paymentClientImpl) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Upstream(err, "payment provider %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return apperr.Upstream(nil, "payment provider error %d: %s", resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream(err, "decode payment provider response")
	}
	return nil
}
