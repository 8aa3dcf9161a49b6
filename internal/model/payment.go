package model

// Wire types for the payment provider's intent API and webhook payloads.

type PaymentIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"` // requires_payment_method, processing, succeeded, canceled
	Amount       int64             `json:"amount"` // minor currency units
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

const IntentSucceeded = "succeeded"

type WebhookPayload struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	CreatedAt int64       `json:"created"`
	Data      WebhookData `json:"data"`
}

type WebhookData struct {
	Object PaymentIntent `json:"object"`
}

const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)
