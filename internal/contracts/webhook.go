package contracts

import "encoding/json"

// Payment-processor notification types handled by the webhook endpoint.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventInvoicePaid       = "invoice.paid"
	EventChargeRefunded    = "charge.refunded"
)

// WebhookEvent is the envelope of a signed processor notification.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type CheckoutSessionPayload struct {
	ID          string            `json:"id"`
	AmountTotal int64             `json:"amount_total"`
	Currency    string            `json:"currency"`
	Customer    string            `json:"customer"`
	Metadata    map[string]string `json:"metadata"`
}

type InvoicePayload struct {
	ID         string            `json:"id"`
	AmountPaid int64             `json:"amount_paid"`
	Currency   string            `json:"currency"`
	Customer   string            `json:"customer"`
	Metadata   map[string]string `json:"metadata"`
}

type ChargePayload struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
}
