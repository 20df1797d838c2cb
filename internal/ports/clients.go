package ports

import "context"

type RecurringPrice struct {
	Interval      string
	IntervalCount int
}

type CreateProcessorProductParams struct {
	Name        string
	Description string
	Images      []string
	Metadata    map[string]string
}

type ProcessorProduct struct {
	ID string
}

type CreatePriceParams struct {
	ProductID  string
	UnitAmount int64
	Currency   string
	Recurring  *RecurringPrice
}

type ProcessorPrice struct {
	ID         string
	UnitAmount int64
	Currency   string
	Recurring  *RecurringPrice
}

type CreateCheckoutSessionParams struct {
	Mode       string
	PriceID    string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProcessor is the outbound contract with the hosted payments API.
// Metadata strings are preserved verbatim through to webhook payloads; that
// side channel is the only storage the processor offers.
type PaymentProcessor interface {
	CreateProduct(ctx context.Context, params CreateProcessorProductParams) (ProcessorProduct, error)
	CreatePrice(ctx context.Context, params CreatePriceParams) (ProcessorPrice, error)
	CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (CheckoutSession, error)
}

// WebhookVerifier authenticates a raw notification body against its signature
// header. Verification runs over the exact received bytes.
type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) error
}
