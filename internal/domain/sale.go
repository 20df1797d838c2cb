package domain

import "time"

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Sale is one attributed transaction in the commission ledger. Rows are
// append-only: the only permitted mutation is the pending -> cancelled status
// flip when the originating charge is refunded.
//
// StripeSessionID holds the processor identifier the sale was keyed by (the
// checkout session for one-time sales, the invoice for recurring ones).
// Together with EventType it forms the dedup key that makes at-least-once
// webhook delivery safe.
type Sale struct {
	SaleID          string     `json:"sale_id"`
	AffiliateID     string     `json:"affiliate_id"`
	ProductID       string     `json:"product_id"`
	LinkID          string     `json:"affiliate_link_id"`
	CustomerID      string     `json:"customer_id"`
	SaleAmount      int64      `json:"sale_amount"`
	Commission      int64      `json:"commission_amount"`
	Currency        string     `json:"currency"`
	StripeSessionID string     `json:"stripe_session_id"`
	EventType       string     `json:"event_type"`
	IsRecurring     bool       `json:"is_recurring"`
	Status          SaleStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
