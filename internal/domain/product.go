package domain

import "time"

// Product is a sellable item listed by a vendor. Processor identifiers are
// recorded so prices and checkouts can be created against the external payment
// API; the primary price is stored in major units, mirroring what vendors see.
type Product struct {
	ProductID          string   `json:"product_id"`
	CreatorID          string   `json:"creator_id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	ImageURL           string   `json:"image_url"`
	Category           string   `json:"category"`
	DemoURL            string   `json:"demo_url,omitempty"`
	DownloadURL        string   `json:"download_url,omitempty"`
	RefundPolicy       string   `json:"refund_policy,omitempty"`
	SupportEmail       string   `json:"support_email,omitempty"`
	IsSubscription     bool     `json:"is_subscription"`
	CommissionRate     RateBps  `json:"commission_rate"`
	RecurringRate      RateBps  `json:"recurring_commission_rate"`
	Price              float64  `json:"price"`
	Currency           string   `json:"currency"`
	StripeProductID    string   `json:"stripe_product_id"`
	StripePriceID      string   `json:"stripe_price_id"`
	AdditionalPriceIDs []string `json:"additional_price_ids,omitempty"`
	Status             string   `json:"status"`
	SalesCount         int64    `json:"sales_count"`
	TotalRevenue       float64  `json:"total_revenue"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)
