package contracts

type LinkCreatedPayload struct {
	AffiliateID string `json:"affiliate_id"`
	LinkID      string `json:"link_id"`
	ProductID   string `json:"product_id"`
	RefCode     string `json:"ref_code"`
	CreatedAt   string `json:"created_at"`
}

type ClickTrackedPayload struct {
	AffiliateID string `json:"affiliate_id"`
	LinkID      string `json:"link_id"`
	ProductID   string `json:"product_id"`
	RefCode     string `json:"ref_code"`
	TrackedAt   string `json:"tracked_at"`
}

type SaleRecordedPayload struct {
	AffiliateID string `json:"affiliate_id"`
	SaleID      string `json:"sale_id"`
	ProductID   string `json:"product_id"`
	SaleAmount  int64  `json:"sale_amount"`
	Commission  int64  `json:"commission_amount"`
	Currency    string `json:"currency"`
	IsRecurring bool   `json:"is_recurring"`
	RecordedAt  string `json:"recorded_at"`
}

type SaleCancelledPayload struct {
	AffiliateID     string `json:"affiliate_id"`
	SaleID          string `json:"sale_id"`
	StripeSessionID string `json:"stripe_session_id"`
	CancelledAt     string `json:"cancelled_at"`
}
