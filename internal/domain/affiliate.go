package domain

import "time"

// Affiliate is a promoter account. Rows are never hard-deleted; suspension and
// directory visibility are flags.
type Affiliate struct {
	AffiliateID    string    `json:"affiliate_id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Company        string    `json:"company"`
	Website        string    `json:"website"`
	Bio            string    `json:"bio"`
	PayoutEmail    string    `json:"payout_email"`
	PayoutSchedule string    `json:"payout_schedule"`
	IsPublic       bool      `json:"is_public"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const (
	AffiliateStatusActive    = "active"
	AffiliateStatusSuspended = "suspended"
)

// AffiliateLink binds one affiliate to one product behind a short opaque
// reference code. The code is the only join key available when the payment
// processor calls back, so it must be unique across all links.
type AffiliateLink struct {
	LinkID        string     `json:"link_id"`
	AffiliateID   string     `json:"affiliate_id"`
	ProductID     string     `json:"product_id"`
	RefCode       string     `json:"ref_code"`
	Clicks        int64      `json:"clicks"`
	LastClickedAt *time.Time `json:"last_clicked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
