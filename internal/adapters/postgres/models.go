package postgres

import (
	"time"

	"gorm.io/datatypes"
)

type affiliateModel struct {
	AffiliateID    string    `gorm:"column:affiliate_id;primaryKey"`
	UserID         string    `gorm:"column:user_id;uniqueIndex"`
	Name           string    `gorm:"column:name"`
	Company        string    `gorm:"column:company"`
	Website        string    `gorm:"column:website"`
	Bio            string    `gorm:"column:bio"`
	PayoutEmail    string    `gorm:"column:payout_email"`
	PayoutSchedule string    `gorm:"column:payout_schedule"`
	IsPublic       bool      `gorm:"column:is_public"`
	Status         string    `gorm:"column:status"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (affiliateModel) TableName() string { return "affiliates" }

type affiliateLinkModel struct {
	LinkID        string     `gorm:"column:link_id;primaryKey"`
	AffiliateID   string     `gorm:"column:affiliate_id;index"`
	ProductID     string     `gorm:"column:product_id;index"`
	RefCode       string     `gorm:"column:ref_code;uniqueIndex"`
	Clicks        int64      `gorm:"column:clicks"`
	LastClickedAt *time.Time `gorm:"column:last_clicked_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
}

func (affiliateLinkModel) TableName() string { return "affiliate_links" }

type productModel struct {
	ProductID          string         `gorm:"column:product_id;primaryKey"`
	CreatorID          string         `gorm:"column:creator_id;index"`
	Title              string         `gorm:"column:title"`
	Description        string         `gorm:"column:description"`
	ImageURL           string         `gorm:"column:image_url"`
	Category           string         `gorm:"column:category"`
	DemoURL            string         `gorm:"column:demo_url"`
	DownloadURL        string         `gorm:"column:download_url"`
	RefundPolicy       string         `gorm:"column:refund_policy"`
	SupportEmail       string         `gorm:"column:support_email"`
	IsSubscription     bool           `gorm:"column:is_subscription"`
	CommissionRateBps  int64          `gorm:"column:commission_rate_bps"`
	RecurringRateBps   int64          `gorm:"column:recurring_rate_bps"`
	Price              float64        `gorm:"column:price"`
	Currency           string         `gorm:"column:currency"`
	StripeProductID    string         `gorm:"column:stripe_product_id"`
	StripePriceID      string         `gorm:"column:stripe_price_id"`
	AdditionalPriceIDs datatypes.JSON `gorm:"column:additional_price_ids"`
	Status             string         `gorm:"column:status;index"`
	SalesCount         int64          `gorm:"column:sales_count"`
	TotalRevenue       float64        `gorm:"column:total_revenue"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

// saleModel carries a composite unique index over the processor identifier and
// event type; that constraint is what turns redelivered webhook events into
// no-ops at the insert.
type saleModel struct {
	SaleID          string    `gorm:"column:sale_id;primaryKey"`
	AffiliateID     string    `gorm:"column:affiliate_id;index"`
	ProductID       string    `gorm:"column:product_id;index"`
	LinkID          string    `gorm:"column:link_id"`
	CustomerID      string    `gorm:"column:customer_id"`
	SaleAmount      int64     `gorm:"column:sale_amount"`
	Commission      int64     `gorm:"column:commission_amount"`
	Currency        string    `gorm:"column:currency"`
	StripeSessionID string    `gorm:"column:stripe_session_id;uniqueIndex:idx_sales_session_event"`
	EventType       string    `gorm:"column:event_type;uniqueIndex:idx_sales_session_event"`
	IsRecurring     bool      `gorm:"column:is_recurring"`
	Status          string    `gorm:"column:status;index"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (saleModel) TableName() string { return "affiliate_sales" }

type outboxModel struct {
	OutboxID         string     `gorm:"column:outbox_id;primaryKey"`
	EventType        string     `gorm:"column:event_type"`
	PartitionKey     string     `gorm:"column:partition_key"`
	PartitionKeyPath string     `gorm:"column:partition_key_path"`
	Payload          string     `gorm:"column:payload"`
	SchemaVersion    string     `gorm:"column:schema_version"`
	TraceID          string     `gorm:"column:trace_id"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	PublishedAt      *time.Time `gorm:"column:published_at"`
	RetryCount       int        `gorm:"column:retry_count"`
	LastError        *string    `gorm:"column:last_error"`
	LastErrorAt      *time.Time `gorm:"column:last_error_at"`
}

func (outboxModel) TableName() string { return "marketplace_outbox" }
