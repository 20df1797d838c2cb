package ports

import (
	"context"
	"time"

	"github.com/sellforge/marketplace/internal/domain"
)

type AffiliateRepository interface {
	Create(ctx context.Context, row domain.Affiliate) error
	GetByID(ctx context.Context, affiliateID string) (domain.Affiliate, error)
	GetByUserID(ctx context.Context, userID string) (domain.Affiliate, error)
	ListPublic(ctx context.Context) ([]domain.Affiliate, error)
	Update(ctx context.Context, row domain.Affiliate) error
}

type LinkRepository interface {
	Create(ctx context.Context, row domain.AffiliateLink) error
	GetByRefCode(ctx context.Context, refCode string) (domain.AffiliateLink, error)
	ListByAffiliateID(ctx context.Context, affiliateID string) ([]domain.AffiliateLink, error)
	// RecordClick is a server-side atomic increment of the click counter plus a
	// last-clicked timestamp refresh. Implementations must not read-modify-write.
	RecordClick(ctx context.Context, refCode string, at time.Time) error
}

type ProductRepository interface {
	Create(ctx context.Context, row domain.Product) error
	GetByID(ctx context.Context, productID string) (domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	ListByCreatorID(ctx context.Context, creatorID string) ([]domain.Product, error)
	Update(ctx context.Context, row domain.Product) error
	SetStatus(ctx context.Context, productID, status string, at time.Time) error
	// ApplySaleMetrics atomically bumps the aggregate sales counters for a
	// product. amount is in major units.
	ApplySaleMetrics(ctx context.Context, productID string, amount float64, at time.Time) error
}

type SaleRepository interface {
	// Create returns domain.ErrConflict when a sale for the same
	// (stripe_session_id, event_type) pair already exists; redelivered webhook
	// events rely on that to stay no-ops.
	Create(ctx context.Context, row domain.Sale) error
	GetByID(ctx context.Context, saleID string) (domain.Sale, error)
	GetByStripeSessionID(ctx context.Context, stripeSessionID string) (domain.Sale, error)
	ListByAffiliateID(ctx context.Context, affiliateID string) ([]domain.Sale, error)
	ListByProductID(ctx context.Context, productID string) ([]domain.Sale, error)
	SumCommissionByStatus(ctx context.Context, affiliateID string, status domain.SaleStatus) (int64, error)
	// CancelByStripeSessionID flips matching pending sales to cancelled and
	// reports how many rows changed; zero is a valid outcome.
	CancelByStripeSessionID(ctx context.Context, stripeSessionID string, at time.Time) (int64, error)
}

type OutboxRecord struct {
	OutboxID         string
	EventType        string
	PartitionKey     string
	PartitionKeyPath string
	Payload          []byte
	SchemaVersion    string
	TraceID          string
	CreatedAt        time.Time
	PublishedAt      *time.Time
	RetryCount       int
	LastError        string
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, record OutboxRecord) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID string, reason string, at time.Time) error
}
