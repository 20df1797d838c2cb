package ports

import (
	"context"
	"time"

	"github.com/sellforge/marketplace/internal/domain"
)

// LinkCache is a best-effort read-through cache for referral-code resolution.
// The click path is the hottest read in the system; a miss or cache error just
// falls through to the store.
type LinkCache interface {
	GetLink(ctx context.Context, refCode string) (domain.AffiliateLink, bool, error)
	SetLink(ctx context.Context, link domain.AffiliateLink, ttl time.Duration) error
}
