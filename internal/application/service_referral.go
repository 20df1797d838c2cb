package application

import (
	"context"
	"strings"

	"github.com/sellforge/marketplace/internal/domain"
)

// TrackReferralClick records attribution intent for a tagged product-page
// visit: one atomic click increment plus a last-clicked refresh. Unknown codes
// surface as errors so the caller can log them, but nothing on this path may
// ever fail the page view itself.
func (s *Service) TrackReferralClick(ctx context.Context, refCode string) error {
	refCode = strings.TrimSpace(refCode)
	if refCode == "" {
		return domain.ErrInvalidInput
	}
	if err := s.links.RecordClick(ctx, refCode, s.nowFn()); err != nil {
		return err
	}
	if link, ok := s.resolveReferral(ctx, refCode); ok {
		_ = s.enqueueClickTracked(ctx, link, s.nowFn())
	}
	return nil
}

// resolveReferral maps a raw cookie/query code to its link, read-through the
// cache. A miss, an unknown code or a cache error all mean "no attribution".
func (s *Service) resolveReferral(ctx context.Context, refCode string) (domain.AffiliateLink, bool) {
	refCode = strings.TrimSpace(refCode)
	if refCode == "" {
		return domain.AffiliateLink{}, false
	}
	if s.linkCache != nil {
		if link, ok, err := s.linkCache.GetLink(ctx, refCode); err == nil && ok {
			return link, true
		}
	}
	link, err := s.links.GetByRefCode(ctx, refCode)
	if err != nil {
		return domain.AffiliateLink{}, false
	}
	if s.linkCache != nil {
		_ = s.linkCache.SetLink(ctx, link, s.cfg.LinkCacheTTL)
	}
	return link, true
}
