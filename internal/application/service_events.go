package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sellforge/marketplace/internal/contracts"
	"github.com/sellforge/marketplace/internal/domain"
	"github.com/sellforge/marketplace/internal/ports"
)

// enqueueEvent stages a domain event in the outbox for the worker to flush.
// Event emission is best-effort relative to the write it describes; callers
// discard the error.
func (s *Service) enqueueEvent(ctx context.Context, eventType, affiliateID string, data any, now time.Time) error {
	if s.outbox == nil || !domain.IsEmittedEvent(eventType) {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxRecord{
		OutboxID:         uuid.NewString(),
		EventType:        eventType,
		PartitionKey:     affiliateID,
		PartitionKeyPath: domain.PartitionKeyPath(eventType),
		Payload:          payload,
		SchemaVersion:    "v1",
		TraceID:          uuid.NewString(),
		CreatedAt:        now,
	})
}

func (s *Service) enqueueLinkCreated(ctx context.Context, link domain.AffiliateLink, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventLinkCreated, link.AffiliateID, contracts.LinkCreatedPayload{
		AffiliateID: link.AffiliateID,
		LinkID:      link.LinkID,
		ProductID:   link.ProductID,
		RefCode:     link.RefCode,
		CreatedAt:   link.CreatedAt.UTC().Format(time.RFC3339),
	}, now)
}

func (s *Service) enqueueClickTracked(ctx context.Context, link domain.AffiliateLink, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventClickTracked, link.AffiliateID, contracts.ClickTrackedPayload{
		AffiliateID: link.AffiliateID,
		LinkID:      link.LinkID,
		ProductID:   link.ProductID,
		RefCode:     link.RefCode,
		TrackedAt:   now.UTC().Format(time.RFC3339),
	}, now)
}

func (s *Service) enqueueSaleRecorded(ctx context.Context, sale domain.Sale, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventSaleRecorded, sale.AffiliateID, contracts.SaleRecordedPayload{
		AffiliateID: sale.AffiliateID,
		SaleID:      sale.SaleID,
		ProductID:   sale.ProductID,
		SaleAmount:  sale.SaleAmount,
		Commission:  sale.Commission,
		Currency:    sale.Currency,
		IsRecurring: sale.IsRecurring,
		RecordedAt:  now.UTC().Format(time.RFC3339),
	}, now)
}

func (s *Service) enqueueSaleCancelled(ctx context.Context, sale domain.Sale, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventSaleCancelled, sale.AffiliateID, contracts.SaleCancelledPayload{
		AffiliateID:     sale.AffiliateID,
		SaleID:          sale.SaleID,
		StripeSessionID: sale.StripeSessionID,
		CancelledAt:     now.UTC().Format(time.RFC3339),
	}, now)
}
