package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sellforge/marketplace/internal/contracts"
	"github.com/sellforge/marketplace/internal/domain"
)

// HandlePaymentEvent is the asynchronous half of the pipeline. Signature
// verification runs over the exact raw bytes before any branching; after that,
// store-write failures are logged and still acknowledged. The payment already
// happened, and the processor retrying a notification we cannot consume
// differently would just poison its queue.
func (s *Service) HandlePaymentEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := s.verifier.Verify(payload, signatureHeader); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	var event contracts.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: malformed event payload", domain.ErrInvalidInput)
	}

	switch event.Type {
	case contracts.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event)
	case contracts.EventInvoicePaid:
		return s.handleInvoicePaid(ctx, event)
	case contracts.EventChargeRefunded:
		return s.handleChargeRefunded(ctx, event)
	default:
		// Unrecognized types are acked; the processor sends the full event feed.
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, event contracts.WebhookEvent) error {
	var session contracts.CheckoutSessionPayload
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return fmt.Errorf("%w: malformed checkout session", domain.ErrInvalidInput)
	}
	meta := contracts.DecodeCheckoutMetadata(session.Metadata)

	if meta.Attributed() {
		s.recordSale(ctx, domain.Sale{
			AffiliateID:     meta.AffiliateID,
			ProductID:       meta.ProductID,
			LinkID:          meta.LinkID,
			CustomerID:      session.Customer,
			SaleAmount:      session.AmountTotal,
			Commission:      domain.Commission(session.AmountTotal, meta.CommissionRate),
			Currency:        currencyOrDefault(session.Currency, s.cfg.DefaultCurrency),
			StripeSessionID: session.ID,
			EventType:       event.Type,
			IsRecurring:     false,
		})
	}

	// Aggregate sales metrics update is independent of attribution.
	if meta.ProductID != "" {
		if err := s.products.ApplySaleMetrics(ctx, meta.ProductID, float64(session.AmountTotal)/100, s.nowFn()); err != nil {
			s.logger.WarnContext(ctx, "product metrics update failed",
				"operation", "handle_checkout_completed",
				"product_id", meta.ProductID,
				"error", err,
			)
		}
	}
	return nil
}

func (s *Service) handleInvoicePaid(ctx context.Context, event contracts.WebhookEvent) error {
	var invoice contracts.InvoicePayload
	if err := json.Unmarshal(event.Data.Object, &invoice); err != nil {
		return fmt.Errorf("%w: malformed invoice", domain.ErrInvalidInput)
	}
	meta := contracts.DecodeCheckoutMetadata(invoice.Metadata)
	if !meta.Attributed() {
		return nil
	}
	// Recurring revenue pays out at the recurring rate, never the one-time one.
	s.recordSale(ctx, domain.Sale{
		AffiliateID:     meta.AffiliateID,
		ProductID:       meta.ProductID,
		LinkID:          meta.LinkID,
		CustomerID:      invoice.Customer,
		SaleAmount:      invoice.AmountPaid,
		Commission:      domain.Commission(invoice.AmountPaid, meta.RecurringRate),
		Currency:        currencyOrDefault(invoice.Currency, s.cfg.DefaultCurrency),
		StripeSessionID: invoice.ID,
		EventType:       event.Type,
		IsRecurring:     true,
	})
	return nil
}

func (s *Service) handleChargeRefunded(ctx context.Context, event contracts.WebhookEvent) error {
	var charge contracts.ChargePayload
	if err := json.Unmarshal(event.Data.Object, &charge); err != nil {
		return fmt.Errorf("%w: malformed charge", domain.ErrInvalidInput)
	}
	if charge.PaymentIntent == "" {
		return nil
	}
	now := s.nowFn()
	changed, err := s.sales.CancelByStripeSessionID(ctx, charge.PaymentIntent, now)
	if err != nil {
		s.logger.WarnContext(ctx, "refund cancellation failed",
			"operation", "handle_charge_refunded",
			"payment_intent", charge.PaymentIntent,
			"error", err,
		)
		return nil
	}
	if changed == 0 {
		// Not every charge is attributable; nothing to cancel is fine.
		return nil
	}
	if sale, err := s.sales.GetByStripeSessionID(ctx, charge.PaymentIntent); err == nil {
		_ = s.enqueueSaleCancelled(ctx, sale, now)
	}
	return nil
}

// recordSale inserts one commission ledger row. A (session, event type)
// conflict means the notification was redelivered and the commission already
// credited, so it degrades to a no-op; other failures are logged and acked.
func (s *Service) recordSale(ctx context.Context, sale domain.Sale) {
	now := s.nowFn()
	sale.SaleID = "sale_" + uuid.NewString()
	sale.Status = domain.SaleStatusPending
	sale.CreatedAt = now
	sale.UpdatedAt = now

	if err := s.sales.Create(ctx, sale); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.InfoContext(ctx, "duplicate payment notification ignored",
				"operation", "record_sale",
				"stripe_session_id", sale.StripeSessionID,
				"event_type", sale.EventType,
			)
			return
		}
		s.logger.ErrorContext(ctx, "recording affiliate sale failed",
			"operation", "record_sale",
			"stripe_session_id", sale.StripeSessionID,
			"error", err,
		)
		return
	}
	_ = s.enqueueSaleRecorded(ctx, sale, now)
}

func currencyOrDefault(currency, fallback string) string {
	if currency == "" {
		return fallback
	}
	return currency
}
