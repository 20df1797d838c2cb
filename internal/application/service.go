package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sellforge/marketplace/internal/contracts"
	"github.com/sellforge/marketplace/internal/domain"
	"github.com/sellforge/marketplace/internal/ports"
)

func (s *Service) JoinAffiliateProgram(ctx context.Context, actor Actor, in JoinAffiliateInput) (domain.Affiliate, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Affiliate{}, domain.ErrUnauthorized
	}
	in.Name = strings.TrimSpace(in.Name)
	in.PayoutEmail = strings.TrimSpace(in.PayoutEmail)
	if in.Name == "" || in.PayoutEmail == "" {
		return domain.Affiliate{}, fmt.Errorf("%w: name and payout_email are required", domain.ErrInvalidInput)
	}
	if in.PayoutSchedule == "" {
		in.PayoutSchedule = "monthly"
	}
	if existing, err := s.affiliates.GetByUserID(ctx, actor.SubjectID); err == nil {
		return existing, nil
	}
	now := s.nowFn()
	row := domain.Affiliate{
		AffiliateID:    "aff_" + uuid.NewString(),
		UserID:         actor.SubjectID,
		Name:           in.Name,
		Company:        strings.TrimSpace(in.Company),
		Website:        strings.TrimSpace(in.Website),
		Bio:            strings.TrimSpace(in.Bio),
		PayoutEmail:    in.PayoutEmail,
		PayoutSchedule: in.PayoutSchedule,
		IsPublic:       in.IsPublic,
		Status:         domain.AffiliateStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.affiliates.Create(ctx, row); err != nil {
		if existing, err2 := s.affiliates.GetByUserID(ctx, actor.SubjectID); err2 == nil {
			return existing, nil
		}
		return domain.Affiliate{}, err
	}
	return row, nil
}

func (s *Service) GetAffiliate(ctx context.Context, affiliateID string) (domain.Affiliate, error) {
	row, err := s.affiliates.GetByID(ctx, strings.TrimSpace(affiliateID))
	if err != nil {
		return domain.Affiliate{}, err
	}
	return row, nil
}

func (s *Service) ListPublicAffiliates(ctx context.Context) ([]domain.Affiliate, error) {
	return s.affiliates.ListPublic(ctx)
}

// CreateProductCheckout is the synchronous half of the attribution pipeline:
// register the offer with the payment processor, persist the product, resolve
// the visitor's referral cookie and start a checkout session that carries the
// attribution metadata through the external payment flow.
//
// Order matters: processor objects first, then the store row, then the
// session. A failure part-way leaves processor-side objects behind; that is an
// accepted operational cost, not rolled back.
func (s *Service) CreateProductCheckout(ctx context.Context, actor Actor, in CreateProductInput, refCode string) (CreateProductResult, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return CreateProductResult{}, domain.ErrUnauthorized
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Prices) == 0 {
		return CreateProductResult{}, fmt.Errorf("%w: name and at least one price are required", domain.ErrInvalidInput)
	}
	oneTimeRate, err := domain.ParseRate(in.CommissionRateOneTime)
	if err != nil {
		return CreateProductResult{}, err
	}
	var recurringRate domain.RateBps
	if strings.TrimSpace(in.CommissionRateRecurring) != "" {
		recurringRate, err = domain.ParseRate(in.CommissionRateRecurring)
		if err != nil {
			return CreateProductResult{}, err
		}
	}

	processorProduct, err := s.processor.CreateProduct(ctx, ports.CreateProcessorProductParams{
		Name:        in.Name,
		Description: in.Description,
		Images:      in.Images,
		Metadata: map[string]string{
			"category":                  in.Category,
			"commission_rate_one_time":  oneTimeRate.Percent(),
			"commission_rate_recurring": recurringRatePercent(recurringRate),
		},
	})
	if err != nil {
		return CreateProductResult{}, fmt.Errorf("create processor product: %w", err)
	}

	priceIDs := make([]string, 0, len(in.Prices))
	var primary ports.ProcessorPrice
	for i, p := range in.Prices {
		currency := p.Currency
		if currency == "" {
			currency = s.cfg.DefaultCurrency
		}
		created, priceErr := s.processor.CreatePrice(ctx, ports.CreatePriceParams{
			ProductID:  processorProduct.ID,
			UnitAmount: p.UnitAmount,
			Currency:   currency,
			Recurring:  p.Recurring,
		})
		if priceErr != nil {
			return CreateProductResult{}, fmt.Errorf("create processor price: %w", priceErr)
		}
		priceIDs = append(priceIDs, created.ID)
		if i == 0 {
			primary = created
		}
	}

	now := s.nowFn()
	product := domain.Product{
		ProductID:       "prod_" + uuid.NewString(),
		CreatorID:       actor.SubjectID,
		Title:           in.Name,
		Description:     in.Description,
		Category:        in.Category,
		DemoURL:         in.DemoURL,
		DownloadURL:     in.DownloadURL,
		RefundPolicy:    in.RefundPolicy,
		SupportEmail:    in.SupportEmail,
		IsSubscription:  in.IsSubscription,
		CommissionRate:  oneTimeRate,
		RecurringRate:   recurringRate,
		Price:           float64(primary.UnitAmount) / 100,
		Currency:        primary.Currency,
		StripeProductID: processorProduct.ID,
		StripePriceID:   primary.ID,
		Status:          domain.ProductStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if len(in.Images) > 0 {
		product.ImageURL = in.Images[0]
	}
	if len(priceIDs) > 1 {
		// Hybrid pricing: the upfront price is primary, the recurring leg rides
		// along as auxiliary metadata.
		product.AdditionalPriceIDs = priceIDs[1:]
	}
	if err := s.products.Create(ctx, product); err != nil {
		return CreateProductResult{}, fmt.Errorf("persist product: %w", err)
	}

	meta := contracts.CheckoutMetadata{
		ProductID:      product.ProductID,
		CommissionRate: oneTimeRate,
		RecurringRate:  recurringRate,
	}
	if link, ok := s.resolveReferral(ctx, refCode); ok {
		meta.AffiliateID = link.AffiliateID
		meta.LinkID = link.LinkID
		meta.RefCode = refCode
	}

	session, err := s.processor.CreateCheckoutSession(ctx, ports.CreateCheckoutSessionParams{
		Mode:       checkoutMode(in.IsSubscription),
		PriceID:    primary.ID,
		SuccessURL: s.cfg.PublicBaseURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.cfg.PublicBaseURL + "/products/" + product.ProductID,
		Metadata:   meta.Encode(),
	})
	if err != nil {
		return CreateProductResult{}, fmt.Errorf("create checkout session: %w", err)
	}

	return CreateProductResult{
		ProductID:       product.ProductID,
		StripeProductID: processorProduct.ID,
		StripePriceIDs:  priceIDs,
		SessionID:       session.ID,
		SessionURL:      session.URL,
	}, nil
}

func (s *Service) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	return s.products.GetByID(ctx, strings.TrimSpace(productID))
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListActive(ctx)
}

func (s *Service) UpdateProduct(ctx context.Context, actor Actor, in UpdateProductInput) (domain.Product, error) {
	product, err := s.requireOwnedProduct(ctx, actor, in.ProductID)
	if err != nil {
		return domain.Product{}, err
	}
	if in.Title != nil {
		product.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.DemoURL != nil {
		product.DemoURL = *in.DemoURL
	}
	if in.DownloadURL != nil {
		product.DownloadURL = *in.DownloadURL
	}
	if in.RefundPolicy != nil {
		product.RefundPolicy = *in.RefundPolicy
	}
	if in.SupportEmail != nil {
		product.SupportEmail = *in.SupportEmail
	}
	product.UpdatedAt = s.nowFn()
	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// DeactivateProduct soft-deactivates; the row and its sales history stay.
func (s *Service) DeactivateProduct(ctx context.Context, actor Actor, productID string) error {
	if _, err := s.requireOwnedProduct(ctx, actor, productID); err != nil {
		return err
	}
	return s.products.SetStatus(ctx, productID, domain.ProductStatusInactive, s.nowFn())
}

func (s *Service) ListProductSales(ctx context.Context, actor Actor, productID string) ([]domain.Sale, error) {
	if _, err := s.requireOwnedProduct(ctx, actor, productID); err != nil {
		return nil, err
	}
	return s.sales.ListByProductID(ctx, productID)
}

// CreateAffiliateLink mints a referral link for the calling affiliate on one
// product. A reference-code collision is transient: retry with a fresh code,
// bounded, never overwrite.
func (s *Service) CreateAffiliateLink(ctx context.Context, actor Actor, productID string) (CreateLinkResult, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return CreateLinkResult{}, domain.ErrUnauthorized
	}
	affiliate, err := s.affiliates.GetByUserID(ctx, actor.SubjectID)
	if err != nil {
		return CreateLinkResult{}, domain.ErrForbidden
	}
	product, err := s.products.GetByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		return CreateLinkResult{}, err
	}

	now := s.nowFn()
	var link domain.AffiliateLink
	created := false
	for attempt := 0; attempt < s.cfg.LinkCodeAttempts; attempt++ {
		link = domain.AffiliateLink{
			LinkID:      "link_" + uuid.NewString(),
			AffiliateID: affiliate.AffiliateID,
			ProductID:   product.ProductID,
			RefCode:     s.codeFn(s.cfg.LinkCodeLength),
			CreatedAt:   now,
		}
		createErr := s.links.Create(ctx, link)
		if createErr == nil {
			created = true
			break
		}
		if !errors.Is(createErr, domain.ErrConflict) {
			return CreateLinkResult{}, createErr
		}
	}
	if !created {
		return CreateLinkResult{}, fmt.Errorf("%w: exhausted ref code attempts", domain.ErrConflict)
	}

	_ = s.enqueueLinkCreated(ctx, link, now)
	return CreateLinkResult{
		LinkID:  link.LinkID,
		RefCode: link.RefCode,
		URL:     fmt.Sprintf("%s/products/%s?ref=%s", s.cfg.PublicBaseURL, product.ProductID, link.RefCode),
	}, nil
}

func (s *Service) GetDashboard(ctx context.Context, actor Actor) (Dashboard, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return Dashboard{}, domain.ErrUnauthorized
	}
	affiliate, err := s.affiliates.GetByUserID(ctx, actor.SubjectID)
	if err != nil {
		return Dashboard{}, err
	}
	links, err := s.links.ListByAffiliateID(ctx, affiliate.AffiliateID)
	if err != nil {
		return Dashboard{}, err
	}
	sales, err := s.sales.ListByAffiliateID(ctx, affiliate.AffiliateID)
	if err != nil {
		return Dashboard{}, err
	}
	pending, _ := s.sales.SumCommissionByStatus(ctx, affiliate.AffiliateID, domain.SaleStatusPending)
	cancelled, _ := s.sales.SumCommissionByStatus(ctx, affiliate.AffiliateID, domain.SaleStatusCancelled)

	salesByLink := map[string]int{}
	for _, sale := range sales {
		salesByLink[sale.LinkID]++
	}
	out := Dashboard{
		AffiliateID:         affiliate.AffiliateID,
		TotalLinks:          len(links),
		TotalSales:          len(sales),
		PendingCommission:   pending,
		CancelledCommission: cancelled,
		Links:               make([]LinkStats, 0, len(links)),
	}
	for _, link := range links {
		out.TotalClicks += link.Clicks
		out.Links = append(out.Links, LinkStats{
			LinkID:    link.LinkID,
			ProductID: link.ProductID,
			RefCode:   link.RefCode,
			Clicks:    link.Clicks,
			Sales:     salesByLink[link.LinkID],
		})
	}
	return out, nil
}

func (s *Service) requireOwnedProduct(ctx context.Context, actor Actor, productID string) (domain.Product, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Product{}, domain.ErrUnauthorized
	}
	product, err := s.products.GetByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		return domain.Product{}, err
	}
	if product.CreatorID != actor.SubjectID && actor.Role != "admin" {
		return domain.Product{}, domain.ErrForbidden
	}
	return product, nil
}

func checkoutMode(isSubscription bool) string {
	if isSubscription {
		return "subscription"
	}
	return "payment"
}

func recurringRatePercent(rate domain.RateBps) string {
	if rate <= 0 {
		return ""
	}
	return rate.Percent()
}
