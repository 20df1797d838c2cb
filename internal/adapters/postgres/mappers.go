package postgres

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/sellforge/marketplace/internal/domain"
	"github.com/sellforge/marketplace/internal/ports"
)

func toAffiliateModel(row domain.Affiliate) affiliateModel {
	return affiliateModel{
		AffiliateID:    row.AffiliateID,
		UserID:         row.UserID,
		Name:           row.Name,
		Company:        row.Company,
		Website:        row.Website,
		Bio:            row.Bio,
		PayoutEmail:    row.PayoutEmail,
		PayoutSchedule: row.PayoutSchedule,
		IsPublic:       row.IsPublic,
		Status:         row.Status,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func toAffiliateDomain(m affiliateModel) domain.Affiliate {
	return domain.Affiliate{
		AffiliateID:    m.AffiliateID,
		UserID:         m.UserID,
		Name:           m.Name,
		Company:        m.Company,
		Website:        m.Website,
		Bio:            m.Bio,
		PayoutEmail:    m.PayoutEmail,
		PayoutSchedule: m.PayoutSchedule,
		IsPublic:       m.IsPublic,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toLinkModel(row domain.AffiliateLink) affiliateLinkModel {
	return affiliateLinkModel{
		LinkID:        row.LinkID,
		AffiliateID:   row.AffiliateID,
		ProductID:     row.ProductID,
		RefCode:       row.RefCode,
		Clicks:        row.Clicks,
		LastClickedAt: row.LastClickedAt,
		CreatedAt:     row.CreatedAt,
	}
}

func toLinkDomain(m affiliateLinkModel) domain.AffiliateLink {
	return domain.AffiliateLink{
		LinkID:        m.LinkID,
		AffiliateID:   m.AffiliateID,
		ProductID:     m.ProductID,
		RefCode:       m.RefCode,
		Clicks:        m.Clicks,
		LastClickedAt: m.LastClickedAt,
		CreatedAt:     m.CreatedAt,
	}
}

func toProductModel(row domain.Product) productModel {
	var extra datatypes.JSON
	if len(row.AdditionalPriceIDs) > 0 {
		raw, err := json.Marshal(row.AdditionalPriceIDs)
		if err == nil {
			extra = datatypes.JSON(raw)
		}
	}
	return productModel{
		ProductID:          row.ProductID,
		CreatorID:          row.CreatorID,
		Title:              row.Title,
		Description:        row.Description,
		ImageURL:           row.ImageURL,
		Category:           row.Category,
		DemoURL:            row.DemoURL,
		DownloadURL:        row.DownloadURL,
		RefundPolicy:       row.RefundPolicy,
		SupportEmail:       row.SupportEmail,
		IsSubscription:     row.IsSubscription,
		CommissionRateBps:  int64(row.CommissionRate),
		RecurringRateBps:   int64(row.RecurringRate),
		Price:              row.Price,
		Currency:           row.Currency,
		StripeProductID:    row.StripeProductID,
		StripePriceID:      row.StripePriceID,
		AdditionalPriceIDs: extra,
		Status:             row.Status,
		SalesCount:         row.SalesCount,
		TotalRevenue:       row.TotalRevenue,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func toProductDomain(m productModel) domain.Product {
	var extra []string
	if len(m.AdditionalPriceIDs) > 0 {
		_ = json.Unmarshal(m.AdditionalPriceIDs, &extra)
	}
	return domain.Product{
		ProductID:          m.ProductID,
		CreatorID:          m.CreatorID,
		Title:              m.Title,
		Description:        m.Description,
		ImageURL:           m.ImageURL,
		Category:           m.Category,
		DemoURL:            m.DemoURL,
		DownloadURL:        m.DownloadURL,
		RefundPolicy:       m.RefundPolicy,
		SupportEmail:       m.SupportEmail,
		IsSubscription:     m.IsSubscription,
		CommissionRate:     domain.RateBps(m.CommissionRateBps),
		RecurringRate:      domain.RateBps(m.RecurringRateBps),
		Price:              m.Price,
		Currency:           m.Currency,
		StripeProductID:    m.StripeProductID,
		StripePriceID:      m.StripePriceID,
		AdditionalPriceIDs: extra,
		Status:             m.Status,
		SalesCount:         m.SalesCount,
		TotalRevenue:       m.TotalRevenue,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toSaleModel(row domain.Sale) saleModel {
	return saleModel{
		SaleID:          row.SaleID,
		AffiliateID:     row.AffiliateID,
		ProductID:       row.ProductID,
		LinkID:          row.LinkID,
		CustomerID:      row.CustomerID,
		SaleAmount:      row.SaleAmount,
		Commission:      row.Commission,
		Currency:        row.Currency,
		StripeSessionID: row.StripeSessionID,
		EventType:       row.EventType,
		IsRecurring:     row.IsRecurring,
		Status:          string(row.Status),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func toSaleDomain(m saleModel) domain.Sale {
	return domain.Sale{
		SaleID:          m.SaleID,
		AffiliateID:     m.AffiliateID,
		ProductID:       m.ProductID,
		LinkID:          m.LinkID,
		CustomerID:      m.CustomerID,
		SaleAmount:      m.SaleAmount,
		Commission:      m.Commission,
		Currency:        m.Currency,
		StripeSessionID: m.StripeSessionID,
		EventType:       m.EventType,
		IsRecurring:     m.IsRecurring,
		Status:          domain.SaleStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toOutboxDomain(m outboxModel) ports.OutboxRecord {
	rec := ports.OutboxRecord{
		OutboxID:         m.OutboxID,
		EventType:        m.EventType,
		PartitionKey:     m.PartitionKey,
		PartitionKeyPath: m.PartitionKeyPath,
		Payload:          []byte(m.Payload),
		SchemaVersion:    m.SchemaVersion,
		TraceID:          m.TraceID,
		CreatedAt:        m.CreatedAt,
		PublishedAt:      m.PublishedAt,
		RetryCount:       m.RetryCount,
	}
	if m.LastError != nil {
		rec.LastError = *m.LastError
	}
	return rec
}
