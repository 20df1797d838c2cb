// Package memory provides map-backed implementations of the storage ports.
// They back the test suite and the DB-less local mode; semantics mirror the
// postgres adapter, including uniqueness conflicts and atomic counters.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sellforge/marketplace/internal/domain"
	"github.com/sellforge/marketplace/internal/ports"
)

type Repositories struct {
	Affiliates *AffiliateRepository
	Links      *LinkRepository
	Products   *ProductRepository
	Sales      *SaleRepository
	Outbox     *OutboxRepository
}

func NewRepositories() Repositories {
	return Repositories{
		Affiliates: &AffiliateRepository{rows: map[string]domain.Affiliate{}},
		Links:      &LinkRepository{rows: map[string]domain.AffiliateLink{}},
		Products:   &ProductRepository{rows: map[string]domain.Product{}},
		Sales:      &SaleRepository{rows: map[string]domain.Sale{}},
		Outbox:     &OutboxRepository{},
	}
}

type AffiliateRepository struct {
	mu   sync.RWMutex
	rows map[string]domain.Affiliate
}

func (r *AffiliateRepository) Create(_ context.Context, row domain.Affiliate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.AffiliateID]; ok {
		return fmt.Errorf("%w: affiliate already exists", domain.ErrConflict)
	}
	for _, existing := range r.rows {
		if existing.UserID == row.UserID {
			return fmt.Errorf("%w: affiliate already exists", domain.ErrConflict)
		}
	}
	r.rows[row.AffiliateID] = row
	return nil
}

func (r *AffiliateRepository) GetByID(_ context.Context, affiliateID string) (domain.Affiliate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[affiliateID]
	if !ok {
		return domain.Affiliate{}, fmt.Errorf("%w: affiliate %s", domain.ErrNotFound, affiliateID)
	}
	return row, nil
}

func (r *AffiliateRepository) GetByUserID(_ context.Context, userID string) (domain.Affiliate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.rows {
		if row.UserID == userID {
			return row, nil
		}
	}
	return domain.Affiliate{}, fmt.Errorf("%w: affiliate for user %s", domain.ErrNotFound, userID)
}

func (r *AffiliateRepository) ListPublic(_ context.Context) ([]domain.Affiliate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Affiliate, 0)
	for _, row := range r.rows {
		if row.IsPublic && row.Status == domain.AffiliateStatusActive {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *AffiliateRepository) Update(_ context.Context, row domain.Affiliate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.AffiliateID]; !ok {
		return fmt.Errorf("%w: affiliate %s", domain.ErrNotFound, row.AffiliateID)
	}
	r.rows[row.AffiliateID] = row
	return nil
}

type LinkRepository struct {
	mu   sync.RWMutex
	rows map[string]domain.AffiliateLink // keyed by ref code
}

func (r *LinkRepository) Create(_ context.Context, row domain.AffiliateLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.RefCode]; ok {
		return fmt.Errorf("%w: ref code %s taken", domain.ErrConflict, row.RefCode)
	}
	r.rows[row.RefCode] = row
	return nil
}

func (r *LinkRepository) GetByRefCode(_ context.Context, refCode string) (domain.AffiliateLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[refCode]
	if !ok {
		return domain.AffiliateLink{}, fmt.Errorf("%w: link for ref code %s", domain.ErrNotFound, refCode)
	}
	return row, nil
}

func (r *LinkRepository) ListByAffiliateID(_ context.Context, affiliateID string) ([]domain.AffiliateLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.AffiliateLink, 0)
	for _, row := range r.rows {
		if row.AffiliateID == affiliateID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *LinkRepository) RecordClick(_ context.Context, refCode string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[refCode]
	if !ok {
		return fmt.Errorf("%w: link for ref code %s", domain.ErrNotFound, refCode)
	}
	row.Clicks++
	row.LastClickedAt = &at
	r.rows[refCode] = row
	return nil
}

type ProductRepository struct {
	mu   sync.RWMutex
	rows map[string]domain.Product
}

func (r *ProductRepository) Create(_ context.Context, row domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.ProductID]; ok {
		return fmt.Errorf("%w: product already exists", domain.ErrConflict)
	}
	r.rows[row.ProductID] = row
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, productID string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	return row, nil
}

func (r *ProductRepository) ListActive(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0)
	for _, row := range r.rows {
		if row.Status == domain.ProductStatusActive {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProductRepository) ListByCreatorID(_ context.Context, creatorID string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0)
	for _, row := range r.rows {
		if row.CreatorID == creatorID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProductRepository) Update(_ context.Context, row domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.ProductID]; !ok {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, row.ProductID)
	}
	r.rows[row.ProductID] = row
	return nil
}

func (r *ProductRepository) SetStatus(_ context.Context, productID, status string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[productID]
	if !ok {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	row.Status = status
	row.UpdatedAt = at
	r.rows[productID] = row
	return nil
}

func (r *ProductRepository) ApplySaleMetrics(_ context.Context, productID string, amount float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[productID]
	if !ok {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	row.SalesCount++
	row.TotalRevenue += amount
	row.UpdatedAt = at
	r.rows[productID] = row
	return nil
}

type SaleRepository struct {
	mu   sync.RWMutex
	rows map[string]domain.Sale
}

func (r *SaleRepository) Create(_ context.Context, row domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.StripeSessionID == row.StripeSessionID && existing.EventType == row.EventType {
			return fmt.Errorf("%w: sale for session %s event %s already recorded",
				domain.ErrConflict, row.StripeSessionID, row.EventType)
		}
	}
	r.rows[row.SaleID] = row
	return nil
}

func (r *SaleRepository) GetByID(_ context.Context, saleID string) (domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[saleID]
	if !ok {
		return domain.Sale{}, fmt.Errorf("%w: sale %s", domain.ErrNotFound, saleID)
	}
	return row, nil
}

func (r *SaleRepository) GetByStripeSessionID(_ context.Context, stripeSessionID string) (domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *domain.Sale
	for _, row := range r.rows {
		if row.StripeSessionID != stripeSessionID {
			continue
		}
		row := row
		if found == nil || row.CreatedAt.Before(found.CreatedAt) {
			found = &row
		}
	}
	if found == nil {
		return domain.Sale{}, fmt.Errorf("%w: sale for session %s", domain.ErrNotFound, stripeSessionID)
	}
	return *found, nil
}

func (r *SaleRepository) ListByAffiliateID(_ context.Context, affiliateID string) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Sale, 0)
	for _, row := range r.rows {
		if row.AffiliateID == affiliateID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *SaleRepository) ListByProductID(_ context.Context, productID string) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Sale, 0)
	for _, row := range r.rows {
		if row.ProductID == productID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *SaleRepository) SumCommissionByStatus(_ context.Context, affiliateID string, status domain.SaleStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, row := range r.rows {
		if row.AffiliateID == affiliateID && row.Status == status {
			total += row.Commission
		}
	}
	return total, nil
}

func (r *SaleRepository) CancelByStripeSessionID(_ context.Context, stripeSessionID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for id, row := range r.rows {
		if row.StripeSessionID == stripeSessionID && row.Status == domain.SaleStatusPending {
			row.Status = domain.SaleStatusCancelled
			row.UpdatedAt = at
			r.rows[id] = row
			changed++
		}
	}
	return changed, nil
}

type OutboxRepository struct {
	mu   sync.RWMutex
	rows []ports.OutboxRecord
}

func (r *OutboxRepository) Enqueue(_ context.Context, record ports.OutboxRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, record)
	return nil
}

func (r *OutboxRepository) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ports.OutboxRecord, 0, limit)
	for _, row := range r.rows {
		if row.PublishedAt != nil {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].OutboxID == outboxID {
			at := at
			r.rows[i].PublishedAt = &at
			return nil
		}
	}
	return fmt.Errorf("%w: outbox record %s", domain.ErrNotFound, outboxID)
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID string, reason string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].OutboxID == outboxID {
			r.rows[i].RetryCount++
			r.rows[i].LastError = reason
			return nil
		}
	}
	return fmt.Errorf("%w: outbox record %s", domain.ErrNotFound, outboxID)
}

// All returns a snapshot of every staged record; test helper.
func (r *OutboxRepository) All() []ports.OutboxRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ports.OutboxRecord, len(r.rows))
	copy(out, r.rows)
	return out
}
