package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sellforge/marketplace/internal/domain"
)

type saleRepository struct {
	db *gorm.DB
}

func (r *saleRepository) Create(ctx context.Context, row domain.Sale) error {
	rec := toSaleModel(row)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: sale for session %s event %s already recorded",
				domain.ErrConflict, row.StripeSessionID, row.EventType)
		}
		return err
	}
	return nil
}

func (r *saleRepository) GetByID(ctx context.Context, saleID string) (domain.Sale, error) {
	var rec saleModel
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Sale{}, fmt.Errorf("%w: sale %s", domain.ErrNotFound, saleID)
	}
	if err != nil {
		return domain.Sale{}, err
	}
	return toSaleDomain(rec), nil
}

func (r *saleRepository) GetByStripeSessionID(ctx context.Context, stripeSessionID string) (domain.Sale, error) {
	var rec saleModel
	err := r.db.WithContext(ctx).
		Where("stripe_session_id = ?", stripeSessionID).
		Order("created_at asc").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Sale{}, fmt.Errorf("%w: sale for session %s", domain.ErrNotFound, stripeSessionID)
	}
	if err != nil {
		return domain.Sale{}, err
	}
	return toSaleDomain(rec), nil
}

func (r *saleRepository) ListByAffiliateID(ctx context.Context, affiliateID string) ([]domain.Sale, error) {
	var rows []saleModel
	if err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Sale, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toSaleDomain(rec))
	}
	return out, nil
}

func (r *saleRepository) ListByProductID(ctx context.Context, productID string) ([]domain.Sale, error) {
	var rows []saleModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Sale, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toSaleDomain(rec))
	}
	return out, nil
}

func (r *saleRepository) SumCommissionByStatus(ctx context.Context, affiliateID string, status domain.SaleStatus) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&saleModel{}).
		Select("SUM(commission_amount)").
		Where("affiliate_id = ? AND status = ?", affiliateID, string(status)).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *saleRepository) CancelByStripeSessionID(ctx context.Context, stripeSessionID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&saleModel{}).
		Where("stripe_session_id = ? AND status = ?", stripeSessionID, string(domain.SaleStatusPending)).
		Updates(map[string]any{
			"status":     string(domain.SaleStatusCancelled),
			"updated_at": at,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
