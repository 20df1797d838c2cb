package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sellforge/marketplace/internal/domain"
)

type affiliateRepository struct {
	db *gorm.DB
}

func (r *affiliateRepository) Create(ctx context.Context, row domain.Affiliate) error {
	rec := toAffiliateModel(row)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: affiliate already exists", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *affiliateRepository) GetByID(ctx context.Context, affiliateID string) (domain.Affiliate, error) {
	var rec affiliateModel
	err := r.db.WithContext(ctx).Where("affiliate_id = ?", affiliateID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Affiliate{}, fmt.Errorf("%w: affiliate %s", domain.ErrNotFound, affiliateID)
	}
	if err != nil {
		return domain.Affiliate{}, err
	}
	return toAffiliateDomain(rec), nil
}

func (r *affiliateRepository) GetByUserID(ctx context.Context, userID string) (domain.Affiliate, error) {
	var rec affiliateModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Affiliate{}, fmt.Errorf("%w: affiliate for user %s", domain.ErrNotFound, userID)
	}
	if err != nil {
		return domain.Affiliate{}, err
	}
	return toAffiliateDomain(rec), nil
}

func (r *affiliateRepository) ListPublic(ctx context.Context) ([]domain.Affiliate, error) {
	var rows []affiliateModel
	if err := r.db.WithContext(ctx).
		Where("is_public = ? AND status = ?", true, domain.AffiliateStatusActive).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Affiliate, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toAffiliateDomain(rec))
	}
	return out, nil
}

func (r *affiliateRepository) Update(ctx context.Context, row domain.Affiliate) error {
	rec := toAffiliateModel(row)
	res := r.db.WithContext(ctx).Model(&affiliateModel{}).
		Where("affiliate_id = ?", row.AffiliateID).
		Updates(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: affiliate %s", domain.ErrNotFound, row.AffiliateID)
	}
	return nil
}
