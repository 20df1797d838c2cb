package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sellforge/marketplace/internal/domain"
)

type linkRepository struct {
	db *gorm.DB
}

func (r *linkRepository) Create(ctx context.Context, row domain.AffiliateLink) error {
	rec := toLinkModel(row)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: ref code %s taken", domain.ErrConflict, row.RefCode)
		}
		return err
	}
	return nil
}

func (r *linkRepository) GetByRefCode(ctx context.Context, refCode string) (domain.AffiliateLink, error) {
	var rec affiliateLinkModel
	err := r.db.WithContext(ctx).Where("ref_code = ?", refCode).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AffiliateLink{}, fmt.Errorf("%w: link for ref code %s", domain.ErrNotFound, refCode)
	}
	if err != nil {
		return domain.AffiliateLink{}, err
	}
	return toLinkDomain(rec), nil
}

func (r *linkRepository) ListByAffiliateID(ctx context.Context, affiliateID string) ([]domain.AffiliateLink, error) {
	var rows []affiliateLinkModel
	if err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.AffiliateLink, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toLinkDomain(rec))
	}
	return out, nil
}

// RecordClick is a single UPDATE so concurrent clicks never lose increments.
func (r *linkRepository) RecordClick(ctx context.Context, refCode string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&affiliateLinkModel{}).
		Where("ref_code = ?", refCode).
		Updates(map[string]any{
			"clicks":          gorm.Expr("clicks + 1"),
			"last_clicked_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: link for ref code %s", domain.ErrNotFound, refCode)
	}
	return nil
}
