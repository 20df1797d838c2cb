package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sellforge/marketplace/internal/domain"
)

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) Create(ctx context.Context, row domain.Product) error {
	rec := toProductModel(row)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: product already exists", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, productID string) (domain.Product, error) {
	var rec productModel
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	if err != nil {
		return domain.Product{}, err
	}
	return toProductDomain(rec), nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	var rows []productModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", domain.ProductStatusActive).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toProductDomain(rec))
	}
	return out, nil
}

func (r *productRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]domain.Product, error) {
	var rows []productModel
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toProductDomain(rec))
	}
	return out, nil
}

func (r *productRepository) Update(ctx context.Context, row domain.Product) error {
	rec := toProductModel(row)
	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("product_id = ?", row.ProductID).
		Updates(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, row.ProductID)
	}
	return nil
}

func (r *productRepository) SetStatus(ctx context.Context, productID, status string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	return nil
}

// ApplySaleMetrics bumps the aggregate counters server-side; the webhook path
// calls this concurrently and must not read-modify-write.
func (r *productRepository) ApplySaleMetrics(ctx context.Context, productID string, amount float64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&productModel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"sales_count":   gorm.Expr("sales_count + 1"),
			"total_revenue": gorm.Expr("total_revenue + ?", amount),
			"updated_at":    at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	return nil
}
