package postgres

import (
	"gorm.io/gorm"

	"github.com/sellforge/marketplace/internal/ports"
)

type Repositories struct {
	Affiliates ports.AffiliateRepository
	Links      ports.LinkRepository
	Products   ports.ProductRepository
	Sales      ports.SaleRepository
	Outbox     ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Affiliates: &affiliateRepository{db: db},
		Links:      &linkRepository{db: db},
		Products:   &productRepository{db: db},
		Sales:      &saleRepository{db: db},
		Outbox:     &outboxRepository{db: db},
	}
}
