package mysql

import (
	"context"

	"gorm.io/gorm"

	"printstore/internal/domain"
)

type variantRepo struct {
	db *gorm.DB
}

func (r *variantRepo) FindByID(ctx context.Context, id string) (*domain.Variant, error) {
	q := r.db.WithContext(ctx).
		Preload("Product.PrintFile").
		Preload("Material")
	return findOne[domain.Variant](q, "id = ?", id)
}

type addressRepo struct {
	db *gorm.DB
}

func (r *addressRepo) FindByID(ctx context.Context, id string) (*domain.Address, error) {
	return findOne[domain.Address](r.db.WithContext(ctx), "id = ?", id)
}
