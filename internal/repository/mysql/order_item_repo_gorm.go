package mysql

import (
	"context"

	"gorm.io/gorm"

	"printstore/internal/domain"
)

// itemOrder lists lines in insertion order. Lines written in the same
// transaction share created_at, so the time-ordered id breaks ties.
const itemOrder = "order_items.created_at ASC, order_items.id ASC"

type orderItemRepo struct {
	db *gorm.DB
}

func (r *orderItemRepo) Create(ctx context.Context, item *domain.OrderItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

func (r *orderItemRepo) FindByID(ctx context.Context, id string) (*domain.OrderItem, error) {
	return findOne[domain.OrderItem](r.db.WithContext(ctx), "id = ?", id)
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order(itemOrder).
		Find(&out).Error
	return out, err
}

func (r *orderItemRepo) Update(ctx context.Context, item *domain.OrderItem) error {
	return translate(r.db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"variant_id": item.VariantID,
			"quantity":   item.Quantity,
			"price":      item.Price,
		}).Error)
}

func (r *orderItemRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.OrderItem{}, "id = ?", id).Error
}

func (r *orderItemRepo) DeleteByOrder(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&domain.OrderItem{}).Error
}
