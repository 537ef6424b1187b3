package mysql

import (
	"context"

	"gorm.io/gorm"

	"printstore/internal/domain"
)

type cartRepo struct {
	db *gorm.DB
}

func (r *cartRepo) FindByID(ctx context.Context, id string) (*domain.Cart, error) {
	return findOne[domain.Cart](r.db.WithContext(ctx), "id = ?", id)
}

func (r *cartRepo) FindByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	return findOne[domain.Cart](r.db.WithContext(ctx), "user_id = ?", userID)
}

func (r *cartRepo) Create(ctx context.Context, cart *domain.Cart) error {
	return translate(r.db.WithContext(ctx).Omit("Items").Create(cart).Error)
}

func (r *cartRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Cart{}, "id = ?", id).Error
}

type cartItemRepo struct {
	db *gorm.DB
}

func (r *cartItemRepo) priced(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Variant.Product.PrintFile").
		Preload("Variant.Material")
}

func (r *cartItemRepo) Create(ctx context.Context, item *domain.CartItem) error {
	return translate(r.db.WithContext(ctx).Omit("Variant").Create(item).Error)
}

func (r *cartItemRepo) FindByID(ctx context.Context, id string) (*domain.CartItem, error) {
	return findOne[domain.CartItem](r.priced(ctx), "id = ?", id)
}

func (r *cartItemRepo) FindByCartAndVariant(ctx context.Context, cartID, variantID string) (*domain.CartItem, error) {
	return findOne[domain.CartItem](r.db.WithContext(ctx), "cart_id = ? AND variant_id = ?", cartID, variantID)
}

func (r *cartItemRepo) ListByCart(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	var out []domain.CartItem
	err := r.priced(ctx).
		Where("cart_id = ?", cartID).
		Order("cart_items.created_at DESC, cart_items.id DESC").
		Find(&out).Error
	return out, err
}

func (r *cartItemRepo) Update(ctx context.Context, item *domain.CartItem) error {
	return r.db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity": item.Quantity,
			"note":     item.Note,
		}).Error
}

func (r *cartItemRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.CartItem{}, "id = ?", id).Error
}
