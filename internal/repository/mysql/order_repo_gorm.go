package mysql

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"printstore/internal/domain"
	"printstore/internal/repository"
)

type orderRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func (r *orderRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order(itemOrder) }).
		Preload("Payment").
		Preload("Shipment").
		Preload("Voucher")
}

// Create inserts the order together with its items and any nested payment or
// shipment. The voucher row is never written.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	if order.Version == 0 {
		order.Version = 1
	}
	if err := r.db.WithContext(ctx).Omit("Voucher").Create(order).Error; err != nil {
		r.logger.Error("order create failed", zap.String("order_id", order.ID), zap.Error(err))
		return translate(err)
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := findOne[domain.Order](r.preloaded(ctx), "id = ?", id)
	if err != nil {
		r.logger.Error("order lookup failed", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	q := r.preloaded(ctx)
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var out []domain.Order
	if err := q.Order("orders.created_at DESC, orders.id DESC").Find(&out).Error; err != nil {
		r.logger.Error("order list failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"address_id":      order.AddressID,
			"status":          order.Status,
			"sub_total":       order.SubTotal,
			"shipping_fee":    order.ShippingFee,
			"tax_amount":      order.TaxAmount,
			"discount_amount": order.DiscountAmount,
			"total_amount":    order.TotalAmount,
			"voucher_id":      order.VoucherID,
			"version":         gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		r.logger.Error("order save failed", zap.String("order_id", order.ID), zap.Error(res.Error))
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		r.logger.Warn("order version conflict",
			zap.String("order_id", order.ID),
			zap.Int64("version", order.Version))
		return repository.ErrVersionConflict
	}

	order.Version++
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id).Error
}
