package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printstore/internal/domain"
	"printstore/internal/repository"
)

type shipmentRepo struct {
	db *gorm.DB
}

func (r *shipmentRepo) Create(ctx context.Context, shipment *domain.Shipment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(shipment).Error)
}

func (r *shipmentRepo) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	return findOne[domain.Shipment](r.db.WithContext(ctx), "id = ?", id)
}

func (r *shipmentRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Shipment, error) {
	return findOne[domain.Shipment](r.db.WithContext(ctx), "order_id = ?", orderID)
}

func (r *shipmentRepo) List(ctx context.Context, filter repository.ShipmentFilter) ([]domain.Shipment, error) {
	q := r.db.WithContext(ctx).Model(&domain.Shipment{})
	if filter.UserID != "" {
		q = q.Joins("JOIN orders ON orders.id = shipments.order_id AND orders.deleted_at IS NULL").
			Where("orders.user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("shipments.status = ?", filter.Status)
	}

	var out []domain.Shipment
	err := q.Order("shipments.created_at DESC").Find(&out).Error
	return out, err
}

func (r *shipmentRepo) Update(ctx context.Context, shipment *domain.Shipment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(shipment).Error)
}

func (r *shipmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Shipment{}, "id = ?", id).Error
}
