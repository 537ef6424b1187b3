package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printstore/internal/domain"
	"printstore/internal/repository"
)

type paymentRepo struct {
	db *gorm.DB
}

func (r *paymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(payment).Error)
}

func (r *paymentRepo) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	return findOne[domain.Payment](r.db.WithContext(ctx), "id = ?", id)
}

func (r *paymentRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	return findOne[domain.Payment](r.db.WithContext(ctx), "order_id = ?", orderID)
}

func (r *paymentRepo) List(ctx context.Context, filter repository.PaymentFilter) ([]domain.Payment, error) {
	q := r.db.WithContext(ctx).Model(&domain.Payment{})
	if filter.UserID != "" {
		q = q.Joins("JOIN orders ON orders.id = payments.order_id AND orders.deleted_at IS NULL").
			Where("orders.user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("payments.status = ?", filter.Status)
	}
	if filter.Method != "" {
		q = q.Where("payments.method = ?", filter.Method)
	}

	var out []domain.Payment
	err := q.Order("payments.created_at DESC").Find(&out).Error
	return out, err
}

func (r *paymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(payment).Error)
}

func (r *paymentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Payment{}, "id = ?", id).Error
}
