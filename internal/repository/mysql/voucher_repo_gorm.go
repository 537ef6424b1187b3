package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"printstore/internal/domain"
	"printstore/internal/repository"
)

type voucherRepo struct {
	db *gorm.DB
}

func (r *voucherRepo) Create(ctx context.Context, voucher *domain.Voucher) error {
	// Select keeps an explicit IsActive=false from being replaced by the
	// column default.
	return translate(r.db.WithContext(ctx).Select("*").Create(voucher).Error)
}

func (r *voucherRepo) FindByID(ctx context.Context, id string) (*domain.Voucher, error) {
	return findOne[domain.Voucher](r.db.WithContext(ctx), "id = ?", id)
}

func (r *voucherRepo) FindByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	return findOne[domain.Voucher](r.db.WithContext(ctx), "code = ?", code)
}

func (r *voucherRepo) List(ctx context.Context, filter repository.VoucherFilter) ([]domain.Voucher, error) {
	now := time.Now()
	q := r.db.WithContext(ctx)
	if filter.Active != nil && !*filter.Active {
		q = q.Where("is_active = ?", false)
	} else {
		q = q.Where("is_active = ? AND expires_at > ?", true, now)
	}

	var out []domain.Voucher
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *voucherRepo) Update(ctx context.Context, voucher *domain.Voucher) error {
	return translate(r.db.WithContext(ctx).Save(voucher).Error)
}

func (r *voucherRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Voucher{}, "id = ?", id).Error
}
