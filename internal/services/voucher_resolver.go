package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"printstore/internal/domain"
	"printstore/internal/pricing"
	"printstore/internal/repository"
)

type AppliedVoucher struct {
	VoucherID      string
	Code           string
	DiscountAmount decimal.Decimal
}

// VoucherResolver validates a voucher and prices its discount. It never
// writes the voucher row.
type VoucherResolver struct {
	now func() time.Time
}

func NewVoucherResolver() *VoucherResolver {
	return &VoucherResolver{now: time.Now}
}

// ByCode is used at checkout.
func (r *VoucherResolver) ByCode(ctx context.Context, vouchers repository.VoucherRepository, code string, base decimal.Decimal) (AppliedVoucher, error) {
	v, err := vouchers.FindByCode(ctx, code)
	if err != nil {
		return AppliedVoucher{}, err
	}
	return r.apply(v, base)
}

// ByID re-validates a voucher already attached to an order.
func (r *VoucherResolver) ByID(ctx context.Context, vouchers repository.VoucherRepository, id string, base decimal.Decimal) (AppliedVoucher, error) {
	v, err := vouchers.FindByID(ctx, id)
	if err != nil {
		return AppliedVoucher{}, err
	}
	return r.apply(v, base)
}

func (r *VoucherResolver) apply(v *domain.Voucher, base decimal.Decimal) (AppliedVoucher, error) {
	if v == nil {
		return AppliedVoucher{}, ErrVoucherNotFound
	}
	if err := r.check(*v); err != nil {
		return AppliedVoucher{}, err
	}
	return AppliedVoucher{
		VoucherID:      v.ID,
		Code:           v.Code,
		DiscountAmount: pricing.Discount(base, v.Discount),
	}, nil
}

func (r *VoucherResolver) check(v domain.Voucher) error {
	if !v.IsActive {
		return ErrVoucherInactive
	}
	if !v.Usable(r.now()) {
		return ErrVoucherExpired
	}
	return nil
}
