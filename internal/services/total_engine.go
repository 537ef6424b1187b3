package services

import (
	"context"

	"printstore/internal/domain"
	"printstore/internal/pricing"
	"printstore/internal/repository"
)

type voucherAction int

const (
	voucherKeep voucherAction = iota
	voucherClear
	voucherApply
)

// VoucherChange describes what an update does to the order's voucher.
// The zero value keeps whatever is attached.
type VoucherChange struct {
	action voucherAction
	code   string
}

func KeepVoucher() VoucherChange { return VoucherChange{} }

func ClearVoucher() VoucherChange { return VoucherChange{action: voucherClear} }

func ApplyVoucher(code string) VoucherChange {
	return VoucherChange{action: voucherApply, code: code}
}

// VoucherFromCode maps an optional checkout code to a change.
func VoucherFromCode(code *string) VoucherChange {
	if code == nil || *code == "" {
		return KeepVoucher()
	}
	return ApplyVoucher(*code)
}

func (c VoucherChange) IsKeep() bool { return c.action == voucherKeep }

// OrderTotalEngine derives the five monetary fields of an order from its
// current lines and voucher.
type OrderTotalEngine struct {
	policy   pricing.Policy
	vouchers *VoucherResolver
}

func NewOrderTotalEngine(policy pricing.Policy, vouchers *VoucherResolver) *OrderTotalEngine {
	return &OrderTotalEngine{policy: policy, vouchers: vouchers}
}

func (e *OrderTotalEngine) Policy() pricing.Policy {
	return e.policy
}

// Apply sets the order totals for items. A kept voucher keeps its frozen
// discount while the discount base is unchanged and is re-validated by id
// otherwise.
func (e *OrderTotalEngine) Apply(ctx context.Context, vouchers repository.VoucherRepository, order *domain.Order, items []domain.OrderItem, change VoucherChange) error {
	previous := pricing.FromOrder(*order)
	totals := e.policy.Price(items)
	base := e.policy.Discountable(totals)

	voucherID := order.VoucherID
	discount := totals.DiscountAmount

	switch change.action {
	case voucherClear:
		voucherID = nil
	case voucherApply:
		applied, err := e.vouchers.ByCode(ctx, vouchers, change.code, base)
		if err != nil {
			return err
		}
		voucherID = &applied.VoucherID
		discount = applied.DiscountAmount
	default:
		if voucherID == nil {
			break
		}
		if base.Equal(e.policy.Discountable(previous)) {
			discount = order.DiscountAmount
			break
		}
		applied, err := e.vouchers.ByID(ctx, vouchers, *voucherID, base)
		if err != nil {
			return err
		}
		discount = applied.DiscountAmount
	}

	totals = totals.WithDiscount(discount)
	totals.ApplyTo(order)
	if !change.IsKeep() {
		order.Voucher = nil
	}
	order.VoucherID = voucherID
	order.Items = items
	return nil
}

// Recompute re-reads the order lines inside tx, applies the totals, resyncs
// an unpaid payment and writes the order with its version check.
func (e *OrderTotalEngine) Recompute(ctx context.Context, tx repository.Store, order *domain.Order, change VoucherChange) error {
	items, err := tx.OrderItems().ListByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	if err := e.Apply(ctx, tx.Vouchers(), order, items, change); err != nil {
		return err
	}
	if err := syncPaymentAmount(ctx, tx.Payments(), order); err != nil {
		return err
	}
	return tx.Orders().Save(ctx, order)
}
