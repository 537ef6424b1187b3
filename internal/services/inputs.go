package services

import (
	"time"

	"github.com/shopspring/decimal"

	"printstore/internal/domain"
)

type ItemInput struct {
	VariantID string
	Quantity  int
}

// PaymentInput carries the writable payment fields. Nil fields are left
// untouched on update and defaulted on create.
type PaymentInput struct {
	Method        *domain.PaymentMethod
	Status        *domain.PaymentStatus
	Amount        *decimal.Decimal
	TransactionID *string
}

type ShipmentInput struct {
	Carrier     *string
	TrackingNo  *string
	Status      *domain.ShipmentStatus
	ShippedAt   *time.Time
	DeliveredAt *time.Time
}

type CreateOrderInput struct {
	// UserID lets an admin check out on behalf of a user. Empty means the
	// caller.
	UserID      string
	AddressID   string
	Items       []ItemInput
	VoucherCode *string
	Payment     *PaymentInput
	Shipment    *ShipmentInput
}

type UpdateOrderInput struct {
	AddressID *string
	Status    *domain.OrderStatus
	// Items replaces every line when non-nil.
	Items    []ItemInput
	Voucher  VoucherChange
	Payment  *PaymentInput
	Shipment *ShipmentInput
}

func (in UpdateOrderInput) touchesRecords() bool {
	return in.AddressID != nil || in.Items != nil || !in.Voucher.IsKeep() || in.Payment != nil || in.Shipment != nil
}

type OrderListFilter struct {
	UserID string
	Status domain.OrderStatus
}

type CreateOrderItemInput struct {
	OrderID   string
	VariantID string
	Quantity  int
}

type UpdateOrderItemInput struct {
	VariantID *string
	Quantity  *int
}

type CreatePaymentInput struct {
	OrderID string
	PaymentInput
}

type CreateShipmentInput struct {
	OrderID string
	ShipmentInput
}

type CreateVoucherInput struct {
	Code      string
	Discount  float64
	ExpiresAt time.Time
	IsActive  *bool
}

type UpdateVoucherInput struct {
	Code      *string
	Discount  *float64
	ExpiresAt *time.Time
	IsActive  *bool
}

type AddCartItemInput struct {
	VariantID string
	Quantity  int
	Note      *string
}

type UpdateCartItemInput struct {
	Quantity *int
	Note     *string
}
