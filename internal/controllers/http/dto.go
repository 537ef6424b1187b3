package http

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"printstore/internal/domain"
	"printstore/internal/services"
)

// OptionalString distinguishes an absent field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// VoucherChange maps the field onto the order voucher: absent keeps it,
// null or "" clears it, anything else applies that code.
func (o OptionalString) VoucherChange() services.VoucherChange {
	switch {
	case !o.Set:
		return services.KeepVoucher()
	case o.Value == nil || *o.Value == "":
		return services.ClearVoucher()
	}
	return services.ApplyVoucher(*o.Value)
}

type ItemRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type PaymentRequest struct {
	Method        *domain.PaymentMethod `json:"method"`
	Status        *domain.PaymentStatus `json:"status"`
	Amount        *decimal.Decimal      `json:"amount"`
	TransactionID *string               `json:"transactionId"`
}

func (r PaymentRequest) toInput() services.PaymentInput {
	return services.PaymentInput{
		Method:        r.Method,
		Status:        r.Status,
		Amount:        r.Amount,
		TransactionID: r.TransactionID,
	}
}

type ShipmentRequest struct {
	Carrier     *string                `json:"carrier"`
	TrackingNo  *string                `json:"trackingNo"`
	Status      *domain.ShipmentStatus `json:"status"`
	ShippedAt   *time.Time             `json:"shippedAt"`
	DeliveredAt *time.Time             `json:"deliveredAt"`
}

func (r ShipmentRequest) toInput() services.ShipmentInput {
	return services.ShipmentInput{
		Carrier:     r.Carrier,
		TrackingNo:  r.TrackingNo,
		Status:      r.Status,
		ShippedAt:   r.ShippedAt,
		DeliveredAt: r.DeliveredAt,
	}
}

func toItemInputs(items []ItemRequest) []services.ItemInput {
	if items == nil {
		return nil
	}
	out := make([]services.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, services.ItemInput{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return out
}

type CreateOrderRequest struct {
	UserID      string           `json:"userId"`
	AddressID   string           `json:"addressId" binding:"required"`
	Items       []ItemRequest    `json:"items" binding:"required,min=1,dive"`
	VoucherCode *string          `json:"voucherCode"`
	Payment     *PaymentRequest  `json:"payment"`
	Shipment    *ShipmentRequest `json:"shipment"`
}

func (r CreateOrderRequest) toInput() services.CreateOrderInput {
	in := services.CreateOrderInput{
		UserID:      r.UserID,
		AddressID:   r.AddressID,
		Items:       toItemInputs(r.Items),
		VoucherCode: r.VoucherCode,
	}
	if r.Payment != nil {
		p := r.Payment.toInput()
		in.Payment = &p
	}
	if r.Shipment != nil {
		s := r.Shipment.toInput()
		in.Shipment = &s
	}
	return in
}

type UpdateOrderRequest struct {
	AddressID   *string             `json:"addressId"`
	Status      *domain.OrderStatus `json:"status"`
	Items       []ItemRequest       `json:"items" binding:"omitempty,dive"`
	VoucherCode OptionalString      `json:"voucherCode"`
	Payment     *PaymentRequest     `json:"payment"`
	Shipment    *ShipmentRequest    `json:"shipment"`
}

func (r UpdateOrderRequest) toInput() services.UpdateOrderInput {
	in := services.UpdateOrderInput{
		AddressID: r.AddressID,
		Status:    r.Status,
		Items:     toItemInputs(r.Items),
		Voucher:   r.VoucherCode.VoucherChange(),
	}
	if r.Payment != nil {
		p := r.Payment.toInput()
		in.Payment = &p
	}
	if r.Shipment != nil {
		s := r.Shipment.toInput()
		in.Shipment = &s
	}
	return in
}

type CreateOrderItemRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateOrderItemRequest struct {
	VariantID *string `json:"variantId"`
	Quantity  *int    `json:"quantity" binding:"omitempty,min=1"`
}

type AddCartItemRequest struct {
	VariantID string  `json:"variantId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Note      *string `json:"note" binding:"omitempty,max=500"`
}

type UpdateCartItemRequest struct {
	Quantity *int    `json:"quantity" binding:"omitempty,min=1"`
	Note     *string `json:"note" binding:"omitempty,max=500"`
}

type CreatePaymentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	PaymentRequest
}

type CreateShipmentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	ShipmentRequest
}

type CreateVoucherRequest struct {
	Code      string    `json:"code" binding:"required,max=50"`
	Discount  float64   `json:"discount" binding:"min=0,max=1"`
	ExpiresAt time.Time `json:"expiresAt" binding:"required"`
	IsActive  *bool     `json:"isActive"`
}

type UpdateVoucherRequest struct {
	Code      *string    `json:"code" binding:"omitempty,max=50"`
	Discount  *float64   `json:"discount" binding:"omitempty,min=0,max=1"`
	ExpiresAt *time.Time `json:"expiresAt"`
	IsActive  *bool      `json:"isActive"`
}

type VNPayURLResponse struct {
	PaymentURL string `json:"paymentUrl"`
}
