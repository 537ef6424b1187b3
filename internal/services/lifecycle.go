package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printstore/internal/domain"
	"printstore/internal/pricing"
	"printstore/internal/repository"
)

// priceLine snapshots the current variant price for a new order line.
func priceLine(ctx context.Context, variants repository.VariantRepository, orderID string, in ItemInput) (domain.OrderItem, error) {
	if in.Quantity < 1 {
		return domain.OrderItem{}, ErrInvalidQuantity
	}
	v, err := loadVariant(ctx, variants, in.VariantID, in.Quantity)
	if err != nil {
		return domain.OrderItem{}, err
	}
	// v7 ids sort in creation order.
	id, err := uuid.NewV7()
	if err != nil {
		return domain.OrderItem{}, err
	}
	return domain.OrderItem{
		ID:        id.String(),
		OrderID:   orderID,
		VariantID: v.ID,
		Quantity:  in.Quantity,
		Price:     pricing.PriceVariant(*v),
	}, nil
}

func loadVariant(ctx context.Context, variants repository.VariantRepository, id string, quantity int) (*domain.Variant, error) {
	v, err := variants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVariantNotFound
	}
	if quantity > v.Stock {
		return nil, ErrStockExceeded
	}
	return v, nil
}

func validatePaymentInput(in PaymentInput) error {
	if in.Method != nil && !in.Method.Valid() {
		return invalid("unknown payment method %q", *in.Method)
	}
	if in.Status != nil && !in.Status.Valid() {
		return invalid("unknown payment status %q", *in.Status)
	}
	if in.Amount != nil && in.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// newPayment builds the payment for an order. A missing amount defaults to
// the order total.
func newPayment(orderID string, in PaymentInput, total decimal.Decimal, now time.Time) (*domain.Payment, error) {
	if err := validatePaymentInput(in); err != nil {
		return nil, err
	}
	if in.Method == nil {
		return nil, invalid("payment method is required")
	}

	p := &domain.Payment{
		ID:            uuid.NewString(),
		OrderID:       orderID,
		Method:        *in.Method,
		Status:        domain.PaymentUnpaid,
		Amount:        total,
		TransactionID: in.TransactionID,
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if p.Status == domain.PaymentPaid {
		p.PaidAt = &now
	}
	return p, nil
}

func patchPayment(p *domain.Payment, in PaymentInput, now time.Time) error {
	if err := validatePaymentInput(in); err != nil {
		return err
	}
	if p.Status == domain.PaymentPaid && in.Status != nil && *in.Status != domain.PaymentPaid {
		return ErrPaymentSettled
	}

	if in.Method != nil {
		p.Method = *in.Method
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.TransactionID != nil {
		p.TransactionID = in.TransactionID
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if p.Status == domain.PaymentPaid && p.PaidAt == nil {
		p.PaidAt = &now
	}
	return nil
}

func validateShipmentInput(in ShipmentInput) error {
	if in.Status != nil && !in.Status.Valid() {
		return invalid("unknown shipment status %q", *in.Status)
	}
	if in.ShippedAt != nil && in.DeliveredAt != nil && in.DeliveredAt.Before(*in.ShippedAt) {
		return invalid("deliveredAt must not be before shippedAt")
	}
	return nil
}

func newShipment(orderID string, in ShipmentInput, now time.Time) (*domain.Shipment, error) {
	if err := validateShipmentInput(in); err != nil {
		return nil, err
	}
	s := &domain.Shipment{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		Carrier:     in.Carrier,
		TrackingNo:  in.TrackingNo,
		Status:      domain.ShipmentPreparing,
		ShippedAt:   in.ShippedAt,
		DeliveredAt: in.DeliveredAt,
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
	stampShipment(s, now)
	return s, nil
}

func patchShipment(s *domain.Shipment, in ShipmentInput, now time.Time) error {
	if err := validateShipmentInput(in); err != nil {
		return err
	}
	if in.Carrier != nil {
		s.Carrier = in.Carrier
	}
	if in.TrackingNo != nil {
		s.TrackingNo = in.TrackingNo
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
	if in.ShippedAt != nil {
		s.ShippedAt = in.ShippedAt
	}
	if in.DeliveredAt != nil {
		s.DeliveredAt = in.DeliveredAt
	}
	stampShipment(s, now)
	return nil
}

// stampShipment fills the movement timestamps implied by the status.
func stampShipment(s *domain.Shipment, now time.Time) {
	switch s.Status {
	case domain.ShipmentInTransit:
		if s.ShippedAt == nil {
			s.ShippedAt = &now
		}
	case domain.ShipmentDelivered:
		if s.ShippedAt == nil {
			s.ShippedAt = &now
		}
		if s.DeliveredAt == nil {
			s.DeliveredAt = &now
		}
	}
}

func advanceOnPayment(order *domain.Order, status domain.PaymentStatus, box *outbox, now time.Time) bool {
	next, changed := domain.StatusAfterPayment(order.Status, status)
	if !changed {
		return false
	}
	box.statusChanged(order.ID, order.Status, next, "payment", now)
	order.Status = next
	return true
}

func advanceOnShipment(order *domain.Order, status domain.ShipmentStatus, box *outbox, now time.Time) bool {
	next, changed := domain.StatusAfterShipment(order.Status, status)
	if !changed {
		return false
	}
	box.statusChanged(order.ID, order.Status, next, "shipment", now)
	order.Status = next
	return true
}

// syncPaymentAmount keeps an unsettled payment charging the current order
// total. Paid, failed and refunded payments keep their amount.
func syncPaymentAmount(ctx context.Context, payments repository.PaymentRepository, order *domain.Order) error {
	p := order.Payment
	if p == nil || p.Amount.Equal(order.TotalAmount) {
		return nil
	}
	if p.Status != domain.PaymentUnpaid && p.Status != domain.PaymentPending {
		return nil
	}
	p.Amount = order.TotalAmount
	return payments.Update(ctx, p)
}
