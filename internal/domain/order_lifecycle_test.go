package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusAfterPayment(t *testing.T) {
	tests := []struct {
		name        string
		current     OrderStatus
		payment     PaymentStatus
		expected    OrderStatus
		expectedHit bool
	}{
		{name: "paid promotes pending", current: StatusPending, payment: PaymentPaid, expected: StatusConfirmed, expectedHit: true},
		{name: "paid on confirmed is a no-op", current: StatusConfirmed, payment: PaymentPaid, expected: StatusConfirmed},
		{name: "paid on shipped is a no-op", current: StatusShipped, payment: PaymentPaid, expected: StatusShipped},
		{name: "paid on delivered is a no-op", current: StatusDelivered, payment: PaymentPaid, expected: StatusDelivered},
		{name: "paid on cancelled is a no-op", current: StatusCancelled, payment: PaymentPaid, expected: StatusCancelled},
		{name: "failed payment keeps pending", current: StatusPending, payment: PaymentFailed, expected: StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := StatusAfterPayment(tt.current, tt.payment)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expectedHit, changed)
		})
	}
}

func TestStatusAfterShipment(t *testing.T) {
	tests := []struct {
		name        string
		current     OrderStatus
		shipment    ShipmentStatus
		expected    OrderStatus
		expectedHit bool
	}{
		{name: "in transit ships", current: StatusConfirmed, shipment: ShipmentInTransit, expected: StatusShipped, expectedHit: true},
		{name: "delivered delivers", current: StatusShipped, shipment: ShipmentDelivered, expected: StatusDelivered, expectedHit: true},
		{name: "returned cancels", current: StatusShipped, shipment: ShipmentReturned, expected: StatusCancelled, expectedHit: true},
		{name: "preparing leaves order alone", current: StatusConfirmed, shipment: ShipmentPreparing, expected: StatusConfirmed},
		{name: "already shipped", current: StatusShipped, shipment: ShipmentInTransit, expected: StatusShipped},
		{name: "terminal order is frozen", current: StatusDelivered, shipment: ShipmentReturned, expected: StatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := StatusAfterShipment(tt.current, tt.shipment)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expectedHit, changed)
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusConfirmed, StatusShipped))
	assert.True(t, CanTransition(StatusShipped, StatusDelivered))
	assert.True(t, CanTransition(StatusShipped, StatusCancelled))
	assert.True(t, CanTransition(StatusDelivered, StatusDelivered))

	assert.False(t, CanTransition(StatusPending, StatusDelivered))
	assert.False(t, CanTransition(StatusConfirmed, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
	assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
	assert.False(t, CanTransition(StatusPending, OrderStatus("LOST")))
}

func TestVoucherUsable(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.True(t, Voucher{IsActive: true, ExpiresAt: now.Add(time.Second)}.Usable(now))
	assert.False(t, Voucher{IsActive: true, ExpiresAt: now}.Usable(now))
	assert.False(t, Voucher{IsActive: false, ExpiresAt: now.Add(time.Hour)}.Usable(now))
}
