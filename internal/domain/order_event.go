package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated          = "order.created"
	EventOrderStatusChanged    = "order.status_changed"
	EventOrderTotalsRecomputed = "order.totals_recalculated"
	EventPaymentPaid           = "payment.paid"
)

type OrderCreatedEvent struct {
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	ItemCount   int             `json:"itemCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID    string      `json:"orderId"`
	From       OrderStatus `json:"from"`
	To         OrderStatus `json:"to"`
	Cause      string      `json:"cause"`
	OccurredAt time.Time   `json:"occurredAt"`
}

type OrderTotalsRecomputedEvent struct {
	OrderID        string          `json:"orderId"`
	SubTotal       decimal.Decimal `json:"subTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Version        int64           `json:"version"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

type PaymentPaidEvent struct {
	PaymentID     string          `json:"paymentId"`
	OrderID       string          `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
}
