package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCOD          PaymentMethod = "COD"
	MethodVNPay        PaymentMethod = "VNPAY"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodBankTransfer, MethodCOD, MethodVNPay:
		return true
	}
	return false
}

type Payment struct {
	ID            string          `json:"id" gorm:"primaryKey;type:char(36)"`
	OrderID       string          `json:"orderId" gorm:"type:char(36);not null;uniqueIndex"`
	Method        PaymentMethod   `json:"method" gorm:"type:varchar(20);not null"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(16);not null;default:'UNPAID';index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	TransactionID *string         `json:"transactionId" gorm:"type:varchar(64);index"`
	PaidAt        *time.Time      `json:"paidAt"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`

	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}
