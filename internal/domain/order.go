package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is the aggregate root for checkout. The five monetary fields are
// always written together by the total engine.
type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;type:char(36)"`
	UserID         string          `json:"userId" gorm:"type:char(36);not null;index"`
	AddressID      string          `json:"addressId" gorm:"type:char(36);not null"`
	Status         OrderStatus     `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	SubTotal       decimal.Decimal `json:"subTotal" gorm:"type:decimal(14,2);not null;default:0"`
	ShippingFee    decimal.Decimal `json:"shippingFee" gorm:"type:decimal(14,2);not null;default:0"`
	TaxAmount      decimal.Decimal `json:"taxAmount" gorm:"type:decimal(14,2);not null;default:0"`
	DiscountAmount decimal.Decimal `json:"discountAmount" gorm:"type:decimal(14,2);not null;default:0"`
	TotalAmount    decimal.Decimal `json:"totalAmount" gorm:"type:decimal(14,2);not null;default:0"`
	VoucherID      *string         `json:"voucherId" gorm:"type:char(36);index"`
	Version        int64           `json:"version" gorm:"not null;default:1"`
	CreatedAt      time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`

	Items    []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment  *Payment    `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
	Shipment *Shipment   `json:"shipment,omitempty" gorm:"foreignKey:OrderID"`
	Voucher  *Voucher    `json:"voucher,omitempty" gorm:"foreignKey:VoucherID;constraint:OnDelete:SET NULL"`
}

// OrderItem keeps the unit price that was quoted when the line was added.
// It is never re-derived from the catalog afterwards.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:char(36)"`
	OrderID   string          `json:"orderId" gorm:"type:char(36);not null;index"`
	VariantID string          `json:"variantId" gorm:"type:char(36);not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// LineTotal is quantity * price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
