package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"printstore/internal/domain"
)

type DiscountBase string

const (
	// DiscountOnTaxBase applies voucher rates to subtotal + shipping.
	DiscountOnTaxBase DiscountBase = "TAX_BASE"
	// DiscountOnSubTotal applies voucher rates to the item subtotal only.
	DiscountOnSubTotal DiscountBase = "SUBTOTAL"
)

// Policy holds the pricing constants used to build order totals.
type Policy struct {
	FlatShippingFee decimal.Decimal
	TaxRate         decimal.Decimal
	DiscountBase    DiscountBase
}

func DefaultPolicy() Policy {
	return Policy{
		FlatShippingFee: decimal.NewFromInt(50_000),
		TaxRate:         decimal.RequireFromString("0.06"),
		DiscountBase:    DiscountOnTaxBase,
	}
}

func (p Policy) Validate() error {
	if p.FlatShippingFee.IsNegative() {
		return fmt.Errorf("pricing: flat shipping fee must not be negative, got %s", p.FlatShippingFee)
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(one) {
		return fmt.Errorf("pricing: tax rate must be within [0,1], got %s", p.TaxRate)
	}
	switch p.DiscountBase {
	case DiscountOnTaxBase, DiscountOnSubTotal:
	default:
		return fmt.Errorf("pricing: unknown discount base %q", p.DiscountBase)
	}
	return nil
}

type Totals struct {
	SubTotal       decimal.Decimal `json:"subTotal"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// Price computes the undiscounted totals of the given lines using their
// frozen unit prices.
func (p Policy) Price(items []domain.OrderItem) Totals {
	subTotal := decimal.Zero
	for _, item := range items {
		subTotal = subTotal.Add(item.LineTotal())
	}

	shipping := decimal.Zero
	if subTotal.IsPositive() {
		shipping = p.FlatShippingFee
	}

	taxBase := subTotal.Add(shipping)
	t := Totals{
		SubTotal:    subTotal,
		ShippingFee: shipping,
		TaxAmount:   taxBase.Mul(p.TaxRate).Round(0),
	}
	return t.WithDiscount(decimal.Zero)
}

// Discountable returns the amount a voucher rate is applied to.
func (p Policy) Discountable(t Totals) decimal.Decimal {
	if p.DiscountBase == DiscountOnSubTotal {
		return t.SubTotal
	}
	return t.TaxBase()
}

func (t Totals) TaxBase() decimal.Decimal {
	return t.SubTotal.Add(t.ShippingFee)
}

// WithDiscount sets the discount and recomputes the total, floored at zero.
func (t Totals) WithDiscount(discount decimal.Decimal) Totals {
	t.DiscountAmount = discount
	total := t.TaxBase().Add(t.TaxAmount).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	t.TotalAmount = total
	return t
}

// ApplyTo copies the totals onto the order.
func (t Totals) ApplyTo(o *domain.Order) {
	o.SubTotal = t.SubTotal
	o.ShippingFee = t.ShippingFee
	o.TaxAmount = t.TaxAmount
	o.DiscountAmount = t.DiscountAmount
	o.TotalAmount = t.TotalAmount
}

// FromOrder reads the persisted totals of an order.
func FromOrder(o domain.Order) Totals {
	return Totals{
		SubTotal:       o.SubTotal,
		ShippingFee:    o.ShippingFee,
		TaxAmount:      o.TaxAmount,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
	}
}

// ClampRate forces a stored voucher rate into [0,1].
func ClampRate(rate float64) decimal.Decimal {
	switch {
	case math.IsNaN(rate), rate < 0:
		return decimal.Zero
	case rate > 1:
		return one
	}
	return decimal.NewFromFloat(rate)
}

// Discount is base * clamp(rate), rounded to cents.
func Discount(base decimal.Decimal, rate float64) decimal.Decimal {
	return base.Mul(ClampRate(rate)).Round(moneyPlaces)
}

func (t Totals) Equal(o Totals) bool {
	return t.SubTotal.Equal(o.SubTotal) &&
		t.ShippingFee.Equal(o.ShippingFee) &&
		t.TaxAmount.Equal(o.TaxAmount) &&
		t.DiscountAmount.Equal(o.DiscountAmount) &&
		t.TotalAmount.Equal(o.TotalAmount)
}
