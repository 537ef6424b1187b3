package pricing

import (
	"github.com/shopspring/decimal"

	"printstore/internal/domain"
)

// moneyPlaces matches the decimal(14,2) columns the amounts are stored in.
const moneyPlaces = 2

var one = decimal.NewFromInt(1)

// VariantPrice resolves the unit price of a printable variant.
//
// A product without a flat base price is priced purely per volume when the
// material carries a per-mm3 rate and the variant has a volume. Otherwise the
// base price is scaled by the variant/print-file volume ratio and the material
// price factor; missing inputs fall back to a ratio and factor of 1.
func VariantPrice(basePrice decimal.Decimal, variantVolume, printFileVolume, priceFactor, pricePerMm3 *float64) decimal.Decimal {
	if basePrice.IsZero() && nonZero(pricePerMm3) && nonZero(variantVolume) {
		return decimal.NewFromFloat(*pricePerMm3).
			Mul(decimal.NewFromFloat(*variantVolume)).
			Round(moneyPlaces)
	}

	ratio := one
	if nonZero(variantVolume) && nonZero(printFileVolume) {
		ratio = decimal.NewFromFloat(*variantVolume).Div(decimal.NewFromFloat(*printFileVolume))
	}

	factor := one
	if priceFactor != nil {
		factor = decimal.NewFromFloat(*priceFactor)
	}

	return basePrice.Mul(ratio).Mul(factor).Round(moneyPlaces)
}

// PriceVariant applies VariantPrice to a loaded catalog variant. Cart, order
// and catalog quoting all go through here.
func PriceVariant(v domain.Variant) decimal.Decimal {
	var printFileVolume *float64
	if v.Product.PrintFile != nil {
		printFileVolume = v.Product.PrintFile.Volume
	}
	return VariantPrice(
		v.Product.BasePrice,
		v.Volume,
		printFileVolume,
		v.Material.PriceFactor,
		v.Material.PricePerMm3,
	)
}

func nonZero(v *float64) bool {
	return v != nil && *v != 0
}
