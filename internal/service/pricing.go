package service

import (
	"storefront-api/internal/config"
	"storefront-api/internal/model"

	"github.com/shopspring/decimal"
)

type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	ShippingCents int64
	TotalCents    int64
}

// ComputeTotals prices a set of cart items: subtotal is the sum of unit price
// times quantity, tax is the configured flat rate rounded half-up to the
// nearest cent, shipping is a flat configured amount.
func ComputeTotals(items []model.CartItem, pricing *config.Pricing) Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.PriceCents * item.Quantity
	}

	tax := decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt(pricing.TaxRateBps)).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()

	shipping := pricing.ShippingCents

	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		ShippingCents: shipping,
		TotalCents:    subtotal + tax + shipping,
	}
}

// Display formats minor units as a major-unit string, e.g. 2750 -> "27.50".
func Display(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// CentsFromMajor converts a catalog price like 10.99 to 1099 without float
// drift.
func CentsFromMajor(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
