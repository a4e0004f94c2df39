package services

import (
	"math"

	"github.com/shopspring/decimal"
)

// Precision of the two numeric families. Quantities and currency are kept in
// separately named fields and are never compared with each other.
const (
	QuantityPlaces int32 = 3
	CurrencyPlaces int32 = 2
)

// RoundQuantity rounds a measured quantity to 3 decimals.
func RoundQuantity(v float64) float64 {
	return roundPlaces(v, QuantityPlaces)
}

// RoundCurrency rounds a rupee amount to 2 decimals.
func RoundCurrency(v float64) float64 {
	return roundPlaces(v, CurrencyPlaces)
}

// RoundRupee rounds to the nearest whole rupee, half away from zero.
func RoundRupee(v float64) float64 {
	return roundPlaces(v, 0)
}

// isFinite reports whether v can be represented as a decimal.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// The helpers below pass NaN and infinities through unchanged instead of
// handing them to decimal, which panics on them. Callers validate first.

func roundPlaces(v float64, places int32) float64 {
	if !isFinite(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// mulCurrency multiplies a quantity by a rate in decimal space and rounds the
// product to currency precision, avoiding float drift on values like 0.1*3.
func mulCurrency(qty, rate float64) float64 {
	if !isFinite(qty) || !isFinite(rate) {
		return qty * rate
	}
	f, _ := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(rate)).Round(CurrencyPlaces).Float64()
	return f
}

// percentOf returns base*percent/100 rounded to the given places.
func percentOf(base, percent float64, places int32) float64 {
	if !isFinite(base) || !isFinite(percent) {
		return base * percent / 100
	}
	f, _ := decimal.NewFromFloat(base).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(places).
		Float64()
	return f
}

// sumPlaces adds values in decimal space and rounds the result.
func sumPlaces(values []float64, places int32) float64 {
	total := decimal.Zero
	for _, v := range values {
		if !isFinite(v) {
			return v
		}
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(places).Float64()
	return f
}
