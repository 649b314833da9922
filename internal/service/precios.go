package service

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	uno  = decimal.NewFromInt(1)
	cien = decimal.NewFromInt(100)
)

// PrecioFinal returns the selling price that leaves margenPct percent of the
// price as profit: costo / (1 - margenPct/100), rounded to the nearest peso
// and never below 1.
//
// A percentage outside (0, 100), NaN or infinite means "no markup": the
// product sells at cost and costo is returned unchanged.
func PrecioFinal(costo decimal.Decimal, margenPct float64) decimal.Decimal {
	final, err := AplicarMargen(costo, margenPct)
	if err != nil {
		return costo
	}
	return final
}

// AplicarMargen is the strict form of PrecioFinal: it rejects the inputs
// instead of falling back to the cost.
func AplicarMargen(costo decimal.Decimal, margenPct float64) (decimal.Decimal, error) {
	if !costo.IsPositive() {
		return decimal.Zero, ErrCostoInvalido
	}
	if !MargenPctValido(margenPct) {
		return decimal.Zero, ErrMargenInvalido
	}
	divisor := uno.Sub(decimal.NewFromFloat(margenPct).Div(cien))
	if !divisor.IsPositive() {
		return decimal.Zero, ErrMargenInvalido
	}
	final := costo.Div(divisor).Round(0)
	// a fractional cost can round below itself
	if final.LessThan(costo) {
		final = costo.Ceil()
	}
	if final.LessThan(uno) {
		final = uno
	}
	return final, nil
}

// MargenPctValido reports whether pct is a usable markup percentage.
func MargenPctValido(pct float64) bool {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return false
	}
	return pct > 0 && pct < 100
}

// EstimarCosto approximates a unit cost from a selling price and a margin
// fraction: round(precio × (1 − margen)). The result is an estimate and must
// never replace a captured cost.
func EstimarCosto(precio, margen decimal.Decimal) decimal.Decimal {
	return precio.Mul(uno.Sub(margen)).Round(0)
}

// MargenFraccion converts a percentage (30) into the stored fraction (0.3).
func MargenFraccion(pct float64) decimal.Decimal {
	return decimal.NewFromFloat(pct).Div(cien)
}
