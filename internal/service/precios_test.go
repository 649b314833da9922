package service_test

import (
	"math"
	"testing"

	"tresetapas/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecioFinal_AplicaMargenSobrePrecio(t *testing.T) {
	cases := []struct {
		costo  int64
		margen float64
		want   int64
	}{
		{20000, 30, 28571},
		{10000, 50, 20000},
		{7000, 12.5, 8000},
		{1, 99, 100},
	}
	for _, tc := range cases {
		got := service.PrecioFinal(dec(tc.costo), tc.margen)
		assert.True(t, got.Equal(dec(tc.want)), "costo=%d margen=%v: got %s", tc.costo, tc.margen, got)
	}
}

func TestPrecioFinal_MargenInvalidoVendeAlCosto(t *testing.T) {
	costo := dec(15000)
	for _, m := range []float64{0, -5, 100, 150, math.NaN(), math.Inf(1), math.Inf(-1)} {
		got := service.PrecioFinal(costo, m)
		assert.True(t, got.Equal(costo), "margen=%v: got %s", m, got)
	}
}

func TestPrecioFinal_NuncaMenorQueCosto(t *testing.T) {
	for _, c := range []int64{1, 3, 99, 1234, 50000, 999999} {
		for _, m := range []float64{0.5, 1, 10, 33.3, 50, 75, 98.9} {
			got := service.PrecioFinal(dec(c), m)
			assert.True(t, got.GreaterThanOrEqual(dec(c)), "costo=%d margen=%v: got %s", c, m, got)
		}
	}
	for _, c := range []string{"1.4", "2.6", "99.49", "1234.5", "0.3"} {
		costo := decimal.RequireFromString(c)
		for _, m := range []float64{0.5, 1, 10, 33.3} {
			got := service.PrecioFinal(costo, m)
			assert.True(t, got.GreaterThanOrEqual(costo), "costo=%s margen=%v: got %s", c, m, got)
			assert.True(t, got.Equal(got.Round(0)), "costo=%s margen=%v: got %s", c, m, got)
		}
	}
	assert.Equal(t, "2", service.PrecioFinal(decimal.RequireFromString("1.4"), 0.5).String())
}

func TestAplicarMargen_Estricto(t *testing.T) {
	_, err := service.AplicarMargen(decimal.Zero, 30)
	assert.ErrorIs(t, err, service.ErrCostoInvalido)

	_, err = service.AplicarMargen(dec(-100), 30)
	assert.ErrorIs(t, err, service.ErrCostoInvalido)

	for _, m := range []float64{0, 100, 120, math.NaN()} {
		_, err = service.AplicarMargen(dec(1000), m)
		assert.ErrorIs(t, err, service.ErrMargenInvalido, "margen=%v", m)
	}

	got, err := service.AplicarMargen(dec(20000), 30)
	require.NoError(t, err)
	assert.Equal(t, "28571", got.String())
}

func TestAplicarMargen_MinimoUnPeso(t *testing.T) {
	got, err := service.AplicarMargen(decimal.RequireFromString("0.2"), 10)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec(1)))
}

func TestEstimarCosto(t *testing.T) {
	assert.Equal(t, "7000", service.EstimarCosto(dec(10000), decimal.RequireFromString("0.3")).String())
	assert.Equal(t, "20000", service.EstimarCosto(dec(28571), decimal.RequireFromString("0.3")).String())
	assert.True(t, service.MargenFraccion(30).Equal(decimal.RequireFromString("0.3")))
}
