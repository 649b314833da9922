package carrito

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id uuid.UUID, precio int64, cantidad int) Item {
	return Item{ProductoID: id, Nombre: "Martillo", PrecioUnitario: decimal.NewFromInt(precio), Cantidad: cantidad}
}

func TestAgregar_MergesSameProduct(t *testing.T) {
	a := uuid.New()
	c := Nuevo("x")
	c.Agregar(item(a, 10000, 1))
	c.Agregar(item(a, 12000, 2))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Cantidad)
	assert.True(t, c.Items[0].PrecioUnitario.Equal(decimal.NewFromInt(12000)))
}

func TestAgregar_IgnoresNonPositive(t *testing.T) {
	c := Nuevo("x")
	c.Agregar(item(uuid.New(), 1000, 0))
	assert.Empty(t, c.Items)
}

func TestActualizarCantidad_ZeroRemoves(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	c := Nuevo("x")
	c.Agregar(item(a, 1000, 1))
	c.Agregar(item(b, 2000, 1))

	c.ActualizarCantidad(a, 5)
	c.ActualizarCantidad(b, 0)

	require.Len(t, c.Items, 1)
	assert.Equal(t, a, c.Items[0].ProductoID)
	assert.Equal(t, 5, c.Items[0].Cantidad)
}

func TestTotales(t *testing.T) {
	c := Nuevo("x")
	c.Agregar(item(uuid.New(), 15000, 2))
	c.Agregar(item(uuid.New(), 2500, 4))

	assert.Equal(t, 6, c.CantidadItems())
	assert.True(t, c.Total().Equal(decimal.NewFromInt(40000)))

	c.Vaciar()
	assert.Zero(t, c.CantidadItems())
	assert.True(t, c.Total().IsZero())
}

func TestMemoryStore_RoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	c := Nuevo("abc")
	c.Agregar(item(uuid.New(), 1000, 3))
	require.NoError(t, s.Set(ctx, c))

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, got.CantidadItems())

	require.NoError(t, s.Delete(ctx, "abc"))
	got, err = s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestMemoryStore_CorruptDataLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cases := map[string][]byte{
		"json":     []byte("{not json"),
		"cantidad": []byte(`{"items":[{"producto_id":"` + uuid.NewString() + `","cantidad":-2}]}`),
		"producto": []byte(`{"items":[{"cantidad":1}]}`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			s.SetRaw(name, raw)
			got, err := s.Get(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, name, got.ID)
			assert.Empty(t, got.Items)
		})
	}
}
