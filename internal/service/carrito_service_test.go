package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"tresetapas/internal/carrito"
	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"
	"tresetapas/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type carritoFixture struct {
	*seed
	store     *carrito.MemoryStore
	svc       service.CarritoService
	productos repository.ProductoRepository
	pedidos   service.PedidoService
}

func newCarritoFixture(t *testing.T) *carritoFixture {
	db := newTestDB(t)
	productos := repository.NewProductoRepository(db)
	pedidos := service.NewPedidoService(
		repository.NewPedidoRepository(db),
		productos,
		repository.NewMovimientoStockRepository(db),
		&codigosSecuenciales{},
		nil,
		"Ferretería de prueba",
	)
	store := carrito.NewMemoryStore()
	return &carritoFixture{
		seed:      newSeed(t, db),
		store:     store,
		svc:       service.NewCarritoService(store, productos, pedidos),
		productos: productos,
		pedidos:   pedidos,
	}
}

const carritoID = "0b6f2a4e-6c1d-4a5e-9b7a-3f2d1c0e9a88"

func TestCarrito_AgregarRespetaStock(t *testing.T) {
	f := newCarritoFixture(t)
	p := f.producto("Silicona", 9000, nil, nil, 5)

	resp, err := f.svc.Agregar(context.Background(), carritoID, dto.AgregarCarritoRequest{ProductoID: p.ID.String(), Cantidad: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.CantidadItems)
	assert.True(t, resp.Total.Equal(dec(27000)))

	_, err = f.svc.Agregar(context.Background(), carritoID, dto.AgregarCarritoRequest{ProductoID: p.ID.String(), Cantidad: 3})
	assert.ErrorIs(t, err, service.ErrSinStock)

	resp, err = f.svc.Agregar(context.Background(), carritoID, dto.AgregarCarritoRequest{ProductoID: p.ID.String(), Cantidad: 2})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Cantidad)
}

func TestCarrito_ActualizarYQuitar(t *testing.T) {
	f := newCarritoFixture(t)
	a := f.producto("Tubo PVC", 12000, nil, nil, 50)
	b := f.producto("Codo PVC", 1500, nil, nil, 50)
	for _, p := range []*model.Producto{a, b} {
		_, err := f.svc.Agregar(context.Background(), carritoID, dto.AgregarCarritoRequest{ProductoID: p.ID.String(), Cantidad: 2})
		require.NoError(t, err)
	}

	resp, err := f.svc.ActualizarCantidad(context.Background(), carritoID, a.ID, 4)
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec(4*12000+2*1500)))

	resp, err = f.svc.ActualizarCantidad(context.Background(), carritoID, b.ID, 0)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	resp, err = f.svc.Quitar(context.Background(), carritoID, a.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.Total.IsZero())
}

func TestCarrito_CheckoutCreaPedidoYVacia(t *testing.T) {
	f := newCarritoFixture(t)
	p := f.producto("Pegante", 6000, decPtr(dec(4000)), nil, 10)
	_, err := f.svc.Agregar(context.Background(), carritoID, dto.AgregarCarritoRequest{ProductoID: p.ID.String(), Cantidad: 4})
	require.NoError(t, err)

	pedido, err := f.svc.Checkout(context.Background(), carritoID, dto.CheckoutRequest{MetodoPago: model.MetodoDaviplata})
	require.NoError(t, err)
	assert.True(t, pedido.Total.Equal(dec(24000)))
	assert.Equal(t, 6, f.stock(p.ID))

	vacio, err := f.svc.Obtener(context.Background(), carritoID)
	require.NoError(t, err)
	assert.Empty(t, vacio.Items)
}

func TestCarrito_CheckoutFallidoConservaCarrito(t *testing.T) {
	f := newCarritoFixture(t)
	p := f.producto("Thinner", 11000, nil, nil, 4)
	_, err := f.svc.Agregar(context.Background(), carritoID, dto.AgregarCarritoRequest{ProductoID: p.ID.String(), Cantidad: 4})
	require.NoError(t, err)

	// Someone else buys the stock first.
	require.NoError(t, f.db.Model(&model.Producto{}).Where("id = ?", p.ID).Update("stock_actual", 1).Error)

	_, err = f.svc.Checkout(context.Background(), carritoID, dto.CheckoutRequest{MetodoPago: model.MetodoEfectivo})
	require.ErrorIs(t, err, service.ErrSinStock)

	c, err := f.svc.Obtener(context.Background(), carritoID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Cantidad)

	_, err = f.svc.Checkout(context.Background(), "otro-carrito", dto.CheckoutRequest{MetodoPago: model.MetodoEfectivo})
	assert.ErrorIs(t, err, service.ErrPedidoVacio)
}

func TestCarrito_ActualizarCantidadRespetaStock(t *testing.T) {
	f := newCarritoFixture(t)
	p := f.producto("Cinta aislante", 3000, nil, nil, 5)
	_, err := f.svc.Agregar(context.Background(), carritoID, dto.AgregarCarritoRequest{ProductoID: p.ID.String(), Cantidad: 2})
	require.NoError(t, err)

	_, err = f.svc.ActualizarCantidad(context.Background(), carritoID, p.ID, 6)
	assert.ErrorIs(t, err, service.ErrSinStock)

	c, err := f.svc.Obtener(context.Background(), carritoID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Cantidad)

	resp, err := f.svc.ActualizarCantidad(context.Background(), carritoID, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Items[0].Cantidad)
}

func TestCarrito_ActualizarCantidadProductoInactivo(t *testing.T) {
	f := newCarritoFixture(t)
	p := f.producto("Lija 120", 800, nil, nil, 30)
	_, err := f.svc.Agregar(context.Background(), carritoID, dto.AgregarCarritoRequest{ProductoID: p.ID.String(), Cantidad: 2})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&model.Producto{}).Where("id = ?", p.ID).Update("activo", false).Error)

	_, err = f.svc.ActualizarCantidad(context.Background(), carritoID, p.ID, 3)
	assert.ErrorIs(t, err, service.ErrProductoNoEncontrado)

	// Dropping the line needs no stock lookup.
	resp, err := f.svc.ActualizarCantidad(context.Background(), carritoID, p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

// storeSinBorrado fails every Delete.
type storeSinBorrado struct{ *carrito.MemoryStore }

func (storeSinBorrado) Delete(context.Context, string) error {
	return errors.New("redis: connection refused")
}

func TestCarrito_CheckoutRegistraFalloAlVaciar(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	f := newCarritoFixture(t)
	svc := service.NewCarritoService(storeSinBorrado{f.store}, f.productos, f.pedidos)
	p := f.producto("Masilla", 7000, nil, nil, 10)
	_, err := svc.Agregar(context.Background(), carritoID, dto.AgregarCarritoRequest{ProductoID: p.ID.String(), Cantidad: 1})
	require.NoError(t, err)

	pedido, err := svc.Checkout(context.Background(), carritoID, dto.CheckoutRequest{MetodoPago: model.MetodoEfectivo})
	require.NoError(t, err)
	assert.NotEmpty(t, pedido.Codigo)
	assert.Equal(t, 9, f.stock(p.ID))

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, pedido.Codigo)
}
