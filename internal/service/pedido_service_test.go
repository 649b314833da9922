package service_test

import (
	"context"
	"errors"
	"testing"

	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"
	"tresetapas/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pedidoFixture struct {
	*seed
	svc         service.PedidoService
	notificador *notificadorFake
}

func newPedidoFixture(t *testing.T) *pedidoFixture {
	db := newTestDB(t)
	notif := &notificadorFake{}
	svc := service.NewPedidoService(
		repository.NewPedidoRepository(db),
		repository.NewProductoRepository(db),
		repository.NewMovimientoStockRepository(db),
		&codigosSecuenciales{},
		notif,
		"Ferretería de prueba",
	)
	return &pedidoFixture{seed: newSeed(t, db), svc: svc, notificador: notif}
}

func pedir(metodo string, lineas ...dto.LineaPedidoRequest) dto.CrearPedidoRequest {
	return dto.CrearPedidoRequest{Items: lineas, MetodoPago: metodo}
}

func lineaDe(p *model.Producto, n int) dto.LineaPedidoRequest {
	return dto.LineaPedidoRequest{ProductoID: p.ID.String(), Cantidad: n}
}

// ── Captura ───────────────────────────────────────────────────────────────────

func TestCrearPedido_DescuentaStockYCapturaPrecios(t *testing.T) {
	f := newPedidoFixture(t)
	martillo := f.producto("Martillo", 28571, decPtr(dec(20000)), decPtr(decimal.RequireFromString("0.3")), 10)

	resp, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoNequi, lineaDe(martillo, 2)))
	require.NoError(t, err)

	assert.Equal(t, model.EstadoSolicitado, resp.Estado)
	assert.Equal(t, model.OrigenWeb, resp.Origen)
	assert.Equal(t, "57142", resp.Total.String())
	assert.Equal(t, 2, resp.CantidadItems)
	assert.Equal(t, 8, f.stock(martillo.ID))

	var items []model.PedidoItem
	require.NoError(t, f.db.Find(&items).Error)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].CostoUnitario)
	assert.True(t, items[0].CostoUnitario.Equal(dec(20000)))
	assert.False(t, items[0].CostoEstimado)
	require.NotNil(t, items[0].MargenUnitario)
	assert.True(t, items[0].MargenUnitario.Equal(decimal.RequireFromString("0.3")))

	assert.Equal(t, []string{resp.Codigo}, f.notificador.pedidos)
}

func TestCrearPedido_SinStockNoModificaNada(t *testing.T) {
	f := newPedidoFixture(t)
	taladro := f.producto("Taladro 18V", 350000, decPtr(dec(250000)), nil, 3)

	_, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(taladro, 5)))

	require.ErrorIs(t, err, service.ErrSinStock)
	assert.Contains(t, err.Error(), "Taladro 18V")
	assert.Equal(t, 3, f.stock(taladro.ID))
	assert.Zero(t, f.count(&model.Pedido{}))
	assert.Zero(t, f.count(&model.PedidoItem{}))
	assert.Zero(t, f.count(&model.MovimientoStock{}))
	assert.Empty(t, f.notificador.pedidos)
}

func TestCrearPedido_UnaLineaSinStockRevierteLasDemas(t *testing.T) {
	f := newPedidoFixture(t)
	brocha := f.producto("Brocha", 9000, decPtr(dec(6000)), nil, 10)
	rodillo := f.producto("Rodillo", 15000, decPtr(dec(11000)), nil, 1)

	_, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo,
		lineaDe(brocha, 4), lineaDe(rodillo, 2)))

	require.ErrorIs(t, err, service.ErrSinStock)
	assert.Equal(t, 10, f.stock(brocha.ID))
	assert.Equal(t, 1, f.stock(rodillo.ID))
	assert.Zero(t, f.count(&model.Pedido{}))
}

func TestCrearPedido_AgotaStockExacto(t *testing.T) {
	f := newPedidoFixture(t)
	llave := f.producto("Llave inglesa", 30000, nil, nil, 3)

	_, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoTarjeta, lineaDe(llave, 3)))
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(llave.ID))

	_, err = f.svc.CrearPedido(context.Background(), pedir(model.MetodoTarjeta, lineaDe(llave, 1)))
	assert.ErrorIs(t, err, service.ErrSinStock)
}

func TestCrearPedido_AgrupaLineasRepetidas(t *testing.T) {
	f := newPedidoFixture(t)
	tornillo := f.producto("Tornillo", 200, nil, nil, 100)

	resp, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo,
		lineaDe(tornillo, 2), lineaDe(tornillo, 3)))
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Cantidad)
	assert.Equal(t, 95, f.stock(tornillo.ID))
	assert.Equal(t, int64(1), f.count(&model.MovimientoStock{}))
}

func TestCrearPedido_RegistraMovimientos(t *testing.T) {
	f := newPedidoFixture(t)
	cable := f.producto("Cable 12AWG", 4500, nil, nil, 40)

	resp, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(cable, 15)))
	require.NoError(t, err)

	var movs []model.MovimientoStock
	require.NoError(t, f.db.Find(&movs).Error)
	require.Len(t, movs, 1)
	assert.Equal(t, model.MovimientoPedido, movs[0].Tipo)
	assert.Equal(t, -15, movs[0].Cantidad)
	assert.Equal(t, 40, movs[0].StockAnterior)
	assert.Equal(t, 25, movs[0].StockNuevo)
	require.NotNil(t, movs[0].ReferenciaID)
	assert.Equal(t, resp.ID, movs[0].ReferenciaID.String())
}

func TestCrearPedido_EstimaCostoSinPrecioBase(t *testing.T) {
	f := newPedidoFixture(t)
	pintura := f.producto("Pintura galón", 10000, nil, decPtr(decimal.RequireFromString("0.3")), 5)

	_, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(pintura, 1)))
	require.NoError(t, err)

	var item model.PedidoItem
	require.NoError(t, f.db.First(&item).Error)
	require.NotNil(t, item.CostoUnitario)
	assert.True(t, item.CostoUnitario.Equal(dec(7000)))
	assert.True(t, item.CostoEstimado)
}

func TestCrearPedido_CambiosDeProductoNoAlteranPedidos(t *testing.T) {
	f := newPedidoFixture(t)
	sierra := f.producto("Sierra", 40000, decPtr(dec(30000)), nil, 5)

	resp, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(sierra, 1)))
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&model.Producto{}).Where("id = ?", sierra.ID).
		Updates(map[string]any{"precio_venta": dec(99999), "precio_base": dec(1)}).Error)

	id := uuid.MustParse(resp.ID)
	got, err := f.svc.ObtenerPorID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(dec(40000)))
	assert.True(t, got.Items[0].PrecioUnitario.Equal(dec(40000)))

	var item model.PedidoItem
	require.NoError(t, f.db.First(&item, "pedido_id = ?", id).Error)
	assert.True(t, item.CostoUnitario.Equal(dec(30000)))
}

func TestCrearPedido_ContraentregaRequiereDatos(t *testing.T) {
	f := newPedidoFixture(t)
	cemento := f.producto("Cemento 50kg", 32000, nil, nil, 20)

	req := pedir(model.MetodoContraentrega, lineaDe(cemento, 1))
	req.Cliente = dto.ClienteRequest{Nombre: strPtr("Ana"), Telefono: strPtr("3001234567"), Direccion: strPtr("   ")}
	_, err := f.svc.CrearPedido(context.Background(), req)
	require.ErrorIs(t, err, service.ErrDatosContraentrega)
	assert.Equal(t, 20, f.stock(cemento.ID))

	req.Cliente.Direccion = strPtr("Calle 10 # 4-21")
	resp, err := f.svc.CrearPedido(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Cliente.Direccion)
	assert.Equal(t, "Calle 10 # 4-21", *resp.Cliente.Direccion)
}

func TestCrearPedido_Rechazos(t *testing.T) {
	f := newPedidoFixture(t)
	inactivo := f.producto("Descontinuado", 1000, nil, nil, 10)
	require.NoError(t, f.db.Model(inactivo).Update("activo", false).Error)

	_, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo))
	assert.ErrorIs(t, err, service.ErrPedidoVacio)

	_, err = f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(inactivo, 1)))
	assert.ErrorIs(t, err, service.ErrProductoNoEncontrado)

	_, err = f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo,
		dto.LineaPedidoRequest{ProductoID: uuid.NewString(), Cantidad: 1}))
	assert.ErrorIs(t, err, service.ErrProductoNoEncontrado)

	_, err = f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(inactivo, 0)))
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)
}

func TestCrearPedido_FalloDeNotificacionNoAfectaPedido(t *testing.T) {
	f := newPedidoFixture(t)
	f.notificador.err = errors.New("redis caído")
	clavo := f.producto("Clavo", 100, nil, nil, 50)

	resp, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(clavo, 10)))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Codigo)
	assert.Equal(t, int64(1), f.count(&model.Pedido{}))
}

func TestRegistrarVentaMostrador(t *testing.T) {
	f := newPedidoFixture(t)
	cinta := f.producto("Cinta aislante", 3500, nil, nil, 8)
	vendedor := uuid.New()

	resp, err := f.svc.RegistrarVentaMostrador(context.Background(), vendedor, pedir(model.MetodoEfectivo, lineaDe(cinta, 2)))
	require.NoError(t, err)
	assert.Equal(t, model.OrigenMostrador, resp.Origen)

	var p model.Pedido
	require.NoError(t, f.db.First(&p).Error)
	require.NotNil(t, p.UsuarioID)
	assert.Equal(t, vendedor, *p.UsuarioID)
}

// ── Estados ───────────────────────────────────────────────────────────────────

func TestActualizarEstado_SoloAvanza(t *testing.T) {
	f := newPedidoFixture(t)
	nivel := f.producto("Nivel", 25000, nil, nil, 5)
	resp, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(nivel, 1)))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	_, err = f.svc.ActualizarEstado(context.Background(), id, model.EstadoSolicitado)
	assert.ErrorIs(t, err, service.ErrTransicionInvalida)

	got, err := f.svc.ActualizarEstado(context.Background(), id, model.EstadoEnProceso)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEnProceso, got.Estado)

	_, err = f.svc.ActualizarEstado(context.Background(), id, model.EstadoSolicitado)
	assert.ErrorIs(t, err, service.ErrTransicionInvalida)

	_, err = f.svc.ActualizarEstado(context.Background(), id, "cancelado")
	assert.ErrorIs(t, err, service.ErrTransicionInvalida)

	got, err = f.svc.ActualizarEstado(context.Background(), id, model.EstadoEntregado)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEntregado, got.Estado)

	_, err = f.svc.ActualizarEstado(context.Background(), uuid.New(), model.EstadoEntregado)
	assert.ErrorIs(t, err, service.ErrPedidoNoEncontrado)
}

func TestObtenerPorCodigo_NormalizaCodigo(t *testing.T) {
	f := newPedidoFixture(t)
	balde := f.producto("Balde", 8000, nil, nil, 5)
	resp, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(balde, 1)))
	require.NoError(t, err)

	got, err := f.svc.ObtenerPorCodigo(context.Background(), "  "+resp.Codigo+" ")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	_, err = f.svc.ObtenerPorCodigo(context.Background(), "NOEXISTE")
	assert.ErrorIs(t, err, service.ErrPedidoNoEncontrado)
}

func TestListarYContarPendientes(t *testing.T) {
	f := newPedidoFixture(t)
	lija := f.producto("Lija", 1200, nil, nil, 100)
	for i := 0; i < 3; i++ {
		_, err := f.svc.CrearPedido(context.Background(), pedir(model.MetodoEfectivo, lineaDe(lija, 1)))
		require.NoError(t, err)
	}

	n, err := f.svc.ContarPendientes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	page, err := f.svc.Listar(context.Background(), dto.PedidoFilter{Estado: model.EstadoSolicitado, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.TotalPages)

	defecto, err := f.svc.Listar(context.Background(), dto.PedidoFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, defecto.Page)
	assert.Equal(t, 20, defecto.Limit)
	assert.Len(t, defecto.Data, 3)
}

func TestCapturarLinea_SinDatosDeCosto(t *testing.T) {
	p := &model.Producto{ID: uuid.New(), Nombre: "Manguera", PrecioVenta: dec(45000)}
	item := service.CapturarLinea(p, 2)
	assert.Nil(t, item.CostoUnitario)
	assert.Nil(t, item.MargenUnitario)
	assert.False(t, item.CostoEstimado)
	assert.True(t, item.Subtotal().Equal(dec(90000)))
}
