package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"tresetapas/internal/dto"
	"tresetapas/internal/infra"
	"tresetapas/internal/metrics"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GeneradorCodigos issues the public code of a new order.
type GeneradorCodigos interface {
	Nuevo() string
}

// Notificador receives events after they are committed. Implementations queue
// the work; a failure never undoes the event.
type Notificador interface {
	NotificarPedido(ctx context.Context, p *model.Pedido) error
	NotificarConsulta(ctx context.Context, c *model.Consulta) error
}

type PedidoService interface {
	// CrearPedido places a storefront order.
	CrearPedido(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	// RegistrarVentaMostrador records a counter sale typed in by staff.
	RegistrarVentaMostrador(ctx context.Context, usuarioID uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.PedidoResponse, error)
	ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.PedidoResponse, error)
	ContarPendientes(ctx context.Context) (int64, error)
	ExportarXLSX(ctx context.Context, estado string, w io.Writer) error
	Recibo(ctx context.Context, id uuid.UUID, w io.Writer) (*model.Pedido, error)
}

type pedidoService struct {
	repo        repository.PedidoRepository
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
	codigos     GeneradorCodigos
	notificador Notificador
	tienda      string
	now         func() time.Time
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productos repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	codigos GeneradorCodigos,
	notificador Notificador,
	tienda string,
) PedidoService {
	return &pedidoService{
		repo:        repo,
		productos:   productos,
		movimientos: movimientos,
		codigos:     codigos,
		notificador: notificador,
		tienda:      tienda,
		now:         time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Captura ───────────────────────────────────────────────────────────────────
// One transaction per order:
//   1. For each line: load the product, snapshot price/cost/margin
//   2. Guarded stock decrement; a line that does not fit aborts everything
//   3. Insert the order with its lines, then one stock movement per line
//   4. COMMIT
//   5. (async) receipt + staff notification, best-effort

func (s *pedidoService) CrearPedido(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	return s.crear(ctx, model.OrigenWeb, nil, req)
}

func (s *pedidoService) RegistrarVentaMostrador(ctx context.Context, usuarioID uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	return s.crear(ctx, model.OrigenMostrador, &usuarioID, req)
}

type lineaSolicitada struct {
	productoID uuid.UUID
	cantidad   int
}

func (s *pedidoService) crear(ctx context.Context, origen string, usuarioID *uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	lineas, err := agruparLineas(req.Items)
	if err != nil {
		metrics.PedidosRechazados.WithLabelValues("invalido").Inc()
		return nil, err
	}
	if req.MetodoPago == model.MetodoContraentrega && !datosContraentrega(req.Cliente) {
		metrics.PedidosRechazados.WithLabelValues("contraentrega").Inc()
		return nil, ErrDatosContraentrega
	}

	pedido := model.Pedido{
		ID:               uuid.New(),
		Codigo:           s.codigos.Nuevo(),
		Fecha:            s.now().UTC(),
		Estado:           model.EstadoSolicitado,
		MetodoPago:       req.MetodoPago,
		Origen:           origen,
		ClienteNombre:    limpiar(req.Cliente.Nombre),
		ClienteDireccion: limpiar(req.Cliente.Direccion),
		ClienteTelefono:  limpiar(req.Cliente.Telefono),
		ClienteEmail:     limpiar(req.Cliente.Email),
		UsuarioID:        usuarioID,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		movs := make([]model.MovimientoStock, 0, len(lineas))
		total := decimal.Zero

		for _, l := range lineas {
			p, err := s.productos.FindByIDTx(tx, l.productoID)
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !p.Activo) {
				return fmt.Errorf("%w: %s", ErrProductoNoEncontrado, l.productoID)
			}
			if err != nil {
				return err
			}

			ok, err := s.productos.UpdateStockTx(tx, p.ID, -l.cantidad)
			if err != nil {
				return fmt.Errorf("error descontando stock de %s: %w", p.Nombre, err)
			}
			if !ok {
				return fmt.Errorf("%w: %s (disponible %d, solicitado %d)", ErrSinStock, p.Nombre, p.StockActual, l.cantidad)
			}

			item := CapturarLinea(p, l.cantidad)
			item.PedidoID = pedido.ID
			pedido.Items = append(pedido.Items, item)
			total = total.Add(item.Subtotal())

			movs = append(movs, model.MovimientoStock{
				ProductoID:    p.ID,
				Tipo:          model.MovimientoPedido,
				Cantidad:      -l.cantidad,
				StockAnterior: p.StockActual,
				StockNuevo:    p.StockActual - l.cantidad,
				Motivo:        "Pedido " + pedido.Codigo,
				ReferenciaID:  &pedido.ID,
			})
		}

		pedido.Total = total
		if err := s.repo.CreateTx(tx, &pedido); err != nil {
			return err
		}
		for i := range movs {
			if err := s.movimientos.CreateTx(tx, &movs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, ErrSinStock):
			metrics.PedidosRechazados.WithLabelValues("sin_stock").Inc()
		case errors.Is(txErr, ErrProductoNoEncontrado):
			metrics.PedidosRechazados.WithLabelValues("producto").Inc()
		}
		return nil, txErr
	}

	metrics.PedidosCreados.WithLabelValues(origen).Inc()
	log.Info().
		Str("codigo", pedido.Codigo).
		Str("origen", origen).
		Str("total", pedido.Total.StringFixed(0)).
		Int("items", pedido.CantidadItems()).
		Msg("pedido creado")

	if s.notificador != nil {
		if err := s.notificador.NotificarPedido(ctx, &pedido); err != nil {
			log.Warn().Err(err).Str("codigo", pedido.Codigo).Msg("no se pudo encolar la notificación del pedido")
		}
	}

	resp := pedidoToResponse(&pedido)
	return &resp, nil
}

// CapturarLinea builds the order line for cantidad units of p, freezing the
// product's current price, cost and margin. A product without a base cost but
// with a margin gets its cost back-derived from the price; the line is then
// flagged as estimated.
func CapturarLinea(p *model.Producto, cantidad int) model.PedidoItem {
	item := model.PedidoItem{
		ProductoID:     p.ID,
		ProductoNombre: p.Nombre,
		Cantidad:       cantidad,
		PrecioUnitario: p.PrecioVenta,
	}
	if p.Margen != nil {
		m := *p.Margen
		item.MargenUnitario = &m
	}
	switch {
	case p.PrecioBase != nil:
		c := *p.PrecioBase
		item.CostoUnitario = &c
	case p.Margen != nil && p.PrecioVenta.IsPositive():
		c := EstimarCosto(p.PrecioVenta, *p.Margen)
		item.CostoUnitario = &c
		item.CostoEstimado = true
	}
	return item
}

// agruparLineas merges repeated products into one line, keeping the order in
// which each product first appears.
func agruparLineas(items []dto.LineaPedidoRequest) ([]lineaSolicitada, error) {
	if len(items) == 0 {
		return nil, ErrPedidoVacio
	}
	idx := make(map[uuid.UUID]int, len(items))
	out := make([]lineaSolicitada, 0, len(items))
	for _, it := range items {
		id, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, it.ProductoID)
		}
		if it.Cantidad <= 0 {
			return nil, ErrCantidadInvalida
		}
		if i, ok := idx[id]; ok {
			out[i].cantidad += it.Cantidad
			continue
		}
		idx[id] = len(out)
		out = append(out, lineaSolicitada{productoID: id, cantidad: it.Cantidad})
	}
	return out, nil
}

func datosContraentrega(c dto.ClienteRequest) bool {
	return limpiar(c.Nombre) != nil && limpiar(c.Direccion) != nil && limpiar(c.Telefono) != nil
}

// limpiar trims s and maps blank strings to nil.
func limpiar(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// ── Administración ────────────────────────────────────────────────────────────

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	filter.Page, filter.Limit = paginar(filter.Page, filter.Limit, 20)
	pedidos, total, err := s.repo.Paginate(ctx, repository.PedidoQuery{
		Estado: filter.Estado,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, len(pedidos))
	for i := range pedidos {
		data[i] = pedidoToResponse(&pedidos[i])
	}
	return &dto.PedidoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := pedidoToResponse(p)
	return &resp, nil
}

func (s *pedidoService) ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.PedidoResponse, error) {
	p, err := s.repo.FindByCodigo(ctx, strings.ToUpper(strings.TrimSpace(codigo)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPedidoNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	resp := pedidoToResponse(p)
	return &resp, nil
}

// ActualizarEstado moves an order forward in the workflow. Going back or
// staying put is rejected, as is a change that lost a race with another one.
func (s *pedidoService) ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.PedidoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	destino := model.OrdenEstado(estado)
	if destino < 0 || destino <= model.OrdenEstado(p.Estado) {
		return nil, fmt.Errorf("%w: %s → %s", ErrTransicionInvalida, p.Estado, estado)
	}
	ok, err := s.repo.CambiarEstado(ctx, id, p.Estado, estado)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: el pedido cambió de estado", ErrTransicionInvalida)
	}
	log.Info().Str("codigo", p.Codigo).Str("desde", p.Estado).Str("hacia", estado).Msg("estado de pedido actualizado")
	p.Estado = estado
	resp := pedidoToResponse(p)
	return &resp, nil
}

func (s *pedidoService) ContarPendientes(ctx context.Context) (int64, error) {
	return s.repo.CountByEstado(ctx, model.EstadoSolicitado)
}

func (s *pedidoService) ExportarXLSX(ctx context.Context, estado string, w io.Writer) error {
	if estado != "" && model.OrdenEstado(estado) < 0 {
		return fmt.Errorf("estado desconocido: %s", estado)
	}
	pedidos, err := s.repo.List(ctx, repository.PedidoQuery{Estado: estado})
	if err != nil {
		return err
	}
	return infra.ExportarPedidosXLSX(w, pedidos, estado)
}

// Recibo writes the PDF receipt of an order to w.
func (s *pedidoService) Recibo(ctx context.Context, id uuid.UUID, w io.Writer) (*model.Pedido, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := infra.RenderReciboPDF(w, p, s.tienda); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pedidoService) buscar(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPedidoNoEncontrado
	}
	return p, err
}

func pedidoToResponse(p *model.Pedido) dto.PedidoResponse {
	items := make([]dto.PedidoItemResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = dto.PedidoItemResponse{
			ProductoID:     it.ProductoID.String(),
			ProductoNombre: it.ProductoNombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal(),
		}
	}
	return dto.PedidoResponse{
		ID:         p.ID.String(),
		Codigo:     p.Codigo,
		Fecha:      p.Fecha,
		Estado:     p.Estado,
		Total:      p.Total,
		MetodoPago: p.MetodoPago,
		Origen:     p.Origen,
		Cliente: dto.ClienteResponse{
			Nombre:    p.ClienteNombre,
			Direccion: p.ClienteDireccion,
			Telefono:  p.ClienteTelefono,
			Email:     p.ClienteEmail,
		},
		CantidadItems: p.CantidadItems(),
		Items:         items,
	}
}
