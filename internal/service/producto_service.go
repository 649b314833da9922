package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const catalogoCacheTTL = 4 * time.Hour

func catalogoCacheKey(id uuid.UUID) string { return "catalogo:producto:" + id.String() }

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
	CalcularPrecio(req dto.CalcularPrecioRequest) dto.CalcularPrecioResponse
	HistorialPrecios(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error)

	// Public storefront views. Cost data never leaves through these.
	Catalogo(ctx context.Context, filter dto.ProductoFilter) (*dto.CatalogoListResponse, error)
	CatalogoProducto(ctx context.Context, id uuid.UUID) (*dto.CatalogoProductoResponse, error)
}

type productoService struct {
	repo        repository.ProductoRepository
	categorias  repository.CategoriaRepository
	movimientos repository.MovimientoStockRepository
	historial   repository.HistorialPrecioRepository
	rdb         *redis.Client
}

func NewProductoService(
	repo repository.ProductoRepository,
	categorias repository.CategoriaRepository,
	movimientos repository.MovimientoStockRepository,
	historial repository.HistorialPrecioRepository,
	rdb *redis.Client,
) ProductoService {
	return &productoService{
		repo:        repo,
		categorias:  categorias,
		movimientos: movimientos,
		historial:   historial,
		rdb:         rdb,
	}
}

// ── Precio ────────────────────────────────────────────────────────────────────

// precioProducto resolves what a product stores given its cost, markup and an
// explicit selling price:
//   - cost and markup: price derived with AplicarMargen (strict)
//   - cost only: sells at cost unless an explicit price is given
//   - no cost: the explicit price is required
func precioProducto(base *decimal.Decimal, margenPct *float64, precio *decimal.Decimal) (decimal.Decimal, *decimal.Decimal, error) {
	var margen *decimal.Decimal
	if margenPct != nil {
		if !MargenPctValido(*margenPct) {
			return decimal.Zero, nil, ErrMargenInvalido
		}
		m := MargenFraccion(*margenPct)
		margen = &m
	}
	switch {
	case base != nil && margen != nil:
		final, err := AplicarMargen(*base, *margenPct)
		return final, margen, err
	case base != nil:
		if !base.IsPositive() {
			return decimal.Zero, nil, ErrCostoInvalido
		}
		if precio != nil && precio.IsPositive() {
			return *precio, nil, nil
		}
		return *base, nil, nil
	case precio != nil && precio.IsPositive():
		return *precio, margen, nil
	default:
		return decimal.Zero, nil, fmt.Errorf("%w: indique precio_base o precio_venta", ErrCostoInvalido)
	}
}

func (s *productoService) CalcularPrecio(req dto.CalcularPrecioRequest) dto.CalcularPrecioResponse {
	return dto.CalcularPrecioResponse{
		PrecioBase:  req.PrecioBase,
		MargenPct:   req.MargenPct,
		PrecioVenta: PrecioFinal(req.PrecioBase, req.MargenPct),
		SinMargen:   !MargenPctValido(req.MargenPct),
	}
}

// ── CRUD ──────────────────────────────────────────────────────────────────────

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	categoriaID, ubicacionID, err := s.resolverUbicacion(ctx, req.CategoriaID, req.UbicacionID)
	if err != nil {
		return nil, err
	}
	precio, margen, err := precioProducto(req.PrecioBase, req.MargenPct, req.PrecioVenta)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		PrecioVenta: precio,
		PrecioBase:  req.PrecioBase,
		Margen:      margen,
		StockActual: req.StockActual,
		StockMinimo: req.StockMinimo,
		CategoriaID: categoriaID,
		UbicacionID: ubicacionID,
		ImagenURL:   req.ImagenURL,
		ImagenHint:  req.ImagenHint,
		Activo:      true,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		if p.StockActual == 0 {
			return nil
		}
		return s.movimientos.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    p.ID,
			Tipo:          model.MovimientoAlta,
			Cantidad:      p.StockActual,
			StockAnterior: 0,
			StockNuevo:    p.StockActual,
			Motivo:        "Stock inicial",
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("producto", p.Nombre).Str("precio", p.PrecioVenta.StringFixed(0)).Msg("producto creado")
	return s.ObtenerPorID(ctx, p.ID)
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	filter.Page, filter.Limit = paginar(filter.Page, filter.Limit, 20)
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = productoToResponse(&productos[i])
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

// Actualizar applies a partial edit. When cost, markup or price change the
// selling price is recomputed and the change is written to the price history
// in the same transaction.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	antes := *p

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = *req.Descripcion
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.ImagenURL != nil {
		p.ImagenURL = req.ImagenURL
	}
	if req.ImagenHint != nil {
		p.ImagenHint = req.ImagenHint
	}
	if req.CategoriaID != nil || req.UbicacionID != nil {
		cat, ubi := p.CategoriaID.String(), p.UbicacionID.String()
		if req.CategoriaID != nil {
			cat = *req.CategoriaID
		}
		if req.UbicacionID != nil {
			ubi = *req.UbicacionID
		}
		if p.CategoriaID, p.UbicacionID, err = s.resolverUbicacion(ctx, cat, ubi); err != nil {
			return nil, err
		}
		p.Categoria, p.Ubicacion = nil, nil
	}

	cambiaPrecio := req.PrecioBase != nil || req.MargenPct != nil || req.PrecioVenta != nil
	if cambiaPrecio {
		base := p.PrecioBase
		if req.PrecioBase != nil {
			base = req.PrecioBase
		}
		pct := req.MargenPct
		if pct == nil && p.Margen != nil {
			v := p.Margen.Mul(cien).InexactFloat64()
			pct = &v
		}
		precio, margen, err := precioProducto(base, pct, req.PrecioVenta)
		if err != nil {
			return nil, err
		}
		p.PrecioBase, p.Margen, p.PrecioVenta = base, margen, precio
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		if !cambiaPrecio || !precioCambio(&antes, p) {
			return nil
		}
		return s.historial.CreateTx(tx, &model.HistorialPrecio{
			ProductoID:    p.ID,
			VentaAntes:    antes.PrecioVenta,
			VentaDespues:  p.PrecioVenta,
			CostoAntes:    antes.PrecioBase,
			CostoDespues:  p.PrecioBase,
			MargenAntes:   antes.Margen,
			MargenDespues: p.Margen,
			Motivo:        "edicion",
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidarCache(ctx, id)
	return s.ObtenerPorID(ctx, id)
}

func precioCambio(a, b *model.Producto) bool {
	return !a.PrecioVenta.Equal(b.PrecioVenta) || !decEqual(a.PrecioBase, b.PrecioBase) || !decEqual(a.Margen, b.Margen)
}

func decEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.setActivo(ctx, id, false)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.setActivo(ctx, id, true)
}

func (s *productoService) setActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	var err error
	if activo {
		err = s.repo.Reactivar(ctx, id)
	} else {
		err = s.repo.SoftDelete(ctx, id)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductoNoEncontrado
	}
	if err == nil {
		s.invalidarCache(ctx, id)
	}
	return err
}

// AjustarStock applies a manual correction (count, breakage, restock) and
// records it. A correction that would leave the quantity negative fails with
// ErrSinStock.
func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	if req.Delta == 0 {
		return nil, ErrCantidadInvalida
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductoNoEncontrado
		}
		if err != nil {
			return err
		}
		ok, err := s.repo.UpdateStockTx(tx, id, req.Delta)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s (disponible %d, ajuste %d)", ErrSinStock, p.Nombre, p.StockActual, req.Delta)
		}
		return s.movimientos.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    id,
			Tipo:          model.MovimientoAjuste,
			Cantidad:      req.Delta,
			StockAnterior: p.StockActual,
			StockNuevo:    p.StockActual + req.Delta,
			Motivo:        req.Motivo,
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidarCache(ctx, id)
	return s.ObtenerPorID(ctx, id)
}

func (s *productoService) HistorialPrecios(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error) {
	page, limit = paginar(page, limit, 50)
	rows, total, err := s.historial.ListByProducto(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.HistorialPrecioItem, len(rows))
	for i, h := range rows {
		data[i] = dto.HistorialPrecioItem{
			ID:            h.ID.String(),
			ProductoID:    h.ProductoID.String(),
			VentaAntes:    h.VentaAntes,
			VentaDespues:  h.VentaDespues,
			CostoAntes:    h.CostoAntes,
			CostoDespues:  h.CostoDespues,
			MargenAntes:   h.MargenAntes,
			MargenDespues: h.MargenDespues,
			Motivo:        h.Motivo,
			CreatedAt:     h.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return &dto.HistorialPrecioListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── Catálogo público ─────────────────────────────────────────────────────────

func (s *productoService) Catalogo(ctx context.Context, filter dto.ProductoFilter) (*dto.CatalogoListResponse, error) {
	filter.Activo = "true"
	filter.Page, filter.Limit = paginar(filter.Page, filter.Limit, 20)
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CatalogoProductoResponse, len(productos))
	for i := range productos {
		data[i] = catalogoToResponse(&productos[i])
	}
	return &dto.CatalogoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// CatalogoProducto serves one product to the storefront, reading through a
// Redis cache that edits invalidate.
func (s *productoService) CatalogoProducto(ctx context.Context, id uuid.UUID) (*dto.CatalogoProductoResponse, error) {
	key := catalogoCacheKey(id)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp dto.CatalogoProductoResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Activo {
		return nil, ErrProductoNoEncontrado
	}
	resp := catalogoToResponse(p)

	// best effort
	if s.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(context.Background(), key, b, catalogoCacheTTL).Err()
		}
	}
	return &resp, nil
}

func (s *productoService) invalidarCache(ctx context.Context, id uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogoCacheKey(id)).Err(); err != nil {
		log.Warn().Err(err).Str("producto_id", id.String()).Msg("no se pudo invalidar el cache del catálogo")
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *productoService) buscar(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductoNoEncontrado
	}
	return p, err
}

func (s *productoService) resolverUbicacion(ctx context.Context, categoria, ubicacion string) (uuid.UUID, uuid.UUID, error) {
	catID, err := uuid.Parse(categoria)
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrCategoriaNoEncontrada
	}
	ubiID, err := uuid.Parse(ubicacion)
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrUbicacionNoEncontrada
	}
	if _, err := s.categorias.ObtenerPorID(ctx, catID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, uuid.Nil, ErrCategoriaNoEncontrada
		}
		return uuid.Nil, uuid.Nil, err
	}
	if _, err := s.categorias.ObtenerUbicacion(ctx, ubiID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, uuid.Nil, ErrUbicacionNoEncontrada
		}
		return uuid.Nil, uuid.Nil, err
	}
	return catID, ubiID, nil
}

func paginar(page, limit, defecto int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defecto
	}
	return page, limit
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		PrecioVenta: p.PrecioVenta,
		PrecioBase:  p.PrecioBase,
		Margen:      p.Margen,
		StockActual: p.StockActual,
		StockMinimo: p.StockMinimo,
		BajoStock:   p.BajoStock(),
		CategoriaID: p.CategoriaID.String(),
		UbicacionID: p.UbicacionID.String(),
		ImagenURL:   p.ImagenURL,
		ImagenHint:  p.ImagenHint,
		Activo:      p.Activo,
	}
	if p.Margen != nil {
		pct := p.Margen.Mul(cien).Round(2)
		resp.MargenPct = &pct
	}
	if p.Categoria != nil {
		resp.Categoria = p.Categoria.Nombre
	}
	if p.Ubicacion != nil {
		resp.Ubicacion = p.Ubicacion.Nombre
	}
	return resp
}

func catalogoToResponse(p *model.Producto) dto.CatalogoProductoResponse {
	resp := dto.CatalogoProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		PrecioVenta: p.PrecioVenta,
		Disponible:  p.StockActual,
		ImagenURL:   p.ImagenURL,
		ImagenHint:  p.ImagenHint,
	}
	if p.Categoria != nil {
		resp.Categoria = p.Categoria.Nombre
	}
	if p.Ubicacion != nil {
		resp.Ubicacion = p.Ubicacion.Nombre
	}
	return resp
}
