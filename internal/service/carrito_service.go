package service

import (
	"context"
	"errors"
	"fmt"

	"tresetapas/internal/carrito"
	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CarritoService drives the storefront cart and turns it into an order.
type CarritoService interface {
	Obtener(ctx context.Context, id string) (*dto.CarritoResponse, error)
	Agregar(ctx context.Context, id string, req dto.AgregarCarritoRequest) (*dto.CarritoResponse, error)
	ActualizarCantidad(ctx context.Context, id string, productoID uuid.UUID, cantidad int) (*dto.CarritoResponse, error)
	Quitar(ctx context.Context, id string, productoID uuid.UUID) (*dto.CarritoResponse, error)
	Vaciar(ctx context.Context, id string) error
	// Checkout places the order and empties the cart. On failure the cart
	// is left untouched.
	Checkout(ctx context.Context, id string, req dto.CheckoutRequest) (*dto.PedidoResponse, error)
}

type carritoService struct {
	store     carrito.Store
	productos repository.ProductoRepository
	pedidos   PedidoService
}

func NewCarritoService(store carrito.Store, productos repository.ProductoRepository, pedidos PedidoService) CarritoService {
	return &carritoService{store: store, productos: productos, pedidos: pedidos}
}

func (s *carritoService) Obtener(ctx context.Context, id string) (*dto.CarritoResponse, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return carritoToResponse(c), nil
}

// Agregar adds units of an active product. The cart may not hold more units
// than are on hand.
func (s *carritoService) Agregar(ctx context.Context, id string, req dto.AgregarCarritoRequest) (*dto.CarritoResponse, error) {
	if req.Cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	p, err := s.productoActivo(ctx, pid)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	enCarrito := 0
	for _, it := range c.Items {
		if it.ProductoID == pid {
			enCarrito = it.Cantidad
		}
	}
	if err := hayStock(p, enCarrito+req.Cantidad); err != nil {
		return nil, err
	}

	c.Agregar(carrito.Item{
		ProductoID:     p.ID,
		Nombre:         p.Nombre,
		PrecioUnitario: p.PrecioVenta,
		Cantidad:       req.Cantidad,
		ImagenURL:      p.ImagenURL,
	})
	if err := s.store.Set(ctx, c); err != nil {
		return nil, err
	}
	return carritoToResponse(c), nil
}

// ActualizarCantidad sets the units of a line; zero or less drops it. The new
// quantity is held to the same stock limit as Agregar.
func (s *carritoService) ActualizarCantidad(ctx context.Context, id string, productoID uuid.UUID, cantidad int) (*dto.CarritoResponse, error) {
	if cantidad > 0 {
		p, err := s.productoActivo(ctx, productoID)
		if err != nil {
			return nil, err
		}
		if err := hayStock(p, cantidad); err != nil {
			return nil, err
		}
	}
	return s.modificar(ctx, id, func(c *carrito.Carrito) { c.ActualizarCantidad(productoID, cantidad) })
}

func (s *carritoService) Quitar(ctx context.Context, id string, productoID uuid.UUID) (*dto.CarritoResponse, error) {
	return s.modificar(ctx, id, func(c *carrito.Carrito) { c.Quitar(productoID) })
}

func (s *carritoService) Vaciar(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *carritoService) modificar(ctx context.Context, id string, fn func(*carrito.Carrito)) (*dto.CarritoResponse, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(c)
	if err := s.store.Set(ctx, c); err != nil {
		return nil, err
	}
	return carritoToResponse(c), nil
}

func (s *carritoService) Checkout(ctx context.Context, id string, req dto.CheckoutRequest) (*dto.PedidoResponse, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrPedidoVacio
	}
	lineas := make([]dto.LineaPedidoRequest, len(c.Items))
	for i, it := range c.Items {
		lineas[i] = dto.LineaPedidoRequest{ProductoID: it.ProductoID.String(), Cantidad: it.Cantidad}
	}
	pedido, err := s.pedidos.CrearPedido(ctx, dto.CrearPedidoRequest{
		Items:      lineas,
		MetodoPago: req.MetodoPago,
		Cliente:    req.Cliente,
	})
	if err != nil {
		return nil, err
	}
	// The order exists; a stale cart is only cosmetic.
	if err := s.store.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("carrito", id).Str("codigo", pedido.Codigo).Msg("no se pudo vaciar el carrito tras el checkout")
	}
	return pedido, nil
}

func (s *carritoService) productoActivo(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := s.productos.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !p.Activo) {
		return nil, ErrProductoNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func hayStock(p *model.Producto, cantidad int) error {
	if cantidad > p.StockActual {
		return fmt.Errorf("%w: %s (disponible %d)", ErrSinStock, p.Nombre, p.StockActual)
	}
	return nil
}

func carritoToResponse(c *carrito.Carrito) *dto.CarritoResponse {
	items := make([]dto.CarritoItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = dto.CarritoItemResponse{
			ProductoID:     it.ProductoID.String(),
			Nombre:         it.Nombre,
			PrecioUnitario: it.PrecioUnitario,
			Cantidad:       it.Cantidad,
			Subtotal:       it.Subtotal(),
			ImagenURL:      it.ImagenURL,
		}
	}
	return &dto.CarritoResponse{
		ID:            c.ID,
		Items:         items,
		CantidadItems: c.CantidadItems(),
		Total:         c.Total(),
	}
}
