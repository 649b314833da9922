// Package carrito holds the shopping cart state of a storefront visitor and
// the stores that persist it between requests.
package carrito

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line. Price and name are informative; checkout always
// prices the order from the catalog.
type Item struct {
	ProductoID     uuid.UUID       `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       int             `json:"cantidad"`
	ImagenURL      *string         `json:"imagen_url,omitempty"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.PrecioUnitario.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

type Carrito struct {
	ID    string `json:"id"`
	Items []Item `json:"items"`
}

func Nuevo(id string) *Carrito {
	return &Carrito{ID: id, Items: []Item{}}
}

// Agregar adds it to the cart. A product already present gets its quantity
// increased and its name and price refreshed.
func (c *Carrito) Agregar(it Item) {
	if it.Cantidad <= 0 {
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductoID == it.ProductoID {
			c.Items[i].Cantidad += it.Cantidad
			c.Items[i].Nombre = it.Nombre
			c.Items[i].PrecioUnitario = it.PrecioUnitario
			c.Items[i].ImagenURL = it.ImagenURL
			return
		}
	}
	c.Items = append(c.Items, it)
}

func (c *Carrito) Quitar(productoID uuid.UUID) {
	out := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductoID != productoID {
			out = append(out, it)
		}
	}
	c.Items = out
}

// ActualizarCantidad sets the quantity of a line; zero or less removes it.
// Unknown products are ignored.
func (c *Carrito) ActualizarCantidad(productoID uuid.UUID, cantidad int) {
	if cantidad <= 0 {
		c.Quitar(productoID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductoID == productoID {
			c.Items[i].Cantidad = cantidad
			return
		}
	}
}

func (c *Carrito) Vaciar() { c.Items = []Item{} }

// CantidadItems is the number of units in the cart, not of lines.
func (c *Carrito) CantidadItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Cantidad
	}
	return n
}

func (c *Carrito) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// decodificar loads a stored cart. Unreadable data, or lines without a
// product or with a non-positive quantity, yield an empty cart.
func decodificar(id string, raw []byte) *Carrito {
	var c Carrito
	if err := json.Unmarshal(raw, &c); err != nil {
		return Nuevo(id)
	}
	for _, it := range c.Items {
		if it.ProductoID == uuid.Nil || it.Cantidad <= 0 {
			return Nuevo(id)
		}
	}
	c.ID = id
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c
}
