package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"tresetapas/internal/infra"
	"tresetapas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ── Test database ─────────────────────────────────────────────────────────────

// newTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every statement on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.RunMigrations(db))
	return db
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v decimal.Decimal) *decimal.Decimal { return &v }

func strPtr(s string) *string { return &s }

// ── Seeds ─────────────────────────────────────────────────────────────────────

type seed struct {
	t         *testing.T
	db        *gorm.DB
	categoria model.Categoria
	ubicacion model.Ubicacion
}

func newSeed(t *testing.T, db *gorm.DB) *seed {
	t.Helper()
	s := &seed{t: t, db: db}
	s.categoria = model.Categoria{Nombre: "Herramientas", Icono: "Wrench", Activo: true}
	require.NoError(t, db.Create(&s.categoria).Error)
	s.ubicacion = model.Ubicacion{Nombre: "Pasillo 1"}
	require.NoError(t, db.Create(&s.ubicacion).Error)
	return s
}

// producto inserts an active product. base and margen may be nil.
func (s *seed) producto(nombre string, precio int64, base *decimal.Decimal, margen *decimal.Decimal, stock int) *model.Producto {
	s.t.Helper()
	p := &model.Producto{
		Nombre:      nombre,
		Descripcion: nombre,
		PrecioVenta: dec(precio),
		PrecioBase:  base,
		Margen:      margen,
		StockActual: stock,
		StockMinimo: 2,
		CategoriaID: s.categoria.ID,
		UbicacionID: s.ubicacion.ID,
		Activo:      true,
	}
	require.NoError(s.t, s.db.Create(p).Error)
	return p
}

func (s *seed) stock(id uuid.UUID) int {
	s.t.Helper()
	var p model.Producto
	require.NoError(s.t, s.db.First(&p, "id = ?", id).Error)
	return p.StockActual
}

func (s *seed) count(m any) int64 {
	s.t.Helper()
	var n int64
	require.NoError(s.t, s.db.Model(m).Count(&n).Error)
	return n
}

// ── Stubs ─────────────────────────────────────────────────────────────────────

type codigosSecuenciales struct {
	mu sync.Mutex
	n  int
}

func (c *codigosSecuenciales) Nuevo() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return fmt.Sprintf("T%06d", c.n)
}

// notificadorFake records the events it receives.
type notificadorFake struct {
	mu        sync.Mutex
	pedidos   []string
	consultas int
	err       error
}

func (n *notificadorFake) NotificarPedido(_ context.Context, p *model.Pedido) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pedidos = append(n.pedidos, p.Codigo)
	return n.err
}

func (n *notificadorFake) NotificarConsulta(_ context.Context, _ *model.Consulta) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.consultas++
	return n.err
}
