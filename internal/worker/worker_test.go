package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tresetapas/internal/config"
	"tresetapas/internal/infra"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.RunMigrations(db))
	return db
}

type fixture struct {
	db        *gorm.DB
	categoria model.Categoria
	ubicacion model.Ubicacion
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{db: newTestDB(t)}
	f.categoria = model.Categoria{Nombre: "Electricidad", Icono: "Zap", Activo: true}
	require.NoError(t, f.db.Create(&f.categoria).Error)
	f.ubicacion = model.Ubicacion{Nombre: "Pasillo 3"}
	require.NoError(t, f.db.Create(&f.ubicacion).Error)
	return f
}

func (f *fixture) producto(t *testing.T, nombre string, stock, minimo int) *model.Producto {
	p := &model.Producto{
		Nombre:      nombre,
		Descripcion: nombre,
		PrecioVenta: decimal.NewFromInt(5000),
		StockActual: stock,
		StockMinimo: minimo,
		CategoriaID: f.categoria.ID,
		UbicacionID: f.ubicacion.ID,
		Activo:      true,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) pedido(t *testing.T, estado string, fecha time.Time, p *model.Producto, cantidad int) *model.Pedido {
	ped := &model.Pedido{
		Codigo:     strings.ToUpper(uuid.NewString()[:10]),
		Fecha:      fecha.UTC(),
		Estado:     estado,
		Total:      p.PrecioVenta.Mul(decimal.NewFromInt(int64(cantidad))),
		MetodoPago: model.MetodoEfectivo,
		Origen:     model.OrigenWeb,
		Items: []model.PedidoItem{{
			ProductoID:     p.ID,
			ProductoNombre: p.Nombre,
			Cantidad:       cantidad,
			PrecioUnitario: p.PrecioVenta,
		}},
	}
	require.NoError(t, f.db.Create(ped).Error)
	return ped
}

func TestConstruirReporte(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 7, 1, 7, 0, 0, 0, time.UTC)
	bombillo := f.producto(t, "Bombillo LED", 2, 5)
	cable := f.producto(t, "Cable duplex", 80, 10)
	f.pedido(t, model.EstadoEntregado, now.Add(-48*time.Hour), cable, 12)
	f.pedido(t, model.EstadoEntregado, now.Add(-45*24*time.Hour), bombillo, 60)
	f.pedido(t, model.EstadoSolicitado, now.Add(-time.Hour), bombillo, 1)

	body, alertas, err := ConstruirReporte(context.Background(),
		repository.NewProductoRepository(f.db), repository.NewPedidoRepository(f.db), 30, now)
	require.NoError(t, err)

	assert.Equal(t, 1, alertas)
	assert.Contains(t, body, "Bombillo LED: 2 (mínimo 5)")
	assert.Contains(t, body, "[media] Cable duplex: 12 vendidos, 80 en stock")
	assert.NotContains(t, body, "[alta]", "the 45-day-old sale is outside the window")
}

func TestReciboWorker_GeneraPDF(t *testing.T) {
	f := newFixture(t)
	p := f.producto(t, "Toma doble", 10, 1)
	ped := f.pedido(t, model.EstadoSolicitado, time.Now(), p, 2)
	dir := t.TempDir()

	w := NewReciboWorker(repository.NewPedidoRepository(f.db), nil, dir, "Ferretería Tres Etapas")
	raw, _ := json.Marshal(ReciboJobPayload{PedidoID: ped.ID.String()})
	require.NoError(t, w.Process(context.Background(), raw))

	_, err := os.Stat(filepath.Join(dir, "recibo_"+ped.Codigo+".pdf"))
	assert.NoError(t, err)
}

func TestReciboWorker_DescartaPayloadsInvalidos(t *testing.T) {
	f := newFixture(t)
	w := NewReciboWorker(repository.NewPedidoRepository(f.db), nil, t.TempDir(), "Tienda")

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{`)))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"pedido_id":"x"}`)))
	raw, _ := json.Marshal(ReciboJobPayload{PedidoID: uuid.NewString()})
	assert.NoError(t, w.Process(context.Background(), raw), "a missing order is not retried")
}

func TestEmailWorker_SinSMTPNoReintenta(t *testing.T) {
	mailer := infra.NewMailer(&config.Config{}, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	w := NewEmailWorker(mailer)

	raw, _ := json.Marshal(EmailJobPayload{ToEmail: "cliente@example.com", Subject: "Pedido", Body: "Gracias"})
	assert.NoError(t, w.Process(context.Background(), raw))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to_email":""}`)))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`no-json`)))
}

func TestWorkerHandlers_ForQueue(t *testing.T) {
	email := NewEmailWorker(nil)
	h := &WorkerHandlers{Email: email}
	assert.Equal(t, Handler(email), h.forQueue(QueueEmail))
	assert.Nil(t, h.forQueue("jobs:desconocida"))
}
