package infra

import (
	"fmt"

	"tresetapas/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection pool and brings the schema up to
// date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		&model.Categoria{},
		&model.Ubicacion{},
		&model.Producto{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.Consulta{},
		&model.Permiso{},
		&model.Usuario{},
		&model.MovimientoStock{},
		&model.HistorialPrecio{},
	}
}

// RunMigrations creates or updates all tables and applies the Postgres-only
// patches. It works on any GORM dialect; tests run it against SQLite.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// stock can never go negative, whatever path writes it
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock_no_negativo') THEN
		    ALTER TABLE productos ADD CONSTRAINT chk_productos_stock_no_negativo CHECK (stock_actual >= 0);
		  END IF;
		END $$`,
		// pending-orders badge and the staff queue filter on this state only
		`CREATE INDEX IF NOT EXISTS idx_pedidos_solicitados
		    ON pedidos (fecha DESC) WHERE estado = 'solicitado'`,
		// accounting and rotation scan delivered orders by date
		`CREATE INDEX IF NOT EXISTS idx_pedidos_entregados_fecha
		    ON pedidos (fecha) WHERE estado = 'entregado'`,
		`CREATE INDEX IF NOT EXISTS idx_productos_bajo_stock
		    ON productos (stock_actual) WHERE activo AND stock_actual <= stock_minimo`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
