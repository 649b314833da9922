package repository

import (
	"context"
	"time"

	"tresetapas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PedidoQuery narrows order listings. Zero values mean "no filter"; Limit 0
// returns every matching row.
type PedidoQuery struct {
	Estado string
	// Desde keeps orders dated at or after the instant.
	Desde *time.Time
	// ConProductos preloads the live product (and its category) on each line.
	ConProductos bool
	Page         int
	Limit        int
}

type PedidoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Pedido, error)
	List(ctx context.Context, q PedidoQuery) ([]model.Pedido, error)
	Paginate(ctx context.Context, q PedidoQuery) ([]model.Pedido, int64, error)
	// CambiarEstado moves an order from desde to hacia. It reports false when
	// the order was no longer in desde.
	CambiarEstado(ctx context.Context, id uuid.UUID, desde, hacia string) (bool, error)
	CountByEstado(ctx context.Context, estado string) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").First(&p, "codigo = ?", codigo).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) scope(ctx context.Context, q PedidoQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Pedido{})
	if q.Estado != "" {
		tx = tx.Where("estado = ?", q.Estado)
	}
	if q.Desde != nil {
		tx = tx.Where("fecha >= ?", *q.Desde)
	}
	return tx
}

func (r *pedidoRepo) preload(tx *gorm.DB, q PedidoQuery) *gorm.DB {
	if q.ConProductos {
		return tx.Preload("Items.Producto.Categoria")
	}
	return tx.Preload("Items")
}

func (r *pedidoRepo) List(ctx context.Context, q PedidoQuery) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	tx := r.preload(r.scope(ctx, q), q).Order("fecha DESC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	err := tx.Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) Paginate(ctx context.Context, q PedidoQuery) ([]model.Pedido, int64, error) {
	var total int64
	if err := r.scope(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var pedidos []model.Pedido
	err := r.preload(r.scope(ctx, q), q).
		Order("fecha DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) CambiarEstado(ctx context.Context, id uuid.UUID, desde, hacia string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ? AND estado = ?", id, desde).
		Update("estado", hacia)
	return res.RowsAffected == 1, res.Error
}

func (r *pedidoRepo) CountByEstado(ctx context.Context, estado string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).Where("estado = ?", estado).Count(&n).Error
	return n, err
}
