package repository

import (
	"context"
	"time"

	"tresetapas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConsultaRepository interface {
	Create(ctx context.Context, c *model.Consulta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Consulta, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.Consulta, int64, error)
	// MarcarContactada flips a pending consultation; false when it was not pending.
	MarcarContactada(ctx context.Context, id uuid.UUID, en time.Time) (bool, error)
	CountByEstado(ctx context.Context, estado string) (int64, error)
}

type consultaRepo struct{ db *gorm.DB }

func NewConsultaRepository(db *gorm.DB) ConsultaRepository { return &consultaRepo{db: db} }

func (r *consultaRepo) Create(ctx context.Context, c *model.Consulta) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *consultaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Consulta, error) {
	var c model.Consulta
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *consultaRepo) List(ctx context.Context, estado string, page, limit int) ([]model.Consulta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Consulta{})
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var list []model.Consulta
	err := q.Order("fecha DESC").Offset((page - 1) * limit).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *consultaRepo) MarcarContactada(ctx context.Context, id uuid.UUID, en time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Consulta{}).
		Where("id = ? AND estado = ?", id, model.ConsultaPendiente).
		Updates(map[string]any{"estado": model.ConsultaContactada, "contactada_en": en})
	return res.RowsAffected == 1, res.Error
}

func (r *consultaRepo) CountByEstado(ctx context.Context, estado string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Consulta{}).Where("estado = ?", estado).Count(&n).Error
	return n, err
}
