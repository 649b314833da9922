package repository

import (
	"context"

	"tresetapas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository defines CRUD operations for Categoria and Ubicacion.
type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	Listar(ctx context.Context, soloActivas bool) ([]model.Categoria, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	ObtenerPorNombre(ctx context.Context, nombre string) (*model.Categoria, error)
	Actualizar(ctx context.Context, c *model.Categoria) error
	Desactivar(ctx context.Context, id uuid.UUID) error

	CrearUbicacion(ctx context.Context, u *model.Ubicacion) error
	ListarUbicaciones(ctx context.Context) ([]model.Ubicacion, error)
	ObtenerUbicacion(ctx context.Context, id uuid.UUID) (*model.Ubicacion, error)
	ObtenerUbicacionPorNombre(ctx context.Context, nombre string) (*model.Ubicacion, error)
	ActualizarUbicacion(ctx context.Context, u *model.Ubicacion) error
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepository) Listar(ctx context.Context, soloActivas bool) ([]model.Categoria, error) {
	var list []model.Categoria
	q := r.db.WithContext(ctx).Order("nombre asc")
	if soloActivas {
		q = q.Where("activo = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) ObtenerPorNombre(ctx context.Context, nombre string) (*model.Categoria, error) {
	var c model.Categoria
	if err := r.db.WithContext(ctx).Where("lower(nombre) = lower(?)", nombre).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) Actualizar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepository) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("activo", false).Error
}

// ── Ubicaciones ───────────────────────────────────────────────────────────────

func (r *categoriaRepository) CrearUbicacion(ctx context.Context, u *model.Ubicacion) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *categoriaRepository) ListarUbicaciones(ctx context.Context) ([]model.Ubicacion, error) {
	var list []model.Ubicacion
	err := r.db.WithContext(ctx).Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObtenerUbicacion(ctx context.Context, id uuid.UUID) (*model.Ubicacion, error) {
	var u model.Ubicacion
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *categoriaRepository) ObtenerUbicacionPorNombre(ctx context.Context, nombre string) (*model.Ubicacion, error) {
	var u model.Ubicacion
	if err := r.db.WithContext(ctx).Where("lower(nombre) = lower(?)", nombre).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *categoriaRepository) ActualizarUbicacion(ctx context.Context, u *model.Ubicacion) error {
	return r.db.WithContext(ctx).Save(u).Error
}
