package service

import (
	"context"
	"errors"

	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaService manages product categories and warehouse locations.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context, soloActivas bool) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	CrearUbicacion(ctx context.Context, req dto.UbicacionRequest) (dto.UbicacionResponse, error)
	ListarUbicaciones(ctx context.Context) ([]dto.UbicacionResponse, error)
	RenombrarUbicacion(ctx context.Context, id uuid.UUID, req dto.UbicacionRequest) (dto.UbicacionResponse, error)
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{ID: c.ID, Nombre: c.Nombre, Icono: c.Icono, Activo: c.Activo}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	// Check for duplicate name
	existing, err := s.repo.ObtenerPorNombre(ctx, req.Nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoriaResponse{}, err
	}
	if existing != nil {
		return dto.CategoriaResponse{}, ErrCategoriaDuplicada
	}

	c := &model.Categoria{Nombre: req.Nombre, Icono: req.Icono, Activo: true}
	if c.Icono == "" {
		c.Icono = "Package"
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context, soloActivas bool) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx, soloActivas)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoriaResponse{}, ErrCategoriaNoEncontrada
		}
		return dto.CategoriaResponse{}, err
	}

	if req.Nombre != nil && *req.Nombre != c.Nombre {
		existing, err := s.repo.ObtenerPorNombre(ctx, *req.Nombre)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoriaResponse{}, err
		}
		if existing != nil && existing.ID != id {
			return dto.CategoriaResponse{}, ErrCategoriaDuplicada
		}
		c.Nombre = *req.Nombre
	}
	if req.Icono != nil {
		c.Icono = *req.Icono
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoriaNoEncontrada
		}
		return err
	}
	return s.repo.Desactivar(ctx, id)
}

// ── Ubicaciones ───────────────────────────────────────────────────────────────

func mapUbicacion(u model.Ubicacion) dto.UbicacionResponse {
	return dto.UbicacionResponse{ID: u.ID, Nombre: u.Nombre}
}

func (s *categoriaService) CrearUbicacion(ctx context.Context, req dto.UbicacionRequest) (dto.UbicacionResponse, error) {
	existing, err := s.repo.ObtenerUbicacionPorNombre(ctx, req.Nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UbicacionResponse{}, err
	}
	if existing != nil {
		return dto.UbicacionResponse{}, ErrUbicacionDuplicada
	}
	u := &model.Ubicacion{Nombre: req.Nombre}
	if err := s.repo.CrearUbicacion(ctx, u); err != nil {
		return dto.UbicacionResponse{}, err
	}
	return mapUbicacion(*u), nil
}

func (s *categoriaService) ListarUbicaciones(ctx context.Context) ([]dto.UbicacionResponse, error) {
	list, err := s.repo.ListarUbicaciones(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.UbicacionResponse, 0, len(list))
	for _, u := range list {
		result = append(result, mapUbicacion(u))
	}
	return result, nil
}

func (s *categoriaService) RenombrarUbicacion(ctx context.Context, id uuid.UUID, req dto.UbicacionRequest) (dto.UbicacionResponse, error) {
	u, err := s.repo.ObtenerUbicacion(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UbicacionResponse{}, ErrUbicacionNoEncontrada
		}
		return dto.UbicacionResponse{}, err
	}
	existing, err := s.repo.ObtenerUbicacionPorNombre(ctx, req.Nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UbicacionResponse{}, err
	}
	if existing != nil && existing.ID != id {
		return dto.UbicacionResponse{}, ErrUbicacionDuplicada
	}
	u.Nombre = req.Nombre
	if err := s.repo.ActualizarUbicacion(ctx, u); err != nil {
		return dto.UbicacionResponse{}, err
	}
	return mapUbicacion(*u), nil
}
