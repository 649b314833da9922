package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ConsultaService handles advisory requests left from the storefront.
type ConsultaService interface {
	Crear(ctx context.Context, req dto.CrearConsultaRequest) (*dto.ConsultaResponse, error)
	Listar(ctx context.Context, filter dto.ConsultaFilter) (*dto.ConsultaListResponse, error)
	MarcarContactada(ctx context.Context, id uuid.UUID) (*dto.ConsultaResponse, error)
	ContarPendientes(ctx context.Context) (int64, error)
}

type consultaService struct {
	repo        repository.ConsultaRepository
	notificador Notificador
	now         func() time.Time
}

func NewConsultaService(repo repository.ConsultaRepository, notificador Notificador) ConsultaService {
	return &consultaService{repo: repo, notificador: notificador, now: time.Now}
}

func (s *consultaService) Crear(ctx context.Context, req dto.CrearConsultaRequest) (*dto.ConsultaResponse, error) {
	c := &model.Consulta{
		Fecha:       s.now().UTC(),
		Nombre:      strings.TrimSpace(req.Nombre),
		Email:       strings.TrimSpace(req.Email),
		Telefono:    strings.TrimSpace(req.Telefono),
		Diagnostico: limpiar(req.Diagnostico),
		Estado:      model.ConsultaPendiente,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if s.notificador != nil {
		if err := s.notificador.NotificarConsulta(ctx, c); err != nil {
			log.Warn().Err(err).Str("consulta_id", c.ID.String()).Msg("no se pudo encolar la notificación de la consulta")
		}
	}
	resp := consultaToResponse(c)
	return &resp, nil
}

func (s *consultaService) Listar(ctx context.Context, filter dto.ConsultaFilter) (*dto.ConsultaListResponse, error) {
	page, limit := paginar(filter.Page, filter.Limit, 20)
	rows, total, err := s.repo.List(ctx, filter.Estado, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ConsultaResponse, len(rows))
	for i := range rows {
		data[i] = consultaToResponse(&rows[i])
	}
	return &dto.ConsultaListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// MarcarContactada moves a pending consultation to contacted. Marking one that
// was already contacted is an invalid transition.
func (s *consultaService) MarcarContactada(ctx context.Context, id uuid.UUID) (*dto.ConsultaResponse, error) {
	ok, err := s.repo.MarcarContactada(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConsultaNoEncontrada
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTransicionInvalida
	}
	resp := consultaToResponse(c)
	return &resp, nil
}

func (s *consultaService) ContarPendientes(ctx context.Context) (int64, error) {
	return s.repo.CountByEstado(ctx, model.ConsultaPendiente)
}

func consultaToResponse(c *model.Consulta) dto.ConsultaResponse {
	return dto.ConsultaResponse{
		ID:           c.ID.String(),
		Fecha:        c.Fecha,
		Nombre:       c.Nombre,
		Email:        c.Email,
		Telefono:     c.Telefono,
		Diagnostico:  c.Diagnostico,
		Estado:       c.Estado,
		ContactadaEn: c.ContactadaEn,
	}
}
