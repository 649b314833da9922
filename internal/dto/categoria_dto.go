package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Icono  string `json:"icono"  validate:"omitempty,max=40"`
}

type ActualizarCategoriaRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=100"`
	Icono  *string `json:"icono"  validate:"omitempty,max=40"`
	Activo *bool   `json:"activo"`
}

type UbicacionRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Icono  string    `json:"icono"`
	Activo bool      `json:"activo"`
}

type UbicacionResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
}
