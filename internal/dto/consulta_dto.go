package dto

import "time"

type CrearConsultaRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=2,max=120"`
	Email       string  `json:"email"       validate:"required,email"`
	Telefono    string  `json:"telefono"    validate:"required,min=7,max=20"`
	Diagnostico *string `json:"diagnostico" validate:"omitempty,max=2000"`
}

type ConsultaFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=pending contacted"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ConsultaResponse struct {
	ID           string     `json:"id"`
	Fecha        time.Time  `json:"fecha"`
	Nombre       string     `json:"nombre"`
	Email        string     `json:"email"`
	Telefono     string     `json:"telefono"`
	Diagnostico  *string    `json:"diagnostico"`
	Estado       string     `json:"estado"`
	ContactadaEn *time.Time `json:"contactada_en"`
}

type ConsultaListResponse struct {
	Data  []ConsultaResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
