package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConsultaPendiente  = "pending"
	ConsultaContactada = "contacted"
)

// Consulta is an advisory request left by a visitor ("asesoría").
type Consulta struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Fecha        time.Time `gorm:"not null;index"`
	Nombre       string    `gorm:"not null"`
	Email        string    `gorm:"not null"`
	Telefono     string    `gorm:"not null"`
	Diagnostico  *string   `gorm:"type:text"`
	Estado       string    `gorm:"type:varchar(20);not null;index"`
	ContactadaEn *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Consulta) TableName() string { return "consultas" }

func (c *Consulta) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}
