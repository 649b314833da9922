package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categoria groups products in the storefront. Icono is the name of the icon
// the storefront renders next to the category.
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Icono     string    `gorm:"type:varchar(40);not null;default:'Package'"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }

func (c *Categoria) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}

// Ubicacion is a physical place in the store or warehouse (aisle, yard, ...).
type Ubicacion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Ubicacion) TableName() string { return "ubicaciones" }

func (u *Ubicacion) BeforeCreate(*gorm.DB) error {
	asignarID(&u.ID)
	return nil
}
