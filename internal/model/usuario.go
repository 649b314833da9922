package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RolAdmin    = "admin"
	RolVendedor = "seller"
)

// Permisos del panel. An admin implicitly holds all of them.
const (
	PermisoDashboard    = "dashboard"
	PermisoProductos    = "products"
	PermisoPedidos      = "orders"
	PermisoVentas       = "sales"
	PermisoConsultas    = "consultations"
	PermisoAlmacen      = "warehouse"
	PermisoContabilidad = "accounting"
	PermisoUsuarios     = "users"
)

// PermisosDisponibles lists every permission in display order.
var PermisosDisponibles = []string{
	PermisoDashboard, PermisoProductos, PermisoPedidos, PermisoVentas,
	PermisoConsultas, PermisoAlmacen, PermisoContabilidad, PermisoUsuarios,
}

// Usuario is a staff account.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre       string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Permisos []Permiso `gorm:"many2many:usuario_permisos;"`
}

func (u *Usuario) BeforeCreate(*gorm.DB) error {
	asignarID(&u.ID)
	return nil
}

// NombresPermisos flattens the loaded permissions.
func (u *Usuario) NombresPermisos() []string {
	out := make([]string, 0, len(u.Permisos))
	for _, p := range u.Permisos {
		out = append(out, p.Nombre)
	}
	return out
}

// Permiso is a named capability that can be granted to a seller.
type Permiso struct {
	Nombre string `gorm:"type:varchar(30);primaryKey"`
}
