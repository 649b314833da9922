package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	Nombre   string   `json:"nombre"   validate:"required,min=2,max=100"`
	Email    string   `json:"email"    validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Rol      string   `json:"rol"      validate:"required,oneof=admin seller"`
	Permisos []string `json:"permisos" validate:"dive,oneof=dashboard products orders sales consultations warehouse accounting users"`
}

type ActualizarUsuarioRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Rol      *string `json:"rol"      validate:"omitempty,oneof=admin seller"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// ActualizarPermisosRequest replaces the full permission set of a user.
type ActualizarPermisosRequest struct {
	Permisos []string `json:"permisos" validate:"dive,oneof=dashboard products orders sales consultations warehouse accounting users"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       string   `json:"id"`
	Nombre   string   `json:"nombre"`
	Email    string   `json:"email"`
	Rol      string   `json:"rol"`
	Permisos []string `json:"permisos"`
	Activo   bool     `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
