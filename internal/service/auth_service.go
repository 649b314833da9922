package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tresetapas/internal/config"
	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Token types carried in the "typ" claim.
const (
	TokenAcceso  = "access"
	TokenRefresh = "refresh"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	ActualizarPermisos(ctx context.Context, id uuid.UUID, permisos []string) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error
	ListarPermisos() []string
	// SembrarPermisos makes sure the permission catalog exists.
	SembrarPermisos(ctx context.Context) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil || !user.Activo {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	log.Info().Str("email", user.Email).Str("rol", user.Rol).Msg("login")
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: refresh token invalido o expirado", ErrCredenciales)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != TokenRefresh {
		return nil, fmt.Errorf("%w: token mal formado", ErrCredenciales)
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("%w: token mal formado", ErrCredenciales)
	}

	// Reload so role and permission changes apply on the next refresh.
	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, fmt.Errorf("%w: usuario no encontrado o inactivo", ErrCredenciales)
	}
	return s.emitirTokens(user)
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, typ string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"email":    user.Email,
		"rol":      user.Rol,
		"permisos": user.NombresPermisos(),
		"typ":      typ,
		"exp":      now.Add(duration).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	permisos, err := validarPermisos(req.Permisos)
	if err != nil {
		return nil, err
	}
	if err := s.emailLibre(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Nombre:       req.Nombre,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	if len(permisos) > 0 {
		if err := s.repo.ReemplazarPermisos(ctx, user, permisos); err != nil {
			return nil, err
		}
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.buscarUsuario(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		user.Nombre = *req.Nombre
	}
	if req.Email != nil {
		if err := s.emailLibre(ctx, *req.Email, id); err != nil {
			return nil, err
		}
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Rol != nil {
		user.Rol = *req.Rol
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ActualizarPermisos(ctx context.Context, id uuid.UUID, permisos []string) (*dto.UsuarioResponse, error) {
	validos, err := validarPermisos(permisos)
	if err != nil {
		return nil, err
	}
	user, err := s.buscarUsuario(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReemplazarPermisos(ctx, user, validos); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.setActivo(ctx, id, false)
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.setActivo(ctx, id, true)
}

func (s *authService) setActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	err := s.repo.SetActivo(ctx, id, activo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUsuarioNoEncontrado
	}
	return err
}

func (s *authService) ListarPermisos() []string {
	out := make([]string, len(model.PermisosDisponibles))
	copy(out, model.PermisosDisponibles)
	return out
}

func (s *authService) SembrarPermisos(ctx context.Context) error {
	return s.repo.AsegurarPermisos(ctx, model.PermisosDisponibles)
}

func (s *authService) buscarUsuario(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUsuarioNoEncontrado
	}
	return user, err
}

// emailLibre fails with ErrEmailDuplicado when email belongs to a user other
// than id.
func (s *authService) emailLibre(ctx context.Context, email string, id uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != id {
		return ErrEmailDuplicado
	}
	return nil
}

// validarPermisos drops duplicates and rejects names outside the catalog.
func validarPermisos(permisos []string) ([]string, error) {
	conocidos := make(map[string]bool, len(model.PermisosDisponibles))
	for _, p := range model.PermisosDisponibles {
		conocidos[p] = true
	}
	vistos := make(map[string]bool, len(permisos))
	out := make([]string, 0, len(permisos))
	for _, p := range permisos {
		if !conocidos[p] {
			return nil, fmt.Errorf("%w: %s", ErrPermisoDesconocido, p)
		}
		if vistos[p] {
			continue
		}
		vistos[p] = true
		out = append(out, p)
	}
	return out, nil
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Nombre:   u.Nombre,
		Email:    u.Email,
		Rol:      u.Rol,
		Permisos: u.NombresPermisos(),
		Activo:   u.Activo,
	}
}
