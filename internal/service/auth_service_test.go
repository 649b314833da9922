package service_test

import (
	"context"
	"testing"

	"tresetapas/internal/config"
	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"
	"tresetapas/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = &config.Config{JWTSecret: "secreto-de-prueba", JWTExpirationHours: 8, JWTRefreshHours: 24}

func newAuthSvc(t *testing.T) service.AuthService {
	db := newTestDB(t)
	svc := service.NewAuthService(repository.NewUsuarioRepository(db), testCfg)
	require.NoError(t, svc.SembrarPermisos(context.Background()))
	return svc
}

func crearVendedor(t *testing.T, svc service.AuthService, email string, permisos ...string) *dto.UsuarioResponse {
	t.Helper()
	u, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre:   "Vendedor",
		Email:    email,
		Password: "clave-segura",
		Rol:      model.RolVendedor,
		Permisos: permisos,
	})
	require.NoError(t, err)
	return u
}

func claimsDe(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testCfg.JWTSecret), nil })
	require.NoError(t, err)
	return parsed.Claims.(jwt.MapClaims)
}

func TestLogin_EmiteTokensConPermisos(t *testing.T) {
	svc := newAuthSvc(t)
	crearVendedor(t, svc, "Vendedor@TresEtapas.co", model.PermisoPedidos, model.PermisoVentas, model.PermisoPedidos)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "vendedor@tresetapas.co", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.ElementsMatch(t, []string{model.PermisoPedidos, model.PermisoVentas}, resp.User.Permisos)

	claims := claimsDe(t, resp.AccessToken)
	assert.Equal(t, service.TokenAcceso, claims["typ"])
	assert.Equal(t, model.RolVendedor, claims["rol"])
	assert.Equal(t, resp.User.ID, claims["user_id"])

	assert.Equal(t, service.TokenRefresh, claimsDe(t, resp.RefreshToken)["typ"])
}

func TestLogin_Rechazos(t *testing.T) {
	svc := newAuthSvc(t)
	u := crearVendedor(t, svc, "caja@tresetapas.co")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "caja@tresetapas.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, service.ErrCredenciales)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nadie@tresetapas.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, service.ErrCredenciales)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), uuid.MustParse(u.ID)))
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "caja@tresetapas.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestRefresh(t *testing.T) {
	svc := newAuthSvc(t)
	u := crearVendedor(t, svc, "bodega@tresetapas.co", model.PermisoAlmacen)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "bodega@tresetapas.co", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, service.ErrCredenciales, "an access token cannot refresh")

	_, err = svc.ActualizarPermisos(context.Background(), uuid.MustParse(u.ID), []string{model.PermisoAlmacen, model.PermisoContabilidad})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{model.PermisoAlmacen, model.PermisoContabilidad}, refreshed.User.Permisos)

	_, err = svc.Refresh(context.Background(), "no-es-un-token")
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestUsuarios_EmailYPermisos(t *testing.T) {
	svc := newAuthSvc(t)
	a := crearVendedor(t, svc, "a@tresetapas.co")
	crearVendedor(t, svc, "b@tresetapas.co")

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre: "Dup", Email: "A@tresetapas.co", Password: "clave-segura", Rol: model.RolVendedor,
	})
	assert.ErrorIs(t, err, service.ErrEmailDuplicado)

	otro := "b@tresetapas.co"
	_, err = svc.ActualizarUsuario(context.Background(), uuid.MustParse(a.ID), dto.ActualizarUsuarioRequest{Email: &otro})
	assert.ErrorIs(t, err, service.ErrEmailDuplicado)

	_, err = svc.ActualizarPermisos(context.Background(), uuid.MustParse(a.ID), []string{"superpoderes"})
	assert.ErrorIs(t, err, service.ErrPermisoDesconocido)

	_, err = svc.ActualizarPermisos(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, service.ErrUsuarioNoEncontrado)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), uuid.MustParse(a.ID)))
	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)
	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	assert.Equal(t, model.PermisosDisponibles, svc.ListarPermisos())
}
