package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func firmar(t *testing.T, rol, typ string, permisos []string, exp time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "8f14e45f-ceea-467a-9575-6d1b1a8b5a11",
		"email":    "ana@tresetapas.co",
		"rol":      rol,
		"permisos": permisos,
		"typ":      typ,
		"exp":      time.Now().Add(exp).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newRouter(permiso string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", JWTAuth(testSecret), RequirePermiso(permiso), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func do(r *gin.Engine, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequirePermiso(t *testing.T) {
	r := newRouter("accounting")

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"sin token", "", http.StatusUnauthorized},
		{"admin pasa sin permisos explícitos", firmar(t, "admin", "access", nil, time.Hour), http.StatusOK},
		{"vendedor con permiso", firmar(t, "seller", "access", []string{"orders", "accounting"}, time.Hour), http.StatusOK},
		{"vendedor sin permiso", firmar(t, "seller", "access", []string{"orders"}, time.Hour), http.StatusForbidden},
		{"refresh token rechazado", firmar(t, "admin", "refresh", nil, time.Hour), http.StatusUnauthorized},
		{"token expirado", firmar(t, "admin", "access", nil, -time.Minute), http.StatusUnauthorized},
		{"firma inválida", firmar(t, "admin", "access", nil, time.Hour) + "x", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, do(r, tc.token))
		})
	}
}

func TestRequestID_EchoesOrAssigns(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestLimitador_WindowResets(t *testing.T) {
	l := &limitador{entradas: map[string]*ventana{}, limite: 2, duracion: time.Minute}
	now := time.Now()

	ok, _ := l.permitir("1.1.1.1", now)
	assert.True(t, ok)
	ok, _ = l.permitir("1.1.1.1", now)
	assert.True(t, ok)
	ok, _ = l.permitir("1.1.1.1", now)
	assert.False(t, ok)
	ok, _ = l.permitir("2.2.2.2", now)
	assert.True(t, ok, "other IPs have their own window")

	later := now.Add(2 * time.Minute)
	ok, _ = l.permitir("1.1.1.1", later)
	assert.True(t, ok)
	assert.Equal(t, 1, l.purgar(later), "only the stale 2.2.2.2 window is purged")
}
