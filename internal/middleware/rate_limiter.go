package middleware

import (
	"net/http"
	"sync"
	"time"

	"tresetapas/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana counts requests from one IP within a fixed window.
type ventana struct {
	count int
	fin   time.Time
}

// limitador is a per-IP fixed-window counter.
type limitador struct {
	mu       sync.Mutex
	entradas map[string]*ventana
	limite   int
	duracion time.Duration
}

func newLimitador(limite int, duracion time.Duration) *limitador {
	l := &limitador{entradas: make(map[string]*ventana), limite: limite, duracion: duracion}
	registrarLimitador(l)
	return l
}

// permitir counts one request from ip and reports whether it fits, plus the
// end of the current window.
func (l *limitador) permitir(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.entradas[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(l.duracion)}
		l.entradas[ip] = v
	}
	v.count++
	return v.count <= l.limite, v.fin
}

func (l *limitador) purgar(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, v := range l.entradas {
		if now.After(v.fin) {
			delete(l.entradas, ip)
			n++
		}
	}
	return n
}

func (l *limitador) middleware(mensaje string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := l.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(mensaje))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimitador(20, time.Minute).middleware("Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter limits every client IP to limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimitador(limit, window).middleware("Demasiadas solicitudes. Intente nuevamente en un momento.")
}

// PublicFormRateLimiter guards unauthenticated writes (consultations,
// checkout) against form spam: 10 per 10 minutes per IP.
func PublicFormRateLimiter() gin.HandlerFunc {
	return newLimitador(10, 10*time.Minute).middleware("Demasiados envíos. Intente más tarde.")
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Expired windows are dropped every purgeInterval so IPs that never return do
// not accumulate.

const purgeInterval = 5 * time.Minute

var (
	limitadores   []*limitador
	limitadoresMu sync.Mutex
	purgaOnce     sync.Once
)

func registrarLimitador(l *limitador) {
	limitadoresMu.Lock()
	limitadores = append(limitadores, l)
	limitadoresMu.Unlock()
	purgaOnce.Do(func() { go purgeExpiredEntries() })
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		limitadoresMu.Lock()
		purged := 0
		for _, l := range limitadores {
			purged += l.purgar(now)
		}
		limitadoresMu.Unlock()
		if purged > 0 {
			log.Debug().Int("entries_purged", purged).Msg("rate limiter windows purged")
		}
	}
}
