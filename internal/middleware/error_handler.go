package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"tresetapas/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StatusMapper turns an error left on the context into an HTTP status.
type StatusMapper func(error) int

// ErrorHandler answers requests that ended with c.Error and no body. Errors
// the mapper places below 500 keep their message; anything else is logged
// and the client only sees the generic envelope.
func ErrorHandler(mapear StatusMapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		if mapear != nil {
			status = mapear(err)
		}
		if status >= http.StatusInternalServerError {
			evento(c, zerolog.ErrorLevel).Err(err).Msg("unhandled error")
		}
		if c.Writer.Written() {
			return
		}
		if status >= http.StatusInternalServerError {
			c.AbortWithStatusJSON(status, apierror.Interno())
			return
		}
		c.AbortWithStatusJSON(status, apierror.New(err.Error()))
	}
}

// Recovery turns a panic into a 500 and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				evento(c, zerolog.ErrorLevel).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.Interno())
			}
		}()
		c.Next()
	}
}

// Logger writes one access line per request. 4xx log at warn and 5xx at
// error; staff requests carry the user's email.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		nivel := zerolog.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			nivel = zerolog.ErrorLevel
		case status >= http.StatusBadRequest:
			nivel = zerolog.WarnLevel
		}
		e := evento(c, nivel).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start))
		if claims := GetClaims(c); claims != nil {
			e = e.Str("usuario", claims.Email)
		}
		e.Msg("request")
	}
}

// evento starts a log event tagged with the request id, method and route.
func evento(c *gin.Context, nivel zerolog.Level) *zerolog.Event {
	return log.WithLevel(nivel).
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("route", c.FullPath())
}
