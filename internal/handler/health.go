package handler

import (
	"context"
	"net/http"
	"time"

	"tresetapas/internal/infra"
	"tresetapas/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// DB and Redis decide the status code; the mailer breaker and the DLQ sizes
// are informative.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		smtp := "disabled"
		if mailer != nil && mailer.Habilitado() {
			smtp = mailer.Breaker().State().String()
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"smtp":  smtp,
		}
		if redisStatus == "connected" {
			if dlq, err := worker.DLQLengths(ctx, rdb); err == nil {
				body["dlq"] = dlq
			}
		}
		c.JSON(status, body)
	}
}
