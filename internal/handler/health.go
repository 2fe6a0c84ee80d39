package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports connectivity to postgres and redis. Redis degradation is
// still a 503: without it the recost queue and breakdown cache are gone.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := gin.H{
			"db":    estadoDB(ctx, db),
			"redis": estadoRedis(ctx, rdb),
		}
		status := http.StatusOK
		for _, v := range checks {
			if v != "connected" {
				status = http.StatusServiceUnavailable
			}
		}
		checks["ok"] = status == http.StatusOK
		c.JSON(status, checks)
	}
}

func estadoDB(ctx context.Context, db *gorm.DB) string {
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return "error"
	}
	return "connected"
}

func estadoRedis(ctx context.Context, rdb *redis.Client) string {
	if rdb.Ping(ctx).Err() != nil {
		return "error"
	}
	return "connected"
}
