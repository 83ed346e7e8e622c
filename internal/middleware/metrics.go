package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-economy/internal/metrics"
)

// Metrics records the request count and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		start := time.Now()

		gctx.Next()

		metrics.ObserveHTTP(gctx.Request.Method, gctx.FullPath(), gctx.Writer.Status(), time.Since(start))
	}
}
