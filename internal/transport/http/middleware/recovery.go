package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "go-user-admin-api/internal/transport/http/response"
)

// SimpleRecovery panic 兜底；细节只进日志，客户端拿标准 500
func SimpleRecovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					resp.Err(http.StatusInternalServerError, ""))
			}
		}()
		c.Next()
	}
}
