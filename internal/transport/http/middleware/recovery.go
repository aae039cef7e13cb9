package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "go-user-center/internal/transport/http/response"
)

func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.String("rid", c.GetString("rid")),
					zap.Any("panic", rec),
				)
				resp.AbortErr(c, http.StatusInternalServerError, "")
			}
		}()
		c.Next()
	}
}
