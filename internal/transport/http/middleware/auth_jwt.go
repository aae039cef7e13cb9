package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-user-center/internal/core/auth"
	resp "go-user-center/internal/transport/http/response"
)

const (
	CtxUserID = "userId"
	CtxRole   = "role"
)

func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.AbortErr(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortErr(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(CtxUserID, claims.UID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}
