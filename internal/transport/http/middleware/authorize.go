package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-user-center/internal/access"
	resp "go-user-center/internal/transport/http/response"
)

// Authorize 按请求里的角色现算 Ability，再判定动作。
// 必须挂在 AuthJWT 之后；角色缺失按非 admin 处理（默认不给删除权限）。
func Authorize(act access.Action, sub access.Subject) gin.HandlerFunc {
	return func(c *gin.Context) {
		ability := access.AbilityFor(access.ParseRole(c.GetString(CtxRole)))
		if !ability.Can(act, sub) {
			resp.AbortErr(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}
