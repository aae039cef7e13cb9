package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-user-center/internal/access"
	"go-user-center/internal/core/auth"
	"go-user-center/internal/core/server"
	"go-user-center/internal/transport/http/handler"
	mdw "go-user-center/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：同一套台账操作，但统一要求 JWT，
// 并按动作做服务端 Ability 判定（读/改人人可做，删只有 admin）。
func NewAdminEngine(l *zap.Logger, userH *handler.UserHandler, adminH *handler.AdminHandler, jwter *auth.JWTer) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(100, 200),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	v1 := r.Group("/admin/v1")
	v1.POST("/login", adminH.Login)

	authed := v1.Group("")
	authed.Use(mdw.AuthJWT(jwter))

	authed.GET("/users",
		mdw.Authorize(access.ActionRead, access.SubjectUser), userH.List)
	authed.PUT("/users/:id",
		mdw.Authorize(access.ActionUpdate, access.SubjectUser), userH.Update)
	authed.DELETE("/users/:id",
		mdw.Authorize(access.ActionDelete, access.SubjectUser), userH.Delete)
	authed.GET("/login-stats",
		mdw.Authorize(access.ActionRead, access.SubjectUser), userH.LoginStats)

	return r
}
