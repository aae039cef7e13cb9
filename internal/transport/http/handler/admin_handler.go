package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-user-center/internal/core/auth"
	"go-user-center/internal/domain"
	"go-user-center/internal/service"
	resp "go-user-center/internal/transport/http/response"
)

// AdminHandler 管理端登录：校验凭证后签发 JWT，后续请求走 AuthJWT + Authorize
type AdminHandler struct {
	svc   *service.UserService
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAdminHandler(svc *service.UserService, jwter *auth.JWTer, log *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, jwter: jwter, log: log}
}

type adminLoginOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login POST /admin/v1/login
func (h *AdminHandler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, err := h.svc.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			resp.Err(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInvalidCredentials):
			resp.Err(c, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.log.Error("admin login failed", zap.String("rid", c.GetString("rid")), zap.Error(err))
			resp.Err(c, http.StatusInternalServerError, "")
		}
		return
	}

	tok, err := h.jwter.Issue(u.ID, u.Role)
	if err != nil {
		h.log.Error("issue token failed", zap.Error(err))
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	resp.JSON(c, http.StatusOK, adminLoginOut{Token: tok, User: u})
}
