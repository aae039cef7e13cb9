package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-user-center/internal/domain"
	"go-user-center/internal/service"
	resp "go-user-center/internal/transport/http/response"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

type createReq struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type updateReq struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Role      string `json:"role"` // 省略则保留原角色
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// List GET /users?page&limit
func (h *UserHandler) List(c *gin.Context) {
	page := atoiDefault(c.Query("page"), service.DefaultPage)
	limit := atoiDefault(c.Query("limit"), service.DefaultPageSize)

	users, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.JSON(c, http.StatusOK, users)
}

// Create POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var in createReq
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, err := h.svc.Register(c.Request.Context(), in.Firstname, in.Lastname, in.Email, in.Password, in.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.JSON(c, http.StatusCreated, u)
}

// Update PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in updateReq
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, err := h.svc.Update(c.Request.Context(), id, in.Firstname, in.Lastname, in.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.JSON(c, http.StatusOK, u)
}

// Delete DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	resp.JSON(c, http.StatusOK, gin.H{"message": fmt.Sprintf("User %d deleted.", id)})
}

// Login POST /login
func (h *UserHandler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, err := h.svc.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.JSON(c, http.StatusOK, u)
}

// LoginStats GET /login-stats
func (h *UserHandler) LoginStats(c *gin.Context) {
	stats, err := h.svc.LoginStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.JSON(c, http.StatusOK, stats)
}

// fail 哨兵映射状态码；其余一律记日志并收敛成 500，不泄露存储细节
func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		resp.Err(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		resp.Err(c, http.StatusConflict, "Email already exists")
	case errors.Is(err, domain.ErrNotFound):
		resp.Err(c, http.StatusNotFound, "User not found.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		resp.Err(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.log.Error("request failed",
			zap.String("rid", c.GetString("rid")),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		resp.Err(c, http.StatusInternalServerError, "")
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		resp.Err(c, http.StatusBadRequest, "Invalid user ID")
		return 0, false
	}
	return uint(id), true
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
