package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-user-center/internal/domain"
	"go-user-center/internal/repo"
	"go-user-center/internal/service"
	"go-user-center/internal/transport/http/handler"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestEnv(t *testing.T) (*gin.Engine, *service.UserService) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.LoginEvent{}))

	svc := service.NewUserService(repo.NewUserRepo(db))
	h := handler.NewUserHandler(svc, zap.NewNop())
	return NewAPIEngine(zap.NewNop(), h), svc
}

func do(e *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestRegisterLoginStatsScenario(t *testing.T) {
	e, _ := newTestEnv(t)

	// 注册
	w := do(e, http.MethodPost, "/users", gin.H{
		"firstname": "Ann", "lastname": "Lee",
		"email": "ann@x.com", "password": "p1", "role": "user",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "user", created["role"])
	assert.NotZero(t, created["id"])
	assert.NotContains(t, created, "password")

	// 正确口令登录：记一条流水，响应不带口令
	w = do(e, http.MethodPost, "/login", gin.H{"email": "ann@x.com", "password": "p1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	logged := decode(t, w)
	assert.Equal(t, "ann@x.com", logged["email"])
	assert.NotContains(t, logged, "password")

	// 错误口令：401，文案不暴露邮箱是否存在
	w = do(e, http.MethodPost, "/login", gin.H{"email": "ann@x.com", "password": "bad"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPw := w.Body.String()
	w = do(e, http.MethodPost, "/login", gin.H{"email": "nobody@x.com", "password": "p1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, wrongPw, w.Body.String())

	// 统计
	w = do(e, http.MethodGet, "/login-stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, "Ann Lee", stats[0]["name"])
	assert.EqualValues(t, 1, stats[0]["loginCount"])
}

func TestCreateValidationAndConflict(t *testing.T) {
	e, _ := newTestEnv(t)

	w := do(e, http.MethodPost, "/users", gin.H{"firstname": "Ann"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "required")

	body := gin.H{"firstname": "Ann", "lastname": "Lee", "email": "ann@x.com", "password": "p1"}
	w = do(e, http.MethodPost, "/users", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(e, http.MethodPost, "/users", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", decode(t, w)["error"])
}

func TestListNeverExposesPassword(t *testing.T) {
	e, _ := newTestEnv(t)

	w := do(e, http.MethodPost, "/users", gin.H{
		"firstname": "Ann", "lastname": "Lee", "email": "ann@x.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(e, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.NotContains(t, users[0], "password")
	assert.NotContains(t, w.Body.String(), "p1")
}

func TestListPaginationDefaults(t *testing.T) {
	e, _ := newTestEnv(t)

	for i := 0; i < 12; i++ {
		w := do(e, http.MethodPost, "/users", gin.H{
			"firstname": "U", "lastname": fmt.Sprint(i),
			"email": fmt.Sprintf("u%d@x.com", i), "password": "p",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// 非数字参数回落默认 page=1 limit=10
	w := do(e, http.MethodGet, "/users?page=abc&limit=xyz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 10)

	w = do(e, http.MethodGet, "/users?page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestUpdate(t *testing.T) {
	e, _ := newTestEnv(t)

	w := do(e, http.MethodPost, "/users", gin.H{
		"firstname": "Ann", "lastname": "Lee", "email": "ann@x.com", "password": "p1", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"]

	// role 省略则保留
	w = do(e, http.MethodPut, fmt.Sprintf("/users/%v", id), gin.H{"firstname": "Anna", "lastname": "Lee"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)
	assert.Equal(t, "Anna", got["firstname"])
	assert.Equal(t, "admin", got["role"])

	w = do(e, http.MethodPut, fmt.Sprintf("/users/%v", id), gin.H{"firstname": "Anna", "lastname": "Lee", "role": "user"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", decode(t, w)["role"])

	// 缺字段 400
	w = do(e, http.MethodPut, fmt.Sprintf("/users/%v", id), gin.H{"firstname": "Anna"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 非法 id 400，查无此人 404（不是静默成功）
	w = do(e, http.MethodPut, "/users/abc", gin.H{"firstname": "A", "lastname": "B"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(e, http.MethodPut, "/users/999999", gin.H{"firstname": "A", "lastname": "B"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteFlow(t *testing.T) {
	e, _ := newTestEnv(t)

	w := do(e, http.MethodPost, "/users", gin.H{
		"firstname": "Ann", "lastname": "Lee", "email": "ann@x.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"]

	w = do(e, http.MethodDelete, fmt.Sprintf("/users/%v", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, fmt.Sprintf("User %v deleted.", id), decode(t, w)["message"])

	// 再删 404；列表不再出现
	w = do(e, http.MethodDelete, fmt.Sprintf("/users/%v", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(e, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestLoginValidation(t *testing.T) {
	e, _ := newTestEnv(t)
	w := do(e, http.MethodPost, "/login", gin.H{"email": "ann@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	e, _ := newTestEnv(t)
	w := do(e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
