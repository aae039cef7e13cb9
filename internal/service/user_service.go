package service

import (
	"context"
	"strings"
	"time"

	"go-user-center/internal/core/cache"
	"go-user-center/internal/domain"
	"go-user-center/pkg/utils"
)

const (
	DefaultRole     = "user"
	DefaultPage     = 1
	DefaultPageSize = 10

	statsCacheKey = "stats:login"
)

// UserService 拥有用户台账和登录流水的全部业务规则。
// 存储细节在 repo；鉴权决策在 access，不在这里。
type UserService struct {
	repo     domain.UserRepository
	cache    *cache.Cache // 可选；nil 时直接回源
	statsTTL time.Duration
}

func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// UseStatsCache 启用登录统计的读穿缓存；写路径会主动失效
func (s *UserService) UseStatsCache(c *cache.Cache, ttl time.Duration) {
	s.cache = c
	s.statsTTL = ttl
}

// Register 创建用户；role 缺省为 user。
// 口令以 bcrypt 哈希落库，不存明文（见 DESIGN.md）。
func (s *UserService) Register(ctx context.Context, firstname, lastname, email, password, role string) (*domain.User, error) {
	firstname = strings.TrimSpace(firstname)
	lastname = strings.TrimSpace(lastname)
	email = strings.TrimSpace(email)
	if firstname == "" || lastname == "" || email == "" || password == "" {
		return nil, domain.Validation("All fields (firstname, lastname, email, password) are required.")
	}
	if role == "" {
		role = DefaultRole
	}

	u := &domain.User{
		Firstname: firstname,
		Lastname:  lastname,
		Email:     email,
		Password:  utils.HashPassword(password),
		Role:      role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return sanitize(u), nil
}

// Authenticate 校验凭证并追加一条登录流水。
// 查无此人和密码不符给同一个错误，不暴露邮箱是否存在。
// 记流水和校验是两条语句，中间崩溃最多丢一行审计，不影响用户数据。
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Validation("Email and password are required.")
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.RecordLogin(ctx, u.ID); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return sanitize(u), nil
}

// List 按 id 升序分页；page/pageSize 非法时回落默认值，不设上限（见 DESIGN.md）
func (s *UserService) List(ctx context.Context, page, pageSize int) ([]domain.User, error) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	users, err := s.repo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// Update 改名和角色；role 为空串表示保留原值
func (s *UserService) Update(ctx context.Context, id uint, firstname, lastname, role string) (*domain.User, error) {
	firstname = strings.TrimSpace(firstname)
	lastname = strings.TrimSpace(lastname)
	if firstname == "" || lastname == "" {
		return nil, domain.Validation("Firstname and lastname are required.")
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}

	u.Firstname = firstname
	u.Lastname = lastname
	if role != "" {
		u.Role = role
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return sanitize(u), nil
}

// Delete 硬删用户；关联登录流水按约定保留（孤儿行不会出现在统计里）
func (s *UserService) Delete(ctx context.Context, id uint) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.invalidateStats(ctx)
	return nil
}

// LoginStats 每用户登录次数，降序；启用缓存时读穿 redis
func (s *UserService) LoginStats(ctx context.Context) ([]domain.LoginStat, error) {
	if s.cache == nil {
		return s.repo.LoginStats(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, statsCacheKey, s.statsTTL,
		func(ctx context.Context) ([]domain.LoginStat, error) {
			return s.repo.LoginStats(ctx)
		})
}

func (s *UserService) invalidateStats(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, statsCacheKey)
	}
}

func sanitize(u *domain.User) *domain.User {
	u.Password = ""
	return u
}
