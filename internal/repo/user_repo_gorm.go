package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-user-center/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		// 并发抢注同一邮箱由唯一索引兜底，这里统一翻译
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDupKey(err) {
			return fmt.Errorf("create user %q: %w", u.Email, domain.ErrEmailTaken)
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	users := make([]domain.User, 0, limit)
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Delete 硬删；返回是否真的删到了行
func (r *UserRepo) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepo) RecordLogin(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Create(&domain.LoginEvent{UserID: userID}).Error
}

// LoginStats 左连接聚合；从不登录的用户计 0。
// 次序：次数降序，平手按 id 升序保证确定性。
func (r *UserRepo) LoginStats(ctx context.Context) ([]domain.LoginStat, error) {
	type row struct {
		UserID     uint
		Firstname  string
		Lastname   string
		LoginCount int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Raw(`
        SELECT u.id AS user_id, u.firstname, u.lastname, COUNT(l.id) AS login_count
        FROM users u
        LEFT JOIN user_logins l ON l.user_id = u.id
        GROUP BY u.id, u.firstname, u.lastname
        ORDER BY login_count DESC, u.id ASC
    `).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]domain.LoginStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, domain.LoginStat{
			UserID:     r.UserID,
			Name:       r.Firstname + " " + r.Lastname,
			LoginCount: r.LoginCount,
		})
	}
	return stats, nil
}

// isDupKey 不依赖驱动错误码，按文案兜底识别唯一键冲突
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
