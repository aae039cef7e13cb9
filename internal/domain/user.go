package domain

import (
	"context"
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Firstname string    `gorm:"size:64;not null" json:"firstname"`
	Lastname  string    `gorm:"size:64;not null" json:"lastname"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"` // bcrypt hash，永不出现在响应里
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string { return u.Firstname + " " + u.Lastname }

// LoginEvent 登录流水，只追加不修改
type LoginEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (LoginEvent) TableName() string { return "user_logins" }

// LoginStat 聚合结果，不落库
type LoginStat struct {
	UserID     uint   `json:"userId"`
	Name       string `json:"name"`
	LoginCount int64  `json:"loginCount"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uint) (bool, error)
	RecordLogin(ctx context.Context, userID uint) error
	LoginStats(ctx context.Context) ([]LoginStat, error)
}
