package auth

import (
	"time"
)

// User 用户实体
// ID使用UUID格式（string）
type User struct {
	ID               string     `bson:"_id" gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username         string     `bson:"username" gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email            string     `bson:"email" gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password         string     `bson:"password" gorm:"type:varchar(255);not null" json:"-"` // bcrypt，不返回
	Name             string     `bson:"name,omitempty" gorm:"type:varchar(100)" json:"name,omitempty"`
	Bio              string     `bson:"bio,omitempty" gorm:"type:text" json:"bio,omitempty"`
	Preferences      string     `bson:"preferences,omitempty" gorm:"type:text" json:"preferences,omitempty"` // JSON 对象文本，可含 personality
	Role             UserRole   `bson:"role" gorm:"type:varchar(16);not null;default:user" json:"role"`
	Status           UserStatus `bson:"status" gorm:"type:varchar(16);not null;default:active" json:"status"`
	TwoFactorEnabled bool       `bson:"two_factor_enabled" gorm:"not null;default:false" json:"twoFactorEnabled"`
	TwoFactorSecret  string     `bson:"two_factor_secret,omitempty" gorm:"type:varchar(64)" json:"-"`
	LastLoginAt      *time.Time `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updatedAt"`
}

// UserRole 用户角色
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// IsValid 检查角色是否有效
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// String 返回角色字符串
func (r UserRole) String() string {
	return string(r)
}

// UserStatus 用户状态
type UserStatus string

const (
	UserStatusActive UserStatus = "active" // 正常
	UserStatusBanned UserStatus = "banned" // 禁用
)

// String 返回状态字符串
func (s UserStatus) String() string {
	return string(s)
}

// UserUpdate 用户部分更新，nil 字段不修改
type UserUpdate struct {
	Email            *string
	Name             *string
	Bio              *string
	Preferences      *string
	Role             *UserRole
	Status           *UserStatus
	TwoFactorEnabled *bool
	TwoFactorSecret  *string
}

// IsEmpty 是否没有任何字段需要更新
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.Name == nil && u.Bio == nil && u.Preferences == nil &&
		u.Role == nil && u.Status == nil && u.TwoFactorEnabled == nil && u.TwoFactorSecret == nil
}
