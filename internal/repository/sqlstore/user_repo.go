package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"catalyst/internal/model/auth"
)

// UserRepo 用户仓库
type UserRepo struct {
	db *gorm.DB
}

// Create 创建用户
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepo) findOne(ctx context.Context, column string, value any) (*auth.User, error) {
	var user auth.User
	err := r.db.WithContext(ctx).Where(column+" = ?", value).Take(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByID 根据ID查询用户
func (r *UserRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	return r.findOne(ctx, "id", id)
}

// FindByUsername 根据用户名查询用户
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.findOne(ctx, "username", username)
}

// FindByEmail 根据邮箱查询用户
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.findOne(ctx, "email", email)
}

// Update 部分更新用户
func (r *UserRepo) Update(ctx context.Context, id string, update auth.UserUpdate) error {
	values := map[string]any{"updated_at": time.Now().UTC()}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.Bio != nil {
		values["bio"] = *update.Bio
	}
	if update.Preferences != nil {
		values["preferences"] = *update.Preferences
	}
	if update.Role != nil {
		values["role"] = string(*update.Role)
	}
	if update.Status != nil {
		values["status"] = string(*update.Status)
	}
	if update.TwoFactorEnabled != nil {
		values["two_factor_enabled"] = *update.TwoFactorEnabled
	}
	if update.TwoFactorSecret != nil {
		values["two_factor_secret"] = *update.TwoFactorSecret
	}

	res := r.db.WithContext(ctx).Model(&auth.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateLastLoginAt 更新最后登录时间
func (r *UserRepo) UpdateLastLoginAt(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return translate(r.db.WithContext(ctx).Model(&auth.User{}).Where("id = ?", id).
		Updates(map[string]any{"last_login_at": now, "updated_at": now}).Error)
}

// List 分页查询用户
func (r *UserRepo) List(ctx context.Context, page, pageSize int64) ([]*auth.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&auth.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*auth.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(int(pageSize)).
		Offset(offset(page, pageSize)).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Count 统计用户数量
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&auth.User{}).Count(&n).Error
	return n, err
}
