package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"catalyst/internal/model"
	"catalyst/internal/model/auth"
	"catalyst/internal/pkg/id"
	"catalyst/internal/pkg/password"
	"catalyst/internal/repository"
)

var (
	ErrInvalidRole         = errors.New("invalid role")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// AdminService 管理后台
type AdminService struct {
	store repository.Store
}

// NewAdminService 创建管理后台服务
func NewAdminService(store repository.Store) *AdminService {
	return &AdminService{store: store}
}

// Stats 统计用户、对话和消息数量
func (s *AdminService) Stats(ctx context.Context) (*model.Stats, error) {
	users, err := s.store.Users().Count(ctx)
	if err != nil {
		return nil, err
	}
	convs, err := s.store.Conversations().Count(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.Messages().Count(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Stats{
		TotalUsers:         users,
		TotalConversations: convs,
		TotalMessages:      msgs,
	}, nil
}

// ListUsers 分页查询用户
func (s *AdminService) ListUsers(ctx context.Context, q model.PageQuery) (*model.PageResponse[*auth.User], error) {
	q.Normalize()
	users, total, err := s.store.Users().List(ctx, q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*auth.User{}
	}
	return &model.PageResponse[*auth.User]{Items: users, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// ListConversations 分页查询所有对话
func (s *AdminService) ListConversations(ctx context.Context, q model.PageQuery) (*model.PageResponse[*model.Conversation], error) {
	q.Normalize()
	convs, total, err := s.store.Conversations().ListAll(ctx, q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []*model.Conversation{}
	}
	return &model.PageResponse[*model.Conversation]{Items: convs, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// UpdateRole 修改用户角色，管理员不能修改自己的角色
func (s *AdminService) UpdateRole(ctx context.Context, actorID, userID string, role auth.UserRole) (*auth.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if actorID == userID {
		return nil, ErrCannotChangeOwnRole
	}

	if err := s.store.Users().Update(ctx, userID, auth.UserUpdate{Role: &role}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	log.Info().Str("actor_id", actorID).Str("user_id", userID).Str("role", role.String()).Msg("User role changed")
	return s.store.Users().FindByID(ctx, userID)
}

// EnsureAdmin 创建管理员账号；用户名已存在时提升为 active 的管理员，密码保持不变
// created 表示是否新建
func (s *AdminService) EnsureAdmin(ctx context.Context, username, email, pwd string) (user *auth.User, created bool, err error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.store.Users().FindByUsername(ctx, username)
	switch {
	case err == nil:
		role, status := auth.RoleAdmin, auth.UserStatusActive
		update := auth.UserUpdate{Role: &role, Status: &status}
		if email != "" && email != existing.Email {
			update.Email = &email
		}
		if err := s.store.Users().Update(ctx, existing.ID, update); err != nil {
			return nil, false, fmt.Errorf("promote user: %w", err)
		}
		user, err := s.store.Users().FindByID(ctx, existing.ID)
		return user, false, err
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	hashed, err := password.Hash(pwd)
	if err != nil {
		if errors.Is(err, password.ErrTooShort) {
			return nil, false, ErrPasswordTooShort
		}
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user = &auth.User{
		ID:       id.New(),
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     auth.RoleAdmin,
		Status:   auth.UserStatusActive,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, ErrEmailAlreadyExists
		}
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return user, true, nil
}
