package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"catalyst/internal/model"
	"catalyst/internal/model/auth"
	"catalyst/internal/repository"
)

// ErrInvalidPreferences preferences 不是 JSON 对象
var ErrInvalidPreferences = errors.New("preferences must be a JSON object")

// ProfileService 个人资料
type ProfileService struct {
	users repository.UserRepository
}

// NewProfileService 创建个人资料服务
func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Get 查询个人资料
func (s *ProfileService) Get(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update 更新个人资料，未提供的字段保持不变
func (s *ProfileService) Update(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*auth.User, error) {
	update := auth.UserUpdate{Name: req.Name, Bio: req.Bio}

	if req.Preferences != nil {
		prefs := strings.TrimSpace(*req.Preferences)
		if prefs != "" {
			var obj map[string]any
			if err := json.Unmarshal([]byte(prefs), &obj); err != nil {
				return nil, ErrInvalidPreferences
			}
		}
		update.Preferences = &prefs
	}

	if !update.IsEmpty() {
		if err := s.users.Update(ctx, userID, update); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}
	return s.Get(ctx, userID)
}
