package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"catalyst/internal/model/auth"
	"catalyst/internal/pkg/otp"
	"catalyst/internal/repository"
	"catalyst/internal/repository/session"
)

var (
	ErrNoPendingTOTP     = errors.New("no pending two-factor setup, start again")
	ErrTOTPAlreadyActive = errors.New("two-factor authentication already enabled")
)

// TOTPSetup 2FA 绑定信息
type TOTPSetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}

// SecurityService 两步验证绑定
// 新密钥先保存在临时存储中，验证通过后才写入用户
type SecurityService struct {
	users   repository.UserRepository
	pending *session.PendingTOTPRepo
	totp    *otp.TOTP
}

// NewSecurityService 创建安全服务
func NewSecurityService(users repository.UserRepository, pending *session.PendingTOTPRepo, totp *otp.TOTP) *SecurityService {
	return &SecurityService{users: users, pending: pending, totp: totp}
}

func (s *SecurityService) user(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetupTOTP 生成新密钥并保存为待确认状态
func (s *SecurityService) SetupTOTP(ctx context.Context, userID string) (*TOTPSetup, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, ErrTOTPAlreadyActive
	}

	key, err := s.totp.Generate(user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}
	if err := s.pending.Save(ctx, &auth.PendingTOTP{UserID: userID, Secret: key.Secret}); err != nil {
		return nil, fmt.Errorf("save pending totp: %w", err)
	}

	return &TOTPSetup{Secret: key.Secret, OTPAuthURL: key.URL}, nil
}

// EnableTOTP 校验验证码后启用 2FA
func (s *SecurityService) EnableTOTP(ctx context.Context, userID, code string) error {
	pending, err := s.pending.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ErrNoPendingTOTP
		}
		return err
	}

	if err := s.totp.Validate(strings.TrimSpace(code), pending.Secret); err != nil {
		return ErrInvalidTOTP
	}

	enabled := true
	if err := s.users.Update(ctx, userID, auth.UserUpdate{
		TwoFactorEnabled: &enabled,
		TwoFactorSecret:  &pending.Secret,
	}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.pending.Delete(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to delete pending totp secret")
	}
	log.Info().Str("user_id", userID).Msg("Two-factor authentication enabled")
	return nil
}

// DisableTOTP 关闭 2FA 并清除密钥
func (s *SecurityService) DisableTOTP(ctx context.Context, userID string) error {
	enabled, secret := false, ""
	err := s.users.Update(ctx, userID, auth.UserUpdate{
		TwoFactorEnabled: &enabled,
		TwoFactorSecret:  &secret,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
