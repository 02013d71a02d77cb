package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"catalyst/internal/model/auth"
	"catalyst/internal/pkg/id"
	"catalyst/internal/pkg/jwt"
	"catalyst/internal/pkg/otp"
	"catalyst/internal/pkg/password"
	"catalyst/internal/repository"
	"catalyst/internal/repository/session"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username already taken")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrUserBanned         = errors.New("user is banned")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrTOTPRequired       = errors.New("two-factor code required")
	ErrInvalidTOTP        = errors.New("invalid two-factor code")
)

// AuthService 认证服务
type AuthService struct {
	users         repository.UserRepository
	refreshTokens *session.RefreshTokenRepo
	jwt           *jwt.JWT
	totp          *otp.TOTP
	refreshExpiry time.Duration // Refresh Token过期时间
}

// NewAuthService 创建认证服务
func NewAuthService(
	users repository.UserRepository,
	refreshTokens *session.RefreshTokenRepo,
	tokens *jwt.JWT,
	totp *otp.TOTP,
	refreshTokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		jwt:           tokens,
		totp:          totp,
		refreshExpiry: refreshTokenExpiry,
	}
}

// Register 用户注册
// 使用基本类型参数，不依赖Handler层的Request类型
func (s *AuthService) Register(ctx context.Context, username, email, pwd, name string) (*auth.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if existing, _ := s.users.FindByUsername(ctx, username); existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if existing, _ := s.users.FindByEmail(ctx, email); existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := password.Hash(pwd)
	if err != nil {
		if errors.Is(err, password.ErrTooShort) {
			return nil, ErrPasswordTooShort
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &auth.User{
		ID:       id.New(),
		Username: username,
		Email:    email,
		Password: hashed,
		Name:     strings.TrimSpace(name),
		Role:     auth.RoleUser,
		Status:   auth.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 并发注册时唯一索引兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	TokenType    string
	User         *auth.User
}

// Login 用户登录，开启 2FA 的用户必须提供 totpCode
func (s *AuthService) Login(ctx context.Context, username, pwd, totpCode string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !password.Verify(pwd, user.Password) {
		return nil, ErrInvalidPassword
	}
	if user.Status == auth.UserStatusBanned {
		return nil, ErrUserBanned
	}

	if user.TwoFactorEnabled {
		if strings.TrimSpace(totpCode) == "" {
			return nil, ErrTOTPRequired
		}
		if err := s.totp.Validate(totpCode, user.TwoFactorSecret); err != nil {
			return nil, ErrInvalidTOTP
		}
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	// 不影响登录流程，只记录警告
	if err := s.users.UpdateLastLoginAt(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update last login time")
	}

	return result, nil
}

// issue 签发 access token 和 refresh token
func (s *AuthService) issue(ctx context.Context, user *auth.User) (*LoginResult, error) {
	accessToken, err := s.jwt.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshValue, err := jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	refreshToken := &auth.RefreshToken{
		Token:     refreshValue,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshExpiry),
	}
	if err := s.refreshTokens.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		ExpiresIn:    int(s.jwt.GetExpiration().Seconds()),
		TokenType:    "Bearer",
		User:         user,
	}, nil
}

// RefreshTokenResult 刷新Token结果
type RefreshTokenResult struct {
	AccessToken string
	ExpiresIn   int
	TokenType   string
}

// RefreshToken 刷新Access Token
func (s *AuthService) RefreshToken(ctx context.Context, refreshValue string) (*RefreshTokenResult, error) {
	refreshToken, err := s.refreshTokens.FindByToken(ctx, refreshValue)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	user, err := s.users.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Status == auth.UserStatusBanned {
		_ = s.refreshTokens.DeleteByUserID(ctx, user.ID)
		return nil, ErrUserBanned
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &RefreshTokenResult{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwt.GetExpiration().Seconds()),
		TokenType:   "Bearer",
	}, nil
}

// Logout 退出登录
func (s *AuthService) Logout(ctx context.Context, refreshValue string) error {
	return s.refreshTokens.DeleteByToken(ctx, refreshValue)
}

// GetUserByID 根据ID获取用户信息
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ValidateToken 验证Access Token，返回其中的声明
func (s *AuthService) ValidateToken(tokenString string) (*jwt.Claims, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrExpiredToken):
		return nil, ErrExpiredToken
	default:
		return nil, ErrInvalidToken
	}
}
