package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"catalyst/internal/model/auth"
	"catalyst/internal/pkg/cache"
	"catalyst/internal/pkg/jwt"
	"catalyst/internal/pkg/otp"
	"catalyst/internal/repository"
	"catalyst/internal/repository/session"
)

type authFixture struct {
	store    repository.Store
	auth     *AuthService
	security *SecurityService
}

func newAuthFixture(t *testing.T) *authFixture {
	store := newTestStore(t)
	ephemeral := cache.NewMemoryCache(128, time.Hour)
	totp := otp.New("Catalyst IA", 1)
	return &authFixture{
		store: store,
		auth: NewAuthService(
			store.Users(),
			session.NewRefreshTokenRepo(ephemeral),
			jwt.NewJWT("secret", "catalyst", time.Hour),
			totp,
			24*time.Hour,
		),
		security: NewSecurityService(store.Users(), session.NewPendingTOTPRepo(ephemeral, 10*time.Minute), totp),
	}
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	Convey("AuthService", t, func() {
		f := newAuthFixture(t)
		user, err := f.auth.Register(ctx, "alice", "Alice@Example.com", "secret123", "Alice")
		So(err, ShouldBeNil)
		So(user.Role, ShouldEqual, auth.RoleUser)
		So(user.Email, ShouldEqual, "alice@example.com")
		So(user.Password, ShouldNotEqual, "secret123")

		Convey("注册冲突", func() {
			_, err := f.auth.Register(ctx, "alice", "other@example.com", "secret123", "")
			So(err, ShouldEqual, ErrUserAlreadyExists)

			_, err = f.auth.Register(ctx, "alice2", "alice@example.com", "secret123", "")
			So(err, ShouldEqual, ErrEmailAlreadyExists)

			_, err = f.auth.Register(ctx, "carol", "carol@example.com", "123", "")
			So(err, ShouldEqual, ErrPasswordTooShort)
		})

		Convey("登录、刷新和退出", func() {
			res, err := f.auth.Login(ctx, "alice", "secret123", "")
			So(err, ShouldBeNil)
			So(res.TokenType, ShouldEqual, "Bearer")
			So(res.ExpiresIn, ShouldEqual, 3600)

			claims, err := f.auth.ValidateToken(res.AccessToken)
			So(err, ShouldBeNil)
			So(claims.UserID, ShouldEqual, user.ID)
			So(claims.Role, ShouldEqual, "user")

			refreshed, err := f.auth.RefreshToken(ctx, res.RefreshToken)
			So(err, ShouldBeNil)
			So(refreshed.AccessToken, ShouldNotBeBlank)

			So(f.auth.Logout(ctx, res.RefreshToken), ShouldBeNil)
			_, err = f.auth.RefreshToken(ctx, res.RefreshToken)
			So(err, ShouldEqual, ErrInvalidToken)

			u, err := f.auth.GetUserByID(ctx, user.ID)
			So(err, ShouldBeNil)
			So(u.LastLoginAt, ShouldNotBeNil)
		})

		Convey("错误的密码和用户名", func() {
			_, err := f.auth.Login(ctx, "alice", "wrong-pass", "")
			So(err, ShouldEqual, ErrInvalidPassword)
			_, err = f.auth.Login(ctx, "nobody", "secret123", "")
			So(err, ShouldEqual, ErrUserNotFound)
		})

		Convey("被禁用的用户不能登录和刷新", func() {
			res, err := f.auth.Login(ctx, "alice", "secret123", "")
			So(err, ShouldBeNil)

			banned := auth.UserStatusBanned
			So(f.store.Users().Update(ctx, user.ID, auth.UserUpdate{Status: &banned}), ShouldBeNil)

			_, err = f.auth.Login(ctx, "alice", "secret123", "")
			So(err, ShouldEqual, ErrUserBanned)
			_, err = f.auth.RefreshToken(ctx, res.RefreshToken)
			So(err, ShouldEqual, ErrUserBanned)
		})

		Convey("无效的 access token", func() {
			_, err := f.auth.ValidateToken("not-a-jwt")
			So(err, ShouldEqual, ErrInvalidToken)
		})

		Convey("开启 2FA 后登录需要验证码", func() {
			setup, err := f.security.SetupTOTP(ctx, user.ID)
			So(err, ShouldBeNil)
			So(setup.OTPAuthURL, ShouldStartWith, "otpauth://totp/")

			code, err := otp.CodeAt(setup.Secret, time.Now())
			So(err, ShouldBeNil)
			So(f.security.EnableTOTP(ctx, user.ID, code), ShouldBeNil)

			_, err = f.auth.Login(ctx, "alice", "secret123", "")
			So(err, ShouldEqual, ErrTOTPRequired)
			_, err = f.auth.Login(ctx, "alice", "secret123", "000000x")
			So(err, ShouldEqual, ErrInvalidTOTP)

			code, _ = otp.CodeAt(setup.Secret, time.Now())
			_, err = f.auth.Login(ctx, "alice", "secret123", code)
			So(err, ShouldBeNil)
		})
	})
}
