package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"catalyst/internal/pkg/otp"
)

func TestSecurityService(t *testing.T) {
	ctx := context.Background()

	Convey("SecurityService", t, func() {
		f := newAuthFixture(t)
		user := seedUser(t, f.store, "alice")

		Convey("没有待确认密钥时不能启用", func() {
			So(f.security.EnableTOTP(ctx, user.ID, "123456"), ShouldEqual, ErrNoPendingTOTP)
		})

		setup, err := f.security.SetupTOTP(ctx, user.ID)
		So(err, ShouldBeNil)
		So(setup.Secret, ShouldNotBeBlank)

		Convey("错误的验证码", func() {
			So(f.security.EnableTOTP(ctx, user.ID, "abc"), ShouldEqual, ErrInvalidTOTP)

			u, _ := f.store.Users().FindByID(ctx, user.ID)
			So(u.TwoFactorEnabled, ShouldBeFalse)
		})

		Convey("启用后待确认密钥被删除，再次设置被拒绝", func() {
			code, _ := otp.CodeAt(setup.Secret, time.Now())
			So(f.security.EnableTOTP(ctx, user.ID, code), ShouldBeNil)

			u, _ := f.store.Users().FindByID(ctx, user.ID)
			So(u.TwoFactorEnabled, ShouldBeTrue)
			So(u.TwoFactorSecret, ShouldEqual, setup.Secret)

			So(f.security.EnableTOTP(ctx, user.ID, code), ShouldEqual, ErrNoPendingTOTP)
			_, err := f.security.SetupTOTP(ctx, user.ID)
			So(err, ShouldEqual, ErrTOTPAlreadyActive)

			Convey("关闭 2FA", func() {
				So(f.security.DisableTOTP(ctx, user.ID), ShouldBeNil)
				u, _ := f.store.Users().FindByID(ctx, user.ID)
				So(u.TwoFactorEnabled, ShouldBeFalse)
				So(u.TwoFactorSecret, ShouldBeEmpty)
			})
		})
	})
}
