package otp

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTOTP(t *testing.T) {
	Convey("TOTP", t, func() {
		tp := New("Catalyst IA", 1)
		key, err := tp.Generate("alice")
		So(err, ShouldBeNil)
		So(key.Secret, ShouldNotBeEmpty)
		So(strings.HasPrefix(key.URL, "otpauth://totp/"), ShouldBeTrue)
		So(key.URL, ShouldContainSubstring, "issuer=Catalyst")

		now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

		Convey("当前时间步的验证码有效", func() {
			code, err := CodeAt(key.Secret, now)
			So(err, ShouldBeNil)
			So(tp.ValidateAt(code, key.Secret, now), ShouldBeNil)
		})

		Convey("允许前后一个时间步", func() {
			code, _ := CodeAt(key.Secret, now.Add(-30*time.Second))
			So(tp.ValidateAt(code, key.Secret, now), ShouldBeNil)
		})

		Convey("超出偏移范围无效", func() {
			code, _ := CodeAt(key.Secret, now.Add(-5*time.Minute))
			So(tp.ValidateAt(code, key.Secret, now), ShouldEqual, ErrInvalidCode)
		})

		Convey("格式错误无效", func() {
			So(tp.ValidateAt("abc", key.Secret, now), ShouldEqual, ErrInvalidCode)
		})
	})
}
