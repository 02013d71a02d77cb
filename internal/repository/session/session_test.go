package session

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"catalyst/internal/model/auth"
	"catalyst/internal/pkg/cache"
)

func TestRefreshTokenRepo(t *testing.T) {
	ctx := context.Background()

	Convey("RefreshTokenRepo", t, func() {
		store := cache.NewMemoryCache(128, time.Hour)
		repo := NewRefreshTokenRepo(store)

		newToken := func(token, userID string) *auth.RefreshToken {
			return &auth.RefreshToken{Token: token, UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}
		}

		Convey("保存后可以查询", func() {
			So(repo.Create(ctx, newToken("t1", "u1")), ShouldBeNil)

			rt, err := repo.FindByToken(ctx, "t1")
			So(err, ShouldBeNil)
			So(rt.UserID, ShouldEqual, "u1")
			So(rt.CreatedAt.IsZero(), ShouldBeFalse)
		})

		Convey("不存在的 token", func() {
			_, err := repo.FindByToken(ctx, "missing")
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("已过期的 token 拒绝保存", func() {
			rt := newToken("old", "u1")
			rt.ExpiresAt = time.Now().Add(-time.Minute)
			So(repo.Create(ctx, rt), ShouldNotBeNil)
		})

		Convey("删除单个 token", func() {
			So(repo.Create(ctx, newToken("t1", "u1")), ShouldBeNil)
			So(repo.DeleteByToken(ctx, "t1"), ShouldBeNil)
			_, err := repo.FindByToken(ctx, "t1")
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("删除用户所有 token 不影响其他用户", func() {
			So(repo.Create(ctx, newToken("a1", "alice")), ShouldBeNil)
			So(repo.Create(ctx, newToken("a2", "alice")), ShouldBeNil)
			So(repo.Create(ctx, newToken("b1", "bob")), ShouldBeNil)

			So(repo.DeleteByUserID(ctx, "alice"), ShouldBeNil)

			_, err := repo.FindByToken(ctx, "a1")
			So(err, ShouldEqual, ErrNotFound)
			_, err = repo.FindByToken(ctx, "a2")
			So(err, ShouldEqual, ErrNotFound)
			_, err = repo.FindByToken(ctx, "b1")
			So(err, ShouldBeNil)

			So(repo.DeleteByUserID(ctx, "nobody"), ShouldBeNil)
		})
	})
}

func TestPendingTOTPRepo(t *testing.T) {
	ctx := context.Background()

	Convey("PendingTOTPRepo", t, func() {
		repo := NewPendingTOTPRepo(cache.NewMemoryCache(16, time.Hour), 10*time.Minute)

		So(repo.Save(ctx, &auth.PendingTOTP{UserID: "u1", Secret: "S1"}), ShouldBeNil)
		So(repo.Save(ctx, &auth.PendingTOTP{UserID: "u1", Secret: "S2"}), ShouldBeNil)

		pending, err := repo.Find(ctx, "u1")
		So(err, ShouldBeNil)
		So(pending.Secret, ShouldEqual, "S2")

		So(repo.Delete(ctx, "u1"), ShouldBeNil)
		_, err = repo.Find(ctx, "u1")
		So(err, ShouldEqual, ErrNotFound)
	})
}
