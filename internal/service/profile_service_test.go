package service

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"catalyst/internal/model"
)

func TestProfileService(t *testing.T) {
	ctx := context.Background()

	Convey("ProfileService", t, func() {
		store := newTestStore(t)
		alice := seedUser(t, store, "alice")
		svc := NewProfileService(store.Users())

		str := func(s string) *string { return &s }

		Convey("部分更新", func() {
			u, err := svc.Update(ctx, alice.ID, &model.UpdateProfileRequest{Bio: str("dev"), Preferences: str(`{"personality":"divertido"}`)})
			So(err, ShouldBeNil)
			So(u.Bio, ShouldEqual, "dev")
			So(u.Preferences, ShouldEqual, `{"personality":"divertido"}`)

			u, err = svc.Update(ctx, alice.ID, &model.UpdateProfileRequest{Name: str("Alice")})
			So(err, ShouldBeNil)
			So(u.Name, ShouldEqual, "Alice")
			So(u.Bio, ShouldEqual, "dev")
		})

		Convey("preferences 必须是 JSON 对象", func() {
			_, err := svc.Update(ctx, alice.ID, &model.UpdateProfileRequest{Preferences: str("formal")})
			So(err, ShouldEqual, ErrInvalidPreferences)
			_, err = svc.Update(ctx, alice.ID, &model.UpdateProfileRequest{Preferences: str("[1,2]")})
			So(err, ShouldEqual, ErrInvalidPreferences)
		})
	})
}
