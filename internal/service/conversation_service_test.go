package service

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"catalyst/internal/model"
)

func TestConversationService(t *testing.T) {
	ctx := context.Background()

	Convey("ConversationService", t, func() {
		store := newTestStore(t)
		alice := seedUser(t, store, "alice")
		bob := seedUser(t, store, "bob")
		svc := NewConversationService(store)

		conv, err := svc.Create(ctx, alice.ID, &model.CreateConversationRequest{SystemPrompt: "  Seja breve "})
		So(err, ShouldBeNil)
		So(conv.Title, ShouldEqual, model.DefaultConversationTitle)
		So(conv.SystemPrompt, ShouldEqual, "Seja breve")

		Convey("列表只包含自己的对话", func() {
			list, err := svc.List(ctx, alice.ID)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 1)

			list, err = svc.List(ctx, bob.ID)
			So(err, ShouldBeNil)
			So(list, ShouldNotBeNil)
			So(list, ShouldBeEmpty)
		})

		Convey("清除系统提示词", func() {
			got, err := svc.UpdateSystemPrompt(ctx, alice.ID, conv.ID, "")
			So(err, ShouldBeNil)
			So(got.SystemPrompt, ShouldBeEmpty)

			_, err = svc.UpdateSystemPrompt(ctx, bob.ID, conv.ID, "x")
			So(err, ShouldEqual, ErrConversationNotFound)
		})

		Convey("删除对话后不留下孤儿消息", func() {
			chat := newChatService(store, nil, nil, 6)
			for _, content := range []string{"um", "dois"} {
				_, err := chat.SendMessage(ctx, alice.ID, conv.ID, content, false)
				So(err, ShouldBeNil)
			}
			other, err := svc.Create(ctx, alice.ID, &model.CreateConversationRequest{})
			So(err, ShouldBeNil)
			_, err = chat.SendMessage(ctx, alice.ID, other.ID, "três", false)
			So(err, ShouldBeNil)

			msgs, err := svc.Messages(ctx, alice.ID, conv.ID)
			So(err, ShouldBeNil)
			So(msgs, ShouldHaveLength, 4)

			So(svc.Delete(ctx, bob.ID, conv.ID), ShouldEqual, ErrConversationNotFound)
			So(svc.Delete(ctx, alice.ID, conv.ID), ShouldBeNil)

			_, err = svc.Messages(ctx, alice.ID, conv.ID)
			So(err, ShouldEqual, ErrConversationNotFound)

			left, err := store.Messages().ListByConversation(ctx, conv.ID)
			So(err, ShouldBeNil)
			So(left, ShouldBeEmpty)

			total, err := store.Messages().Count(ctx)
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 2)
		})
	})
}
