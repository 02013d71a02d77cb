// Package storetest 持久存储的通用行为测试，sqlstore 与 mongostore 共用
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"catalyst/internal/model"
	"catalyst/internal/model/auth"
	"catalyst/internal/pkg/id"
	"catalyst/internal/repository"
)

// Run 对 newStore 返回的存储执行全部用例，每个用例使用新的存储
func Run(t *testing.T, newStore func() repository.Store) {
	ctx := context.Background()

	Convey("持久存储", t, func() {
		store := newStore()
		Reset(func() { _ = store.Close(ctx) })

		So(store.Ping(ctx), ShouldBeNil)

		alice := NewUser("alice")
		bob := NewUser("bob")
		So(store.Users().Create(ctx, alice), ShouldBeNil)
		So(store.Users().Create(ctx, bob), ShouldBeNil)

		Convey("用户", func() {
			Convey("用户名重复返回 ErrDuplicate", func() {
				dup := NewUser("alice")
				dup.Email = "other@example.com"
				So(store.Users().Create(ctx, dup), ShouldEqual, repository.ErrDuplicate)
			})

			Convey("按用户名和邮箱查询", func() {
				u, err := store.Users().FindByUsername(ctx, "alice")
				So(err, ShouldBeNil)
				So(u.ID, ShouldEqual, alice.ID)

				u, err = store.Users().FindByEmail(ctx, "bob@example.com")
				So(err, ShouldBeNil)
				So(u.ID, ShouldEqual, bob.ID)

				_, err = store.Users().FindByID(ctx, id.New())
				So(err, ShouldEqual, repository.ErrNotFound)
			})

			Convey("部分更新", func() {
				bio := "olá"
				role := auth.RoleAdmin
				enabled := true
				So(store.Users().Update(ctx, alice.ID, auth.UserUpdate{Bio: &bio, Role: &role, TwoFactorEnabled: &enabled}), ShouldBeNil)

				u, err := store.Users().FindByID(ctx, alice.ID)
				So(err, ShouldBeNil)
				So(u.Bio, ShouldEqual, "olá")
				So(u.Role, ShouldEqual, auth.RoleAdmin)
				So(u.TwoFactorEnabled, ShouldBeTrue)
				So(u.Username, ShouldEqual, "alice")

				So(store.Users().Update(ctx, id.New(), auth.UserUpdate{Bio: &bio}), ShouldEqual, repository.ErrNotFound)
			})

			Convey("分页和计数", func() {
				users, total, err := store.Users().List(ctx, 1, 1)
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 2)
				So(users, ShouldHaveLength, 1)

				n, err := store.Users().Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
			})
		})

		conv := NewConversation(alice.ID)
		So(store.Conversations().Create(ctx, conv), ShouldBeNil)

		Convey("对话只对所有者可见", func() {
			_, err := store.Conversations().FindByID(ctx, bob.ID, conv.ID)
			So(err, ShouldEqual, repository.ErrNotFound)

			got, err := store.Conversations().FindByID(ctx, alice.ID, conv.ID)
			So(err, ShouldBeNil)
			So(got.Title, ShouldEqual, model.DefaultConversationTitle)

			list, err := store.Conversations().ListByUser(ctx, bob.ID)
			So(err, ShouldBeNil)
			So(list, ShouldBeEmpty)

			So(store.Conversations().UpdateSystemPrompt(ctx, bob.ID, conv.ID, "x"), ShouldEqual, repository.ErrNotFound)
			So(store.Conversations().Delete(ctx, bob.ID, conv.ID), ShouldEqual, repository.ErrNotFound)
			So(store.Conversations().AppendExchange(ctx, NewExchange(bob.ID, conv.ID, time.Now().UTC(), "t")), ShouldEqual, repository.ErrNotFound)
		})

		Convey("更新系统提示词", func() {
			So(store.Conversations().UpdateSystemPrompt(ctx, alice.ID, conv.ID, "Responda em inglês"), ShouldBeNil)
			got, err := store.Conversations().FindByID(ctx, alice.ID, conv.ID)
			So(err, ShouldBeNil)
			So(got.SystemPrompt, ShouldEqual, "Responda em inglês")
		})

		Convey("消息按 (createdAt, id) 升序返回", func() {
			base := time.Now().UTC().Truncate(time.Millisecond)
			for i := 0; i < 3; i++ {
				ex := NewExchange(alice.ID, conv.ID, base.Add(time.Duration(i)*time.Second), "")
				ex.UserMessage.Content = fmt.Sprintf("q%d", i)
				ex.AssistantMessage.Content = fmt.Sprintf("a%d", i)
				So(store.Conversations().AppendExchange(ctx, ex), ShouldBeNil)
			}

			msgs, err := store.Messages().ListByConversation(ctx, conv.ID)
			So(err, ShouldBeNil)
			So(msgs, ShouldHaveLength, 6)
			for i, want := range []string{"q0", "a0", "q1", "a1", "q2", "a2"} {
				So(msgs[i].Content, ShouldEqual, want)
			}

			recent, err := store.Messages().ListRecent(ctx, conv.ID, 3)
			So(err, ShouldBeNil)
			So(recent, ShouldHaveLength, 3)
			So(recent[0].Content, ShouldEqual, "a1")
			So(recent[2].Content, ShouldEqual, "a2")

			got, err := store.Conversations().FindByID(ctx, alice.ID, conv.ID)
			So(err, ShouldBeNil)
			So(got.UpdatedAt.Unix(), ShouldEqual, base.Add(2*time.Second).Unix())
		})

		Convey("标题只自动设置一次", func() {
			now := time.Now().UTC()
			So(store.Conversations().AppendExchange(ctx, NewExchange(alice.ID, conv.ID, now, "Primeira pergunta")), ShouldBeNil)
			So(store.Conversations().AppendExchange(ctx, NewExchange(alice.ID, conv.ID, now.Add(time.Second), "Segunda pergunta")), ShouldBeNil)

			got, err := store.Conversations().FindByID(ctx, alice.ID, conv.ID)
			So(err, ShouldBeNil)
			So(got.Title, ShouldEqual, "Primeira pergunta")
		})

		Convey("删除对话同时删除消息", func() {
			now := time.Now().UTC()
			for i := 0; i < 2; i++ {
				So(store.Conversations().AppendExchange(ctx, NewExchange(alice.ID, conv.ID, now.Add(time.Duration(i)*time.Second), "")), ShouldBeNil)
			}
			n, err := store.Messages().Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 4)

			So(store.Conversations().Delete(ctx, alice.ID, conv.ID), ShouldBeNil)

			msgs, err := store.Messages().ListByConversation(ctx, conv.ID)
			So(err, ShouldBeNil)
			So(msgs, ShouldBeEmpty)

			_, err = store.Conversations().FindByID(ctx, alice.ID, conv.ID)
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("管理后台分页列出所有对话", func() {
			So(store.Conversations().Create(ctx, NewConversation(bob.ID)), ShouldBeNil)
			convs, total, err := store.Conversations().ListAll(ctx, 1, 10)
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 2)
			So(convs, ShouldHaveLength, 2)

			n, err := store.Conversations().Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})
	})
}

// NewUser 构造测试用户
func NewUser(username string) *auth.User {
	return &auth.User{
		ID:       id.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Role:     auth.RoleUser,
		Status:   auth.UserStatusActive,
	}
}

// NewConversation 构造测试对话
func NewConversation(userID string) *model.Conversation {
	return &model.Conversation{
		ID:     id.New(),
		UserID: userID,
		Title:  model.DefaultConversationTitle,
	}
}

// NewExchange 构造一次问答，两条消息共享同一时间戳
func NewExchange(userID, conversationID string, at time.Time, title string) *model.Exchange {
	return &model.Exchange{
		ConversationID: conversationID,
		UserID:         userID,
		UserMessage: &model.Message{
			ID: id.NewOrdered(), ConversationID: conversationID,
			Role: model.RoleUser, Content: "pergunta", CreatedAt: at,
		},
		AssistantMessage: &model.Message{
			ID: id.NewOrdered(), ConversationID: conversationID,
			Role: model.RoleAssistant, Content: "resposta", CreatedAt: at,
		},
		Title: title,
		At:    at,
	}
}
