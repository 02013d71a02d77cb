package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalyst/internal/ai"
	"catalyst/internal/ai/fallback"
	"catalyst/internal/ai/prompt"
	"catalyst/internal/ai/provider"
	"catalyst/internal/config"
	"catalyst/internal/model"
	"catalyst/internal/model/auth"
	"catalyst/internal/pkg/database"
	"catalyst/internal/pkg/id"
	"catalyst/internal/repository"
	"catalyst/internal/repository/sqlstore"
)

var errProviderDown = errors.New("provider down")

func newTestStore(t *testing.T) repository.Store {
	db, err := database.Connect(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:" + id.New() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	store, err := sqlstore.New(db, "sqlite")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func seedUser(t *testing.T, store repository.Store, username string) *auth.User {
	user := &auth.User{
		ID:       id.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Role:     auth.RoleUser,
		Status:   auth.UserStatusActive,
	}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedConversation(t *testing.T, store repository.Store, userID string) *model.Conversation {
	conv, err := NewConversationService(store).Create(context.Background(), userID, &model.CreateConversationRequest{})
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	return conv
}

// recorder 记录收到的 prompt
type recorder struct {
	prompts []string
	reply   string
	err     error
}

func (r *recorder) provider(name string) provider.Provider {
	return provider.Func{ID: name, Fn: func(_ context.Context, p string) (string, error) {
		r.prompts = append(r.prompts, p)
		return r.reply, r.err
	}}
}

func failing(name string) provider.Provider {
	return provider.Func{ID: name, Fn: func(context.Context, string) (string, error) {
		return "", errProviderDown
	}}
}

func newChatService(store repository.Store, providers []provider.Provider, images *ImageService, window int) *ChatService {
	dispatcher := ai.NewDispatcher(providers, fallback.Default(), time.Second)
	return NewChatService(store, prompt.NewAssembler("", 0), dispatcher, images, window)
}
