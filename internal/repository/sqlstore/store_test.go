package sqlstore

import (
	"testing"

	"catalyst/internal/config"
	"catalyst/internal/pkg/database"
	"catalyst/internal/pkg/id"
	"catalyst/internal/repository"
	"catalyst/internal/repository/storetest"
)

func newSQLiteStore(t *testing.T) repository.Store {
	db, err := database.Connect(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:" + id.New() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	store, err := New(db, "sqlite")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestStore_SQLite(t *testing.T) {
	storetest.Run(t, func() repository.Store { return newSQLiteStore(t) })
}
