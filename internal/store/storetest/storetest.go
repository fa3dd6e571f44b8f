// Package storetest opens throwaway stores for tests.
package storetest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"example.com/socialfeed/internal/models"
	"example.com/socialfeed/internal/store"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
)

// New returns a store over a private in-memory sqlite database with the schema
// created. The database is dropped when the test ends.
func New(t testing.TB) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	st, err := store.Open(sqlite.Open(dsn), "silent")
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	// sqlite serializes writers; a single connection keeps transactions deterministic.
	if err := st.SetMaxOpenConns(1); err != nil {
		t.Fatalf("configure pool: %v", err)
	}
	if err := st.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(st.Close)
	return st
}

// User creates a user with the given username.
func User(t testing.TB, st store.StoreInterface, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username}
	if err := st.CreateUser(t.Context(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// Post creates a post by author. Consecutive calls get strictly increasing
// creation times so ordering assertions are stable.
func Post(t testing.TB, st store.StoreInterface, author *models.User, content string) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author.ID, Content: content, CreatedAt: nextTime()}
	if err := st.CreatePost(t.Context(), p); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

var (
	epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks atomic.Int64
)

func nextTime() time.Time {
	return epoch.Add(time.Duration(ticks.Add(1)) * time.Second)
}
