package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func TestManagerRegisterAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := &Manager{
		store: store,
		keyer: store,
		ttl:   time.Hour,
	}

	ctx := context.Background()
	if err := manager.Register(ctx, "access-123", "person-1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := store.data["sess:access-123"]; got != "person-1" {
		t.Fatalf("expected person stored, got %q", got)
	}
	if got := store.ttls["sess:access-123"]; got != time.Hour {
		t.Fatalf("unexpected ttl %s", got)
	}

	present, err := manager.HasSession(ctx, "access-123")
	if err != nil || !present {
		t.Fatalf("expected session present, got %v %v", present, err)
	}

	if err := manager.Revoke(ctx, "access-123"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	present, err = manager.HasSession(ctx, "access-123")
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if present {
		t.Fatalf("expected session to be gone after revoke")
	}
}

func TestManagerRejectsBlankAccessID(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Minute}

	if err := manager.Register(context.Background(), " ", "person"); err == nil {
		t.Fatalf("expected error for blank access id")
	}
	if _, err := manager.HasSession(context.Background(), ""); err == nil {
		t.Fatalf("expected error for blank access id")
	}
	if err := manager.Revoke(context.Background(), ""); err == nil {
		t.Fatalf("expected error for blank access id")
	}
}
