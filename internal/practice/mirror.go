package practice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"intabyu/internal/client"
)

// Mirror is a local copy of the last category list seen from the API. It
// is only read when the API is unreachable, and nothing assumes it is
// present or current.
type Mirror interface {
	SaveAll(ctx context.Context, categories []client.Category) error
	LoadAll(ctx context.Context) ([]client.Category, error)
}

// MemoryMirror keeps the mirror in process.
type MemoryMirror struct {
	mu         sync.Mutex
	categories []client.Category
}

// NewMemoryMirror creates an empty in-process mirror.
func NewMemoryMirror() *MemoryMirror { return &MemoryMirror{} }

// SaveAll replaces the mirrored list.
func (m *MemoryMirror) SaveAll(_ context.Context, categories []client.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = cloneCategories(categories)
	return nil
}

// LoadAll returns the mirrored list, nil if nothing was saved.
func (m *MemoryMirror) LoadAll(context.Context) ([]client.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneCategories(m.categories), nil
}

// RedisMirror stores the list as one JSON value per user.
type RedisMirror struct {
	rdb redis.Cmdable
	key string
	ttl time.Duration
}

// MirrorKey is the redis key holding a user's categories.
func MirrorKey(userID string) string {
	return "intabyu:categories:" + userID
}

// NewRedisMirror creates a mirror for userID. A zero ttl keeps the value
// until it is overwritten.
func NewRedisMirror(rdb redis.Cmdable, userID string, ttl time.Duration) *RedisMirror {
	return &RedisMirror{rdb: rdb, key: MirrorKey(userID), ttl: ttl}
}

// NewRedisClient connects to redis at addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SaveAll overwrites the mirrored list.
func (m *RedisMirror) SaveAll(ctx context.Context, categories []client.Category) error {
	b, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("encoding mirror: %w", err)
	}
	if err := m.rdb.Set(ctx, m.key, b, m.ttl).Err(); err != nil {
		return fmt.Errorf("saving mirror %s: %w", m.key, err)
	}
	return nil
}

// LoadAll returns the mirrored list, nil if the key is absent.
func (m *RedisMirror) LoadAll(ctx context.Context) ([]client.Category, error) {
	b, err := m.rdb.Get(ctx, m.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading mirror %s: %w", m.key, err)
	}
	var out []client.Category
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decoding mirror %s: %w", m.key, err)
	}
	return out, nil
}

func cloneCategories(in []client.Category) []client.Category {
	if in == nil {
		return nil
	}
	out := make([]client.Category, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Questions = append([]client.Question{}, c.Questions...)
	}
	return out
}
