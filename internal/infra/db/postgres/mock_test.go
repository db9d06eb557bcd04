//go:build !integration

package postgres

import (
	"context"
	"time"

	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
	red "telegram-car-rental/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerCategoryRepo mocks the database repository that the decorator wraps.
type mockInnerCategoryRepo struct {
	ListFunc     func(ctx context.Context, tx repository.Tx) ([]*model.Category, error)
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.Category, error)
}

func (m *mockInnerCategoryRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	return m.ListFunc(ctx, tx)
}
func (m *mockInnerCategoryRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Category, error) {
	return m.FindByIDFunc(ctx, tx, id)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	SetNXFunc  func(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return m.SetNXFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
