//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
)

func TestCategoryRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	cats := []*model.Category{{ID: 1, Name: "Дорогие"}, {ID: 2, Name: "Простые"}}
	catsJSON, _ := json.Marshal(cats)

	t.Run("List should return from cache on hit", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(catsJSON), nil
			},
		}
		innerRepoCalled := false
		inner := &mockInnerCategoryRepo{
			ListFunc: func(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
				innerRepoCalled = true
				return nil, nil
			},
		}

		decorator := NewCategoryRepoCacheDecorator(inner, mockRedis, time.Minute, &logger)
		result, err := decorator.List(ctx, repository.NoTX)

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerRepoCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if len(result) != 2 || result[1].Name != "Простые" {
			t.Errorf("did not return the cached categories: %+v", result)
		}
	})

	t.Run("List should fill the cache on miss", func(t *testing.T) {
		var storedKey string
		var storedTTL time.Duration
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", redis.Nil
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				storedKey, storedTTL = key, expiration
				return nil
			},
		}
		inner := &mockInnerCategoryRepo{
			ListFunc: func(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
				return cats, nil
			},
		}

		decorator := NewCategoryRepoCacheDecorator(inner, mockRedis, time.Minute, &logger)
		result, err := decorator.List(ctx, repository.NoTX)

		if err != nil || len(result) != 2 {
			t.Fatalf("unexpected result %v, %v", result, err)
		}
		if storedKey != categoriesAllKey || storedTTL != time.Minute {
			t.Errorf("cache not filled: key=%q ttl=%v", storedKey, storedTTL)
		}
	})

	t.Run("Redis failure falls through to the database", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", errors.New("connection refused")
			},
		}
		inner := &mockInnerCategoryRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id int64) (*model.Category, error) {
				return cats[0], nil
			},
		}

		decorator := NewCategoryRepoCacheDecorator(inner, mockRedis, 0, &logger)
		c, err := decorator.FindByID(ctx, repository.NoTX, 1)
		if err != nil || c.ID != 1 {
			t.Fatalf("unexpected result %v, %v", c, err)
		}
	})

	t.Run("FindByID does not cache not found", func(t *testing.T) {
		setCalled := false
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", redis.Nil
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setCalled = true
				return nil
			},
		}
		inner := &mockInnerCategoryRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id int64) (*model.Category, error) {
				return nil, domain.ErrNotFound
			},
		}

		decorator := NewCategoryRepoCacheDecorator(inner, mockRedis, time.Minute, &logger)
		if _, err := decorator.FindByID(ctx, repository.NoTX, 99); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if setCalled {
			t.Error("a miss must not be cached")
		}
	})
}

func TestMapPgErr(t *testing.T) {
	if mapPgErr(nil) != nil {
		t.Error("nil must stay nil")
	}
	other := errors.New("boom")
	if mapPgErr(other) != other {
		t.Error("unknown errors pass through")
	}
	if !errors.Is(mapPgErr(pgx.ErrNoRows), domain.ErrNotFound) {
		t.Error("no rows maps to ErrNotFound")
	}
	if !errors.Is(mapPgErr(&pgconn.PgError{Code: "23505"}), domain.ErrAlreadyExists) {
		t.Error("unique violation maps to ErrAlreadyExists")
	}
	if !errors.Is(mapPgErr(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})), domain.ErrInvalidArgument) {
		t.Error("wrapped foreign key violation maps to ErrInvalidArgument")
	}
	if !errors.Is(mapPgErr(&pgconn.PgError{Code: "22003"}), domain.ErrInvalidArgument) {
		t.Error("numeric overflow maps to ErrInvalidArgument")
	}
}
