package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
	"telegram-car-rental/internal/infra/metrics"
	red "telegram-car-rental/internal/infra/redis"
)

var _ repository.CategoryRepository = (*categoryRepoCacheDecorator)(nil)

const categoriesAllKey = "categories:all"

// categoryRepoCacheDecorator caches the seeded category list, which every
// catalog screen and every add-product form reads.
type categoryRepoCacheDecorator struct {
	inner repository.CategoryRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewCategoryRepoCacheDecorator(inner repository.CategoryRepository, cache red.RedisClient, ttl time.Duration, log *zerolog.Logger) repository.CategoryRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &categoryRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl, log: log}
}

func (d *categoryRepoCacheDecorator) List(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	val, err := d.cache.Get(ctx, categoriesAllKey)
	if err == nil {
		var cats []*model.Category
		if json.Unmarshal([]byte(val), &cats) == nil {
			metrics.ObserveCache("category_list", true)
			return cats, nil
		}
	} else if err != redis.Nil {
		d.log.Warn().Err(err).Str("key", categoriesAllKey).Msg("category cache read failed")
	}

	metrics.ObserveCache("category_list", false)
	cats, err := d.inner.List(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(cats) > 0 {
		bytes, _ := json.Marshal(cats)
		if err := d.cache.Set(ctx, categoriesAllKey, bytes, d.ttl); err != nil {
			d.log.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return cats, nil
}

func (d *categoryRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Category, error) {
	key := fmt.Sprintf("category:%d", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var c model.Category
		if json.Unmarshal([]byte(val), &c) == nil {
			metrics.ObserveCache("category", true)
			return &c, nil
		}
	} else if err != redis.Nil {
		d.log.Warn().Err(err).Str("key", key).Msg("category cache read failed")
	}

	metrics.ObserveCache("category", false)
	c, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	bytes, _ := json.Marshal(c)
	_ = d.cache.Set(ctx, key, bytes, d.ttl)
	return c, nil
}
