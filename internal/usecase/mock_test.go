//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"testing/fstest"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
	"telegram-car-rental/internal/infra/db/memory"
	"telegram-car-rental/internal/infra/i18n"
)

// =============================
// Repositories
// =============================

// ---- MockUserRepo wraps the in-memory repo with overridable hooks ----

type MockUserRepo struct {
	*memory.UserRepo

	CreateFunc func(ctx context.Context, tx repository.Tx, u *model.User) error
	ExistsFunc func(ctx context.Context, tx repository.Tx, tgID int64) (bool, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo(store *memory.Store) *MockUserRepo {
	return &MockUserRepo{UserRepo: store.Users()}
}

func (r *MockUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, tx, u)
	}
	return r.UserRepo.Create(ctx, tx, u)
}

func (r *MockUserRepo) Exists(ctx context.Context, tx repository.Tx, tgID int64) (bool, error) {
	if r.ExistsFunc != nil {
		return r.ExistsFunc(ctx, tx, tgID)
	}
	return r.UserRepo.Exists(ctx, tx, tgID)
}

// ---- MockCartRepo ----

type MockCartRepo struct {
	*memory.CartRepo

	SaveFunc func(ctx context.Context, tx repository.Tx, item *model.CartItem) error
}

var _ repository.CartRepository = (*MockCartRepo)(nil)

func NewMockCartRepo(store *memory.Store) *MockCartRepo {
	return &MockCartRepo{CartRepo: store.Cart()}
}

func (r *MockCartRepo) Save(ctx context.Context, tx repository.Tx, item *model.CartItem) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, item)
	}
	return r.CartRepo.Save(ctx, tx, item)
}

// ---- MockTxManager ----

type MockTxManager struct {
	Calls      int
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn immediately with NoTX unless WithTxFunc is set.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// =============================
// Helpers
// =============================

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestTranslator() *i18n.Translator {
	testFS := fstest.MapFS{
		"locales/ru.yaml": {
			Data: []byte("form_product_price_retry: 'bad price'\nform_reg_phone_retry: 'share your contact'\nform_banner_page_retry: 'pages: %s'"),
		},
	}
	translator, _ := i18n.NewTranslator(testFS, "ru")
	return translator
}

// seedCatalog creates two categories and one available and one occupied
// product in the first one.
func seedCatalog(store *memory.Store) (cat1, cat2 *model.Category, free, busy *model.Product) {
	ctx := context.Background()
	cat1 = store.AddCategory("Дорогие")
	cat2 = store.AddCategory("Простые")
	free = &model.Product{Name: "BMW X5", Description: "SUV", Price: 5000, Image: "img-bmw", Status: model.StatusAvailable, CategoryID: cat1.ID}
	busy = &model.Product{Name: "Audi A6", Description: "Sedan", Price: 4000, Image: "img-audi", Status: model.StatusOccupied, CategoryID: cat1.ID}
	_ = store.Products().Create(ctx, repository.NoTX, free)
	_ = store.Products().Create(ctx, repository.NoTX, busy)
	return cat1, cat2, free, busy
}
