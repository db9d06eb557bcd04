// Package memory provides in-process implementations of the repository ports.
// It backs the dev mode (no database configured) and unit tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
)

// Store keeps all catalog data behind one lock. The typed accessors return
// views that satisfy the individual repository ports.
type Store struct {
	mu sync.RWMutex

	nextID     int64
	categories map[int64]*model.Category
	products   map[int64]*model.Product
	banners    map[string]*model.Banner
	users      map[int64]*model.User // by TelegramID
	cart       map[cartKey]*model.CartItem
}

type cartKey struct{ user, product int64 }

func NewStore() *Store {
	return &Store{
		categories: make(map[int64]*model.Category),
		products:   make(map[int64]*model.Product),
		banners:    make(map[string]*model.Banner),
		users:      make(map[int64]*model.User),
		cart:       make(map[cartKey]*model.CartItem),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s} }
func (s *Store) Products() *ProductRepo    { return &ProductRepo{s} }
func (s *Store) Banners() *BannerRepo      { return &BannerRepo{s} }
func (s *Store) Users() *UserRepo          { return &UserRepo{s} }
func (s *Store) Cart() *CartRepo           { return &CartRepo{s} }

// AddCategory inserts a category and returns it with its id set.
func (s *Store) AddCategory(name string) *model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.Category{ID: s.id(), Name: name}
	s.categories[c.ID] = c
	cp := *c
	return &cp
}

// -----------------------------
// Categories
// -----------------------------

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) List(_ context.Context, _ repository.Tx) ([]*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CategoryRepo) FindByID(_ context.Context, _ repository.Tx, id int64) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// -----------------------------
// Products
// -----------------------------

var _ repository.ProductRepository = (*ProductRepo)(nil)

type ProductRepo struct{ s *Store }

func (r *ProductRepo) ListByCategory(_ context.Context, _ repository.Tx, categoryID int64, includeOccupied bool) ([]*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*model.Product
	for _, p := range r.s.products {
		if p.CategoryID != categoryID {
			continue
		}
		if !includeOccupied && !p.IsAvailable() {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepo) FindByID(_ context.Context, _ repository.Tx, id int64) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) Create(_ context.Context, _ repository.Tx, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return domain.ErrInvalidArgument
	}
	p.ID = r.s.id()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) Update(_ context.Context, _ repository.Tx, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return domain.ErrInvalidArgument
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

// Delete removes the product and its cart lines.
func (r *ProductRepo) Delete(_ context.Context, _ repository.Tx, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	for k := range r.s.cart {
		if k.product == id {
			delete(r.s.cart, k)
		}
	}
	return nil
}

// -----------------------------
// Banners
// -----------------------------

var _ repository.BannerRepository = (*BannerRepo)(nil)

type BannerRepo struct{ s *Store }

func (r *BannerRepo) List(_ context.Context, _ repository.Tx) ([]*model.Banner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Banner, 0, len(r.s.banners))
	for _, b := range r.s.banners {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BannerRepo) FindByName(_ context.Context, _ repository.Tx, name string) (*model.Banner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.banners[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *BannerRepo) Save(_ context.Context, _ repository.Tx, b *model.Banner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if old, ok := r.s.banners[b.Name]; ok {
		b.ID = old.ID
	} else {
		b.ID = r.s.id()
	}
	cp := *b
	r.s.banners[b.Name] = &cp
	return nil
}

func (r *BannerRepo) SetImage(_ context.Context, _ repository.Tx, name, image string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.banners[name]
	if !ok {
		return domain.ErrNotFound
	}
	b.Image = image
	return nil
}

// -----------------------------
// Users
// -----------------------------

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, _ repository.Tx, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.TelegramID]; ok {
		return domain.ErrAlreadyExists
	}
	u.ID = r.s.id()
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = time.Now()
	}
	cp := *u
	r.s.users[u.TelegramID] = &cp
	return nil
}

func (r *UserRepo) FindByTelegramID(_ context.Context, _ repository.Tx, tgID int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) Exists(_ context.Context, _ repository.Tx, tgID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.users[tgID]
	return ok, nil
}

// -----------------------------
// Cart
// -----------------------------

var _ repository.CartRepository = (*CartRepo)(nil)

type CartRepo struct{ s *Store }

func (r *CartRepo) FindItem(_ context.Context, _ repository.Tx, userID, productID int64) (*model.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.cart[cartKey{userID, productID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *it
	cp.Product = nil
	return &cp, nil
}

func (r *CartRepo) Save(_ context.Context, _ repository.Tx, item *model.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[item.UserID]; !ok {
		return domain.ErrInvalidArgument
	}
	if _, ok := r.s.products[item.ProductID]; !ok {
		return domain.ErrInvalidArgument
	}
	k := cartKey{item.UserID, item.ProductID}
	if old, ok := r.s.cart[k]; ok {
		item.ID = old.ID
	} else {
		item.ID = r.s.id()
	}
	cp := *item
	cp.Product = nil
	r.s.cart[k] = &cp
	return nil
}

func (r *CartRepo) Delete(_ context.Context, _ repository.Tx, userID, productID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := cartKey{userID, productID}
	if _, ok := r.s.cart[k]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.cart, k)
	return nil
}

func (r *CartRepo) ListByUser(_ context.Context, _ repository.Tx, userID int64) ([]*model.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*model.CartItem
	for k, it := range r.s.cart {
		if k.user != userID {
			continue
		}
		cp := *it
		if p, ok := r.s.products[k.product]; ok {
			pc := *p
			cp.Product = &pc
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// -----------------------------
// Conversation state
// -----------------------------

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo stores conversation state as deep copies.
type StateRepo struct {
	mu     sync.RWMutex
	states map[int64]*repository.ConversationState
}

func NewStateRepo() *StateRepo {
	return &StateRepo{states: make(map[int64]*repository.ConversationState)}
}

func (r *StateRepo) SetState(_ context.Context, convID int64, st *repository.ConversationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[convID] = copyState(st)
	return nil
}

func (r *StateRepo) GetState(_ context.Context, convID int64) (*repository.ConversationState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.states[convID]
	if !ok {
		return nil, nil
	}
	return copyState(st), nil
}

func (r *StateRepo) ClearState(_ context.Context, convID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, convID)
	return nil
}

func copyState(st *repository.ConversationState) *repository.ConversationState {
	cp := *st
	cp.Data = copyMap(st.Data)
	cp.Original = copyMap(st.Original)
	if st.EditingID != nil {
		id := *st.EditingID
		cp.EditingID = &id
	}
	return &cp
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// -----------------------------
// Transactions
// -----------------------------

var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager serialises transactional blocks. It does not roll back.
type TxManager struct{ mu sync.Mutex }

func NewTxManager() *TxManager { return &TxManager{} }

func (m *TxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

// CategoryByName is a small lookup used by seeding and tests.
func (s *Store) CategoryByName(name string) (*model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, true
		}
	}
	return nil, false
}
