package menu

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/adapter"
	"telegram-car-rental/internal/domain/ports/repository"
	"telegram-car-rental/internal/infra/logging"
	"telegram-car-rental/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Texts resolves caption and button keys.
type Texts interface {
	T(key string, args ...interface{}) string
}

// CartService is the part of the cart use case the resolver needs.
type CartService interface {
	Quantity(ctx context.Context, userID, productID int64) (int, error)
	Items(ctx context.Context, userID int64) ([]*model.CartItem, error)
	Increment(ctx context.Context, userID, productID int64) error
	Decrement(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
}

// Resolver computes screens from repository reads. It keeps no state between
// calls.
type Resolver struct {
	banners    repository.BannerRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	cart       CartService
	texts      Texts
	log        *zerolog.Logger
}

func NewResolver(
	banners repository.BannerRepository,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	cart CartService,
	texts Texts,
	logger *zerolog.Logger,
) *Resolver {
	return &Resolver{
		banners:    banners,
		categories: categories,
		products:   products,
		cart:       cart,
		texts:      texts,
		log:        logger,
	}
}

// Resolve returns the screen for req. Cart mutations named by req.Menu are
// applied before the cart is rendered.
func (r *Resolver) Resolve(ctx context.Context, req NavigationRequest) (*Screen, error) {
	defer logging.TraceDuration(r.log, "MenuResolver.Resolve")()

	var (
		s   *Screen
		err error
	)
	switch req.Level {
	case LevelMain:
		s, err = r.mainMenu(ctx)
	case LevelInfo:
		if req.Menu == MenuCatalog {
			s, err = r.catalog(ctx)
		} else {
			s, err = r.infoPage(ctx, req.Menu)
		}
	case LevelProducts:
		s, err = r.productPage(ctx, req)
	case LevelCart:
		s, err = r.cartPage(ctx, req)
	default:
		return nil, fmt.Errorf("resolve level %d: %w", req.Level, domain.ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}
	metrics.IncMenuRender(MetricLabel(req.Menu))
	return s, nil
}

func (r *Resolver) mainMenu(ctx context.Context) (*Screen, error) {
	b, err := r.banner(ctx, model.PageMain)
	if err != nil {
		return nil, err
	}
	kb := &keyboard{}
	kb.row(
		kb.nav(r.texts.T("btn_catalog"), NavigationRequest{Level: LevelInfo, Menu: MenuCatalog}),
		kb.nav(r.texts.T("btn_cart"), NavigationRequest{Level: LevelCart, Menu: MenuCart}),
	)
	kb.row(
		kb.nav(r.texts.T("btn_about"), NavigationRequest{Level: LevelInfo, Menu: MenuAbout}),
		kb.nav(r.texts.T("btn_payment"), NavigationRequest{Level: LevelInfo, Menu: MenuPayment}),
	)
	return kb.screen(b.Image, r.texts.T("page_"+model.PageMain))
}

func (r *Resolver) infoPage(ctx context.Context, page string) (*Screen, error) {
	if page != model.PageAbout && page != model.PagePayment {
		return nil, fmt.Errorf("resolve info page %q: %w", page, domain.ErrInvalidArgument)
	}
	b, err := r.banner(ctx, page)
	if err != nil {
		return nil, err
	}
	kb := &keyboard{}
	kb.row(kb.nav(r.texts.T("btn_back"), NavigationRequest{Level: LevelMain, Menu: MenuMain}))
	return kb.screen(b.Image, r.texts.T("page_"+page))
}

func (r *Resolver) catalog(ctx context.Context) (*Screen, error) {
	b, err := r.banner(ctx, model.PageCatalog)
	if err != nil {
		return nil, err
	}
	cats, err := r.categories.List(ctx, repository.NoTX)
	if err != nil {
		return nil, domain.RepositoryError("list categories", err)
	}
	kb := &keyboard{}
	for _, c := range cats {
		kb.row(kb.nav(c.Name, NavigationRequest{
			Level:    LevelProducts,
			Menu:     MenuProducts,
			Category: ID(c.ID),
		}))
	}
	kb.row(
		kb.nav(r.texts.T("btn_back"), NavigationRequest{Level: LevelMain, Menu: MenuMain}),
		kb.nav(r.texts.T("btn_cart"), NavigationRequest{Level: LevelCart, Menu: MenuCart}),
	)
	return kb.screen(b.Image, r.texts.T("page_"+model.PageCatalog))
}

func (r *Resolver) productPage(ctx context.Context, req NavigationRequest) (*Screen, error) {
	if req.Category == nil {
		return nil, fmt.Errorf("resolve products: no category: %w", domain.ErrInvalidArgument)
	}
	list, err := r.products.ListByCategory(ctx, repository.NoTX, *req.Category, false)
	if err != nil {
		return nil, domain.RepositoryError("list products", err)
	}

	back := NavigationRequest{Level: LevelInfo, Menu: MenuCatalog}
	toCart := NavigationRequest{Level: LevelCart, Menu: MenuCart}

	if len(list) == 0 {
		b, err := r.banner(ctx, model.PageCatalog)
		if err != nil {
			return nil, err
		}
		kb := &keyboard{}
		kb.row(kb.nav(r.texts.T("btn_back"), back))
		return kb.screen(b.Image, r.texts.T("products_empty"))
	}

	page := clampPage(req.Page, len(list))
	p := list[page]

	qty := 0
	if req.UserID != nil {
		if qty, err = r.cart.Quantity(ctx, *req.UserID, p.ID); err != nil {
			return nil, err
		}
	}

	at := func(pg int) NavigationRequest {
		return NavigationRequest{Level: LevelProducts, Menu: MenuProducts, Category: req.Category, Page: pg}
	}
	kb := &keyboard{}
	kb.row(kb.pager(r.texts, page, len(list), at)...)
	kb.row(kb.nav(r.texts.T("btn_buy", qty), NavigationRequest{
		Level:     LevelProducts,
		Menu:      MenuAddToCart,
		Category:  req.Category,
		Page:      page,
		ProductID: ID(p.ID),
	}))
	kb.row(kb.nav(r.texts.T("btn_back"), back), kb.nav(r.texts.T("btn_cart"), toCart))

	caption := r.texts.T("product_caption",
		html.EscapeString(p.Name),
		html.EscapeString(p.Description),
		r.price(p.Price),
		page+1, len(list),
	)
	return kb.screen(p.Image, caption)
}

func (r *Resolver) cartPage(ctx context.Context, req NavigationRequest) (*Screen, error) {
	if req.UserID == nil {
		return r.emptyCart(ctx)
	}
	user := *req.UserID

	if req.ProductID != nil {
		var err error
		switch req.Menu {
		case MenuDelete:
			err = r.cart.Remove(ctx, user, *req.ProductID)
		case MenuDecrement:
			err = r.cart.Decrement(ctx, user, *req.ProductID)
		case MenuIncrement:
			err = r.cart.Increment(ctx, user, *req.ProductID)
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	items, err := r.cart.Items(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return r.emptyCart(ctx)
	}

	page := clampPage(req.Page, len(items))
	it := items[page]
	name, image, price := "", "", 0.0
	if it.Product != nil {
		name, image, price = it.Product.Name, it.Product.Image, it.Product.Price
	}

	line := func(menu string) NavigationRequest {
		return NavigationRequest{Level: LevelCart, Menu: menu, Page: page, ProductID: ID(it.ProductID), UserID: req.UserID}
	}
	at := func(pg int) NavigationRequest {
		return NavigationRequest{Level: LevelCart, Menu: MenuCart, Page: pg, UserID: req.UserID}
	}
	kb := &keyboard{}
	kb.row(
		kb.nav(r.texts.T("btn_cart_delete"), line(MenuDelete)),
		kb.nav(r.texts.T("btn_cart_dec"), line(MenuDecrement)),
		kb.nav(r.texts.T("btn_cart_inc"), line(MenuIncrement)),
	)
	kb.row(kb.pager(r.texts, page, len(items), at)...)
	kb.row(
		kb.nav(r.texts.T("btn_main"), NavigationRequest{Level: LevelMain, Menu: MenuMain}),
		kb.nav(r.texts.T("btn_order"), NavigationRequest{Level: LevelCart, Menu: MenuOrder, UserID: req.UserID}),
	)

	caption := r.texts.T("cart_caption",
		html.EscapeString(name),
		r.price(price), it.Quantity, r.price(it.Total()),
		page+1, len(items),
		r.price(model.CartTotal(items)),
	)
	return kb.screen(image, caption)
}

func (r *Resolver) emptyCart(ctx context.Context) (*Screen, error) {
	b, err := r.banner(ctx, model.PageCart)
	if err != nil {
		return nil, err
	}
	kb := &keyboard{}
	kb.row(kb.nav(r.texts.T("btn_main"), NavigationRequest{Level: LevelMain, Menu: MenuMain}))
	return kb.screen(b.Image, r.texts.T("page_"+model.PageCart))
}

// AdminProducts lists every product of a category regardless of status, one
// screen per product with delete and edit buttons.
func (r *Resolver) AdminProducts(ctx context.Context, categoryID int64) ([]*Screen, error) {
	defer logging.TraceDuration(r.log, "MenuResolver.AdminProducts")()

	list, err := r.products.ListByCategory(ctx, repository.NoTX, categoryID, true)
	if err != nil {
		return nil, domain.RepositoryError("list products", err)
	}
	out := make([]*Screen, 0, len(list))
	for _, p := range list {
		kb := &keyboard{}
		kb.row(
			kb.nav(r.texts.T("btn_admin_delete"), NavigationRequest{Level: LevelAdmin, Menu: MenuAdminDelete, Category: ID(categoryID), ProductID: ID(p.ID)}),
			kb.nav(r.texts.T("btn_admin_edit"), NavigationRequest{Level: LevelAdmin, Menu: MenuAdminEdit, Category: ID(categoryID), ProductID: ID(p.ID)}),
		)
		caption := r.texts.T("admin_product_caption",
			html.EscapeString(p.Name),
			html.EscapeString(p.Description),
			r.price(p.Price),
			string(p.Status),
		)
		s, err := kb.screen(p.Image, caption)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	metrics.IncMenuRender(MenuAdminCategory)
	return out, nil
}

// AdminCategories is the category picker shown before the admin listing.
func (r *Resolver) AdminCategories(ctx context.Context) (*Screen, error) {
	cats, err := r.categories.List(ctx, repository.NoTX)
	if err != nil {
		return nil, domain.RepositoryError("list categories", err)
	}
	kb := &keyboard{}
	for _, c := range cats {
		kb.row(kb.nav(c.Name, NavigationRequest{Level: LevelAdmin, Menu: MenuAdminCategory, Category: ID(c.ID)}))
	}
	return kb.screen("", r.texts.T("admin_choose_category"))
}

// banner loads a page banner. A missing banner renders without a picture.
func (r *Resolver) banner(ctx context.Context, page string) (*model.Banner, error) {
	b, err := r.banners.FindByName(ctx, repository.NoTX, page)
	if errors.Is(err, domain.ErrNotFound) {
		r.log.Warn().Str("page", page).Msg("banner is not seeded")
		return &model.Banner{Name: page}, nil
	}
	if err != nil {
		return nil, domain.RepositoryError("find banner", err)
	}
	return b, nil
}

func (r *Resolver) price(v float64) string {
	return r.texts.T("price_format", strconv.FormatFloat(v, 'f', 2, 64))
}

// clampPage maps any requested page into [0, n-1]. n must be positive.
func clampPage(page, n int) int {
	if page < 0 {
		return 0
	}
	if page > n-1 {
		return n - 1
	}
	return page
}

// keyboard collects button rows and the first encoding error.
type keyboard struct {
	rows [][]adapter.Button
	err  error
}

func (k *keyboard) nav(text string, req NavigationRequest) adapter.Button {
	data, err := Encode(req)
	if err != nil && k.err == nil {
		k.err = err
	}
	return adapter.Button{Text: text, Data: data}
}

func (k *keyboard) row(buttons ...adapter.Button) {
	if len(buttons) > 0 {
		k.rows = append(k.rows, buttons)
	}
}

// pager returns prev/next buttons for the neighbours of page that exist.
func (k *keyboard) pager(texts Texts, page, n int, at func(int) NavigationRequest) []adapter.Button {
	var out []adapter.Button
	if page > 0 {
		out = append(out, k.nav(texts.T("btn_prev"), at(page-1)))
	}
	if page < n-1 {
		out = append(out, k.nav(texts.T("btn_next"), at(page+1)))
	}
	return out
}

func (k *keyboard) screen(image, caption string) (*Screen, error) {
	if k.err != nil {
		return nil, k.err
	}
	return &Screen{Image: image, Caption: caption, Keyboard: k.rows}, nil
}

var knownMenus = map[string]bool{
	MenuMain: true, MenuAbout: true, MenuPayment: true, MenuCatalog: true,
	MenuProducts: true, MenuCart: true, MenuAddToCart: true, MenuDelete: true,
	MenuDecrement: true, MenuIncrement: true, MenuOrder: true,
	MenuAdminDelete: true, MenuAdminEdit: true, MenuAdminCategory: true,
}

// MetricLabel maps a menu name to a metric label. Callback data is client
// supplied, so unknown names collapse into "other".
func MetricLabel(menu string) string {
	if knownMenus[menu] {
		return menu
	}
	return "other"
}
