package application

import (
	"context"
	"errors"
	"strings"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/ports/adapter"
	"telegram-car-rental/internal/form"
	"telegram-car-rental/internal/infra/logging"
	"telegram-car-rental/internal/infra/metrics"
	"telegram-car-rental/internal/menu"
	"telegram-car-rental/internal/usecase"

	"github.com/rs/zerolog"
)

// BotFacade decides what to answer to each update. It returns abstract
// replies so the Telegram adapter only has to deliver them.
type BotFacade struct {
	Users   usecase.UserUseCase
	Catalog usecase.CatalogUseCase
	Cart    usecase.CartUseCase
	Forms   FormEngine
	Menu    MenuResolver

	texts  Texts
	admins map[int64]bool
	log    *zerolog.Logger
}

func NewBotFacade(
	users usecase.UserUseCase,
	catalog usecase.CatalogUseCase,
	cart usecase.CartUseCase,
	forms FormEngine,
	resolver MenuResolver,
	texts Texts,
	adminIDs []int64,
	logger *zerolog.Logger,
) *BotFacade {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &BotFacade{
		Users:   users,
		Catalog: catalog,
		Cart:    cart,
		Forms:   forms,
		Menu:    resolver,
		texts:   texts,
		admins:  admins,
		log:     logger,
	}
}

func (b *BotFacade) IsAdmin(tgID int64) bool { return b.admins[tgID] }

// HandleStart shows the main menu to registered users and starts the
// registration form for everybody else.
func (b *BotFacade) HandleStart(ctx context.Context, msg Message) ([]Reply, error) {
	defer logging.TraceDuration(b.log, "BotFacade.HandleStart")()

	ok, err := b.Users.IsRegistered(ctx, msg.SenderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return b.startForm(ctx, msg.ChatID, usecase.FormRegistration, nil)
	}
	if err := b.Forms.Cancel(ctx, msg.ChatID); err != nil && !errors.Is(err, domain.ErrNoActiveForm) {
		b.log.Warn().Err(err).Int64("chat_id", msg.ChatID).Msg("failed to drop form on /start")
	}
	return b.mainMenu(ctx)
}

// HandleAdmin shows the admin keyboard.
func (b *BotFacade) HandleAdmin(ctx context.Context, msg Message) ([]Reply, error) {
	if !b.IsAdmin(msg.SenderID) {
		metrics.IncAdminCommand("admin", "unauthorized")
		return []Reply{textReply(b.texts.T("admin_not_allowed"))}, nil
	}
	metrics.IncAdminCommand("admin", "authorized")
	return []Reply{b.adminKeyboard()}, nil
}

// HandleMessage routes free text, photos and contacts. Cancel and back
// words always reach the form engine; other input goes to the active form,
// then to the admin keyboard.
func (b *BotFacade) HandleMessage(ctx context.Context, msg Message) ([]Reply, error) {
	defer logging.TraceDuration(b.log, "BotFacade.HandleMessage")()

	word := strings.ToLower(strings.TrimSpace(msg.Text))
	if msg.PhotoID == "" && msg.Contact == nil {
		switch word {
		case "отмена", "/cancel":
			return b.cancel(ctx, msg)
		case "назад", "/back":
			return b.back(ctx, msg.ChatID)
		}
	}

	cur, err := b.Forms.Current(ctx, msg.ChatID)
	if err != nil {
		return nil, err
	}
	if cur != nil {
		return b.submit(ctx, msg.ChatID, form.Input{
			SenderID: msg.SenderID,
			Text:     msg.Text,
			PhotoID:  msg.PhotoID,
			Contact:  msg.Contact,
		})
	}

	if b.IsAdmin(msg.SenderID) {
		switch msg.Text {
		case b.texts.T("admin_keyboard_add"):
			metrics.IncAdminCommand("add_product", "authorized")
			return b.startForm(ctx, msg.ChatID, usecase.FormAddProduct, nil)
		case b.texts.T("admin_keyboard_catalog"):
			metrics.IncAdminCommand("catalog", "authorized")
			s, err := b.Menu.AdminCategories(ctx)
			if err != nil {
				return nil, err
			}
			r := screenReply(s, false)
			r.ParseMode = ""
			return []Reply{r}, nil
		case b.texts.T("admin_keyboard_banner"):
			metrics.IncAdminCommand("banner", "authorized")
			return b.startForm(ctx, msg.ChatID, usecase.FormBanner, nil)
		}
	}
	return []Reply{textReply(b.texts.T("unknown_command"))}, nil
}

// HandleCallback routes inline button presses.
func (b *BotFacade) HandleCallback(ctx context.Context, cb Callback) (*CallbackResult, error) {
	defer logging.TraceDuration(b.log, "BotFacade.HandleCallback")()

	if v, ok := menu.ParseChoice(cb.Data); ok {
		replies, err := b.submit(ctx, cb.ChatID, form.Input{SenderID: cb.SenderID, Choice: v})
		if err != nil {
			return nil, err
		}
		return &CallbackResult{Replies: replies}, nil
	}

	req, err := menu.Decode(cb.Data)
	if err != nil {
		b.log.Warn().Err(err).Str("data", cb.Data).Msg("undecodable callback payload")
		return &CallbackResult{Notice: b.texts.T("generic_error")}, nil
	}
	if req.Level == menu.LevelAdmin {
		return b.adminCallback(ctx, cb, req)
	}

	// Menus always act on the presser's own cart.
	req.UserID = menu.ID(cb.SenderID)

	switch req.Menu {
	case menu.MenuAddToCart:
		return b.addToCart(ctx, cb, req)
	case menu.MenuOrder:
		return &CallbackResult{Notice: b.texts.T("order_placed"), Alert: true}, nil
	}

	s, err := b.Menu.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	return &CallbackResult{Replies: []Reply{screenReply(s, true)}}, nil
}

func (b *BotFacade) addToCart(ctx context.Context, cb Callback, req menu.NavigationRequest) (*CallbackResult, error) {
	if req.ProductID == nil {
		return &CallbackResult{Notice: b.texts.T("generic_error")}, nil
	}
	_, err := b.Cart.Add(ctx, cb.SenderID, *req.ProductID)
	switch {
	case errors.Is(err, domain.ErrNotRegistered):
		replies, err := b.startForm(ctx, cb.ChatID, usecase.FormRegistration, nil)
		if err != nil {
			return nil, err
		}
		return &CallbackResult{Notice: b.texts.T("need_registration"), Replies: replies}, nil
	case err != nil:
		return nil, err
	}

	req.Menu = menu.MenuProducts
	s, err := b.Menu.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	return &CallbackResult{Notice: b.texts.T("cart_added"), Replies: []Reply{screenReply(s, true)}}, nil
}

func (b *BotFacade) adminCallback(ctx context.Context, cb Callback, req menu.NavigationRequest) (*CallbackResult, error) {
	if !b.IsAdmin(cb.SenderID) {
		metrics.IncAdminCommand(menu.MetricLabel(req.Menu), "unauthorized")
		return &CallbackResult{Notice: b.texts.T("admin_not_allowed"), Alert: true}, nil
	}
	metrics.IncAdminCommand(menu.MetricLabel(req.Menu), "authorized")

	switch req.Menu {
	case menu.MenuAdminCategory:
		if req.Category == nil {
			break
		}
		screens, err := b.Menu.AdminProducts(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		if len(screens) == 0 {
			return &CallbackResult{Replies: []Reply{textReply(b.texts.T("admin_list_empty"))}}, nil
		}
		replies := make([]Reply, 0, len(screens)+1)
		for _, s := range screens {
			replies = append(replies, screenReply(s, false))
		}
		replies = append(replies, textReply(b.texts.T("admin_list_done")))
		return &CallbackResult{Replies: replies}, nil

	case menu.MenuAdminDelete:
		if req.ProductID == nil {
			break
		}
		if err := b.Catalog.DeleteProduct(ctx, *req.ProductID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return &CallbackResult{Notice: b.texts.T("admin_product_deleted"), Alert: true}, nil

	case menu.MenuAdminEdit:
		if req.ProductID == nil {
			break
		}
		p, err := b.Catalog.Product(ctx, *req.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			return &CallbackResult{Notice: b.texts.T("generic_error")}, nil
		}
		if err != nil {
			return nil, err
		}
		replies, err := b.startForm(ctx, cb.ChatID, usecase.FormAddProduct, usecase.ProductPrefill(p))
		if err != nil {
			return nil, err
		}
		return &CallbackResult{Replies: replies}, nil
	}
	return &CallbackResult{Notice: b.texts.T("generic_error")}, nil
}

func (b *BotFacade) cancel(ctx context.Context, msg Message) ([]Reply, error) {
	err := b.Forms.Cancel(ctx, msg.ChatID)
	if errors.Is(err, domain.ErrNoActiveForm) {
		return []Reply{textReply(b.texts.T("form_no_active"))}, nil
	}
	if err != nil {
		return nil, err
	}
	r := textReply(b.texts.T("form_cancelled"))
	if b.IsAdmin(msg.SenderID) {
		r.Markup = b.adminKeyboard().Markup
	} else {
		r.Markup = &adapter.ReplyMarkup{Remove: true}
	}
	return []Reply{r}, nil
}

func (b *BotFacade) back(ctx context.Context, chatID int64) ([]Reply, error) {
	fr, err := b.Forms.Back(ctx, chatID)
	if errors.Is(err, domain.ErrNoActiveForm) {
		return []Reply{textReply(b.texts.T("form_no_active"))}, nil
	}
	if err != nil {
		return nil, err
	}
	if fr.First {
		return []Reply{textReply(b.texts.T("form_back_first"))}, nil
	}
	p, err := b.prompt(ctx, fr)
	if err != nil {
		return nil, err
	}
	p.Text = b.texts.T("form_back_prefix") + "\n" + p.Text
	return []Reply{p}, nil
}

func (b *BotFacade) startForm(ctx context.Context, chatID int64, name string, prefill *form.Prefill) ([]Reply, error) {
	fr, err := b.Forms.Start(ctx, chatID, name, prefill)
	if err != nil {
		return nil, err
	}
	p, err := b.prompt(ctx, fr)
	if err != nil {
		return nil, err
	}
	if fr.Editing {
		p.Text = b.texts.T("form_edit_hint") + "\n" + p.Text
	}
	return []Reply{p}, nil
}

func (b *BotFacade) submit(ctx context.Context, chatID int64, in form.Input) ([]Reply, error) {
	fr, err := b.Forms.Submit(ctx, chatID, in)
	var ve *form.ValidationError
	switch {
	case errors.As(err, &ve):
		return []Reply{textReply(ve.Message)}, nil
	case errors.Is(err, domain.ErrNoActiveForm):
		return []Reply{textReply(b.texts.T("form_no_active"))}, nil
	case err != nil:
		return nil, err
	}
	if !fr.Done {
		p, err := b.prompt(ctx, fr)
		if err != nil {
			return nil, err
		}
		return []Reply{p}, nil
	}
	return b.completed(ctx, fr, in.SenderID)
}

func (b *BotFacade) completed(ctx context.Context, fr *form.Reply, senderID int64) ([]Reply, error) {
	switch fr.Form {
	case usecase.FormRegistration:
		done := textReply(b.texts.T("form_reg_done"))
		done.Markup = &adapter.ReplyMarkup{Remove: true}
		main, err := b.mainMenu(ctx)
		if err != nil {
			return nil, err
		}
		return append([]Reply{done}, main...), nil
	case usecase.FormAddProduct:
		key := "form_product_created"
		if fr.Editing {
			key = "form_product_updated"
		}
		r := textReply(b.texts.T(key))
		if b.IsAdmin(senderID) {
			r.Markup = b.adminKeyboard().Markup
		}
		return []Reply{r}, nil
	case usecase.FormBanner:
		return []Reply{textReply(b.texts.T("form_banner_saved"))}, nil
	}
	return nil, nil
}

// prompt renders the question of the current step with its input controls.
func (b *BotFacade) prompt(ctx context.Context, fr *form.Reply) (Reply, error) {
	r := textReply(fr.Step.Prompt)
	switch fr.Step.Kind {
	case form.KindChoice:
		if fr.Step.Options == nil {
			break
		}
		opts, err := fr.Step.Options(ctx)
		if err != nil {
			return Reply{}, err
		}
		rows := make([][]adapter.Button, 0, len(opts))
		for _, o := range opts {
			rows = append(rows, []adapter.Button{{Text: o.Label, Data: menu.ChoicePayload(o.Value)}})
		}
		r.Markup = &adapter.ReplyMarkup{Buttons: rows, IsInline: true}
	case form.KindContact:
		r.Markup = &adapter.ReplyMarkup{Buttons: [][]adapter.Button{{
			{Text: b.texts.T("btn_share_contact"), RequestContact: true},
		}}}
	}
	return r, nil
}

func (b *BotFacade) mainMenu(ctx context.Context) ([]Reply, error) {
	s, err := b.Menu.Resolve(ctx, menu.NavigationRequest{Level: menu.LevelMain, Menu: menu.MenuMain})
	if err != nil {
		return nil, err
	}
	return []Reply{screenReply(s, false)}, nil
}

func (b *BotFacade) adminKeyboard() Reply {
	r := textReply(b.texts.T("admin_menu"))
	r.Markup = &adapter.ReplyMarkup{Buttons: [][]adapter.Button{
		{{Text: b.texts.T("admin_keyboard_add")}, {Text: b.texts.T("admin_keyboard_catalog")}},
		{{Text: b.texts.T("admin_keyboard_banner")}},
	}}
	return r
}

// UserError maps a handler error to the text shown in the chat.
func (b *BotFacade) UserError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotRegistered):
		return b.texts.T("need_registration")
	default:
		return b.texts.T("generic_error")
	}
}
