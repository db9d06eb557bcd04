package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-car-rental/internal/application"
	"telegram-car-rental/internal/config"
	"telegram-car-rental/internal/domain/ports/adapter"
	"telegram-car-rental/internal/form"
	"telegram-car-rental/internal/infra/logging"
	"telegram-car-rental/internal/infra/metrics"
	red "telegram-car-rental/internal/infra/redis"
	"telegram-car-rental/internal/infra/worker"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// botAPI is the part of *tgbotapi.BotAPI the adapter calls.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dispatcher decides the answers; the adapter only delivers them.
type Dispatcher interface {
	HandleStart(ctx context.Context, msg application.Message) ([]application.Reply, error)
	HandleAdmin(ctx context.Context, msg application.Message) ([]application.Reply, error)
	HandleMessage(ctx context.Context, msg application.Message) ([]application.Reply, error)
	HandleCallback(ctx context.Context, cb application.Callback) (*application.CallbackResult, error)
	UserError(err error) string
}

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Texts interface {
	T(key string, args ...interface{}) string
}

// RealTelegramBotAdapter long-polls Telegram and hands every update to the
// worker pool, keyed by chat so one conversation is processed in order.
type RealTelegramBotAdapter struct {
	bot     botAPI
	facade  Dispatcher
	limiter Limiter
	pool    *worker.Pool
	texts   Texts
	log     *zerolog.Logger

	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade Dispatcher, limiter Limiter, pool *worker.Pool, texts Texts, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if pool == nil {
		return nil, errors.New("worker pool is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("bot", bot.Self.UserName).Msg("telegram bot authorized")
	return newAdapter(bot, facade, limiter, pool, texts, logger), nil
}

func newAdapter(bot botAPI, facade Dispatcher, limiter Limiter, pool *worker.Pool, texts Texts, logger *zerolog.Logger) *RealTelegramBotAdapter {
	return &RealTelegramBotAdapter{
		bot:     bot,
		facade:  facade,
		limiter: limiter,
		pool:    pool,
		texts:   texts,
		log:     logger,
	}
}

// Start polls until ctx is cancelled or Stop is called.
func (r *RealTelegramBotAdapter) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel
	defer r.bot.StopReceivingUpdates()

	r.pool.Start(ctx)
	defer r.pool.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			if err := r.enqueue(ctx, up); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				metrics.IncUpdateProcessed("dropped")
				r.log.Error().Err(err).Int("update_id", up.UpdateID).Msg("failed to queue update")
			}
		}
	}
}

func (r *RealTelegramBotAdapter) Stop() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) enqueue(ctx context.Context, up tgbotapi.Update) error {
	chatID := updateChatID(up)
	if chatID == 0 {
		return nil
	}
	traceID := ulid.Make().String()
	return r.pool.Submit(ctx, chatID, func(ctx context.Context) error {
		ctx = logging.WithTraceID(ctx, traceID)
		ctx = logging.WithChatID(ctx, chatID)
		err := r.handleUpdate(ctx, up)
		if err != nil {
			metrics.IncUpdateProcessed("error")
		} else {
			metrics.IncUpdateProcessed("ok")
		}
		return err
	})
}

func updateChatID(up tgbotapi.Update) int64 {
	switch {
	case up.Message != nil && up.Message.Chat != nil:
		return up.Message.Chat.ID
	case up.CallbackQuery != nil && up.CallbackQuery.Message != nil && up.CallbackQuery.Message.Chat != nil:
		return up.CallbackQuery.Message.Chat.ID
	case up.CallbackQuery != nil && up.CallbackQuery.From != nil:
		return up.CallbackQuery.From.ID
	}
	return 0
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	if up.CallbackQuery != nil {
		return r.handleQuery(ctx, up.CallbackQuery)
	}
	if up.Message != nil && up.Message.From != nil {
		return r.handleMessage(ctx, up.Message)
	}
	return nil
}

// allow applies the per-user rate limit. Limiter failures let the update through.
func (r *RealTelegramBotAdapter) allow(ctx context.Context, userID int64, command string) bool {
	if r.limiter == nil {
		return true
	}
	ok, err := r.limiter.Allow(ctx, red.UserCommandKey(userID, command))
	if err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("rate limiter unavailable")
		return true
	}
	if !ok {
		metrics.IncRateLimitTriggered()
	}
	return ok
}

// toMessage reduces a Telegram message to what the dispatcher reads.
func toMessage(m *tgbotapi.Message) application.Message {
	msg := application.Message{
		ChatID:   m.Chat.ID,
		SenderID: m.From.ID,
		Text:     m.Text,
	}
	if len(m.Photo) > 0 {
		// the last size is the largest
		msg.PhotoID = m.Photo[len(m.Photo)-1].FileID
		msg.Text = m.Caption
	}
	if m.Contact != nil {
		msg.Contact = &form.Contact{Phone: m.Contact.PhoneNumber, UserID: m.Contact.UserID}
	}
	return msg
}

// SendMessage sends text, or a photo with caption when params.Photo is set.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	markup := toMarkup(params.ReplyMarkup)
	if params.Photo != "" {
		photo := tgbotapi.NewPhoto(params.ChatID, tgbotapi.FileID(params.Photo))
		photo.Caption = params.Text
		photo.ParseMode = params.ParseMode
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		_, err := r.bot.Send(photo)
		return err
	}

	text := params.Text
	if strings.TrimSpace(text) == "" {
		text = "…"
	}
	msg := tgbotapi.NewMessage(params.ChatID, text)
	msg.ParseMode = params.ParseMode
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := r.bot.Send(msg)
	return err
}

// EditMedia swaps photo, caption and inline keyboard of an existing message.
func (r *RealTelegramBotAdapter) EditMedia(ctx context.Context, params adapter.EditMediaParams) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(params.Photo))
	media.Caption = params.Caption
	media.ParseMode = params.ParseMode

	edit := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{ChatID: params.ChatID, MessageID: params.MessageID},
		Media:    media,
	}
	if kb, ok := toMarkup(params.ReplyMarkup).(tgbotapi.InlineKeyboardMarkup); ok {
		edit.ReplyMarkup = &kb
	}
	_, err := r.bot.Request(edit)
	return err
}

func (r *RealTelegramBotAdapter) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	_, err := r.bot.Request(cb)
	return err
}

// toMarkup converts the port markup into a tgbotapi keyboard, or nil.
func toMarkup(m *adapter.ReplyMarkup) interface{} {
	if m == nil {
		return nil
	}
	if m.Remove {
		return tgbotapi.NewRemoveKeyboard(true)
	}
	if len(m.Buttons) == 0 {
		return nil
	}

	if m.IsInline {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(m.Buttons))
		for _, row := range m.Buttons {
			if len(row) == 0 {
				continue
			}
			kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				label := strings.TrimSpace(btn.Text)
				if label == "" {
					label = "•"
				}
				switch {
				case btn.URL != "":
					kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
				case btn.Data != "":
					kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
				default:
					kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, label))
				}
			}
			rows = append(rows, kbRow)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(m.Buttons))
	for _, row := range m.Buttons {
		kbRow := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, btn := range row {
			if btn.RequestContact {
				kbRow = append(kbRow, tgbotapi.NewKeyboardButtonContact(btn.Text))
			} else {
				kbRow = append(kbRow, tgbotapi.NewKeyboardButton(btn.Text))
			}
		}
		rows = append(rows, kbRow)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}
