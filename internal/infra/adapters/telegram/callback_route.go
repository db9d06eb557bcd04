package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-car-rental/internal/application"
	"telegram-car-rental/internal/infra/logging"
)

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}
	ctx = logging.WithTgID(logging.WithUpdate(ctx, "callback"), query.From.ID)

	cb := application.Callback{ChatID: query.From.ID, SenderID: query.From.ID, Data: query.Data}
	messageID := 0
	if query.Message != nil && query.Message.Chat != nil {
		cb.ChatID = query.Message.Chat.ID
		messageID = query.Message.MessageID
	}

	if !r.allow(ctx, cb.SenderID, "callback") {
		return r.AnswerCallback(ctx, query.ID, r.texts.T("rate_limited"), false)
	}

	res, err := r.facade.HandleCallback(ctx, cb)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Str("data", query.Data).Msg("callback handling failed")
		return r.AnswerCallback(ctx, query.ID, r.facade.UserError(err), true)
	}

	// Answer first so the client stops the spinner before edits arrive.
	if err := r.AnswerCallback(ctx, query.ID, res.Notice, res.Alert); err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("answer callback failed")
	}
	return r.deliver(ctx, cb.ChatID, messageID, res.Replies)
}
