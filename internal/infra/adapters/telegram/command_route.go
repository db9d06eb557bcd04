package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-car-rental/internal/application"
	"telegram-car-rental/internal/domain/ports/adapter"
	"telegram-car-rental/internal/infra/logging"
	"telegram-car-rental/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, msg application.Message) ([]application.Reply, error)

// commandRoutes maps slash commands to dispatcher entry points. Anything
// else, including /cancel and /back, goes through HandleMessage.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.facade.HandleStart,
		"admin": r.facade.HandleAdmin,
	}
}

func (r *RealTelegramBotAdapter) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	ctx = logging.WithTgID(logging.WithUpdate(ctx, "message"), m.From.ID)
	msg := toMessage(m)

	command := "message"
	handler := r.facade.HandleMessage
	if m.IsCommand() {
		command = m.Command()
		if h, ok := r.commandRoutes()[command]; ok {
			handler = h
			metrics.IncTelegramCommand(command)
		} else {
			metrics.IncTelegramCommand("other")
		}
	}

	if !r.allow(ctx, msg.SenderID, command) {
		return r.SendMessage(ctx, adapter.SendMessageParams{ChatID: msg.ChatID, Text: r.texts.T("rate_limited")})
	}

	replies, err := handler(ctx, msg)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Str("command", command).Msg("message handling failed")
		return r.SendMessage(ctx, adapter.SendMessageParams{ChatID: msg.ChatID, Text: r.facade.UserError(err)})
	}
	return r.deliver(ctx, msg.ChatID, 0, replies)
}

// deliver sends replies in order. Edit replies replace messageID when it is
// known and the reply carries a photo; otherwise they are sent as new messages.
func (r *RealTelegramBotAdapter) deliver(ctx context.Context, chatID int64, messageID int, replies []application.Reply) error {
	for _, rep := range replies {
		if rep.Edit && messageID != 0 && rep.Photo != "" {
			err := r.EditMedia(ctx, adapter.EditMediaParams{
				ChatID:      chatID,
				MessageID:   messageID,
				Photo:       rep.Photo,
				Caption:     rep.Text,
				ParseMode:   rep.ParseMode,
				ReplyMarkup: rep.Markup,
			})
			if err == nil {
				continue
			}
			logging.With(ctx, r.log).Debug().Err(err).Msg("edit failed, sending a new message")
		}
		if err := r.SendMessage(ctx, adapter.SendMessageParams{
			ChatID:      chatID,
			Text:        rep.Text,
			ParseMode:   rep.ParseMode,
			ReplyMarkup: rep.Markup,
			Photo:       rep.Photo,
		}); err != nil {
			return err
		}
	}
	return nil
}
