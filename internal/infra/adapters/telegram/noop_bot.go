package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-car-rental/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter logs outgoing messages instead of calling Telegram.
// It backs -dev runs without a reachable bot token.
type NoopBotAdapter struct {
	log  *zerolog.Logger
	stop context.CancelFunc
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{log: logger}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	b.log.Info().
		Int64("chat_id", params.ChatID).
		Str("text", params.Text).
		Str("photo", params.Photo).
		Msg("[noop-telegram] send")
	return ctx.Err()
}

func (b *NoopBotAdapter) EditMedia(ctx context.Context, params adapter.EditMediaParams) error {
	b.log.Info().
		Int64("chat_id", params.ChatID).
		Int("message_id", params.MessageID).
		Str("caption", params.Caption).
		Msg("[noop-telegram] edit media")
	return ctx.Err()
}

func (b *NoopBotAdapter) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	b.log.Info().Str("callback_id", callbackID).Str("text", text).Bool("alert", alert).Msg("[noop-telegram] answer")
	return nil
}

// Start blocks until ctx is done or Stop is called.
func (b *NoopBotAdapter) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.stop = cancel
	<-ctx.Done()
	return nil
}

func (b *NoopBotAdapter) Stop() {
	if b.stop != nil {
		b.stop()
	}
}
