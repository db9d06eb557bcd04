// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

type Button struct {
	Text           string
	Data           string
	URL            string
	RequestContact bool
}

type ReplyMarkup struct {
	Buttons  [][]Button
	IsInline bool
	// Remove hides a previously sent reply keyboard.
	Remove bool
}

type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
	// Photo is a Telegram file id; when set the message is sent as a photo
	// with Text as caption.
	Photo string
}

// EditMediaParams replaces the photo, caption and inline keyboard of an
// existing message.
type EditMediaParams struct {
	ChatID      int64
	MessageID   int
	Photo       string
	Caption     string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	EditMedia(ctx context.Context, params EditMediaParams) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	Start(ctx context.Context) error
	Stop()
}
