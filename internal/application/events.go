package application

import (
	"telegram-car-rental/internal/domain/ports/adapter"
	"telegram-car-rental/internal/form"
	"telegram-car-rental/internal/menu"
)

const ParseModeHTML = "HTML"

// Message is an incoming chat message reduced to what the bot reads.
type Message struct {
	ChatID   int64
	SenderID int64
	Text     string // text or photo caption
	PhotoID  string
	Contact  *form.Contact
}

// Callback is an inline button press.
type Callback struct {
	ChatID   int64
	SenderID int64
	Data     string
}

// Reply is one outgoing message. The transport sends Photo with Text as
// caption when Photo is set.
type Reply struct {
	Text      string
	Photo     string
	ParseMode string
	Markup    *adapter.ReplyMarkup
	// Edit replaces the message whose button was pressed.
	Edit bool
}

// CallbackResult is the answer to a button press: an optional toast plus
// messages to send or edit.
type CallbackResult struct {
	Notice  string
	Alert   bool
	Replies []Reply
}

func screenReply(s *menu.Screen, edit bool) Reply {
	return Reply{
		Text:      s.Caption,
		Photo:     s.Image,
		ParseMode: ParseModeHTML,
		Markup:    &adapter.ReplyMarkup{Buttons: s.Keyboard, IsInline: true},
		Edit:      edit,
	}
}

func textReply(text string) Reply { return Reply{Text: text} }
