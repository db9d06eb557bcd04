// Package form runs multi-step conversational forms on top of a
// StateRepository. A Definition is an ordered list of steps; the engine keeps
// the cursor and collected values in ConversationState and calls the
// definition's Commit once the last step is accepted.
package form

import (
	"context"

	"telegram-car-rental/internal/domain"
)

// KeepSentinel is the literal input that keeps the edited entity's value.
const KeepSentinel = "."

// InputKind is the kind of input a step expects.
type InputKind int

const (
	KindText InputKind = iota
	KindPhoto
	KindChoice
	KindContact
)

func (k InputKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPhoto:
		return "photo"
	case KindChoice:
		return "choice"
	case KindContact:
		return "contact"
	}
	return "unknown"
}

// Contact is a shared phone contact.
type Contact struct {
	Phone  string
	UserID int64
}

// Input is one raw user answer.
type Input struct {
	SenderID int64
	Text     string // message text or photo caption
	PhotoID  string
	Choice   string // value of a pressed choice button
	Contact  *Contact
}

// Kind derives the input kind from the populated fields.
func (in Input) Kind() InputKind {
	switch {
	case in.Contact != nil:
		return KindContact
	case in.PhotoID != "":
		return KindPhoto
	case in.Choice != "":
		return KindChoice
	}
	return KindText
}

// Validator checks an input and returns the value to store. A rejected input
// is reported with a *ValidationError; any other error is treated as a
// failure of a collaborator (e.g. a repository lookup).
type Validator func(ctx context.Context, in Input) (string, error)

// Option is one button of a choice step.
type Option struct {
	Label string
	Value string
}

// Step is one unit of a form.
type Step struct {
	Name   string
	Prompt string
	// Retry is sent when the input is rejected. Defaults to Prompt.
	Retry string
	Kind  InputKind
	// Also lists further input kinds the step takes besides Kind.
	Also     []InputKind
	Validate Validator
	// Options lists the buttons of a KindChoice step.
	Options func(ctx context.Context) ([]Option, error)
}

func (s *Step) takes(k InputKind) bool {
	if k == s.Kind {
		return true
	}
	for _, a := range s.Also {
		if a == k {
			return true
		}
	}
	return false
}

func (s *Step) retryMessage() string {
	if s.Retry != "" {
		return s.Retry
	}
	return s.Prompt
}

// Commit is passed to a definition's CommitFunc with every collected field.
type Commit struct {
	ConversationID int64
	Fields         map[string]string
	// EditingID is the edited entity, nil when creating.
	EditingID *int64
}

type CommitFunc func(ctx context.Context, c Commit) error

// Definition is an immutable form type.
type Definition struct {
	Name   string
	Steps  []*Step
	Commit CommitFunc
}

func (d *Definition) validate() error {
	if d == nil || d.Name == "" || len(d.Steps) == 0 || d.Commit == nil {
		return domain.ErrInvalidArgument
	}
	seen := make(map[string]bool, len(d.Steps))
	for _, s := range d.Steps {
		if s == nil || s.Name == "" || seen[s.Name] {
			return domain.ErrInvalidArgument
		}
		seen[s.Name] = true
	}
	return nil
}

// Prefill turns a form into edit mode for the entity ID. Fields are the
// entity's current values keyed by step name.
type Prefill struct {
	ID     int64
	Fields map[string]string
}

// Reply describes what the caller should show after an engine call.
type Reply struct {
	Form    string
	Step    *Step // the step to prompt for; nil when Done
	Index   int
	Total   int
	Editing bool
	// First is set by Back when the cursor was already at the first step.
	First bool
	Done  bool
	// Fields holds the committed values when Done.
	Fields map[string]string
}
