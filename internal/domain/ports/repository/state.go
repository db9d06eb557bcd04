package repository

import (
	"context"
)

// ConversationState holds a conversation's progress through a multi-step form.
type ConversationState struct {
	Form string            `json:"form"` // form name, e.g. "add_product"
	Step int               `json:"step"` // index into the form's step list
	Data map[string]string `json:"data"` // collected field values keyed by step name

	// EditingID is set when the form edits an existing entity.
	EditingID *int64 `json:"editing_id,omitempty"`
	// Original holds the edited entity's fields for the keep-value sentinel.
	Original map[string]string `json:"original,omitempty"`
}

// Editing reports whether the form runs in edit mode.
func (s *ConversationState) Editing() bool { return s != nil && s.EditingID != nil }

// StateRepository is the port for managing a conversation's form state.
// GetState returns (nil, nil) when nothing is stored.
type StateRepository interface {
	SetState(ctx context.Context, convID int64, state *ConversationState) error
	GetState(ctx context.Context, convID int64) (*ConversationState, error)
	ClearState(ctx context.Context, convID int64) error
}
