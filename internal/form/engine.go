package form

import (
	"context"
	"errors"
	"fmt"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/ports/repository"
	"telegram-car-rental/internal/infra/logging"
	"telegram-car-rental/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Engine drives registered form definitions for many conversations. It holds
// no per-conversation state of its own.
type Engine struct {
	store repository.StateRepository
	forms map[string]*Definition
	log   *zerolog.Logger
}

func NewEngine(store repository.StateRepository, logger *zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		forms: make(map[string]*Definition),
		log:   logger,
	}
}

// Register adds a definition. Registering a name twice replaces the first one.
func (e *Engine) Register(defs ...*Definition) error {
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return fmt.Errorf("register form: %w", err)
		}
		e.forms[d.Name] = d
	}
	return nil
}

// Start moves the conversation to the first step of the named form,
// discarding any form already in progress. A non-nil prefill enables edit mode.
func (e *Engine) Start(ctx context.Context, convID int64, name string, prefill *Prefill) (*Reply, error) {
	defer logging.TraceDuration(e.log, "FormEngine.Start")()

	def, ok := e.forms[name]
	if !ok {
		return nil, fmt.Errorf("unknown form %q: %w", name, domain.ErrInvalidArgument)
	}
	st := &repository.ConversationState{
		Form: name,
		Step: 0,
		Data: map[string]string{},
	}
	if prefill != nil {
		id := prefill.ID
		st.EditingID = &id
		st.Original = make(map[string]string, len(def.Steps))
		for _, s := range def.Steps {
			if v, ok := prefill.Fields[s.Name]; ok {
				st.Original[s.Name] = v
			}
		}
	}
	if err := e.store.SetState(ctx, convID, st); err != nil {
		return nil, domain.RepositoryError("set form state", err)
	}
	return e.reply(def, st), nil
}

// Submit feeds one input to the current step. A rejected input returns a
// *ValidationError and leaves the state untouched. Accepting the last step
// commits the form and clears the state even when the commit fails.
func (e *Engine) Submit(ctx context.Context, convID int64, in Input) (*Reply, error) {
	defer logging.TraceDuration(e.log, "FormEngine.Submit")()

	def, st, err := e.load(ctx, convID)
	if err != nil {
		return nil, err
	}
	step := def.Steps[st.Step]

	value, outcome, err := e.accept(ctx, st, step, in)
	if err != nil {
		metrics.IncFormStep(def.Name, "rejected")
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Field = step.Name
			if ve.Message == "" {
				ve.Message = step.retryMessage()
			}
			return nil, ve
		}
		return nil, domain.RepositoryError("validate "+step.Name, err)
	}
	metrics.IncFormStep(def.Name, outcome)
	st.Data[step.Name] = value

	if st.Step < len(def.Steps)-1 {
		st.Step++
		if err := e.store.SetState(ctx, convID, st); err != nil {
			return nil, domain.RepositoryError("set form state", err)
		}
		return e.reply(def, st), nil
	}
	return e.commit(ctx, convID, def, st)
}

func (e *Engine) accept(ctx context.Context, st *repository.ConversationState, step *Step, in Input) (string, string, error) {
	if st.Editing() && in.Kind() == KindText && in.Text == KeepSentinel {
		if v, ok := st.Original[step.Name]; ok {
			return v, "kept", nil
		}
	}
	if !step.takes(in.Kind()) {
		return "", "", Reject(step.retryMessage())
	}
	if step.Validate == nil {
		return rawValue(in), "accepted", nil
	}
	v, err := step.Validate(ctx, in)
	if err != nil {
		return "", "", err
	}
	return v, "accepted", nil
}

func (e *Engine) commit(ctx context.Context, convID int64, def *Definition, st *repository.ConversationState) (*Reply, error) {
	fields := make(map[string]string, len(def.Steps))
	for _, s := range def.Steps {
		v, ok := st.Data[s.Name]
		if !ok {
			e.clear(ctx, convID)
			metrics.IncFormCompletion(def.Name, "failed")
			return nil, fmt.Errorf("commit %s: missing field %q: %w", def.Name, s.Name, domain.ErrInvalidArgument)
		}
		fields[s.Name] = v
	}

	err := def.Commit(ctx, Commit{ConversationID: convID, Fields: fields, EditingID: st.EditingID})
	e.clear(ctx, convID)
	if err != nil {
		metrics.IncFormCompletion(def.Name, "failed")
		e.log.Error().Err(err).Str("form", def.Name).Int64("conv_id", convID).Msg("form commit failed")
		if errors.Is(err, domain.ErrRepository) {
			return nil, err
		}
		return nil, domain.RepositoryError("commit "+def.Name, err)
	}
	metrics.IncFormCompletion(def.Name, "committed")
	return &Reply{
		Form:    def.Name,
		Index:   len(def.Steps),
		Total:   len(def.Steps),
		Editing: st.Editing(),
		Done:    true,
		Fields:  fields,
	}, nil
}

// Back moves the cursor one step back. At the first step the state is left
// as is and the reply has First set.
func (e *Engine) Back(ctx context.Context, convID int64) (*Reply, error) {
	defer logging.TraceDuration(e.log, "FormEngine.Back")()

	def, st, err := e.load(ctx, convID)
	if err != nil {
		return nil, err
	}
	if st.Step == 0 {
		r := e.reply(def, st)
		r.First = true
		return r, nil
	}
	st.Step--
	delete(st.Data, def.Steps[st.Step].Name)
	if err := e.store.SetState(ctx, convID, st); err != nil {
		return nil, domain.RepositoryError("set form state", err)
	}
	return e.reply(def, st), nil
}

// Cancel drops the form in progress together with its edit target.
func (e *Engine) Cancel(ctx context.Context, convID int64) error {
	defer logging.TraceDuration(e.log, "FormEngine.Cancel")()

	st, err := e.store.GetState(ctx, convID)
	if err != nil {
		return domain.RepositoryError("get form state", err)
	}
	if st == nil {
		return domain.ErrNoActiveForm
	}
	if err := e.store.ClearState(ctx, convID); err != nil {
		return domain.RepositoryError("clear form state", err)
	}
	metrics.IncFormCompletion(st.Form, "cancelled")
	return nil
}

// Current returns the step the conversation is waiting on, or nil when idle.
func (e *Engine) Current(ctx context.Context, convID int64) (*Reply, error) {
	def, st, err := e.load(ctx, convID)
	if errors.Is(err, domain.ErrNoActiveForm) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e.reply(def, st), nil
}

func (e *Engine) load(ctx context.Context, convID int64) (*Definition, *repository.ConversationState, error) {
	st, err := e.store.GetState(ctx, convID)
	if err != nil {
		return nil, nil, domain.RepositoryError("get form state", err)
	}
	if st == nil {
		return nil, nil, domain.ErrNoActiveForm
	}
	def, ok := e.forms[st.Form]
	if !ok || st.Step < 0 || st.Step >= len(def.Steps) {
		// Stale state from a removed form or a corrupted cursor.
		e.log.Warn().Str("form", st.Form).Int("step", st.Step).Int64("conv_id", convID).Msg("dropping stale form state")
		e.clear(ctx, convID)
		return nil, nil, domain.ErrNoActiveForm
	}
	if st.Data == nil {
		st.Data = map[string]string{}
	}
	return def, st, nil
}

func (e *Engine) clear(ctx context.Context, convID int64) {
	if err := e.store.ClearState(ctx, convID); err != nil {
		e.log.Error().Err(err).Int64("conv_id", convID).Msg("failed to clear form state")
	}
}

func (e *Engine) reply(def *Definition, st *repository.ConversationState) *Reply {
	return &Reply{
		Form:    def.Name,
		Step:    def.Steps[st.Step],
		Index:   st.Step,
		Total:   len(def.Steps),
		Editing: st.Editing(),
	}
}

func rawValue(in Input) string {
	switch in.Kind() {
	case KindPhoto:
		return in.PhotoID
	case KindChoice:
		return in.Choice
	case KindContact:
		return in.Contact.Phone
	}
	return in.Text
}
