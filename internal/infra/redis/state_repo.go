package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-car-rental/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo keeps form progress per conversation as JSON with a sliding TTL.
type StateRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewStateRepo(client RedisClient, ttl time.Duration) *StateRepo {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &StateRepo{client: client, ttl: ttl}
}

func (s *StateRepo) stateKey(convID int64) string {
	return fmt.Sprintf("conv_state:%d", convID)
}

func (s *StateRepo) SetState(ctx context.Context, convID int64, state *repository.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(convID), data, s.ttl)
}

// GetState returns nil, nil when the conversation has no form in progress.
func (s *StateRepo) GetState(ctx context.Context, convID int64) (*repository.ConversationState, error) {
	data, err := s.client.Get(ctx, s.stateKey(convID))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state repository.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode state %d: %w", convID, err)
	}
	return &state, nil
}

func (s *StateRepo) ClearState(ctx context.Context, convID int64) error {
	return s.client.Del(ctx, s.stateKey(convID))
}
