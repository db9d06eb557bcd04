//go:build !integration

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-car-rental/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

// fakeClient is an in-process RedisClient; values are stored the way go-redis
// would return them (strings).
type fakeClient struct {
	data    map[string]string
	ttl     map[string]time.Duration
	GetErr  error
	IncrErr error
}

var _ RedisClient = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		return errors.New("unsupported value type")
	}
	f.ttl[key] = exp
	return nil
}

func (f *fakeClient) SetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	return true, f.Set(ctx, key, value, exp)
}

func (f *fakeClient) Get(ctx context.Context, key string) (string, error) {
	if f.GetErr != nil {
		return "", f.GetErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeClient) Incr(ctx context.Context, key string) (int64, error) {
	if f.IncrErr != nil {
		return 0, f.IncrErr
	}
	var n int64
	for _, c := range f.data[key] {
		n = n*10 + int64(c-'0')
	}
	n++
	f.data[key] = itoa(n)
	return n, nil
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func (f *fakeClient) Expire(ctx context.Context, key string, exp time.Duration) error {
	f.ttl[key] = exp
	return nil
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
		delete(f.ttl, k)
	}
	return nil
}

func (f *fakeClient) Close() error { return nil }

func TestStateRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	repo := NewStateRepo(client, 30*time.Minute)

	got, err := repo.GetState(ctx, 100)
	if err != nil || got != nil {
		t.Fatalf("absent state must be nil, nil; got %v, %v", got, err)
	}

	id := int64(7)
	want := &repository.ConversationState{
		Form:      "add_product",
		Step:      2,
		Data:      map[string]string{"name": "Volvo"},
		EditingID: &id,
		Original:  map[string]string{"name": "Saab"},
	}
	if err := repo.SetState(ctx, 100, want); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if client.ttl["conv_state:100"] != 30*time.Minute {
		t.Errorf("expected ttl to be applied, got %v", client.ttl["conv_state:100"])
	}

	got, err = repo.GetState(ctx, 100)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if got.Form != want.Form || got.Step != 2 || got.Data["name"] != "Volvo" {
		t.Errorf("unexpected state %+v", got)
	}
	if !got.Editing() || *got.EditingID != 7 || got.Original["name"] != "Saab" {
		t.Errorf("edit context lost: %+v", got)
	}

	if err := repo.ClearState(ctx, 100); err != nil {
		t.Fatalf("ClearState: %v", err)
	}
	if got, _ := repo.GetState(ctx, 100); got != nil {
		t.Error("state should be gone after ClearState")
	}
}

func TestStateRepo_Errors(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	repo := NewStateRepo(client, 0)

	client.data["conv_state:1"] = "{not json"
	if _, err := repo.GetState(ctx, 1); err == nil {
		t.Error("expected decode error for corrupt state")
	}

	boom := errors.New("connection refused")
	client.GetErr = boom
	if _, err := repo.GetState(ctx, 1); !errors.Is(err, boom) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	rl := NewRateLimiter(client, 2, time.Minute)
	key := UserCommandKey(5, "start")

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, key)
		if err != nil || !ok {
			t.Fatalf("call %d should pass: %v %v", i, ok, err)
		}
	}
	if client.ttl[key] != time.Minute {
		t.Errorf("window expiry not set, got %v", client.ttl[key])
	}
	ok, err := rl.Allow(ctx, key)
	if err != nil || ok {
		t.Fatalf("third call should be limited: %v %v", ok, err)
	}

	client.IncrErr = errors.New("down")
	if _, err := rl.Allow(ctx, UserCommandKey(6, "start")); err == nil {
		t.Error("expected redis error to surface")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	client := newFakeClient()
	client.IncrErr = errors.New("must not be called")
	rl := NewRateLimiter(client, 0, time.Minute)
	if ok, err := rl.Allow(context.Background(), "k"); !ok || err != nil {
		t.Fatalf("limit 0 disables limiting, got %v %v", ok, err)
	}
}
