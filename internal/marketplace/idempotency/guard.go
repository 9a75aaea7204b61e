package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrReplay is returned when a key is claimed by a request that has not finished yet.
var ErrReplay = errors.New("idempotency key already in use")

const pendingMarker = "pending"

// Store is the subset of *redis.Client used by Guard.
type Store interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Response is the stored outcome of a completed request.
type Response struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Guard claims client supplied idempotency keys in Redis so a retried
// money-moving request is executed once and later retries get the first response.
type Guard struct {
	rdb    Store
	ttl    time.Duration
	prefix string
}

// NewGuard constructs a Guard over a Redis client.
func NewGuard(rdb *redis.Client, ttl time.Duration) *Guard {
	if rdb == nil {
		return &Guard{ttl: ttl, prefix: "collab:idem"}
	}
	return NewGuardWithStore(rdb, ttl)
}

// NewGuardWithStore constructs a Guard over any Store. A nil store disables the guard.
func NewGuardWithStore(store Store, ttl time.Duration) *Guard {
	return &Guard{rdb: store, ttl: ttl, prefix: "collab:idem"}
}

// Enabled reports whether keys are enforced.
func (g *Guard) Enabled() bool {
	return g != nil && g.rdb != nil
}

// Claim reserves key for the actor and operation. When the key already holds a
// completed response, that response is returned instead. Empty keys are not tracked.
func (g *Guard) Claim(ctx context.Context, actorID, operation, key string) (*Response, error) {
	key = strings.TrimSpace(key)
	if !g.Enabled() || key == "" {
		return nil, nil
	}
	redisKey := g.redisKey(actorID, operation, key)
	ok, err := g.rdb.SetNX(ctx, redisKey, pendingMarker, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	stored, err := g.rdb.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrReplay
	}
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}
	if stored == pendingMarker {
		return nil, ErrReplay
	}
	var resp Response
	if err := json.Unmarshal([]byte(stored), &resp); err != nil {
		return nil, fmt.Errorf("decode idempotent response: %w", err)
	}
	return &resp, nil
}

// Complete stores the response of a claimed request for later replay.
func (g *Guard) Complete(ctx context.Context, actorID, operation, key string, status int, body []byte) error {
	key = strings.TrimSpace(key)
	if !g.Enabled() || key == "" {
		return nil
	}
	data, err := json.Marshal(Response{Status: status, Body: body})
	if err != nil {
		return err
	}
	return g.rdb.Set(ctx, g.redisKey(actorID, operation, key), data, g.ttl).Err()
}

// Release frees a claimed key so a failed request may be retried.
func (g *Guard) Release(ctx context.Context, actorID, operation, key string) error {
	key = strings.TrimSpace(key)
	if !g.Enabled() || key == "" {
		return nil
	}
	return g.rdb.Del(ctx, g.redisKey(actorID, operation, key)).Err()
}

func (g *Guard) redisKey(actorID, operation, key string) string {
	return fmt.Sprintf("%s:%s:%s:%s", g.prefix, operation, actorID, key)
}
