package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"collabBack/internal/marketplace/idempotency/idemtest"
)

func TestRedisKeyLayout(t *testing.T) {
	g := NewGuard(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), time.Minute)
	if got := g.redisKey("inf-1", "withdrawal", "abc"); got != "collab:idem:withdrawal:inf-1:abc" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestDisabledGuardAllowsEverything(t *testing.T) {
	var nilGuard *Guard
	if nilGuard.Enabled() {
		t.Fatalf("nil guard must be disabled")
	}
	if replay, err := nilGuard.Claim(context.Background(), "a", "op", "k"); err != nil || replay != nil {
		t.Fatalf("nil guard claim: %v %v", replay, err)
	}

	g := NewGuard(nil, time.Minute)
	if g.Enabled() {
		t.Fatalf("guard without redis must be disabled")
	}
	if _, err := g.Claim(context.Background(), "a", "op", "k"); err != nil {
		t.Fatalf("guard without redis: %v", err)
	}
	if err := g.Complete(context.Background(), "a", "op", "k", 201, []byte(`{}`)); err != nil {
		t.Fatalf("complete without redis: %v", err)
	}
	if err := g.Release(context.Background(), "a", "op", "k"); err != nil {
		t.Fatalf("release without redis: %v", err)
	}
}

func TestEmptyKeyIsNotTracked(t *testing.T) {
	store := idemtest.New()
	g := NewGuardWithStore(store, time.Minute)
	if _, err := g.Claim(context.Background(), "a", "op", "  "); err != nil {
		t.Fatalf("empty key must be skipped, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("empty key stored %d entries", store.Len())
	}
}

func TestCompletedKeyReplaysResponse(t *testing.T) {
	ctx := context.Background()
	g := NewGuardWithStore(idemtest.New(), time.Minute)

	if replay, err := g.Claim(ctx, "inf-1", "withdrawal", "k1"); err != nil || replay != nil {
		t.Fatalf("first claim: %v %v", replay, err)
	}
	if _, err := g.Claim(ctx, "inf-1", "withdrawal", "k1"); !errors.Is(err, ErrReplay) {
		t.Fatalf("claim while in flight: %v", err)
	}

	body := []byte(`{"id":"wd-1","amount":100.00}`)
	if err := g.Complete(ctx, "inf-1", "withdrawal", "k1", 201, body); err != nil {
		t.Fatalf("complete: %v", err)
	}
	replay, err := g.Claim(ctx, "inf-1", "withdrawal", "k1")
	if err != nil || replay == nil {
		t.Fatalf("replay claim: %v %v", replay, err)
	}
	if replay.Status != 201 || string(replay.Body) != string(body) {
		t.Fatalf("replayed %d %s", replay.Status, replay.Body)
	}

	if replay, err := g.Claim(ctx, "inf-2", "withdrawal", "k1"); err != nil || replay != nil {
		t.Fatalf("keys are scoped per actor: %v %v", replay, err)
	}
}

func TestReleasedKeyCanBeClaimedAgain(t *testing.T) {
	ctx := context.Background()
	g := NewGuardWithStore(idemtest.New(), time.Minute)

	if _, err := g.Claim(ctx, "brand-1", "payment", "k"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := g.Release(ctx, "brand-1", "payment", "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if replay, err := g.Claim(ctx, "brand-1", "payment", "k"); err != nil || replay != nil {
		t.Fatalf("reclaim: %v %v", replay, err)
	}
}
