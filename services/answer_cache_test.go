package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupAnswerCache(t *testing.T, ttl time.Duration) (*AnswerCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache, err := NewAnswerCache("redis://"+mr.Addr(), ttl)
	if err != nil {
		t.Fatalf("Failed to create answer cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestAnswerCacheSetGet(t *testing.T) {
	cache, mr := setupAnswerCache(t, time.Minute)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Expected a miss on an empty cache, got ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, "k", "forty-two"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	answer, ok, err := cache.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Expected a hit, got ok=%v err=%v", ok, err)
	}
	if answer != "forty-two" {
		t.Errorf("Expected forty-two, got %q", answer)
	}

	if !mr.Exists(answerKeyPrefix + "k") {
		t.Error("Expected the entry under the ask prefix")
	}
	if ttl := mr.TTL(answerKeyPrefix + "k"); ttl != time.Minute {
		t.Errorf("Expected TTL of one minute, got %v", ttl)
	}
}

func TestAnswerCacheExpiry(t *testing.T) {
	cache, mr := setupAnswerCache(t, time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok, err := cache.Get(ctx, "k"); err != nil || ok {
		t.Errorf("Expected expired entry to miss, got ok=%v err=%v", ok, err)
	}
}

func TestAnswerCacheCorruptEntry(t *testing.T) {
	cache, mr := setupAnswerCache(t, time.Minute)

	if err := mr.Set(answerKeyPrefix+"k", "not json"); err != nil {
		t.Fatalf("Failed to seed redis: %v", err)
	}
	if _, _, err := cache.Get(context.Background(), "k"); err == nil {
		t.Error("Expected an error for a corrupt entry")
	}
}

func TestNewAnswerCacheErrors(t *testing.T) {
	if _, err := NewAnswerCache("not a url", time.Minute); err == nil {
		t.Error("Expected an error for an invalid URL")
	}

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	if _, err := NewAnswerCache("redis://"+addr, time.Minute); err == nil {
		t.Error("Expected an error when redis is unreachable")
	}
}

func TestAnswerCachePing(t *testing.T) {
	cache, mr := setupAnswerCache(t, time.Minute)

	if err := cache.Ping(context.Background()); err != nil {
		t.Fatalf("Expected ping to succeed, got %v", err)
	}
	mr.Close()
	if err := cache.Ping(context.Background()); err == nil {
		t.Error("Expected ping to fail once redis is gone")
	}
}
