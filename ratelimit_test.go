package wordseed

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 60,
		BurstSize:         3,
	})

	for i := 0; i < 3; i++ {
		if !limiter.TryAcquire() {
			t.Fatalf("Expected token %d available", i)
		}
	}
	if limiter.TryAcquire() {
		t.Error("Expected bucket exhausted after burst")
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	// 6000 RPM = 100 tokens/sec, so a drained bucket refills within
	// a few tens of milliseconds.
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 6000,
		BurstSize:         1,
	})

	if !limiter.TryAcquire() {
		t.Fatal("Expected initial token")
	}
	time.Sleep(50 * time.Millisecond)
	if !limiter.TryAcquire() {
		t.Error("Expected token after refill window")
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})
	if got := limiter.Available(); got < 59 || got > 60 {
		t.Errorf("Expected a full default bucket, got %f", got)
	}
}

func TestRateLimiter_WaitRespectsContext(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         1,
	})
	if !limiter.TryAcquire() {
		t.Fatal("Expected initial token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestRateLimitedTranslator(t *testing.T) {
	calls := 0
	inner := translatorFunc(func(ctx context.Context, req TranslateRequest) (string, error) {
		calls++
		return "ok", nil
	})

	lt := NewRateLimitedTranslator(inner, RateLimitConfig{
		RequestsPerMinute: 6000,
		BurstSize:         2,
	})

	for i := 0; i < 2; i++ {
		out, err := lt.Translate(context.Background(), TranslateRequest{Text: "hello"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if out != "ok" {
			t.Errorf("Expected 'ok', got %q", out)
		}
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
	if lt.Limiter() == nil {
		t.Error("Expected limiter exposed")
	}
}

func TestRateLimitedTranslator_CancelledWait(t *testing.T) {
	inner := translatorFunc(func(ctx context.Context, req TranslateRequest) (string, error) {
		return "ok", nil
	})
	lt := NewRateLimitedTranslator(inner, RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         1,
	})

	// Drain the bucket, then the next call must surface the context error
	// wrapped as a non-retryable provider error.
	if _, err := lt.Translate(context.Background(), TranslateRequest{Text: "a"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := lt.Translate(ctx, TranslateRequest{Text: "b"})
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if perr.Retryable {
		t.Error("Expected a non-retryable error on cancelled wait")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded in chain, got %v", err)
	}
}
