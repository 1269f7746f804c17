package rate

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketFirstCallImmediate(t *testing.T) {
	tb := NewTokenBucket(1)
	defer tb.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := tb.Wait(ctx); err != nil {
		t.Fatalf("first wait should not block: %v", err)
	}
}

func TestTokenBucketHonorsCancel(t *testing.T) {
	tb := NewTokenBucket(1)
	defer tb.Stop()

	ctx := context.Background()
	if err := tb.Wait(ctx); err != nil {
		t.Fatalf("drain initial token: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := tb.Wait(canceled); err == nil {
		t.Fatal("expected error after cancellation")
	}
}

func TestTokenBucketStopTerminates(t *testing.T) {
	tb := NewTokenBucket(10)
	done := make(chan struct{})
	go func() {
		tb.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
