package retry

import (
	"context"
	"errors"
	"testing"
)

func TestDoSucceedsAfterKFailures(t *testing.T) {
	for k := 0; k < 7; k++ {
		attempts := 0
		_, err := Do(context.Background(), func() (any, error) {
			attempts++
			if attempts <= k {
				return nil, errors.New("transient")
			}
			return "ok", nil
		})
		if err != nil {
			t.Fatalf("k=%d: unexpected error: %v", k, err)
		}
		if attempts != k+1 {
			t.Fatalf("k=%d: attempts = %d, want %d", k, attempts, k+1)
		}
	}
}

func TestDoExhaustsAfterSevenAttempts(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), func() (any, error) {
		attempts++
		return nil, errors.New("permanent")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 7 {
		t.Fatalf("attempts = %d, want 7", attempts)
	}
}
