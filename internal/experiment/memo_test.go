package experiment

import (
	"context"
	"testing"
	"time"
)

func TestMemoReturnsCachedResponse(t *testing.T) {
	memo := NewMemo(time.Minute)

	a, err := memo.Simulate(context.Background(), sirRequest())
	if err != nil {
		t.Fatalf("first simulate failed: %v", err)
	}

	b, err := memo.Simulate(context.Background(), sirRequest())
	if err != nil {
		t.Fatalf("second simulate failed: %v", err)
	}

	if a != b {
		t.Error("identical request should return the cached response")
	}
	if memo.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", memo.Len())
	}
}

func TestMemoDistinguishesRequests(t *testing.T) {
	memo := NewMemo(time.Minute)

	a, err := memo.Simulate(context.Background(), sirRequest())
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	req := sirRequest()
	req.Beta = 0.4
	b, err := memo.Simulate(context.Background(), req)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if a == b {
		t.Error("different requests must not share a response")
	}
	if memo.Len() != 2 {
		t.Errorf("expected 2 cached entries, got %d", memo.Len())
	}
}

func TestMemoDoesNotCacheErrors(t *testing.T) {
	memo := NewMemo(time.Minute)

	req := sirRequest()
	req.Initial = []float64{0, 0, 0}

	if _, err := memo.Simulate(context.Background(), req); err == nil {
		t.Fatal("expected error")
	}
	if memo.Len() != 0 {
		t.Errorf("errors must not be cached, got %d entries", memo.Len())
	}
}
