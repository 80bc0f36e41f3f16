package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUCache_SetGet(t *testing.T) {
	c := New(10, time.Minute)
	ctx := context.Background()

	if _, hit := c.Get(ctx, "missing"); hit {
		t.Error("expected miss on empty cache")
	}

	c.Set(ctx, "key", []byte("payload"))
	val, hit := c.Get(ctx, "key")
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(val) != "payload" {
		t.Errorf("got %q, want %q", val, "payload")
	}
}

func TestLRUCache_TTLExpiry(t *testing.T) {
	c := New(10, 20*time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "key", []byte("payload"))
	if _, hit := c.Get(ctx, "key"); !hit {
		t.Fatal("expected immediate hit")
	}

	time.Sleep(40 * time.Millisecond)
	if _, hit := c.Get(ctx, "key"); hit {
		t.Error("expected entry to expire")
	}
}

func TestLRUCache_EvictsOldestOnOverflow(t *testing.T) {
	c := New(2, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3"))

	if _, hit := c.Get(ctx, "a"); hit {
		t.Error("expected oldest entry to be evicted")
	}
	if _, hit := c.Get(ctx, "c"); !hit {
		t.Error("expected most recent entry to remain cached")
	}
}

func TestQuantizeKey(t *testing.T) {
	k1 := QuantizeKey(13.40021, 52.52003, 3, 0.005)
	k2 := QuantizeKey(13.40089, 52.52041, 3, 0.005)
	if k1 != k2 {
		t.Errorf("expected nearby points to quantize to the same key: %q != %q", k1, k2)
	}

	k3 := QuantizeKey(13.5, 52.52003, 3, 0.005)
	if k1 == k3 {
		t.Error("expected distinct grid cells to quantize to different keys")
	}
}
