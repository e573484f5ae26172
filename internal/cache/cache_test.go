package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(true)
	etag := c.Set("k", []byte(`{"a":1}`), time.Minute)
	if etag == "" {
		t.Fatal("expected non-empty etag")
	}

	data, gotETag, ok := c.Get("k")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != `{"a":1}` {
		t.Errorf("data = %q", data)
	}
	if gotETag != etag {
		t.Errorf("etag mismatch: %q vs %q", gotETag, etag)
	}
}

func TestExpiry(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), -time.Second) // already expired
	if _, _, ok := c.Get("k"); ok {
		t.Error("expired entry returned")
	}
}

func TestPurgeDropsAllEntries(t *testing.T) {
	c := New(true)
	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	c.Purge()
	if _, _, ok := c.Get("a"); ok {
		t.Error("entry survived purge")
	}
	if _, _, ok := c.Get("b"); ok {
		t.Error("entry survived purge")
	}
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	if etag == "" {
		t.Error("disabled cache must still compute an etag")
	}
	if _, _, ok := c.Get("k"); ok {
		t.Error("disabled cache must never hit")
	}
}

func TestETagStableForSameBytes(t *testing.T) {
	if ComputeETag([]byte("abc")) != ComputeETag([]byte("abc")) {
		t.Error("etag not deterministic")
	}
	if ComputeETag([]byte("abc")) == ComputeETag([]byte("abd")) {
		t.Error("etag collision for different bytes")
	}
}
