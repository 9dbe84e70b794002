package idempotency

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	r := httptest.NewRequest("POST", "/checkout", nil)
	r.Header.Set(Header, "  abc-123  ")
	if got := Key(r); got != "abc-123" {
		t.Fatalf("Key = %q, want %q", got, "abc-123")
	}
}

func TestCacheSeen(t *testing.T) {
	c := NewCache(time.Minute)

	if c.Seen("k1") {
		t.Fatal("unmarked key reported as seen")
	}
	c.Mark("k1")
	if !c.Seen("k1") {
		t.Fatal("marked key not reported as seen")
	}

	c.Mark("")
	if c.Seen("") {
		t.Fatal("empty key must never deduplicate")
	}
}

func TestCacheSeenDoesNotRecord(t *testing.T) {
	c := NewCache(time.Minute)

	c.Seen("k1")
	c.Seen("k1")
	if c.Seen("k1") {
		t.Fatal("checking a key must not record it")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Minute)
	base := time.Unix(1700000000, 0)
	c.now = func() time.Time { return base }

	c.Mark("k1")

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	if c.Seen("k1") {
		t.Fatal("expired key still reported as seen")
	}
}
