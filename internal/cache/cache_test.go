package cache

import (
	"testing"
	"time"
)

func TestCache_PutGet(t *testing.T) {
	c, err := New(true, t.TempDir(), 3600)
	if err != nil {
		t.Fatal(err)
	}

	key := Key("anthropic", "claude-sonnet-4-20250514", "security", "bundle content")
	if _, ok := c.Get(key); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	if err := c.Put(key, `[]`); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Get(key)
	if !ok || got != `[]` {
		t.Errorf("Get() = (%q, %v), want ([], true)", got, ok)
	}
}

func TestCache_Disabled(t *testing.T) {
	c, err := New(false, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Enabled() {
		t.Error("Enabled() = true for disabled cache")
	}
	if err := c.Put("k", "v"); err != nil {
		t.Errorf("Put on disabled cache: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Get hit on disabled cache")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c, err := New(true, t.TempDir(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", "v"); err != nil {
		t.Fatal(err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestCache_ClearAndStats(t *testing.T) {
	c, err := New(true, t.TempDir(), 3600)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Put(k, "v"); err != nil {
			t.Fatal(err)
		}
	}

	count, size, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 || size == 0 {
		t.Errorf("Stats() = (%d, %d), want 3 entries with nonzero size", count, size)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	count, _, err = c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count after Clear() = %d, want 0", count)
	}
}

func TestKey_Distinct(t *testing.T) {
	base := Key("anthropic", "m", "security", "content")
	if Key("openai", "m", "security", "content") == base {
		t.Error("provider not part of key")
	}
	if Key("anthropic", "m2", "security", "content") == base {
		t.Error("model not part of key")
	}
	if Key("anthropic", "m", "accessibility", "content") == base {
		t.Error("checklist not part of key")
	}
	if Key("anthropic", "m", "security", "other") == base {
		t.Error("bundle not part of key")
	}
}
