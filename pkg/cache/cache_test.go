package cache

import (
	"testing"
	"time"
)

// newTestCache returns a cache whose clock the test controls.
func newTestCache(t *testing.T, maxEntries int, ttl time.Duration) (*Cache[string], *time.Time) {
	t.Helper()

	c, err := New[string](maxEntries, ttl)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestNew_Validation(t *testing.T) {
	if _, err := New[string](0, time.Minute); err == nil {
		t.Error("Expected error for maxEntries=0, got nil")
	}
	if _, err := New[string](10, 0); err == nil {
		t.Error("Expected error for zero TTL, got nil")
	}
	if _, err := New[string](10, time.Minute); err != nil {
		t.Errorf("New returned error for valid config: %v", err)
	}
}

func TestGet_SetThenGet(t *testing.T) {
	c, _ := newTestCache(t, 10, time.Minute)

	c.Set("item:1", "one")

	got, ok := c.Get("item:1")
	if !ok {
		t.Fatal("Expected hit immediately after Set")
	}
	if got != "one" {
		t.Errorf("Get = %q, want %q", got, "one")
	}

	if _, ok := c.Get("item:2"); ok {
		t.Error("Expected miss for never-written key")
	}
}

func TestGet_TTLExpiry(t *testing.T) {
	c, now := newTestCache(t, 10, time.Minute)

	c.SetWithTTL("item:1", "one", 50*time.Millisecond)

	if _, ok := c.Get("item:1"); !ok {
		t.Fatal("Expected hit within TTL")
	}

	*now = now.Add(100 * time.Millisecond)

	if _, ok := c.Get("item:1"); ok {
		t.Error("Expected miss after TTL expiry")
	}
	// The stale entry must have been purged, not just hidden.
	if c.Stats().Size != 0 {
		t.Errorf("Size = %d after expiry purge, want 0", c.Stats().Size)
	}
}

func TestSet_OverwriteVisibleImmediately(t *testing.T) {
	c, _ := newTestCache(t, 10, time.Minute)

	c.Set("item:1", "old")
	c.Set("item:1", "new")

	got, ok := c.Get("item:1")
	if !ok || got != "new" {
		t.Errorf("Get = %q, %v; want %q, true", got, ok, "new")
	}
	if c.Stats().Size != 1 {
		t.Errorf("Size = %d after overwrite, want 1", c.Stats().Size)
	}
}

func TestSet_LRUEviction(t *testing.T) {
	c, _ := newTestCache(t, 2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	if _, ok := c.Get("a"); ok {
		t.Error("Expected oldest entry a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("Expected b to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("Expected c to survive")
	}
	if c.Stats().Size != 2 {
		t.Errorf("Size = %d, want 2", c.Stats().Size)
	}
}

func TestSet_TouchProtectsFromEviction(t *testing.T) {
	c, _ := newTestCache(t, 2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	// Touch is the explicit recency read: a becomes most recently used,
	// so the next overflow evicts b.
	if !c.Touch("a") {
		t.Fatal("Touch(a) = false, want true")
	}
	c.Set("c", "3")

	if _, ok := c.Get("a"); !ok {
		t.Error("Expected touched entry a to survive")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Expected untouched entry b to be evicted")
	}
}

func TestGetBatch_DoesNotAffectRecency(t *testing.T) {
	c, _ := newTestCache(t, 2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	// A batch read of a must NOT promote it: eviction order stays by
	// write time, so a is still the LRU victim.
	found := c.GetBatch([]string{"a", "b"})
	if len(found) != 2 {
		t.Fatalf("GetBatch returned %d entries, want 2", len(found))
	}

	c.Set("c", "3")

	if _, ok := c.Get("a"); ok {
		t.Error("GetBatch altered LRU recency: a survived eviction")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("Expected b to survive")
	}
}

func TestGetBatch_OmitsAbsentAndExpired(t *testing.T) {
	c, now := newTestCache(t, 10, time.Minute)

	c.Set("a", "1")
	c.SetWithTTL("b", "2", 10*time.Millisecond)

	*now = now.Add(20 * time.Millisecond)

	found := c.GetBatch([]string{"a", "b", "missing"})
	if len(found) != 1 {
		t.Fatalf("GetBatch returned %d entries, want 1", len(found))
	}
	if found["a"] != "1" {
		t.Errorf("found[a] = %q, want %q", found["a"], "1")
	}
	if _, ok := found["b"]; ok {
		t.Error("Expired key b must be omitted")
	}
	if _, ok := found["missing"]; ok {
		t.Error("Absent key must be omitted")
	}
}

func TestHas_Delete_Clear(t *testing.T) {
	c, _ := newTestCache(t, 10, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	if !c.Has("a") {
		t.Error("Has(a) = false, want true")
	}
	if c.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}

	if !c.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Error("Second Delete(a) = true, want false")
	}
	if c.Has("a") {
		t.Error("Has(a) = true after delete")
	}

	c.Clear()
	if c.Stats().Size != 0 {
		t.Errorf("Size = %d after Clear, want 0", c.Stats().Size)
	}
	if c.Has("b") {
		t.Error("Has(b) = true after Clear")
	}
}

func TestStats(t *testing.T) {
	c, _ := newTestCache(t, 7, 90*time.Second)

	c.Set("a", "1")

	stats := c.Stats()
	if stats.Size != 1 {
		t.Errorf("Size = %d, want 1", stats.Size)
	}
	if stats.MaxSize != 7 {
		t.Errorf("MaxSize = %d, want 7", stats.MaxSize)
	}
	if stats.TTL != 90*time.Second {
		t.Errorf("TTL = %v, want 90s", stats.TTL)
	}
}

func TestSetWithTTL_NonPositiveFallsBackToDefault(t *testing.T) {
	c, now := newTestCache(t, 10, time.Minute)

	c.SetWithTTL("a", "1", 0)

	*now = now.Add(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Error("Entry with defaulted TTL expired too early")
	}

	*now = now.Add(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("Entry outlived the default TTL")
	}
}
