package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestInMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)

	if err := c.Set(ctx, "key1", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get(ctx, "key1")
	if !ok || val != "value1" {
		t.Errorf("Get returned (%q, %v), want (%q, true)", val, ok, "value1")
	}

	val, ok = c.Get(ctx, "nonexistent")
	if ok || val != "" {
		t.Errorf("Get should miss for unknown key, got (%q, %v)", val, ok)
	}
}

func TestInMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "key1", "value1")

	if _, ok := c.Get(ctx, "key1"); !ok {
		t.Error("Value should be available immediately after set")
	}

	now = now.Add(61 * time.Second)

	if _, ok := c.Get(ctx, "key1"); ok {
		t.Error("Value should be expired after TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Expired entry should be removed on read, Len=%d", c.Len())
	}
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(0)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set(ctx, "key1", "value1")

	now = now.Add(24 * 365 * time.Hour)
	if val, ok := c.Get(ctx, "key1"); !ok || val != "value1" {
		t.Error("Value should never expire with no TTL")
	}
}

func TestInMemoryCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)

	c.Set(ctx, "key1", "value1")
	c.Set(ctx, "key1", "value2")

	if val, _ := c.Get(ctx, "key1"); val != "value2" {
		t.Errorf("Expected overwritten value, got %q", val)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}
}

func TestInMemoryCache_MaxEntries(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(0).WithMaxEntries(3)

	for i := 0; i < 10; i++ {
		c.Set(ctx, fmt.Sprintf("key%d", i), "v")
	}

	if c.Len() != 3 {
		t.Errorf("Expected cache bounded to 3 entries, got %d", c.Len())
	}
	if _, ok := c.Get(ctx, "key9"); !ok {
		t.Error("Most recent entry should be present")
	}
}

func TestInMemoryCache_MaxEntriesPurgesExpiredFirst(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute).WithMaxEntries(2)

	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set(ctx, "old", "v")
	now = now.Add(30 * time.Second)
	c.Set(ctx, "fresh", "v")
	now = now.Add(45 * time.Second) // "old" expired, "fresh" still valid

	c.Set(ctx, "new", "v")

	if _, ok := c.Get(ctx, "fresh"); !ok {
		t.Error("Valid entry should survive when an expired one can be purged")
	}
	if _, ok := c.Get(ctx, "new"); !ok {
		t.Error("New entry should be stored")
	}
}

func TestInMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)

	c.Set(ctx, "key1", "value1")
	c.Set(ctx, "key2", "value2")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d", c.Len())
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%10)
			c.Set(ctx, key, "value")
			c.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	if c.Len() != 10 {
		t.Errorf("Expected 10 entries, got %d", c.Len())
	}
}

func TestInMemoryCache_ExpiredGetKeepsConcurrentSet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	later := start.Add(2 * time.Minute)

	c.now = func() time.Time { return start }
	c.Set(ctx, "key1", "old")

	// The first clock read inside Get lets a writer slip in before the
	// expired entry is removed.
	refreshed := false
	c.now = func() time.Time {
		if !refreshed {
			refreshed = true
			c.Set(ctx, "key1", "new")
		}
		return later
	}

	if _, ok := c.Get(ctx, "key1"); ok {
		t.Error("Expired value should miss")
	}

	val, ok := c.Get(ctx, "key1")
	if !ok || val != "new" {
		t.Errorf("Value written during the expiry check was lost, got (%q, %v)", val, ok)
	}
}

func TestInMemoryCache_MaxEntriesAccessor(t *testing.T) {
	if got := NewInMemoryCache(0).MaxEntries(); got != 0 {
		t.Errorf("MaxEntries = %d, want 0", got)
	}
	if got := NewInMemoryCache(0).WithMaxEntries(5).MaxEntries(); got != 5 {
		t.Errorf("MaxEntries = %d, want 5", got)
	}
}
