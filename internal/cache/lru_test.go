package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[[]byte], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[[]byte](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUGetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache should miss")
	}
	c.Set("a", []byte("png-a"))
	got, ok := c.Get("a")
	if !ok || string(got) != "png-a" {
		t.Fatalf("Get(a) = %q, %v", got, ok)
	}

	c.Set("a", []byte("png-a2"))
	if got, _ := c.Get("a"); string(got) != "png-a2" {
		t.Fatalf("overwrite failed: %q", got)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", []byte("a"))
	c.Set("b", []byte("b"))
	c.Get("a") // b is now the oldest
	c.Set("c", []byte("c"))

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestLRUExpiry(t *testing.T) {
	c, clock := newTestCache(4, time.Minute)

	c.Set("a", []byte("a"))
	clock.t = clock.t.Add(30 * time.Second)
	c.Set("b", []byte("b"))
	clock.t = clock.t.Add(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("a should be expired")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Errorf("CleanExpired() = %d, want 0 (a already dropped on Get)", n)
	}

	clock.t = clock.t.Add(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("size = %d, want 0", c.Size())
	}
}

func TestLRUDeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(4, time.Minute)
	c.Set("a", nil)
	c.Set("b", nil)

	c.Delete("a")
	c.Delete("missing")
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("size after purge = %d", c.Size())
	}
}

func TestNewLRUCacheMinimumSize(t *testing.T) {
	c := NewLRUCache[int](0, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
}

func TestChartKey(t *testing.T) {
	a := ChartKey(1, "week", "2024-06-05")
	if a != "chart:1:week:2024-06-05" {
		t.Fatalf("ChartKey = %q", a)
	}
	if a == ChartKey(2, "week", "2024-06-05") {
		t.Fatal("generation must change the key")
	}
}

func TestManagerSweepAndRun(t *testing.T) {
	c, clock := newTestCache(4, time.Second)
	c.Set("a", nil)
	c.Set("b", nil)

	m := NewManager(nil)
	m.Register(c)

	clock.t = clock.t.Add(2 * time.Second)
	if n := m.Sweep(); n != 2 {
		t.Fatalf("Sweep() = %d, want 2", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 10*time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
