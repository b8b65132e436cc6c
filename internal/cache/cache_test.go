package cache

import (
	"fmt"
	"testing"
	"time"
)

// fakeClock lets the TTL tests advance time without sleeping.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)}
}

func TestGetSet(t *testing.T) {
	clock := newClock()
	c, err := New[string](8, time.Minute, clock.now)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("hit on an empty cache")
	}

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Get(a) = %q, %v", got, ok)
	}
}

func TestTTLExpiry(t *testing.T) {
	clock := newClock()
	c, err := New[int](8, time.Minute, clock.now)
	if err != nil {
		t.Fatal(err)
	}

	c.Set("k", 42)

	clock.advance(time.Minute) // exactly at TTL: still live
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired at exactly the TTL boundary")
	}

	clock.advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived past its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted on access, Len = %d", c.Len())
	}
}

func TestSetRefreshesTimestamp(t *testing.T) {
	clock := newClock()
	c, err := New[int](8, time.Minute, clock.now)
	if err != nil {
		t.Fatal(err)
	}

	c.Set("k", 1)
	clock.advance(45 * time.Second)
	c.Set("k", 2)
	clock.advance(45 * time.Second)

	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Errorf("rewritten entry should live from its last Set, got %d, %v", got, ok)
	}
}

func TestLRUEviction(t *testing.T) {
	clock := newClock()
	c, err := New[int](3, 0, clock.now) // ttl 0: capacity only
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry survived past capacity")
	}
	for i := 1; i < 4; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("k%d evicted while within capacity", i)
		}
	}
}

func TestPurge(t *testing.T) {
	clock := newClock()
	c, err := New[int](8, time.Minute, clock.now)
	if err != nil {
		t.Fatal(err)
	}

	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("purged entry still retrievable")
	}
}
