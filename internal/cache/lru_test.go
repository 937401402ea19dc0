package cache

import (
	"testing"
	"time"

	"github.com/carlmjohnson/be"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(maxSize int, ttl time.Duration) (*LRUCache[string], *clock) {
	clk := &clock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](maxSize, ttl)
	c.now = clk.now
	return c, clk
}

func TestGetSetExpire(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("crops:farm=1", "a")

	v, ok := c.Get("crops:farm=1")
	be.True(t, ok)
	be.Equal(t, "a", v)

	clk.t = clk.t.Add(2 * time.Minute)
	_, ok = c.Get("crops:farm=1")
	be.False(t, ok)
	be.Equal(t, 0, c.Size())
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	be.False(t, ok)
	_, ok = c.Get("a")
	be.True(t, ok)
	be.Equal(t, 2, c.Size())
}

func TestPurge(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("tasks:farm=1", "x")
	c.Set("tasks:farm=2", "y")
	c.Set("dashboard:farm=1", "z")
	be.Equal(t, 3, c.Size())

	c.Purge()
	be.Equal(t, 0, c.Size())
	c.Set("a", "1")
	be.Equal(t, 1, c.Size())
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	c, _ := newTestCache(10, 0)
	c.Set("a", "1")
	be.Equal(t, 0, c.Size())
}

func TestManagerCleansRegisteredCaches(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	clk.t = clk.t.Add(time.Hour)

	m := NewManager()
	m.Register(c)
	be.Equal(t, 2, m.CleanNow())

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}

func TestManagerStopWithoutStart(t *testing.T) {
	NewManager().Stop()
}
