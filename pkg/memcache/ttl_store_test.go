package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestTTLStore_Expiry(t *testing.T) {
	c := &clock{t: time.Unix(1000, 0)}
	s := NewTTLStore[string]().WithClock(c.now)

	s.Set("a", "alpha", time.Minute)
	v, ok := s.Peek("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", v)

	c.advance(2 * time.Minute)
	_, ok = s.Peek("a")
	assert.False(t, ok)
	assert.False(t, s.Touch("a", time.Minute))
	assert.Equal(t, 0, s.Len())
}

func TestTTLStore_TouchExtends(t *testing.T) {
	c := &clock{t: time.Unix(1000, 0)}
	s := NewTTLStore[int]().WithClock(c.now)

	s.Set("k", 7, time.Minute)
	c.advance(50 * time.Second)
	assert.True(t, s.Touch("k", time.Minute))
	c.advance(50 * time.Second)

	v, ok := s.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestTTLStore_ConsumeIsSingleUse(t *testing.T) {
	s := NewTTLStore[string]()
	s.Set("tok", "user-1", time.Hour)

	v, ok := s.Consume("tok")
	assert.True(t, ok)
	assert.Equal(t, "user-1", v)

	_, ok = s.Consume("tok")
	assert.False(t, ok)
}

func TestTTLStore_Sweep(t *testing.T) {
	c := &clock{t: time.Unix(1000, 0)}
	s := NewTTLStore[string]().WithClock(c.now)

	s.Set("short", "x", time.Second)
	s.Set("long", "y", time.Hour)
	c.advance(time.Minute)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	s.Delete("long")
	assert.Equal(t, 0, s.Len())
}
