package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kauatwn/TicketFlow/clock"
)

func TestFake(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := clock.Fake(start)

	assert.Equal(t, start, c.Now())

	c.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestReal(t *testing.T) {
	before := time.Now()
	now := clock.Real().Now()

	assert.False(t, now.Before(before.Add(-time.Second)))
	assert.Equal(t, time.UTC, now.Location())
}
