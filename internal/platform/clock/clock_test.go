package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestStartOfDay_UsesStoreLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on the 14th is already the 15th in Kolkata (+05:30).
	instant := time.Date(2025, 10, 14, 20, 0, 0, 0, time.UTC)

	got := StartOfDay(instant, kolkata)
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, kolkata, got.Location())

	assert.Equal(t, 14, StartOfDay(instant, time.UTC).Day())
}
