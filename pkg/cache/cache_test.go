package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Run("SetAndGet", func(t *testing.T) {
		c := New(time.Minute)
		defer c.Stop()

		c.Set("ETH,SGD", map[string]float64{"ETH": 0.00026, "SGD": 1.34})

		value, found := c.Get("ETH,SGD")
		require.True(t, found)
		sheet, ok := value.(map[string]float64)
		require.True(t, ok)
		assert.InDelta(t, 1.34, sheet["SGD"], 1e-9)
	})

	t.Run("MissingKey", func(t *testing.T) {
		c := New(time.Minute)
		defer c.Stop()

		_, found := c.Get("absent")
		assert.False(t, found)
	})

	t.Run("ExpiredEntryNotReturned", func(t *testing.T) {
		c := New(20 * time.Millisecond)
		defer c.Stop()

		c.Set("ETH", "stale")
		time.Sleep(30 * time.Millisecond)

		_, found := c.Get("ETH")
		assert.False(t, found)
	})

	t.Run("OverwriteRefreshesEntry", func(t *testing.T) {
		c := New(time.Minute)
		defer c.Stop()

		c.Set("ETH", "first")
		c.Set("ETH", "second")

		value, found := c.Get("ETH")
		require.True(t, found)
		assert.Equal(t, "second", value)
		assert.Equal(t, 1, c.Size())
	})

	t.Run("DeleteAndClear", func(t *testing.T) {
		c := New(time.Minute)
		defer c.Stop()

		c.Set("a", 1)
		c.Set("b", 2)

		c.Delete("a")
		_, found := c.Get("a")
		assert.False(t, found)
		assert.Equal(t, 1, c.Size())

		c.Clear()
		assert.Equal(t, 0, c.Size())
	})
}
