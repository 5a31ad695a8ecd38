package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawDelivery(t *testing.T) {
	delivery := RawDelivery{
		"number": float64(42),
		"name":   "octo",
		"nested": map[string]any{"key": "value"},
		"null":   nil,
	}

	t.Run("Success - Int handles JSON numbers", func(t *testing.T) {
		n, ok := delivery.Int("number")
		assert.True(t, ok)
		assert.Equal(t, 42, n)

		_, ok = delivery.Int("name")
		assert.False(t, ok)

		_, ok = delivery.Int("missing")
		assert.False(t, ok)
	})

	t.Run("Success - Object rejects non-objects", func(t *testing.T) {
		obj, ok := delivery.Object("nested")
		assert.True(t, ok)
		assert.Equal(t, "value", obj.String("key"))

		_, ok = delivery.Object("name")
		assert.False(t, ok)

		_, ok = delivery.Object("null")
		assert.False(t, ok)
	})

	t.Run("Success - String tolerates absence and null", func(t *testing.T) {
		assert.Equal(t, "octo", delivery.String("name"))
		assert.Empty(t, delivery.String("null"))
		assert.Empty(t, delivery.String("missing"))
	})

	t.Run("Success - accessors work on a nil delivery", func(t *testing.T) {
		var nilDelivery RawDelivery

		assert.False(t, nilDelivery.Has("any"))
		assert.Empty(t, nilDelivery.String("any"))
		_, ok := nilDelivery.Int("any")
		assert.False(t, ok)
		_, ok = nilDelivery.Object("any")
		assert.False(t, ok)
	})
}
