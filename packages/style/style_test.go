package style

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPlain(t *testing.T) {
	s := Plain()

	assert.Equal(t, "+", s.Glyph(true))
	assert.Equal(t, "x", s.Glyph(false))
	assert.Equal(t, "a == b", s.Apply("a == b", true))
	assert.Equal(t, "a == b", s.Apply("a == b", false))
}

func TestColor(t *testing.T) {
	s := Color()

	t.Run("passed glyph is green check", func(t *testing.T) {
		g := s.Glyph(true)
		assert.Contains(t, g, "✔")
		assert.Contains(t, g, "\x1b[32m")
	})

	t.Run("failed glyph is red cross", func(t *testing.T) {
		g := s.Glyph(false)
		assert.Contains(t, g, "✖")
		assert.Contains(t, g, "\x1b[31m")
	})

	t.Run("text keeps its content", func(t *testing.T) {
		out := s.Apply("x = 5", false)
		assert.True(t, strings.Contains(out, "x = 5"))
		assert.NotEqual(t, "x = 5", out)
	})
}

func TestNew(t *testing.T) {
	assert.Equal(t, Plain(), New(true))
	assert.Contains(t, New(false).Glyph(false), "✖")
}

func TestDefault_FollowsNoColor(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()

	color.NoColor = true
	assert.Equal(t, "x", Default().Glyph(false))

	color.NoColor = false
	assert.Contains(t, Default().Glyph(false), "✖")
}
