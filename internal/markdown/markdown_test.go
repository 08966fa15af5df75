package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New()

	t.Run("renders markdown", func(t *testing.T) {
		html, err := r.Render("# Team\n\nWe ship **fast**.")
		require.NoError(t, err)
		assert.Contains(t, html, "<h1")
		assert.Contains(t, html, "<strong>fast</strong>")
	})

	t.Run("strips scripts", func(t *testing.T) {
		html, err := r.Render("hello <script>alert(1)</script>")
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
	})

	t.Run("drops javascript links", func(t *testing.T) {
		html, err := r.Render("[x](javascript:alert(1))")
		require.NoError(t, err)
		assert.NotContains(t, html, "javascript:")
	})

	t.Run("empty input", func(t *testing.T) {
		html, err := r.Render("")
		require.NoError(t, err)
		assert.Empty(t, html)
	})
}
