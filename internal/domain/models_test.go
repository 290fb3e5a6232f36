package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"messenger/internal/domain"
)

func TestPreview(t *testing.T) {
	t.Run("ShortContentUnchanged", func(t *testing.T) {
		assert.Equal(t, "hello", domain.Preview("hello"))
	})

	t.Run("LongContentTruncated", func(t *testing.T) {
		long := strings.Repeat("x", 120)
		assert.Equal(t, strings.Repeat("x", domain.PreviewRunes), domain.Preview(long))
	})

	t.Run("ExactLengthUnchanged", func(t *testing.T) {
		exact := strings.Repeat("x", domain.PreviewRunes)
		assert.Equal(t, exact, domain.Preview(exact))
	})

	t.Run("CountsRunesNotBytes", func(t *testing.T) {
		long := strings.Repeat("ä", 60)
		got := domain.Preview(long)
		assert.Equal(t, domain.PreviewRunes, len([]rune(got)))
		assert.Equal(t, strings.Repeat("ä", domain.PreviewRunes), got)
	})
}
