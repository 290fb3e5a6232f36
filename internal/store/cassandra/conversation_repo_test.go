package cassandra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveUpsert(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("MissingEntryInserts", func(t *testing.T) {
		assert.Equal(t, planInsert, resolveUpsert(time.Time{}, false, base))
	})

	t.Run("StaleRetrySkips", func(t *testing.T) {
		assert.Equal(t, planSkip, resolveUpsert(base, true, base.Add(-time.Minute)))
	})

	t.Run("NewerMessageReplaces", func(t *testing.T) {
		assert.Equal(t, planReplace, resolveUpsert(base, true, base.Add(time.Minute)))
	})

	// An equal timestamp must take the bare-insert path. Routing it
	// through the batch would pair a DELETE and an INSERT on the same
	// row under one mutation timestamp, and the tombstone wins that
	// tie, wiping the entry from the user's index.
	t.Run("EqualTimestampOverwritesInPlace", func(t *testing.T) {
		assert.Equal(t, planOverwrite, resolveUpsert(base, true, base))
	})

	t.Run("EqualInstantDifferentLocation", func(t *testing.T) {
		assert.Equal(t, planOverwrite, resolveUpsert(base.In(time.FixedZone("x", 3600)), true, base))
	})
}
