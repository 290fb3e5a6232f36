package identity_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/domain"
	"messenger/internal/identity"
)

func TestDerive(t *testing.T) {
	t.Run("Commutative", func(t *testing.T) {
		ab, err := identity.Derive(1, 2)
		require.NoError(t, err)
		ba, err := identity.Derive(2, 1)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	})

	t.Run("StableAcrossCalls", func(t *testing.T) {
		first, err := identity.Derive(42, 7)
		require.NoError(t, err)
		second, err := identity.Derive(42, 7)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("DistinctPairsDiffer", func(t *testing.T) {
		ab, err := identity.Derive(1, 2)
		require.NoError(t, err)
		ac, err := identity.Derive(1, 3)
		require.NoError(t, err)
		assert.NotEqual(t, ab, ac)
	})

	t.Run("NameBasedVersion5", func(t *testing.T) {
		id, err := identity.Derive(1, 2)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(5), id.Version())
		assert.Equal(t, uuid.RFC4122, id.Variant())
	})

	t.Run("SelfPairRejected", func(t *testing.T) {
		_, err := identity.Derive(7, 7)
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}
