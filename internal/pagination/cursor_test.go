package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/domain"
	"messenger/internal/pagination"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2024, 5, 17, 9, 30, 12, 345_000_000, time.UTC)

	cursor := pagination.Encode(ts)
	got, err := pagination.Decode(cursor)
	require.NoError(t, err)
	assert.True(t, got.Equal(ts))
	assert.Equal(t, time.UTC, got.Location())
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"NotBase64":      "!!not-base64!!",
		"NotANumber":     "aGVsbG8",
		"Empty":          "",
		"PaddedEncoding": "MTIzNA==",
	}

	for name, cursor := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pagination.Decode(cursor)
			var ve *domain.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}
