// Package pagination implements the opaque keyset cursor used to resume
// newest-first partition scans. A cursor carries a single timestamp and
// no server-side state.
package pagination

import (
	"encoding/base64"
	"strconv"
	"time"

	"messenger/internal/domain"
)

// Encode serializes a timestamp into an opaque token. Millisecond
// precision matches the storage layer's timestamp columns.
func Encode(t time.Time) string {
	return base64.RawURLEncoding.EncodeToString(
		[]byte(strconv.FormatInt(t.UnixMilli(), 10)))
}

// Decode parses a token produced by Encode. Malformed input yields a
// ValidationError, never a panic or a silent zero time.
func Decode(cursor string) (time.Time, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, domain.Validationf("malformed pagination cursor")
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, domain.Validationf("malformed pagination cursor")
	}
	return time.UnixMilli(ms).UTC(), nil
}
