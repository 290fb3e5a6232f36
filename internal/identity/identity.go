// Package identity derives stable conversation identifiers from
// participant pairs. No lookup table or coordination is involved: the
// identifier is a pure function of the two user IDs and can be computed
// offline by any process.
package identity

import (
	"fmt"

	"github.com/google/uuid"

	"messenger/internal/domain"
)

// Namespace seeds the name-based UUID derivation. It is part of the
// external contract: changing it severs every existing conversation
// from its message history.
var Namespace = uuid.NameSpaceDNS

// Derive maps an unordered pair of user IDs to the conversation ID.
// The pair is ordered ascending and joined as "<lo>-<hi>", then hashed
// into an RFC 4122 version 5 (SHA-1, name-based) UUID. Derive(a, b) and
// Derive(b, a) always agree.
func Derive(a, b int64) (uuid.UUID, error) {
	if a == b {
		return uuid.Nil, domain.Validationf("sender and receiver must be different users")
	}
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	return uuid.NewSHA1(Namespace, []byte(fmt.Sprintf("%d-%d", lo, hi))), nil
}
