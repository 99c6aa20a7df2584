// Package domain holds identifier primitives shared across modules.
//
// IdentityKey wraps a UUID so that a caller identity can never be confused
// with any other string or UUID at compile time. Parsing happens once at the
// trust boundary (token validation, address resolution); everything past that
// point works with the typed value.
package domain

import (
	"bytes"
	"strings"

	"github.com/google/uuid"

	dErrors "timecapsule/pkg/domain-errors"
)

// maxAddressLength bounds address input before it reaches the UUID parser.
const maxAddressLength = 64

// IdentityKey is the opaque, comparable identifier of a caller.
type IdentityKey uuid.UUID

// NewIdentityKey returns a fresh random identity.
func NewIdentityKey() IdentityKey {
	return IdentityKey(uuid.New())
}

// ParseIdentityKey resolves an external address string into an IdentityKey.
// Empty, malformed and nil-UUID addresses are rejected with CodeInvalidAddress.
func ParseIdentityKey(address string) (IdentityKey, error) {
	if address == "" {
		return IdentityKey{}, dErrors.New(dErrors.CodeInvalidAddress, "address is required")
	}
	if len(address) > maxAddressLength {
		return IdentityKey{}, dErrors.New(dErrors.CodeInvalidAddress, "address is too long")
	}
	if strings.TrimSpace(address) != address {
		return IdentityKey{}, dErrors.New(dErrors.CodeInvalidAddress, "address must not contain surrounding whitespace")
	}
	parsed, err := uuid.Parse(address)
	if err != nil {
		return IdentityKey{}, dErrors.New(dErrors.CodeInvalidAddress, "address is not a valid identity")
	}
	if parsed == uuid.Nil {
		return IdentityKey{}, dErrors.New(dErrors.CodeInvalidAddress, "address must not be the nil identity")
	}
	return IdentityKey(parsed), nil
}

// String returns the canonical address form of the identity.
func (k IdentityKey) String() string {
	return uuid.UUID(k).String()
}

// IsNil reports whether the identity is the zero value.
func (k IdentityKey) IsNil() bool {
	return uuid.UUID(k) == uuid.Nil
}

// Compare orders identities bytewise. It returns -1, 0 or +1.
func (k IdentityKey) Compare(other IdentityKey) int {
	return bytes.Compare(k[:], other[:])
}
