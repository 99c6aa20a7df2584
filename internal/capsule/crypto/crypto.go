// Package crypto provides the sealing and signature capabilities used by the
// capsule service.
package crypto

import (
	"context"

	id "timecapsule/pkg/domain"
)

// Encryptor seals capsule plaintext for one owner. Open is the exact inverse
// of Seal for the same owner and fails for any other owner.
type Encryptor interface {
	Seal(ctx context.Context, owner id.IdentityKey, plaintext string) (string, error)
	Open(ctx context.Context, owner id.IdentityKey, ciphertext string) (string, error)
}

// SignatureVerifier checks that signature over message was produced by the
// key behind address. A well-formed but wrong signature is (false, nil).
type SignatureVerifier interface {
	Verify(ctx context.Context, address, message, signature string) (bool, error)
}
