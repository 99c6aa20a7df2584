package crypto

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"strings"

	dErrors "timecapsule/pkg/domain-errors"
)

const ed25519AddressPrefix = "ed25519:"

// Ed25519Verifier verifies ed25519 signatures over the raw message bytes.
// Addresses are "ed25519:" followed by the base64 public key; signatures
// are base64.
type Ed25519Verifier struct{}

func NewEd25519Verifier() *Ed25519Verifier {
	return &Ed25519Verifier{}
}

// Ed25519Address formats a public key as a verifiable address.
func Ed25519Address(pub ed25519.PublicKey) string {
	return ed25519AddressPrefix + base64.StdEncoding.EncodeToString(pub)
}

func (v *Ed25519Verifier) Verify(_ context.Context, address, message, signature string) (bool, error) {
	pub, err := parseEd25519Address(address)
	if err != nil {
		return false, err
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, dErrors.New(dErrors.CodeValidation, "signature is not valid base64")
	}
	if len(sig) != ed25519.SignatureSize {
		return false, dErrors.New(dErrors.CodeValidation, "invalid ed25519 signature length")
	}
	return ed25519.Verify(pub, []byte(message), sig), nil
}

func parseEd25519Address(address string) (ed25519.PublicKey, error) {
	enc, ok := strings.CutPrefix(address, ed25519AddressPrefix)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "unsupported address scheme")
	}
	pub, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "invalid address encoding")
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "invalid ed25519 public key length")
	}
	return ed25519.PublicKey(pub), nil
}
