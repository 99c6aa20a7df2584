package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	id "timecapsule/pkg/domain"
)

// MasterKeySize is the required length of the master key in bytes.
const MasterKeySize = 32

const keyInfoPrefix = "timecapsule/capsule-key/v1/"

// AESGCM seals payloads with AES-256-GCM under a per-owner key derived from
// a single master key with HKDF-SHA256. The owner id is also bound as
// additional data, so a payload copied to another owner's partition does not open.
type AESGCM struct {
	masterKey []byte
	salt      []byte
	random    io.Reader
}

type AESGCMOption func(*AESGCM)

// WithSalt sets the HKDF salt. Changing it makes existing payloads unreadable.
func WithSalt(salt []byte) AESGCMOption {
	return func(a *AESGCM) {
		a.salt = append([]byte(nil), salt...)
	}
}

// WithRandom overrides the nonce source.
func WithRandom(r io.Reader) AESGCMOption {
	return func(a *AESGCM) {
		a.random = r
	}
}

func NewAESGCM(masterKey []byte, opts ...AESGCMOption) (*AESGCM, error) {
	if len(masterKey) != MasterKeySize {
		return nil, fmt.Errorf("master key must be %d bytes, got %d", MasterKeySize, len(masterKey))
	}
	a := &AESGCM{
		masterKey: append([]byte(nil), masterKey...),
		random:    rand.Reader,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// DecodeMasterKey parses a base64 (standard or raw) master key.
func DecodeMasterKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		key, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode master key: %w", err)
		}
	}
	if len(key) != MasterKeySize {
		return nil, fmt.Errorf("master key must be %d bytes, got %d", MasterKeySize, len(key))
	}
	return key, nil
}

func (a *AESGCM) aead(owner id.IdentityKey) (cipher.AEAD, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, a.masterKey, a.salt, []byte(keyInfoPrefix+owner.String()))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive owner key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return aead, nil
}

// Seal returns base64(nonce || ciphertext).
func (a *AESGCM) Seal(_ context.Context, owner id.IdentityKey, plaintext string) (string, error) {
	aead, err := a.aead(owner)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(a.random, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, []byte(plaintext), owner[:])
	payload := append(nonce, ciphertext...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

func (a *AESGCM) Open(_ context.Context, owner id.IdentityKey, sealed string) (string, error) {
	aead, err := a.aead(owner)
	if err != nil {
		return "", err
	}

	payload, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	nonceSize := aead.NonceSize()
	if len(payload) < nonceSize+aead.Overhead() {
		return "", fmt.Errorf("sealed value is too short")
	}
	nonce, ciphertext := payload[:nonceSize], payload[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, owner[:])
	if err != nil {
		return "", fmt.Errorf("decrypt sealed value: %w", err)
	}
	return string(plaintext), nil
}
