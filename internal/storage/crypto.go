package storage

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// SecretBox seals stored values at rest. The bearer token sits on disk for
// the lifetime of the session, so it is not written in the clear.
type SecretBox struct {
	key [32]byte
}

const nonceSize = 24

// NewSecretBox creates a SecretBox from a 32-byte key.
func NewSecretBox(key []byte) (*SecretBox, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("secretbox key must be 32 bytes, got %d", len(key))
	}
	box := &SecretBox{}
	copy(box.key[:], key)
	return box, nil
}

// Seal encrypts value, prepending the random nonce to the ciphertext.
func (b *SecretBox) Seal(value []byte) []byte {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible to do but stop.
		panic(fmt.Sprintf("storage: read nonce: %v", err))
	}
	return secretbox.Seal(nonce[:], value, &nonce, &b.key)
}

// Open decrypts a value produced by Seal.
func (b *SecretBox) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("sealed value too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	value, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &b.key)
	if !ok {
		return nil, fmt.Errorf("unseal failed (wrong key or corrupt value)")
	}
	return value, nil
}
