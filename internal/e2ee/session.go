// Package e2ee wraps wire frames in authenticated encryption. The codec
// stays plaintext-only; the bridge seals its output and the sink opens it.
package e2ee

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// KeySize is the AES-256 key size in bytes.
const KeySize = 32

// NonceSize is the GCM nonce length prepended to every sealed frame.
const NonceSize = 12

// WireAAD is the additional data bound into every sealed wire frame. Both
// ends must agree on it or opening fails.
const WireAAD = "j3.2"

// Session holds a symmetric key for sealing and opening frames.
type Session struct {
	aead cipher.AEAD
}

// NewSession creates a session from a raw 32-byte key.
func NewSession(key []byte) (*Session, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Session{aead: aead}, nil
}

// FromPSK derives a session key from a pre-shared secret with BLAKE2b-256.
func FromPSK(psk []byte) (*Session, error) {
	key := blake2b.Sum256(psk)
	return NewSession(key[:])
}

// Seal encrypts plaintext under the session key, binding aad, and returns
// nonce followed by ciphertext. A fresh random nonce is drawn per call.
func (s *Session) Seal(aad, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, NonceSize+len(plaintext)+s.aead.Overhead())
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plaintext, aad), nil
}

// Open decrypts a frame produced by Seal. It fails on truncated input,
// a wrong key, or aad that does not match the one sealed in.
func (s *Session) Open(aad, framed []byte) ([]byte, error) {
	if len(framed) < NonceSize {
		return nil, fmt.Errorf("sealed frame too short: %d bytes", len(framed))
	}

	nonce, ciphertext := framed[:NonceSize], framed[NonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealed frame: %w", err)
	}
	return plaintext, nil
}
