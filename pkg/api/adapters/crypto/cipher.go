package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrInvalidKeySize    = errors.New("crypto: encryption key must decode to 32 raw bytes")
	ErrCiphertextTooShort = errors.New("crypto: ciphertext shorter than nonce size")
)

// TokenCipher seals and opens OAuth credentials for at-rest storage using
// XChaCha20-Poly1305: a 24-byte random nonce is generated per call and
// prepended to the returned ciphertext.
type TokenCipher struct {
	aead chacha20poly1305.AEAD
}

// NewTokenCipher derives an AEAD from a base64-encoded 32-byte key, as read
// from the TOKEN_ENCRYPTION_KEY configuration value.
func NewTokenCipher(base64Key string) (*TokenCipher, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to decode encryption key: %w", err)
	}

	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to construct aead: %w", err)
	}

	return &TokenCipher{aead: aead}, nil
}

// Seal encrypts plaintext, returning nonce||ciphertext.
func (c *TokenCipher) Seal(plaintext string) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())

	_, err := rand.Read(nonce)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return sealed, nil
}

// Open decrypts a nonce||ciphertext blob produced by Seal.
func (c *TokenCipher) Open(sealed []byte) (string, error) {
	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", ErrCiphertextTooShort
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("crypto: failed to open ciphertext: %w", err)
	}

	return string(plaintext), nil
}
