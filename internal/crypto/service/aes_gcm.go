package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
)

// AESGCMCipher implements AEAD with AES-256-GCM.
//
// Each Encrypt call draws a 12-byte nonce from crypto/rand; the nonce is returned to the
// caller and must be stored next to the ciphertext. The 16-byte GCM tag is appended to the
// ciphertext, so any change to ciphertext, nonce or aad makes Decrypt fail rather than return
// different plaintext.
//
// The cipher holds no mutable state and is safe for concurrent use.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates an AES-256-GCM cipher. key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext with a random nonce. aad may be nil.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt verifies the tag and returns the plaintext. The nonce must be NonceSize bytes;
// callers are expected to check that first since the underlying AEAD panics otherwise.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

// NonceSize returns 12.
func (a *AESGCMCipher) NonceSize() int {
	return a.aead.NonceSize()
}
