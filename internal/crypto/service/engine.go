package service

import (
	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
)

// Engine is the EncryptionEngine used by the vault.
//
// It is built once from the derived master key and injected into the use cases, so tests can
// construct engines from fixed keys. The engine holds only the keyed cipher, which is
// read-only after construction and safe for concurrent use.
//
// Sealed values are self-contained: the iv is the AEAD nonce, and the ciphertext carries the
// authentication tag. Callers bind each value to its record by passing the record identity as
// aad; the same aad must be supplied to Open.
type Engine struct {
	cipher    AEAD
	algorithm cryptoDomain.Algorithm
}

// NewEngine keys a cipher for alg with masterKey.
func NewEngine(masterKey *cryptoDomain.MasterKey, alg cryptoDomain.Algorithm, aeadManager AEADManager) (*Engine, error) {
	if masterKey == nil {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := aeadManager.CreateCipher(masterKey.Key, alg)
	if err != nil {
		return nil, err
	}

	return &Engine{cipher: aead, algorithm: alg}, nil
}

// Seal encrypts plaintext under a fresh iv from crypto/rand. The iv is never caller supplied.
func (e *Engine) Seal(plaintext, aad []byte) (ciphertext, iv []byte, err error) {
	return e.cipher.Encrypt(plaintext, aad)
}

// Open decrypts a sealed value. A wrong-length iv, a failed tag check or mismatched aad all
// return cryptoDomain.ErrDecryptionFailed; partial plaintext is never returned.
func (e *Engine) Open(ciphertext, iv, aad []byte) ([]byte, error) {
	if len(iv) != e.cipher.NonceSize() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := e.cipher.Decrypt(ciphertext, iv, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// Algorithm implements EncryptionEngine.
func (e *Engine) Algorithm() cryptoDomain.Algorithm {
	return e.algorithm
}
