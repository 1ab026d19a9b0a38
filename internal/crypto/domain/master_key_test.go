package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMasterKey_Close(t *testing.T) {
	key := []byte{1, 2, 3, 4}
	masterKey := &MasterKey{KDF: Scrypt, Key: key}

	masterKey.Close()

	assert.Nil(t, masterKey.Key)
	assert.Equal(t, []byte{0, 0, 0, 0}, key)

	var nilKey *MasterKey
	assert.NotPanics(t, func() { nilKey.Close() })
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input    string
		expected Algorithm
		wantErr  bool
	}{
		{"aes-gcm", AESGCM, false},
		{" AES-GCM ", AESGCM, false},
		{"chacha20-poly1305", ChaCha20, false},
		{"aes-cbc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			alg, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, alg)
		})
	}
}

func TestParseKDF(t *testing.T) {
	kdf, err := ParseKDF("scrypt")
	assert.NoError(t, err)
	assert.Equal(t, Scrypt, kdf)

	kdf, err = ParseKDF("Argon2id")
	assert.NoError(t, err)
	assert.Equal(t, Argon2id, kdf)

	_, err = ParseKDF("sha256")
	assert.ErrorIs(t, err, ErrUnsupportedKDF)
}
