package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
	cryptoService "github.com/allisson/apivault/internal/crypto/service"
)

type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

// localKeyURI is a localsecrets keeper URI over an all-zero 32-byte key.
var localKeyURI = "base64key://" + base64.URLEncoding.EncodeToString(make([]byte, 32))

func TestRunCreatePassphrase(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("plain-text", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreatePassphrase(ctx, nil, logger, &out, 32, "", "text")
		require.NoError(t, err)

		assert.Contains(t, out.String(), "ENCRYPTION_PASSPHRASE=")
		assert.Contains(t, out.String(), "ENCRYPTION_SALT=")
		assert.NotContains(t, out.String(), "KMS_KEY_URI")
	})

	t.Run("plain-json-is-random", func(t *testing.T) {
		var first, second PassphraseOutput
		for _, target := range []*PassphraseOutput{&first, &second} {
			var out bytes.Buffer
			require.NoError(t, RunCreatePassphrase(ctx, nil, logger, &out, 48, "", "json"))
			require.NoError(t, json.Unmarshal(out.Bytes(), target))
		}

		assert.Len(t, first.Passphrase, base64.RawURLEncoding.EncodedLen(48))
		assert.NotEqual(t, first.Passphrase, second.Passphrase)
		assert.NotEqual(t, first.Salt, second.Salt)
		assert.Empty(t, first.KMSKeyURI)
	})

	t.Run("kms-mock", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}
		mockService.On("OpenKeeper", ctx, "base64key://test").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return([]byte("encrypted"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreatePassphrase(ctx, mockService, logger, &out, 32, "base64key://test", "text")
		require.NoError(t, err)

		assert.Contains(t, out.String(), `KMS_KEY_URI="base64key://test"`)
		assert.Contains(t, out.String(),
			`ENCRYPTION_PASSPHRASE="`+base64.StdEncoding.EncodeToString([]byte("encrypted"))+`"`)
		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("kms-round-trip-with-master-key-loader", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreatePassphrase(ctx, cryptoService.NewKMSService(), logger, &out, 32, localKeyURI, "json")
		require.NoError(t, err)

		var output PassphraseOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &output))

		masterKey, err := cryptoService.LoadMasterKey(ctx, cryptoService.MasterKeyConfig{
			Passphrase: output.Passphrase,
			Salt:       output.Salt,
			KDF:        "scrypt",
			KMSKeyURI:  output.KMSKeyURI,
		}, cryptoService.NewKMSService(), logger)
		require.NoError(t, err)
		defer masterKey.Close()
		assert.Len(t, masterKey.Key, 32)
	})

	t.Run("kms-open-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "invalid").Return(nil, errors.New("failed to open KMS keeper"))

		err := RunCreatePassphrase(ctx, mockService, logger, &bytes.Buffer{}, 32, "invalid", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("kms-encrypt-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}
		mockService.On("OpenKeeper", ctx, "base64key://test").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.Anything).Return(nil, errors.New("denied"))
		mockKeeper.On("Close").Return(nil)

		err := RunCreatePassphrase(ctx, mockService, logger, &bytes.Buffer{}, 32, "base64key://test", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "denied")
		mockKeeper.AssertCalled(t, "Close")
	})

	t.Run("size-too-small", func(t *testing.T) {
		err := RunCreatePassphrase(ctx, nil, logger, &bytes.Buffer{}, 8, "", "text")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "at least"))
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunCreatePassphrase(ctx, nil, logger, &bytes.Buffer{}, 32, "", "yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})
}
