package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
	cryptoService "github.com/allisson/apivault/internal/crypto/service"
)

const (
	minPassphraseBytes = 32
	saltBytes          = 16
)

// PassphraseOutput is the configuration printed by create-passphrase.
type PassphraseOutput struct {
	Passphrase string `json:"encryption_passphrase"`
	Salt       string `json:"encryption_salt"`
	KMSKeyURI  string `json:"kms_key_uri,omitempty"`
}

// RunCreatePassphrase generates a random encryption passphrase and salt. With a KMS key URI the
// passphrase is encrypted by the keeper and printed as base64 ciphertext, which is the form the
// server expects when KMS_KEY_URI is set. Raw random bytes are zeroed before returning.
func RunCreatePassphrase(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	w io.Writer,
	size int,
	kmsKeyURI string,
	format string,
) error {
	if size < minPassphraseBytes {
		return fmt.Errorf("passphrase size must be at least %d bytes", minPassphraseBytes)
	}

	raw := make([]byte, size)
	defer cryptoDomain.Zero(raw)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate passphrase: %w", err)
	}
	passphrase := []byte(base64.RawURLEncoding.EncodeToString(raw))
	defer cryptoDomain.Zero(passphrase)

	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	output := PassphraseOutput{
		Passphrase: string(passphrase),
		Salt:       base64.RawURLEncoding.EncodeToString(salt),
	}

	if kmsKeyURI != "" {
		if kmsService == nil {
			return fmt.Errorf("kms service is required when --kms-key-uri is set")
		}
		ciphertext, err := encryptWithKMS(ctx, kmsService, kmsKeyURI, passphrase)
		if err != nil {
			return err
		}
		output.Passphrase = base64.StdEncoding.EncodeToString(ciphertext)
		output.KMSKeyURI = kmsKeyURI
	}

	logger.Info("passphrase generated", slog.Bool("kms", kmsKeyURI != ""))

	return writeOutput(w, format, output, func(w io.Writer) error {
		if _, err := fmt.Fprintln(w, "# Copy these variables to your .env file or secrets manager."); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, "# Changing either value makes previously stored keys unreadable."); err != nil {
			return err
		}
		if output.KMSKeyURI != "" {
			if _, err := fmt.Fprintf(w, "KMS_KEY_URI=%q\n", output.KMSKeyURI); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "ENCRYPTION_PASSPHRASE=%q\n", output.Passphrase); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "ENCRYPTION_SALT=%q\n", output.Salt)
		return err
	})
}

func encryptWithKMS(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	keyURI string,
	plaintext []byte,
) ([]byte, error) {
	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() { _ = keeper.Close() }()

	ciphertext, err := keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt passphrase with KMS: %w", err)
	}
	return ciphertext, nil
}
