package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
)

// MasterKeyConfig is the subset of application configuration needed to derive the master key.
type MasterKeyConfig struct {
	// Passphrase is the plaintext passphrase, or the base64 KMS ciphertext of it when KMSKeyURI is set.
	Passphrase string
	Salt       string
	KDF        string
	// KMSKeyURI optionally names the KMS key protecting Passphrase.
	KMSKeyURI string
}

// LoadMasterKey derives the process master key.
//
// When cfg.KMSKeyURI is set the passphrase is first base64-decoded and decrypted with the KMS
// keeper. Every failure here is fatal for the caller: a vault that cannot derive its key cannot
// decrypt anything it stored before.
//
// The intermediate passphrase bytes are zeroed before returning.
func LoadMasterKey(
	ctx context.Context,
	cfg MasterKeyConfig,
	kms KMSService,
	logger *slog.Logger,
) (*cryptoDomain.MasterKey, error) {
	if strings.TrimSpace(cfg.Passphrase) == "" {
		return nil, cryptoDomain.ErrPassphraseRequired
	}
	if cfg.Salt == "" {
		return nil, cryptoDomain.ErrSaltRequired
	}

	kdf, err := cryptoDomain.ParseKDF(cfg.KDF)
	if err != nil {
		return nil, err
	}

	deriver, err := NewKeyDeriver(kdf)
	if err != nil {
		return nil, err
	}

	passphrase, err := resolvePassphrase(ctx, cfg, kms)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(passphrase)

	key, err := deriver.Derive(passphrase, []byte(cfg.Salt))
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("master key derived",
			slog.String("kdf", string(kdf)),
			slog.Bool("kms", cfg.KMSKeyURI != ""))
	}

	return &cryptoDomain.MasterKey{KDF: kdf, Key: key}, nil
}

func resolvePassphrase(ctx context.Context, cfg MasterKeyConfig, kms KMSService) ([]byte, error) {
	if cfg.KMSKeyURI == "" {
		return []byte(cfg.Passphrase), nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cfg.Passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to decode KMS-encrypted passphrase: %w", err)
	}

	keeper, err := kms.OpenKeeper(ctx, cfg.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() { _ = keeper.Close() }()

	passphrase, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt passphrase with KMS: %w", err)
	}
	if len(passphrase) == 0 {
		return nil, cryptoDomain.ErrPassphraseRequired
	}

	return passphrase, nil
}
