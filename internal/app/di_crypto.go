package app

import (
	"context"
	"fmt"
	"sync"

	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
	cryptoService "github.com/allisson/apivault/internal/crypto/service"
)

type cryptoComponents struct {
	kmsService cryptoService.KMSService
	engine     cryptoService.EncryptionEngine

	kmsServiceInit sync.Once
	engineInit     sync.Once
}

// KMSService returns the gocloud.dev backed KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.crypto.kmsServiceInit.Do(func() {
		c.crypto.kmsService = cryptoService.NewKMSService()
	})
	return c.crypto.kmsService
}

// EncryptionEngine returns the engine sealing API key values. The master key is derived here and
// zeroed once the cipher is keyed; the engine is the only holder of key material afterwards.
func (c *Container) EncryptionEngine() (cryptoService.EncryptionEngine, error) {
	err := c.lazy(&c.crypto.engineInit, "encryptionEngine", func() error {
		engine, err := c.initEncryptionEngine()
		if err != nil {
			return err
		}
		c.crypto.engine = engine
		return nil
	})
	return c.crypto.engine, err
}

func (c *Container) initEncryptionEngine() (cryptoService.EncryptionEngine, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, err
	}

	masterKey, err := cryptoService.LoadMasterKey(
		context.Background(),
		cryptoService.MasterKeyConfig{
			Passphrase: c.config.EncryptionPassphrase,
			Salt:       c.config.EncryptionSalt,
			KDF:        c.config.EncryptionKDF,
			KMSKeyURI:  c.config.KMSKeyURI,
		},
		c.KMSService(),
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}
	defer masterKey.Close()

	engine, err := cryptoService.NewEngine(masterKey, alg, cryptoService.NewAEADManager())
	if err != nil {
		return nil, fmt.Errorf("failed to create encryption engine: %w", err)
	}
	return engine, nil
}
