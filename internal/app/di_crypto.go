package app

import (
	"fmt"

	cryptoService "github.com/legacykeep/user-service/internal/crypto/service"
)

// FieldCipher returns the field encryption service instance.
func (c *Container) FieldCipher() (cryptoService.FieldCipher, error) {
	var err error
	c.fieldCipherInit.Do(func() {
		c.fieldCipher, err = cryptoService.NewFieldCipher(c.config.EncryptionKey, c.Logger())
		if err != nil {
			c.initErrors["fieldCipher"] = fmt.Errorf("failed to create field cipher: %w", err)
		}
	})
	if err != nil {
		return nil, c.initErrors["fieldCipher"]
	}
	if storedErr, exists := c.initErrors["fieldCipher"]; exists {
		return nil, storedErr
	}
	return c.fieldCipher, nil
}

// Fingerprinter returns the searchable fingerprint service instance.
func (c *Container) Fingerprinter() (cryptoService.Fingerprinter, error) {
	c.fingerprinterInit.Do(func() {
		c.fingerprinter = cryptoService.NewFingerprinter()
	})
	return c.fingerprinter, nil
}
