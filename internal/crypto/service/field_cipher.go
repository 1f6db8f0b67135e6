package service

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"log/slog"
	"regexp"
	"strings"

	apperrors "github.com/legacykeep/user-service/internal/errors"
)

// keySize is the AES-128 key length. The configured passphrase is truncated
// or zero-padded to exactly this many bytes; every service instance sharing
// the passphrase derives the same key, which is what keeps ciphertexts
// comparable across instances.
const keySize = 16

// base64Regex matches the standard base64 alphabet with optional padding.
var base64Regex = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// aesFieldCipher implements FieldCipher with AES-128 in ECB mode and PKCS#5
// padding. ECB is a deliberate choice, not an oversight: the stored column is
// queried for equality, so encryption must be deterministic. The equality
// leak across records (two users with the same phone number store identical
// ciphertext) is an accepted weakness of this design.
type aesFieldCipher struct {
	block  cipher.Block
	logger *slog.Logger
}

// NewFieldCipher creates a FieldCipher from the configured passphrase.
// Returns an error when the derived key is rejected by the cipher; that is a
// configuration failure and there is no fallback for encryption.
func NewFieldCipher(passphrase string, logger *slog.Logger) (FieldCipher, error) {
	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to initialize field cipher")
	}
	return &aesFieldCipher{block: block, logger: logger}, nil
}

// deriveKey maps the passphrase to a fixed-length key: the first keySize
// bytes of its byte representation, zero-padded when shorter.
func deriveKey(passphrase string) []byte {
	key := make([]byte, keySize)
	copy(key, passphrase)
	return key
}

// Encrypt encrypts a non-blank plaintext and returns it base64-encoded.
// Blank input produces "" so the storage layer writes NULL instead of an
// empty-ciphertext marker.
func (c *aesFieldCipher) Encrypt(plaintext string) string {
	if strings.TrimSpace(plaintext) == "" {
		return ""
	}

	padded := pkcs5Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		c.block.Encrypt(ciphertext[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}

	return base64.StdEncoding.EncodeToString(ciphertext)
}

// Decrypt recovers the plaintext from a stored value. A value that is not
// base64-shaped, or whose decryption fails, is treated as legacy plaintext
// written before encryption existed and returned unchanged. The two cases are
// logged separately so genuine corruption is at least visible in telemetry,
// even though it is not surfaced to callers.
func (c *aesFieldCipher) Decrypt(stored string) string {
	if strings.TrimSpace(stored) == "" {
		return ""
	}

	if !base64Regex.MatchString(stored) {
		// Legacy plaintext: predates field encryption.
		return stored
	}

	data, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return stored
	}

	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return stored
	}

	plaintext := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		c.block.Decrypt(plaintext[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}

	unpadded, ok := pkcs5Unpad(plaintext, aes.BlockSize)
	if !ok {
		// Either legacy plaintext that happens to look like base64, or a
		// corrupted row; indistinguishable without a stored format marker.
		if c.logger != nil {
			c.logger.Warn("field decryption failed, returning stored value as legacy plaintext")
		}
		return stored
	}

	return string(unpadded)
}

// pkcs5Pad appends PKCS#5 padding up to the next block boundary.
func pkcs5Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs5Unpad strips and validates PKCS#5 padding. Returns false when the
// padding is inconsistent, which is how a wrong-key or corrupted decryption
// surfaces.
func pkcs5Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}

	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > blockSize || padLen > len(data) {
		return nil, false
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, false
		}
	}

	return data[:len(data)-padLen], true
}
