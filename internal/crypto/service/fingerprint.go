package service

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// stringFingerprinter implements Fingerprinter with the 31-multiplier rolling
// hash over UTF-16 code units that the existing fingerprint columns were
// written with (32-bit wraparound, decimal string form). It is a fast
// deterministic hash, not a cryptographic commitment, and is independent of
// the field cipher key: recomputing it for a migration only needs plaintext,
// never key material.
type stringFingerprinter struct{}

// NewFingerprinter creates a Fingerprinter compatible with the stored
// fingerprint columns.
func NewFingerprinter() Fingerprinter {
	return &stringFingerprinter{}
}

// Fingerprint returns the deterministic fingerprint of plaintext, or "" for
// blank input so the storage layer writes NULL. Equal plaintexts always yield
// equal fingerprints.
func (f *stringFingerprinter) Fingerprint(plaintext string) string {
	if strings.TrimSpace(plaintext) == "" {
		return ""
	}

	var h int32
	for _, unit := range utf16.Encode([]rune(plaintext)) {
		h = 31*h + int32(unit)
	}

	return strconv.FormatInt(int64(h), 10)
}
