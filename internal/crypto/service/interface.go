// Package service implements field-level cryptography for sensitive profile
// attributes: a deterministic reversible cipher for storage and a one-way
// fingerprint for exact-match lookup.
package service

// FieldCipher encrypts and decrypts a single sensitive string field.
//
// Encryption is deliberately deterministic (no per-value IV or nonce): equal
// plaintexts always produce equal ciphertexts, which keeps stored values
// comparable. Confidential randomized encryption and searchability are traded
// off here in favor of the latter; the fingerprint column is the supported
// lookup path.
//
// Implementations are stateless after construction and safe for concurrent use.
type FieldCipher interface {
	// Encrypt returns the base64-encoded ciphertext of plaintext, or "" when
	// the input is blank.
	Encrypt(plaintext string) string

	// Decrypt recovers the plaintext from a stored value. Values that are not
	// base64-shaped, or that fail decryption, are returned unchanged: rows
	// written before field encryption was introduced hold raw plaintext and
	// must stay readable. Decrypt never fails.
	Decrypt(stored string) string
}

// Fingerprinter derives a stable, deterministic fingerprint of a plaintext
// value so equality lookups are possible without decrypting stored rows.
// Independent of the FieldCipher key. Blank input yields "".
type Fingerprinter interface {
	Fingerprint(plaintext string) string
}
