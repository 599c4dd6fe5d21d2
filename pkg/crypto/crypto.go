// Package crypto implements the at-rest encryption for stored mappings:
// AES-GCM with a key derived from the configured secret. Every record
// carries its own nonce so records decrypt independently.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32
	pbkdf2Iterations = 10_000
)

// keyDerivationSalt is fixed so the same configured secret derives the
// same storage key across restarts. Rotating it invalidates every stored
// record, which is the documented key-rotation story.
var keyDerivationSalt = []byte("veil.mapping-store.v1")

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// GenerateKey returns a fresh urlsafe-base64 encryption secret suitable
// for VEIL_ENCRYPTION_KEY.
func GenerateKey() (string, error) {
	raw := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// DeriveKey stretches the configured secret into the AES key.
func DeriveKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), keyDerivationSalt, pbkdf2Iterations, keySize, sha256.New)
}

// Encrypt seals plaintext with AES-GCM, prefixing the nonce to the
// returned record.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a record produced by Encrypt. Any tampering fails the GCM
// tag check and returns an error; no partial plaintext is ever returned.
func Decrypt(record, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(record) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := record[:gcm.NonceSize()], record[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
