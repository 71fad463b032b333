// Package secret packs and unpacks the relay signing key under a
// password-derived symmetric key, so the key is never at rest in plaintext.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2 iteration count. Fixed: the blob does not carry it, both
	// sides must agree. Changing it invalidates every existing blob.
	KeyIterations = 100000

	SaltSize  = 16 // 128-bit random salt, stored with the blob
	NonceSize = 12 // AES-GCM standard nonce size
	keySize   = 32 // AES-256
)

// The key could not be recovered: wrong password, truncated blob, or
// tampering. GCM authentication makes these indistinguishable on purpose.
type DecryptionError struct {
	reason string
}

func (e *DecryptionError) Error() string {
	return "cannot decrypt secret: " + e.reason
}

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, KeyIterations, keySize, sha256.New)
}

// Encrypt seals plaintext under a key derived from password and returns a
// single hex string of salt, nonce and ciphertext packed in that order.
// Salt and nonce are not secret,
// they are required decryption inputs and must travel with the blob.
func Encrypt(plaintext, password string) (string, error) {
	if plaintext == "" {
		return "", errors.New("empty plaintext")
	}
	if password == "" {
		return "", errors.New("empty password")
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	packed := make([]byte, 0, SaltSize+NonceSize+len(sealed))
	packed = append(packed, salt...)
	packed = append(packed, nonce...)
	packed = append(packed, sealed...)
	return hex.EncodeToString(packed), nil
}

// Decrypt reverses Encrypt. Any failure surfaces as DecryptionError and a
// wrong password can never produce a plausible-looking wrong key.
func Decrypt(packed, password string) (string, error) {
	raw, err := hex.DecodeString(packed)
	if err != nil {
		return "", &DecryptionError{reason: "blob is not valid hex"}
	}
	if len(raw) <= SaltSize+NonceSize {
		return "", &DecryptionError{reason: "blob too short"}
	}

	salt := raw[:SaltSize]
	nonce := raw[SaltSize : SaltSize+NonceSize]
	sealed := raw[SaltSize+NonceSize:]

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return "", &DecryptionError{reason: err.Error()}
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return "", &DecryptionError{reason: err.Error()}
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", &DecryptionError{reason: "wrong password or corrupted blob"}
	}
	return string(plaintext), nil
}
