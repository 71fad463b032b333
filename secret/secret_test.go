package secret

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

	packed, err := Encrypt(key, "correct horse battery staple")
	require.NoError(t, err)

	plaintext, err := Decrypt(packed, "correct horse battery staple")
	require.NoError(t, err)
	require.Equal(t, key, plaintext)
}

func TestDecryptWrongPassword(t *testing.T) {
	packed, err := Encrypt("some private key material", "right password")
	require.NoError(t, err)

	_, err = Decrypt(packed, "wrong password")
	require.Error(t, err)

	var derr *DecryptionError
	require.ErrorAs(t, err, &derr)
}

func TestDecryptTamperedBlob(t *testing.T) {
	packed, err := Encrypt("some private key material", "password")
	require.NoError(t, err)

	// flip one byte inside the ciphertext portion
	raw, err := hex.DecodeString(packed)
	require.NoError(t, err)
	raw[SaltSize+NonceSize] ^= 0xff
	tampered := hex.EncodeToString(raw)

	_, err = Decrypt(tampered, "password")
	var derr *DecryptionError
	require.ErrorAs(t, err, &derr)
}

func TestDecryptMalformedBlob(t *testing.T) {
	var derr *DecryptionError

	_, err := Decrypt("not hex at all!!", "password")
	require.ErrorAs(t, err, &derr)

	_, err = Decrypt("abcdef", "password")
	require.ErrorAs(t, err, &derr)
}

func TestPackedLayout(t *testing.T) {
	packed, err := Encrypt("x", "password")
	require.NoError(t, err)

	raw, err := hex.DecodeString(packed)
	require.NoError(t, err)
	// salt + nonce prefixes plus at least the GCM tag
	require.Greater(t, len(raw), SaltSize+NonceSize)
}

func TestEncryptRejectsEmptyInputs(t *testing.T) {
	_, err := Encrypt("", "password")
	require.Error(t, err)

	_, err = Encrypt("key", "")
	require.Error(t, err)
}

func TestSaltMakesBlobsDistinct(t *testing.T) {
	a, err := Encrypt("key", "password")
	require.NoError(t, err)
	b, err := Encrypt("key", "password")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
