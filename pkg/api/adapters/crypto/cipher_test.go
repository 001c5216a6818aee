package crypto_test

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/parentwatch/scanguard/pkg/api/adapters/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomKey(t *testing.T) string {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(key)
}

func TestTokenCipher_SealOpen_RoundTrips(t *testing.T) {
	t.Parallel()

	cipher, err := crypto.NewTokenCipher(randomKey(t))
	require.NoError(t, err)

	sealed, err := cipher.Seal("ya29.refresh-token-value")
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "ya29.refresh-token-value")

	opened, err := cipher.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "ya29.refresh-token-value", opened)
}

func TestTokenCipher_Seal_ProducesDistinctCiphertextsForSameInput(t *testing.T) {
	t.Parallel()

	cipher, err := crypto.NewTokenCipher(randomKey(t))
	require.NoError(t, err)

	first, err := cipher.Seal("same-secret")
	require.NoError(t, err)

	second, err := cipher.Seal("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "random nonce should vary ciphertext across calls")
}

func TestTokenCipher_Open_RejectsTamperedCiphertext(t *testing.T) {
	t.Parallel()

	cipher, err := crypto.NewTokenCipher(randomKey(t))
	require.NoError(t, err)

	sealed, err := cipher.Seal("secret")
	require.NoError(t, err)

	tampered := append([]byte{}, sealed...)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = cipher.Open(tampered)
	require.Error(t, err)
}

func TestNewTokenCipher_RejectsWrongKeySize(t *testing.T) {
	t.Parallel()

	shortKey := base64.StdEncoding.EncodeToString([]byte("too-short"))

	_, err := crypto.NewTokenCipher(shortKey)
	require.ErrorIs(t, err, crypto.ErrInvalidKeySize)
}
