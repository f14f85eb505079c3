package secret_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetherto/wdk-wallet-solana-sub000/secret"
)

func newPrivateKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}

func TestKeySign(t *testing.T) {
	priv := newPrivateKey(t)
	pub := append(ed25519.PublicKey(nil), priv.Public().(ed25519.PublicKey)...)

	k, err := secret.NewKey(priv)
	require.NoError(t, err)
	assert.Equal(t, pub, k.PublicKey())
	assert.Equal(t, make(ed25519.PrivateKey, ed25519.PrivateKeySize), priv, "source buffer is wiped")

	sig, err := k.Sign([]byte("Hello"))
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, []byte("Hello"), sig))
	assert.False(t, k.Disposed())
}

func TestKeyZeroize(t *testing.T) {
	k, err := secret.NewKey(newPrivateKey(t))
	require.NoError(t, err)
	pub := append(ed25519.PublicKey(nil), k.PublicKey()...)

	b, err := k.Bytes()
	require.NoError(t, err)
	assert.Len(t, b, ed25519.PrivateKeySize)

	k.Zeroize()
	k.Zeroize()
	assert.True(t, k.Disposed())

	_, err = k.Sign([]byte("Hello"))
	assert.ErrorIs(t, err, secret.ErrDisposed)
	_, err = k.Bytes()
	assert.ErrorIs(t, err, secret.ErrDisposed)
	assert.Equal(t, pub, k.PublicKey())
}

func TestNewKeyRejectsShortKey(t *testing.T) {
	_, err := secret.NewKey(make([]byte, 32))
	assert.Error(t, err)
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3}
	secret.Wipe(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}
