// Package secret holds private key material that can be destroyed on demand.
package secret

import (
	"crypto/ed25519"
	"sync"

	"github.com/pkg/errors"
)

// ErrDisposed is returned when key material is used after Zeroize.
var ErrDisposed = errors.New("key material has been disposed")

// Key owns an ed25519 private key. After Zeroize the key bytes are
// overwritten and the key can no longer be used; the public key stays readable.
type Key struct {
	mu     sync.RWMutex
	priv   *[ed25519.PrivateKeySize]byte
	pubkey ed25519.PublicKey
}

// NewKey takes ownership of priv. The caller must not keep using priv.
func NewKey(priv ed25519.PrivateKey) (*Key, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("invalid private key length %d", len(priv))
	}
	k := &Key{priv: new([ed25519.PrivateKeySize]byte)}
	copy(k.priv[:], priv)
	k.pubkey = append(ed25519.PublicKey(nil), priv.Public().(ed25519.PublicKey)...)
	wipe(priv)
	return k, nil
}

// PublicKey returns the public key. It remains valid after Zeroize.
func (k *Key) PublicKey() ed25519.PublicKey {
	return k.pubkey
}

// Sign signs message with the private key.
func (k *Key) Sign(message []byte) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.priv == nil {
		return nil, ErrDisposed
	}
	return ed25519.Sign(k.priv[:], message), nil
}

// Bytes returns a copy of the private key.
func (k *Key) Bytes() ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.priv == nil {
		return nil, ErrDisposed
	}
	return append([]byte(nil), k.priv[:]...), nil
}

// Disposed reports whether Zeroize has been called.
func (k *Key) Disposed() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.priv == nil
}

// Zeroize overwrites the private key and releases it. Calling it again is a no-op.
func (k *Key) Zeroize() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.priv == nil {
		return
	}
	wipe(k.priv[:])
	k.priv = nil
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	wipe(b)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
