package hd

import (
	"crypto/ed25519"

	slip10 "github.com/anyproto/go-slip10"
	"github.com/pkg/errors"
)

// KeyPair is a derived ed25519 key pair.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// Derive derives the key pair at path under seed.
func Derive(seed []byte, path Path) (kp KeyPair, err error) {
	if len(path) == 0 {
		return kp, errors.Wrap(ErrInvalidPath, "empty path")
	}
	node, err := slip10.DeriveForPath(path.String(), seed)
	if err != nil {
		return kp, errors.Wrapf(err, "failed to derive %s", path)
	}
	pub, priv := node.Keypair()
	kp.PublicKey = ed25519.PublicKey(pub)
	kp.PrivateKey = ed25519.PrivateKey(priv)
	if len(kp.PrivateKey) != ed25519.PrivateKeySize {
		return KeyPair{}, errors.Errorf("unexpected private key length %d", len(kp.PrivateKey))
	}
	return
}
