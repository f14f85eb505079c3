package wallet

import (
	"crypto/ed25519"

	solana "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/tetherto/wdk-wallet-solana-sub000/hd"
	"github.com/tetherto/wdk-wallet-solana-sub000/secret"
)

func newAccount(seed []byte, path hd.Path, cfg Config) (a *Account, err error) {
	kp, err := hd.Derive(seed, path)
	if err != nil {
		return
	}
	key, err := secret.NewKey(kp.PrivateKey)
	if err != nil {
		return
	}
	a = &Account{
		ReadOnlyAccount: newReadOnlyAccount(solana.PublicKeyFromBytes(key.PublicKey()), cfg),
		path:            path,
		key:             key,
		maxFee:          cfg.TransferMaxFee,
	}
	return
}

// signTransaction places the account's signature in its signer slot. A slot
// already holding a valid signature of this account is left untouched.
func (a *Account) signTransaction(tx *solana.Transaction) (err error) {
	content, err := tx.Message.MarshalBinary()
	if err != nil {
		return remote(err, "failed to encode message")
	}
	n := int(tx.Message.Header.NumRequiredSignatures)
	idx := -1
	for i := 0; i < n && i < len(tx.Message.AccountKeys); i++ {
		if tx.Message.AccountKeys[i].Equals(a.address) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.Errorf("account %s is not a signer of the transaction", a.address)
	}
	pubkey := a.key.PublicKey()
	if len(tx.Signatures) == n && ed25519.Verify(pubkey, content, tx.Signatures[idx][:]) {
		return
	}
	if len(tx.Signatures) != n {
		sigs := make([]solana.Signature, n)
		copy(sigs, tx.Signatures)
		tx.Signatures = sigs
	}
	sig, err := a.key.Sign(content)
	if err != nil {
		return
	}
	copy(tx.Signatures[idx][:], sig)
	return
}
