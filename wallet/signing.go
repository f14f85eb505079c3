package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"

	solana "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/tetherto/wdk-wallet-solana-sub000/hd"
	"github.com/tetherto/wdk-wallet-solana-sub000/secret"
)

// Account is a wallet account able to sign and submit transactions.
type Account struct {
	ReadOnlyAccount

	path   hd.Path
	key    *secret.Key
	maxFee *uint64
}

// NewAccount derives the account at path under seed outside of any Wallet.
func NewAccount(seed []byte, path string, config Config) (*Account, error) {
	p, err := hd.ParsePath(path)
	if err != nil {
		return nil, err
	}
	cfg, err := config.resolve()
	if err != nil {
		return nil, err
	}
	return newAccount(seed, p, cfg)
}

// Path returns the full derivation path of the account.
func (a *Account) Path() string {
	return a.path.String()
}

// Index returns the account index, the first segment after m/44'/501'.
func (a *Account) Index() uint32 {
	return a.path.Account()
}

// KeyPair returns the account's public key and a copy of its private key.
// The private key is nil once the account has been disposed.
func (a *Account) KeyPair() hd.KeyPair {
	kp := hd.KeyPair{PublicKey: append(ed25519.PublicKey(nil), a.key.PublicKey()...)}
	if priv, err := a.key.Bytes(); err == nil {
		kp.PrivateKey = priv
	}
	return kp
}

// Sign signs message and returns the hex encoded signature.
func (a *Account) Sign(message []byte) (string, error) {
	sig, err := a.key.Sign(message)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

// Verify reports whether signature is a valid hex encoded signature of message
// by this account.
func (a *Account) Verify(message []byte, signature string) (bool, error) {
	if a.key.Disposed() {
		return false, ErrDisposed
	}
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(a.key.PublicKey(), message, sig), nil
}

// SendTransaction completes, signs and submits tx.
func (a *Account) SendTransaction(ctx context.Context, tx Transaction) (res *TransactionResult, err error) {
	if a.key.Disposed() {
		return nil, ErrDisposed
	}
	if err = a.connected(); err != nil {
		return
	}
	d, err := a.draftFor(tx)
	if err != nil {
		return
	}
	built, err := a.prepare(ctx, d)
	if err != nil {
		return
	}
	fee, err := a.estimateFee(ctx, built)
	if err != nil {
		return
	}
	return a.submit(ctx, built, fee)
}

// Transfer sends opts.Amount base units of the token opts.Token to
// opts.Recipient, creating the recipient's token account when missing.
func (a *Account) Transfer(ctx context.Context, opts TransferOptions) (res *TransactionResult, err error) {
	if a.key.Disposed() {
		return nil, ErrDisposed
	}
	if err = a.connected(); err != nil {
		return
	}
	d, err := a.transferDraft(ctx, opts)
	if err != nil {
		return
	}
	built, err := a.prepare(ctx, d)
	if err != nil {
		return
	}
	fee, err := a.estimateFee(ctx, built)
	if err != nil {
		return
	}
	if a.maxFee != nil && fee >= *a.maxFee {
		return nil, errors.Wrapf(ErrFeeLimitExceeded, "fee %d reaches the limit of %d", fee, *a.maxFee)
	}
	return a.submit(ctx, built, fee)
}

func (a *Account) submit(ctx context.Context, tx *solana.Transaction, fee uint64) (*TransactionResult, error) {
	if err := a.signTransaction(tx); err != nil {
		return nil, err
	}
	sig, err := a.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return nil, remote(err, "failed to submit transaction")
	}
	a.logger().Debug().Str("signature", sig.String()).Uint64("fee", fee).Msg("Transaction sent")
	return &TransactionResult{Hash: sig.String(), Fee: fee}, nil
}

// ToReadOnlyAccount returns a view of the account without key material.
func (a *Account) ToReadOnlyAccount() *ReadOnlyAccount {
	ro := a.ReadOnlyAccount
	return &ro
}

// Dispose wipes the private key. The address stays readable; signing fails
// with ErrDisposed from now on.
func (a *Account) Dispose() {
	if a.key.Disposed() {
		return
	}
	a.key.Zeroize()
	a.logger().Debug().Str("path", a.Path()).Msg("Account disposed")
}
