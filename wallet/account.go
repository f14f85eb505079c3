package wallet

import (
	"context"

	solana "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tetherto/wdk-wallet-solana-sub000/rpc"
)

// ReadOnlyAccount is an address without signing capability.
type ReadOnlyAccount struct {
	address    solana.PublicKey
	rpc        rpc.Client
	wsURL      string
	commitment rpc.Commitment
}

// NewReadOnlyAccount creates a read-only view of address.
func NewReadOnlyAccount(address string, config Config) (*ReadOnlyAccount, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid address %q", address)
	}
	cfg, err := config.resolve()
	if err != nil {
		return nil, err
	}
	a := newReadOnlyAccount(pubkey, cfg)
	return &a, nil
}

func newReadOnlyAccount(address solana.PublicKey, cfg Config) ReadOnlyAccount {
	return ReadOnlyAccount{
		address:    address,
		rpc:        cfg.RPC,
		wsURL:      cfg.WSURL,
		commitment: cfg.Commitment,
	}
}

// Address returns the base58 address of the account.
func (a *ReadOnlyAccount) Address() string {
	return a.address.String()
}

// PublicKey returns the public key of the account.
func (a *ReadOnlyAccount) PublicKey() solana.PublicKey {
	return a.address
}

func (a *ReadOnlyAccount) logger() *zerolog.Logger {
	logger := log.With().Str("component", "wallet").Str("address", a.Address()).Logger()
	return &logger
}

func (a *ReadOnlyAccount) connected() error {
	if a.rpc == nil {
		return ErrNotConnected
	}
	return nil
}

// Balance returns the account's balance in lamports.
func (a *ReadOnlyAccount) Balance(ctx context.Context) (uint64, error) {
	if err := a.connected(); err != nil {
		return 0, err
	}
	balance, err := a.rpc.GetBalance(ctx, a.address)
	if err != nil {
		return 0, remote(err, "failed to get balance")
	}
	return balance, nil
}

// TokenBalance returns the account's balance of the token minted at mint, in
// base units. An account that never held the token has a balance of zero.
func (a *ReadOnlyAccount) TokenBalance(ctx context.Context, mint string) (uint64, error) {
	if err := a.connected(); err != nil {
		return 0, err
	}
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return 0, remote(err, "invalid token mint")
	}
	ata, _, err := solana.FindAssociatedTokenAddress(a.address, mintKey)
	if err != nil {
		return 0, remote(err, "failed to find associated token address")
	}
	exists, err := a.rpc.AccountExists(ctx, ata)
	if err != nil {
		return 0, remote(err, "failed to look up token account")
	}
	if !exists {
		return 0, nil
	}
	balance, err := a.rpc.GetTokenAccountBalance(ctx, ata)
	if err != nil {
		return 0, remote(err, "failed to get token balance")
	}
	return balance, nil
}

// QuoteSendTransaction returns the fee SendTransaction would pay for tx.
func (a *ReadOnlyAccount) QuoteSendTransaction(ctx context.Context, tx Transaction) (uint64, error) {
	if err := a.connected(); err != nil {
		return 0, err
	}
	d, err := a.draftFor(tx)
	if err != nil {
		return 0, err
	}
	built, err := a.prepare(ctx, d)
	if err != nil {
		return 0, err
	}
	return a.estimateFee(ctx, built)
}

// QuoteTransfer returns the fee Transfer would pay for opts.
func (a *ReadOnlyAccount) QuoteTransfer(ctx context.Context, opts TransferOptions) (uint64, error) {
	if err := a.connected(); err != nil {
		return 0, err
	}
	d, err := a.transferDraft(ctx, opts)
	if err != nil {
		return 0, err
	}
	built, err := a.prepare(ctx, d)
	if err != nil {
		return 0, err
	}
	return a.estimateFee(ctx, built)
}

// TransactionReceipt returns the receipt of the transaction with signature
// hash, or nil when the network has not recorded it yet.
func (a *ReadOnlyAccount) TransactionReceipt(ctx context.Context, hash string) (*rpc.Receipt, error) {
	if err := a.connected(); err != nil {
		return nil, err
	}
	sig, err := solana.SignatureFromBase58(hash)
	if err != nil {
		return nil, remote(err, "invalid transaction hash")
	}
	receipt, err := a.rpc.GetTransaction(ctx, sig)
	if err != nil {
		return nil, remote(err, "failed to get transaction")
	}
	return receipt, nil
}

// WaitForConfirmation blocks until the transaction with signature hash reaches
// the configured commitment.
func (a *ReadOnlyAccount) WaitForConfirmation(ctx context.Context, hash string) error {
	if a.wsURL == "" {
		return ErrNotConnected
	}
	sig, err := solana.SignatureFromBase58(hash)
	if err != nil {
		return remote(err, "invalid transaction hash")
	}
	if err = rpc.WaitForSignature(ctx, a.wsURL, sig, a.commitment); err != nil {
		return remote(err, "failed to confirm transaction")
	}
	return nil
}

func (a *ReadOnlyAccount) estimateFee(ctx context.Context, tx *solana.Transaction) (uint64, error) {
	fee, err := a.rpc.GetFeeForMessage(ctx, &tx.Message)
	if err != nil {
		return 0, remote(err, "failed to estimate fee")
	}
	return fee, nil
}
