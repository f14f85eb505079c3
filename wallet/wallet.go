package wallet

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tetherto/wdk-wallet-solana-sub000/hd"
	"github.com/tetherto/wdk-wallet-solana-sub000/rpc"
	"github.com/tetherto/wdk-wallet-solana-sub000/secret"
	"github.com/tyler-smith/go-bip39"
)

// Config configures node access for a wallet and its accounts.
type Config struct {
	// RPCURL is the JSON-RPC endpoint. Without it (and without RPC) the wallet
	// can derive, sign and verify but every network operation fails with ErrNotConnected.
	RPCURL string
	// WSURL is the pubsub endpoint; derived from RPCURL when empty.
	WSURL string
	// Commitment defaults to rpc.CommitmentConfirmed.
	Commitment rpc.Commitment
	// TransferMaxFee rejects token transfers whose fee in lamports reaches it. Nil means unlimited.
	TransferMaxFee *uint64
	// RPC overrides the client built from RPCURL.
	RPC rpc.Client
}

func (c Config) resolve() (cfg Config, err error) {
	cfg = c
	if cfg.Commitment, err = rpc.ParseCommitment(string(c.Commitment)); err != nil {
		return
	}
	if cfg.WSURL == "" && cfg.RPCURL != "" {
		cfg.WSURL = rpc.WebsocketURL(cfg.RPCURL)
	}
	if cfg.RPC == nil && cfg.RPCURL != "" {
		cfg.RPC = rpc.NewClient(cfg.RPCURL, cfg.Commitment)
	}
	return
}

// Wallet derives and caches the accounts of one seed.
type Wallet struct {
	seed          []byte
	config        Config
	accounts      map[string]*Account
	accountsMutex sync.RWMutex
}

// GenerateSeedPhrase returns a new random 12-word BIP-39 mnemonic.
func GenerateSeedPhrase() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}
	return bip39.NewMnemonic(entropy)
}

// IsValidSeedPhrase reports whether phrase is a BIP-39 mnemonic with a valid checksum.
func IsValidSeedPhrase(phrase string) bool {
	return bip39.IsMnemonicValid(normalizePhrase(phrase))
}

func normalizePhrase(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// NewWallet creates a wallet from raw seed bytes.
func NewWallet(seed []byte, config Config) (w *Wallet, err error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, errors.Wrapf(ErrInvalidSeed, "seed must be 16 to 64 bytes, got %d", len(seed))
	}
	return newWallet(append([]byte(nil), seed...), config)
}

// NewBip39Wallet creates a wallet from a BIP-39 mnemonic and optional password.
func NewBip39Wallet(mnemonic, password string, config Config) (w *Wallet, err error) {
	mnemonic = normalizePhrase(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.Wrap(ErrInvalidSeed, "mnemonic failed checksum validation")
	}
	return newWallet(bip39.NewSeed(mnemonic, password), config)
}

func newWallet(seed []byte, config Config) (*Wallet, error) {
	cfg, err := config.resolve()
	if err != nil {
		secret.Wipe(seed)
		return nil, err
	}
	return &Wallet{
		seed:     seed,
		config:   cfg,
		accounts: make(map[string]*Account),
	}, nil
}

// GetAccount returns the account at index, derived at "<index>'/0'".
func (w *Wallet) GetAccount(index int) (*Account, error) {
	path, err := hd.AccountPath(index)
	if err != nil {
		return nil, err
	}
	return w.getAccount(path)
}

// GetAccountByPath returns the account at path, relative to m/44'/501'.
// Repeated calls for the same path return the same instance.
func (w *Wallet) GetAccountByPath(path string) (*Account, error) {
	p, err := hd.ParsePath(path)
	if err != nil {
		return nil, err
	}
	return w.getAccount(p)
}

func (w *Wallet) getAccount(path hd.Path) (a *Account, err error) {
	key := path.String()

	w.accountsMutex.RLock()
	if w.seed == nil {
		w.accountsMutex.RUnlock()
		return nil, errors.Wrap(ErrDisposed, "wallet has been disposed")
	}
	if existing, ok := w.accounts[key]; ok {
		w.accountsMutex.RUnlock()
		return existing, nil
	}
	a, err = newAccount(w.seed, path, w.config)
	w.accountsMutex.RUnlock()
	if err != nil {
		return
	}

	w.accountsMutex.Lock()
	defer w.accountsMutex.Unlock()
	if w.seed == nil {
		a.Dispose()
		return nil, errors.Wrap(ErrDisposed, "wallet has been disposed")
	}
	if existing, ok := w.accounts[key]; ok {
		a.Dispose()
		return existing, nil
	}
	w.accounts[key] = a
	log.Debug().Str("component", "wallet").Str("path", key).Str("address", a.Address()).Msg("Account derived")
	return a, nil
}

// GetAccounts returns every account derived so far.
func (w *Wallet) GetAccounts() (accounts []*Account) {
	w.accountsMutex.RLock()
	defer w.accountsMutex.RUnlock()

	accounts = make([]*Account, 0, len(w.accounts))
	for _, account := range w.accounts {
		accounts = append(accounts, account)
	}
	return
}

// GetFeeRates suggests priority fees from the fees paid in recent slots.
func (w *Wallet) GetFeeRates(ctx context.Context) (FeeRates, error) {
	return GetFeeRates(ctx, w.config.RPC)
}

// Dispose disposes every cached account and wipes the seed.
func (w *Wallet) Dispose() {
	w.accountsMutex.Lock()
	defer w.accountsMutex.Unlock()

	for _, a := range w.accounts {
		a.Dispose()
	}
	if w.seed != nil {
		secret.Wipe(w.seed)
		w.seed = nil
	}
}
