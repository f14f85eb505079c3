package wallet_test

import (
	"context"
	"sync"

	solana "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/tetherto/wdk-wallet-solana-sub000/rpc"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// usdcMint is a well-formed mint address; nothing here talks to a real node.
var usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

// fakeClient records every call made to it.
type fakeClient struct {
	mu sync.Mutex

	balance       uint64
	accounts      map[solana.PublicKey]bool
	tokenBalances map[solana.PublicKey]uint64
	blockhash     solana.Hash
	fee           uint64
	feeFn         func(*solana.Message) uint64
	receipts      map[solana.Signature]*rpc.Receipt
	priorityFees  []uint64
	err           error

	calls []string
	sent  []*solana.Transaction
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		accounts:      map[solana.PublicKey]bool{},
		tokenBalances: map[solana.PublicKey]uint64{},
		receipts:      map[solana.Signature]*rpc.Receipt{},
		blockhash:     solana.Hash(solana.NewWallet().PublicKey()),
		fee:           5000,
	}
}

func (c *fakeClient) record(call string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	return c.err
}

func (c *fakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeClient) GetBalance(_ context.Context, _ solana.PublicKey) (uint64, error) {
	if err := c.record("GetBalance"); err != nil {
		return 0, err
	}
	return c.balance, nil
}

func (c *fakeClient) AccountExists(_ context.Context, address solana.PublicKey) (bool, error) {
	if err := c.record("AccountExists"); err != nil {
		return false, err
	}
	return c.accounts[address], nil
}

func (c *fakeClient) GetTokenAccountBalance(_ context.Context, address solana.PublicKey) (uint64, error) {
	if err := c.record("GetTokenAccountBalance"); err != nil {
		return 0, err
	}
	if !c.accounts[address] {
		return 0, errors.New("could not find account")
	}
	return c.tokenBalances[address], nil
}

func (c *fakeClient) GetLatestBlockhash(_ context.Context) (solana.Hash, error) {
	if err := c.record("GetLatestBlockhash"); err != nil {
		return solana.Hash{}, err
	}
	return c.blockhash, nil
}

func (c *fakeClient) GetFeeForMessage(_ context.Context, message *solana.Message) (uint64, error) {
	if err := c.record("GetFeeForMessage"); err != nil {
		return 0, err
	}
	if c.feeFn != nil {
		return c.feeFn(message), nil
	}
	return c.fee, nil
}

func (c *fakeClient) SendTransaction(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := c.record("SendTransaction"); err != nil {
		return solana.Signature{}, err
	}
	c.mu.Lock()
	c.sent = append(c.sent, tx)
	c.mu.Unlock()
	return tx.Signatures[0], nil
}

func (c *fakeClient) GetTransaction(_ context.Context, sig solana.Signature) (*rpc.Receipt, error) {
	if err := c.record("GetTransaction"); err != nil {
		return nil, err
	}
	return c.receipts[sig], nil
}

func (c *fakeClient) GetRecentPrioritizationFees(_ context.Context) ([]uint64, error) {
	if err := c.record("GetRecentPrioritizationFees"); err != nil {
		return nil, err
	}
	return c.priorityFees, nil
}

var _ rpc.Client = (*fakeClient)(nil)
