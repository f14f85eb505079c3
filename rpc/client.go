// Package rpc is the narrow view of a Solana JSON-RPC node used by the wallet.
package rpc

import (
	"context"
	"time"

	solana "github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Commitment is the finality level requested from the node.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// ParseCommitment parses s, defaulting to CommitmentConfirmed when s is empty.
func ParseCommitment(s string) (Commitment, error) {
	switch c := Commitment(s); c {
	case "":
		return CommitmentConfirmed, nil
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return c, nil
	}
	return "", errors.Errorf("unknown commitment %q", s)
}

// Receipt is the on-chain record of a transaction.
type Receipt struct {
	Signature string
	Slot      uint64
	BlockTime *time.Time
	Fee       uint64
	// Err is the execution error reported by the node, empty on success.
	Err string
}

// Client is the set of node queries the wallet depends on.
type Client interface {
	// GetBalance returns the lamport balance of owner.
	GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	// AccountExists reports whether an account is allocated at address.
	AccountExists(ctx context.Context, address solana.PublicKey) (bool, error)
	// GetTokenAccountBalance returns the raw amount held by a token account.
	GetTokenAccountBalance(ctx context.Context, address solana.PublicKey) (uint64, error)
	// GetLatestBlockhash returns a recent blockhash to use as transaction lifetime.
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	// GetFeeForMessage returns the fee in lamports the network charges for message.
	GetFeeForMessage(ctx context.Context, message *solana.Message) (uint64, error)
	// SendTransaction submits a signed transaction.
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	// GetTransaction returns nil, nil when the transaction is not yet known.
	GetTransaction(ctx context.Context, sig solana.Signature) (*Receipt, error)
	// GetRecentPrioritizationFees returns recently observed priority fees in micro-lamports.
	GetRecentPrioritizationFees(ctx context.Context) ([]uint64, error)
}

// SolanaClient implements Client on top of the solana-go JSON-RPC client.
type SolanaClient struct {
	URL        string
	Commitment Commitment

	rpc *solrpc.Client
	log zerolog.Logger
}

// NewClient creates a client for the node at url. Nothing is dialed until the first call.
func NewClient(url string, commitment Commitment) *SolanaClient {
	if commitment == "" {
		commitment = CommitmentConfirmed
	}
	return &SolanaClient{
		URL:        url,
		Commitment: commitment,
		rpc:        solrpc.New(url),
		log:        log.With().Str("component", "rpc").Str("url", url).Logger(),
	}
}

func (c *SolanaClient) commitment() solrpc.CommitmentType {
	return solrpc.CommitmentType(c.Commitment)
}

func (c *SolanaClient) fail(err error, msg string) error {
	c.log.Warn().Err(err).Msg(msg)
	return errors.Wrap(err, msg)
}

// GetBalance returns the lamport balance of owner.
func (c *SolanaClient) GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, owner, c.commitment())
	if err != nil {
		return 0, c.fail(err, "failed to get balance")
	}
	return out.Value, nil
}

// AccountExists reports whether an account is allocated at address.
func (c *SolanaClient) AccountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &solrpc.GetAccountInfoOpts{
		Commitment: c.commitment(),
	})
	if errors.Is(err, solrpc.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, c.fail(err, "failed to get account info")
	}
	return out != nil && out.Value != nil, nil
}
