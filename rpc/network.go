package rpc

import (
	"context"
	"encoding/base64"

	solana "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// GetLatestBlockhash returns a recent blockhash to use as transaction lifetime.
func (c *SolanaClient) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment())
	if err != nil {
		return solana.Hash{}, c.fail(err, "failed to get latest blockhash")
	}
	if out == nil || out.Value == nil {
		return solana.Hash{}, errors.New("node returned no blockhash")
	}
	return out.Value.Blockhash, nil
}

// GetFeeForMessage returns the fee in lamports the network would charge for message.
func (c *SolanaClient) GetFeeForMessage(ctx context.Context, message *solana.Message) (uint64, error) {
	data, err := message.MarshalBinary()
	if err != nil {
		return 0, errors.Wrap(err, "failed to encode message")
	}
	out, err := c.rpc.GetFeeForMessage(ctx, base64.StdEncoding.EncodeToString(data), c.commitment())
	if err != nil {
		return 0, c.fail(err, "failed to get fee for message")
	}
	// The node answers null when the message's blockhash has expired.
	if out == nil || out.Value == nil {
		return 0, errors.New("node returned no fee for message")
	}
	return *out.Value, nil
}

// GetRecentPrioritizationFees returns the priority fees, in micro-lamports per
// compute unit, paid in recent slots.
func (c *SolanaClient) GetRecentPrioritizationFees(ctx context.Context) ([]uint64, error) {
	out, err := c.rpc.GetRecentPrioritizationFees(ctx, nil)
	if err != nil {
		return nil, c.fail(err, "failed to get recent prioritization fees")
	}
	fees := make([]uint64, len(out))
	for i, f := range out {
		fees[i] = f.PrioritizationFee
	}
	return fees, nil
}
