package rpc

import (
	"context"
	"fmt"
	"strconv"

	solana "github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

// GetTokenAccountBalance returns the raw amount held by a token account.
func (c *SolanaClient) GetTokenAccountBalance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetTokenAccountBalance(ctx, address, c.commitment())
	if err != nil {
		return 0, c.fail(err, "failed to get token account balance")
	}
	if out == nil || out.Value == nil {
		return 0, nil
	}
	amount, err := strconv.ParseUint(out.Value.Amount, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid token amount %q", out.Value.Amount)
	}
	return amount, nil
}

// SendTransaction submits a signed transaction and returns its signature.
func (c *SolanaClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, solrpc.TransactionOpts{
		PreflightCommitment: c.commitment(),
	})
	if err != nil {
		return solana.Signature{}, c.fail(err, "failed to send transaction")
	}
	c.log.Debug().Str("signature", sig.String()).Msg("Transaction submitted")
	return sig, nil
}

// GetTransaction looks up a transaction by signature. It returns nil, nil when
// the node has no record of it yet.
func (c *SolanaClient) GetTransaction(ctx context.Context, sig solana.Signature) (*Receipt, error) {
	var version uint64
	out, err := c.rpc.GetTransaction(ctx, sig, &solrpc.GetTransactionOpts{
		Commitment:                     c.commitment(),
		MaxSupportedTransactionVersion: &version,
	})
	if errors.Is(err, solrpc.ErrNotFound) || (err == nil && out == nil) {
		return nil, nil
	}
	if err != nil {
		return nil, c.fail(err, "failed to get transaction")
	}
	r := &Receipt{
		Signature: sig.String(),
		Slot:      out.Slot,
	}
	if out.BlockTime != nil {
		t := out.BlockTime.Time()
		r.BlockTime = &t
	}
	if out.Meta != nil {
		r.Fee = out.Meta.Fee
		if out.Meta.Err != nil {
			r.Err = fmt.Sprint(out.Meta.Err)
		}
	}
	return r, nil
}
