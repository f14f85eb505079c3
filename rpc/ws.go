package rpc

import (
	"context"
	"fmt"
	"strings"

	solana "github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrTransactionFailed is returned by WaitForSignature when the transaction
// landed but its execution failed.
var ErrTransactionFailed = errors.New("transaction failed")

// WebsocketURL derives the pubsub endpoint from an HTTP RPC endpoint.
func WebsocketURL(rpcURL string) string {
	switch {
	case strings.HasPrefix(rpcURL, "https://"):
		return "wss://" + strings.TrimPrefix(rpcURL, "https://")
	case strings.HasPrefix(rpcURL, "http://"):
		return "ws://" + strings.TrimPrefix(rpcURL, "http://")
	}
	return rpcURL
}

// WaitForSignature subscribes to sig on the pubsub endpoint at wsURL and blocks
// until the node reports it at the given commitment or ctx is done.
func WaitForSignature(ctx context.Context, wsURL string, sig solana.Signature, commitment Commitment) error {
	if commitment == "" {
		commitment = CommitmentConfirmed
	}
	client, err := ws.Connect(ctx, wsURL)
	if err != nil {
		return errors.Wrap(err, "failed to connect to pubsub endpoint")
	}
	defer client.Close()

	sub, err := client.SignatureSubscribe(sig, solrpc.CommitmentType(commitment))
	if err != nil {
		return errors.Wrap(err, "failed to subscribe")
	}
	logger := log.With().Str("component", "rpc").Str("signature", sig.String()).Logger()
	logger.Debug().Msg("Waiting for signature")

	res, err := sub.Recv(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "failed to read notification")
	}
	if res.Value.Err != nil {
		return errors.Wrap(ErrTransactionFailed, fmt.Sprint(res.Value.Err))
	}
	logger.Debug().Uint64("slot", res.Context.Slot).Msg("Signature confirmed")
	return nil
}
