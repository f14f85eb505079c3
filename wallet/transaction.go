package wallet

import (
	"context"
	"math"
	"math/big"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/pkg/errors"
)

// Transaction is one of NativeTransfer, *TransactionMessage or CompiledTransaction.
type Transaction interface {
	isTransaction()
}

// NativeTransfer sends Value lamports to To.
type NativeTransfer struct {
	To    string
	Value *big.Int
}

// TransactionMessage is a caller-built instruction list. A zero FeePayer or
// RecentBlockhash is filled in by the account.
type TransactionMessage struct {
	Instructions    []solana.Instruction
	FeePayer        solana.PublicKey
	RecentBlockhash solana.Hash
}

// CompiledTransaction wraps a transaction built with solana-go, possibly
// already signed. A zero recent blockhash is filled in by the account.
type CompiledTransaction struct {
	Tx *solana.Transaction
}

func (NativeTransfer) isTransaction()      {}
func (*TransactionMessage) isTransaction() {}
func (CompiledTransaction) isTransaction() {}

// TransferOptions describes a token transfer.
type TransferOptions struct {
	// Token is the mint address of the token.
	Token     string
	Recipient string
	// Amount is in the token's base units.
	Amount *big.Int
}

// TransactionResult is the outcome of a submitted transaction.
type TransactionResult struct {
	// Hash is the base58 transaction signature.
	Hash string
	// Fee is in lamports.
	Fee uint64
}

var maxAmount = new(big.Int).SetUint64(math.MaxUint64)

func checkAmount(v *big.Int) (uint64, error) {
	if v == nil {
		return 0, errors.Wrap(ErrAmountOutOfRange, "amount is required")
	}
	if v.Sign() < 0 || v.Cmp(maxAmount) > 0 {
		return 0, errors.Wrapf(ErrAmountOutOfRange, "amount %s does not fit in 64 bits", v)
	}
	return v.Uint64(), nil
}

// draft is a transaction before its fee payer and lifetime are settled.
type draft struct {
	instructions []solana.Instruction
	feePayer     solana.PublicKey
	blockhash    solana.Hash
	// compiled is set when the caller handed over a built transaction.
	compiled *solana.Transaction
}

func (a *ReadOnlyAccount) draftFor(tx Transaction) (*draft, error) {
	switch t := tx.(type) {
	case *NativeTransfer:
		if t != nil {
			return a.nativeTransferDraft(*t)
		}
	case NativeTransfer:
		return a.nativeTransferDraft(t)
	case *TransactionMessage:
		if t != nil {
			return &draft{
				instructions: append([]solana.Instruction(nil), t.Instructions...),
				feePayer:     t.FeePayer,
				blockhash:    t.RecentBlockhash,
			}, nil
		}
	case *CompiledTransaction:
		if t != nil {
			return compiledDraft(*t)
		}
	case CompiledTransaction:
		return compiledDraft(t)
	}
	return nil, errors.Wrapf(ErrUnsupportedTransactionType, "%T", tx)
}

func (a *ReadOnlyAccount) nativeTransferDraft(t NativeTransfer) (*draft, error) {
	lamports, err := checkAmount(t.Value)
	if err != nil {
		return nil, err
	}
	to, err := solana.PublicKeyFromBase58(t.To)
	if err != nil {
		return nil, remote(err, "invalid recipient")
	}
	return &draft{
		instructions: []solana.Instruction{
			system.NewTransferInstruction(lamports, a.address, to).Build(),
		},
		feePayer: a.address,
	}, nil
}

func compiledDraft(t CompiledTransaction) (*draft, error) {
	if t.Tx == nil || len(t.Tx.Message.AccountKeys) == 0 {
		return nil, errors.Wrap(ErrUnsupportedTransactionType, "compiled transaction has no account keys")
	}
	tx := *t.Tx
	tx.Signatures = append([]solana.Signature(nil), t.Tx.Signatures...)
	return &draft{
		feePayer:  tx.Message.AccountKeys[0],
		blockhash: tx.Message.RecentBlockhash,
		compiled:  &tx,
	}, nil
}

// transferDraft builds a token transfer. The recipient's associated token
// account is created in the same transaction when it does not exist yet.
func (a *ReadOnlyAccount) transferDraft(ctx context.Context, opts TransferOptions) (*draft, error) {
	amount, err := checkAmount(opts.Amount)
	if err != nil {
		return nil, err
	}
	mint, err := solana.PublicKeyFromBase58(opts.Token)
	if err != nil {
		return nil, remote(err, "invalid token mint")
	}
	recipient, err := solana.PublicKeyFromBase58(opts.Recipient)
	if err != nil {
		return nil, remote(err, "invalid recipient")
	}
	source, _, err := solana.FindAssociatedTokenAddress(a.address, mint)
	if err != nil {
		return nil, remote(err, "failed to find source token account")
	}
	destination, _, err := solana.FindAssociatedTokenAddress(recipient, mint)
	if err != nil {
		return nil, remote(err, "failed to find destination token account")
	}
	exists, err := a.rpc.AccountExists(ctx, destination)
	if err != nil {
		return nil, remote(err, "failed to look up destination token account")
	}

	var instructions []solana.Instruction
	if !exists {
		instructions = append(instructions, createAssociatedTokenAccountIdempotent(a.address, destination, recipient, mint))
	}
	instructions = append(instructions,
		token.NewTransferInstruction(amount, source, destination, a.address, []solana.PublicKey{}).Build())
	return &draft{instructions: instructions, feePayer: a.address}, nil
}

// createAssociatedTokenAccountIdempotent succeeds whether or not the account
// already exists.
func createAssociatedTokenAccountIdempotent(payer, ata, owner, mint solana.PublicKey) solana.Instruction {
	const createIdempotent = 1
	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(payer, true, true),
			solana.NewAccountMeta(ata, true, false),
			solana.NewAccountMeta(owner, false, false),
			solana.NewAccountMeta(mint, false, false),
			solana.NewAccountMeta(solana.SystemProgramID, false, false),
			solana.NewAccountMeta(solana.TokenProgramID, false, false),
		},
		[]byte{createIdempotent},
	)
}
