package wallet

import (
	"context"

	solana "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

type fillPolicy int

const (
	// fillIfAbsent keeps a caller value and fills a missing one.
	fillIfAbsent fillPolicy = iota
	// validateIfPresent fills a missing value and rejects a caller value that
	// differs from the account's.
	validateIfPresent
)

type fieldRule struct {
	name   string
	policy fillPolicy
	absent func(d *draft) bool
	// validate runs before any network call.
	validate func(a *ReadOnlyAccount, d *draft) error
	fill     func(ctx context.Context, a *ReadOnlyAccount, d *draft) error
}

var messageFields = []fieldRule{
	{
		name:   "feePayer",
		policy: validateIfPresent,
		absent: func(d *draft) bool { return d.feePayer.IsZero() },
		validate: func(a *ReadOnlyAccount, d *draft) error {
			if !d.feePayer.Equals(a.address) {
				return errors.Wrapf(ErrFeePayerMismatch, "fee payer %s, account %s", d.feePayer, a.address)
			}
			return nil
		},
		fill: func(_ context.Context, a *ReadOnlyAccount, d *draft) error {
			d.feePayer = a.address
			return nil
		},
	},
	{
		name:   "recentBlockhash",
		policy: fillIfAbsent,
		absent: func(d *draft) bool { return d.blockhash == solana.Hash{} },
		fill: func(ctx context.Context, a *ReadOnlyAccount, d *draft) error {
			hash, err := a.rpc.GetLatestBlockhash(ctx)
			if err != nil {
				return remote(err, "failed to get latest blockhash")
			}
			d.blockhash = hash
			return nil
		},
	},
}

// prepare settles the fields of d according to messageFields and compiles it.
func (a *ReadOnlyAccount) prepare(ctx context.Context, d *draft) (*solana.Transaction, error) {
	for _, rule := range messageFields {
		if rule.policy == validateIfPresent && !rule.absent(d) {
			if err := rule.validate(a, d); err != nil {
				return nil, err
			}
		}
	}
	for _, rule := range messageFields {
		if rule.absent(d) {
			if err := rule.fill(ctx, a, d); err != nil {
				return nil, err
			}
		}
	}
	return d.compile()
}

func (d *draft) compile() (*solana.Transaction, error) {
	if d.compiled != nil {
		d.compiled.Message.RecentBlockhash = d.blockhash
		return d.compiled, nil
	}
	tx, err := solana.NewTransaction(d.instructions, d.blockhash, solana.TransactionPayer(d.feePayer))
	if err != nil {
		return nil, remote(err, "failed to build transaction")
	}
	return tx, nil
}
