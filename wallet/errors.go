package wallet

import (
	"github.com/pkg/errors"
	"github.com/tetherto/wdk-wallet-solana-sub000/hd"
	"github.com/tetherto/wdk-wallet-solana-sub000/secret"
)

var (
	ErrInvalidSeed                = errors.New("invalid seed")
	ErrInvalidPath                = hd.ErrInvalidPath
	ErrNotConnected               = errors.New("wallet is not connected to a node")
	ErrDisposed                   = secret.ErrDisposed
	ErrAmountOutOfRange           = errors.New("amount out of range")
	ErrFeeLimitExceeded           = errors.New("fee limit exceeded")
	ErrFeePayerMismatch           = errors.New("fee payer does not match account")
	ErrUnsupportedTransactionType = errors.New("unsupported transaction type")
	ErrRemoteFailure              = errors.New("remote failure")
)

// remoteError marks a failure reported by the node or the encoder. Both
// ErrRemoteFailure and the underlying cause match with errors.Is.
type remoteError struct {
	err error
}

func (e *remoteError) Error() string { return e.err.Error() }

func (e *remoteError) Unwrap() error { return e.err }

func (e *remoteError) Is(target error) bool { return target == ErrRemoteFailure }

func remote(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &remoteError{errors.Wrap(err, msg)}
}
