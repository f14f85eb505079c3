package wallet

import (
	"context"

	"github.com/tetherto/wdk-wallet-solana-sub000/rpc"
)

// DefaultPriorityFee is the priority fee, in micro-lamports per compute unit,
// assumed when no recent slot paid one.
const DefaultPriorityFee = 5000

const (
	normalFeePercent = 110
	fastFeePercent   = 200
)

// FeeRates are suggested priority fees in micro-lamports per compute unit.
type FeeRates struct {
	Normal uint64
	Fast   uint64
}

func feeRatesFromSamples(samples []uint64) FeeRates {
	var max uint64
	for _, fee := range samples {
		if fee > max {
			max = fee
		}
	}
	if max == 0 {
		max = DefaultPriorityFee
	}
	return FeeRates{
		Normal: mulPercent(max, normalFeePercent),
		Fast:   mulPercent(max, fastFeePercent),
	}
}

func mulPercent(v, percent uint64) uint64 {
	return v/100*percent + v%100*percent/100
}

// GetFeeRates suggests priority fees from the fees paid in recent slots. It
// needs no key material.
func GetFeeRates(ctx context.Context, client rpc.Client) (rates FeeRates, err error) {
	if client == nil {
		return rates, ErrNotConnected
	}
	samples, err := client.GetRecentPrioritizationFees(ctx)
	if err != nil {
		return rates, remote(err, "failed to get fee rates")
	}
	return feeRatesFromSamples(samples), nil
}
