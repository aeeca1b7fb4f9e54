// Package bridgingpayment declares the fee-collection surface a bridge
// deployment plugs in ahead of a relayed transfer. Its implementation
// is an explicit non-goal — the spec calls out bridging-payment
// internals as out of scope — so this package carries only the
// interface a relayer/onchain component would call through, letting
// every other package compile and test against it without depending on
// a concrete fee model.
package bridgingpayment

import "context"

// FeeCollector authorizes a transfer by charging its fee, or returns an
// error if payment could not be collected.
type FeeCollector interface {
	CollectFee(ctx context.Context, payer string, amount uint64) error
}
