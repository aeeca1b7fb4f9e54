package ethereum

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// TxHash identifies a Chain-E transaction.
type TxHash [32]byte

// ConfirmationWatcher waits for a transaction to reach the configured
// confirmation depth, or reports it failed/reverted.
type ConfirmationWatcher interface {
	WaitForConfirmations(ctx context.Context, tx TxHash, confirmations uint64) error
}

// TxOutcome reports whether a submitted transaction confirmed.
type TxOutcome struct {
	Tx     TxHash
	Failed bool
	Err    error
}

// StatusFetcher watches submitted transactions until each reaches the
// required confirmation depth, grounded on
// message_relayer/common/ethereum/status_fetcher.rs — one watcher
// goroutine per transaction, the Go analogue of the reference's
// per-tx tokio::spawn(get_tx_status(...)).
type StatusFetcher struct {
	watcher       ConfirmationWatcher
	confirmations uint64
}

// NewStatusFetcher wires a watcher into a fetcher requiring
// confirmations confirmations before a transaction is considered
// final.
func NewStatusFetcher(watcher ConfirmationWatcher, confirmations uint64) *StatusFetcher {
	return &StatusFetcher{watcher: watcher, confirmations: confirmations}
}

// Run consumes submitted transaction hashes and emits one TxOutcome
// per hash once its confirmation wait resolves; outcomes may arrive
// out of order relative to the input, since each wait runs
// concurrently.
func (f *StatusFetcher) Run(ctx context.Context, submitted <-chan TxHash) <-chan TxOutcome {
	out := make(chan TxOutcome, 64)

	go func() {
		// Wait for every watcher before closing out, so no watcher sends
		// on a closed channel.
		var wg sync.WaitGroup
		defer close(out)
		defer wg.Wait()

		for {
			select {
			case <-ctx.Done():
				return
			case tx, ok := <-submitted:
				if !ok {
					return
				}
				wg.Add(1)
				go func() {
					defer wg.Done()
					f.watch(ctx, tx, out)
				}()
			}
		}
	}()

	return out
}

func (f *StatusFetcher) watch(ctx context.Context, tx TxHash, out chan<- TxOutcome) {
	err := f.watcher.WaitForConfirmations(ctx, tx, f.confirmations)
	if err != nil {
		log.Error().Err(err).Msg("status fetcher: transaction failed to finalize")
		select {
		case out <- TxOutcome{Tx: tx, Failed: true, Err: err}:
		case <-ctx.Done():
		}
		return
	}

	log.Info().Uint64("confirmations", f.confirmations).Msg("status fetcher: transaction confirmed")
	select {
	case out <- TxOutcome{Tx: tx}:
	case <-ctx.Done():
	}
}
