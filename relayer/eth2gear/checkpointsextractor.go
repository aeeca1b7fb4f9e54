// Package eth2gear composes the Ethereum-to-Gear leg of the bridge:
// watching the checkpoint-light-client service for newly pushed
// checkpoints, then, once a deposit's attested slot is covered by one,
// assembling the receipt-inclusion event submitted to vft-manager via
// the historical proxy, grounded on
// original_source/relayer/src/message_relayer/eth_to_gear/paid_token_transfers/{checkpoint_extractor,submit_message}.rs.
package eth2gear

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Checkpoint is a NewCheckpoint event pushed by the checkpoint-light-client
// service, grounded on checkpoint-light-client/app/src/services/mod.rs's
// Event::NewCheckpoint { slot, tree_hash_root }.
type Checkpoint struct {
	Slot         uint64
	TreeHashRoot [32]byte
}

// CheckpointFetcher fetches NewCheckpoint events emitted at a single
// Chain-G block.
type CheckpointFetcher interface {
	CheckpointsForBlock(ctx context.Context, block uint64) ([]Checkpoint, error)
}

// CheckpointsExtractor consumes Chain-G block numbers and emits every
// checkpoint pushed at each block, grounded on checkpoint_extractor.rs's
// ExtractCheckpoints::run.
type CheckpointsExtractor struct {
	fetcher CheckpointFetcher
}

// NewCheckpointsExtractor wires a fetcher into an extractor.
func NewCheckpointsExtractor(fetcher CheckpointFetcher) *CheckpointsExtractor {
	return &CheckpointsExtractor{fetcher: fetcher}
}

// Run consumes blocks until ctx is cancelled or the channel closes,
// emitting one Checkpoint per discovered event.
func (e *CheckpointsExtractor) Run(ctx context.Context, blocks <-chan uint64) <-chan Checkpoint {
	out := make(chan Checkpoint, 64)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case block, ok := <-blocks:
				if !ok {
					return
				}

				checkpoints, err := e.fetcher.CheckpointsForBlock(ctx, block)
				if err != nil {
					log.Error().Err(err).Uint64("block", block).Msg("checkpoints extractor: fetch failed")
					continue
				}

				if len(checkpoints) == 0 {
					continue
				}

				for _, cp := range checkpoints {
					log.Info().Uint64("slot", cp.Slot).Msg("checkpoints extractor: found checkpoint")
					select {
					case out <- cp:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out
}
