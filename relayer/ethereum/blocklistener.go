// Package ethereum implements the Chain-E leg of the relayer pipeline:
// polling new blocks, submitting checkpoint-covered deposits and
// watching transaction confirmations; the block listener is grounded
// on the reference relayer's message_relayer/common/ethereum_block_listener.rs.
package ethereum

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ethereumBlockPollInterval is Chain-E's ~12s block time halved, the way the reference listener polls
// at ETHEREUM_BLOCK_TIME_APPROX/2 when already caught up.
const ethereumBlockPollInterval = 6 * time.Second

// ChainEClient is the minimal RPC surface BlockListener needs.
type ChainEClient interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// BlockListener polls Chain-E's head and emits every new block number
// in order on a single output channel.
type BlockListener struct {
	client    ChainEClient
	fromBlock uint64
}

// NewBlockListener returns a listener starting at fromBlock.
func NewBlockListener(client ChainEClient, fromBlock uint64) *BlockListener {
	return &BlockListener{client: client, fromBlock: fromBlock}
}

// Run starts the polling loop; it returns when ctx is cancelled.
func (l *BlockListener) Run(ctx context.Context) <-chan uint64 {
	out := make(chan uint64, 64)

	go func() {
		defer close(out)

		current := l.fromBlock
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			latest, err := l.client.BlockNumber(ctx)
			if err != nil {
				log.Error().Err(err).Msg("ethereum block listener: failed to fetch latest block")
				select {
				case <-ctx.Done():
					return
				case <-time.After(ethereumBlockPollInterval):
				}
				continue
			}

			if latest >= current {
				for b := current; b <= latest; b++ {
					select {
					case out <- b:
					case <-ctx.Done():
						return
					}
				}
				current = latest + 1
				continue
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(ethereumBlockPollInterval):
			}
		}
	}()

	return out
}
