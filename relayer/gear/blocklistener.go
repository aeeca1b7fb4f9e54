// Package gear implements the Chain-G leg of the relayer pipeline:
// polling finalized blocks, extracting merkle-root-in-state changes,
// and fetching GRANDPA justifications, grounded on the reference
// relayer's message_relayer/common/gear/*.rs block listener and merkle
// root extractor.
package gear

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// finalizedBlockPollInterval approximates Chain-G's block time, the
// way the reference listener sleeps GEAR_BLOCK_TIME_APPROX (3s)
// between polls when it is already caught up to the finalized head.
const finalizedBlockPollInterval = 3 * time.Second

// ChainGClient is the minimal RPC surface BlockListener needs.
type ChainGClient interface {
	LatestFinalizedBlockNumber(ctx context.Context) (uint64, error)
}

// BlockListener polls Chain-G's finalized head and fans out every new
// block number to every subscriber, the Go-channel analogue of the
// reference listener's per-subscriber mpsc::Sender fan-out.
type BlockListener struct {
	client    ChainGClient
	fromBlock uint64
}

// NewBlockListener returns a listener starting at fromBlock.
func NewBlockListener(client ChainGClient, fromBlock uint64) *BlockListener {
	return &BlockListener{client: client, fromBlock: fromBlock}
}

// Run starts the polling loop and returns subscriberCount independent
// output channels, each receiving every finalized block number in
// order; it returns when ctx is cancelled.
func (l *BlockListener) Run(ctx context.Context, subscriberCount int) []<-chan uint64 {
	outs := make([]chan uint64, subscriberCount)
	roChans := make([]<-chan uint64, subscriberCount)
	for i := range outs {
		outs[i] = make(chan uint64, 64)
		roChans[i] = outs[i]
	}

	go func() {
		defer func() {
			for _, out := range outs {
				close(out)
			}
		}()

		current := l.fromBlock
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			finalized, err := l.client.LatestFinalizedBlockNumber(ctx)
			if err != nil {
				log.Error().Err(err).Msg("gear block listener: failed to fetch finalized head")
				select {
				case <-ctx.Done():
					return
				case <-time.After(finalizedBlockPollInterval):
				}
				continue
			}

			if finalized >= current {
				for b := current; b <= finalized; b++ {
					for _, out := range outs {
						select {
						case out <- b:
						case <-ctx.Done():
							return
						}
					}
				}
				current = finalized + 1
				continue
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(finalizedBlockPollInterval):
			}
		}
	}()

	return roChans
}
