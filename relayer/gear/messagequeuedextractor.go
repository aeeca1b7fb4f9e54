package gear

import (
	"context"

	"github.com/rs/zerolog/log"
)

// MessageInBlock is a message-queued event discovered at a specific
// Chain-G block, grounded on the reference extractor's MessageInBlock
// (message, block, block_hash).
type MessageInBlock struct {
	Nonce       [32]byte
	Source      [32]byte
	Block       uint64
	BlockHash   [32]byte
	Destination [20]byte
	Payload     []byte
}

// MessageQueuedEventFetcher fetches message-queued events emitted at a
// single Chain-G block.
type MessageQueuedEventFetcher interface {
	MessageQueuedEvents(ctx context.Context, block uint64) ([]MessageInBlock, error)
}

// MessageQueuedExtractor consumes Chain-G finalized block numbers and
// emits every message-queued event found in each block, grounded on
// message_relayer/common/message_queued_event_extractor.rs's
// process_block_events loop.
type MessageQueuedExtractor struct {
	fetcher MessageQueuedEventFetcher
}

// NewMessageQueuedExtractor wires a fetcher into an extractor.
func NewMessageQueuedExtractor(fetcher MessageQueuedEventFetcher) *MessageQueuedExtractor {
	return &MessageQueuedExtractor{fetcher: fetcher}
}

// Run consumes blocks until ctx is cancelled or the channel closes,
// emitting one MessageInBlock per discovered event.
func (e *MessageQueuedExtractor) Run(ctx context.Context, blocks <-chan uint64) <-chan MessageInBlock {
	out := make(chan MessageInBlock, 64)

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

				messages, err := e.fetcher.MessageQueuedEvents(ctx, block)
				if err != nil {
					log.Error().Err(err).Uint64("block", block).Msg("message queued extractor: fetch failed")
					continue
				}

				if len(messages) > 0 {
					log.Info().Int("count", len(messages)).Uint64("block", block).Msg("message queued extractor: found queued messages")
				}

				for _, m := range messages {
					select {
					case out <- m:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out
}
