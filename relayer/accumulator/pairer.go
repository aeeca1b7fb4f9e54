package accumulator

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
)

// QueuedMessage is one message-queued event awaiting a covering
// relayed merkle root, identified by the Chain-G block and
// within-block index it was observed at.
type QueuedMessage struct {
	Block       uint64
	Index       uint64
	Nonce       [32]byte
	Source      [32]byte
	Destination [20]byte
	Payload     []byte
}

// PairedMessage is a message matched to the smallest relayed merkle
// root whose block is at or above the message's block.
type PairedMessage struct {
	Message QueuedMessage
	Root    RelayedMerkleRoot
}

// less orders QueuedMessage by (block, index), the tie-break §4.7
// requires when two messages are eligible under the same root.
func less(a, b QueuedMessage) bool {
	if a.Block != b.Block {
		return a.Block < b.Block
	}
	return a.Index < b.Index
}

// Pairer matches queued messages to the smallest eligible relayed
// merkle root (the first root whose block covers the message's
// block), holding messages that have no eligible root yet until one
// arrives.
type Pairer struct{}

// NewPairer returns an empty Pairer.
func NewPairer() *Pairer {
	return &Pairer{}
}

// Run consumes both streams until ctx is cancelled or both input
// channels are closed and drained, emitting a PairedMessage as soon as
// each queued message finds its smallest eligible root.
func (p *Pairer) Run(ctx context.Context, messages <-chan QueuedMessage, roots <-chan RelayedMerkleRoot) <-chan PairedMessage {
	out := make(chan PairedMessage, 64)

	go func() {
		defer close(out)

		var pendingMessages []QueuedMessage
		var pendingRoots []RelayedMerkleRoot

		match := func() {
			sort.Slice(pendingMessages, func(i, j int) bool { return less(pendingMessages[i], pendingMessages[j]) })
			sort.Slice(pendingRoots, func(i, j int) bool { return pendingRoots[i].GearBlock < pendingRoots[j].GearBlock })

			var remainingMessages []QueuedMessage
			for _, msg := range pendingMessages {
				idx := sort.Search(len(pendingRoots), func(i int) bool { return pendingRoots[i].GearBlock >= msg.Block })
				if idx == len(pendingRoots) {
					remainingMessages = append(remainingMessages, msg)
					continue
				}

				root := pendingRoots[idx]
				select {
				case out <- PairedMessage{Message: msg, Root: root}:
				case <-ctx.Done():
					return
				}
			}
			pendingMessages = remainingMessages
		}

		messagesOpen, rootsOpen := true, true
		for messagesOpen || rootsOpen {
			select {
			case <-ctx.Done():
				return

			case msg, ok := <-messages:
				if !ok {
					messagesOpen = false
					continue
				}
				pendingMessages = append(pendingMessages, msg)
				match()

			case root, ok := <-roots:
				if !ok {
					rootsOpen = false
					continue
				}
				pendingRoots = append(pendingRoots, root)
				match()
			}
		}

		if len(pendingMessages) > 0 {
			log.Warn().Int("count", len(pendingMessages)).Msg("accumulator: exiting with messages awaiting a covering root")
		}
	}()

	return out
}
