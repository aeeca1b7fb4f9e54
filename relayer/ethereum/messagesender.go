package ethereum

import (
	"context"

	"github.com/rs/zerolog/log"
)

// DepositTx is a Gear-bound ERC20 deposit waiting for a Chain-G
// checkpoint to cover the slot it was observed at before it can be
// submitted, grounded on the reference sender's ERC20DepositTx.
type DepositTx struct {
	SlotNumber uint64
	Payload    []byte
}

// Submitter submits a deposit to Chain-G once its slot has a covering
// checkpoint and returns the message id Chain-G assigned it.
type Submitter interface {
	SubmitDeposit(ctx context.Context, tx DepositTx) (messageID [32]byte, err error)
}

// MessageSender buffers deposits until a checkpoint for their slot has
// been observed, then submits them, grounded on
// message_relayer/common/gear/message_sender.rs's waiting_checkpoint
// queue (the reference's waiting_finality half is superseded here by
// relayer/txmanager, which already tracks Submitted→Confirmed).
type MessageSender struct {
	submitter Submitter
}

// NewMessageSender wires a submitter into a sender.
func NewMessageSender(submitter Submitter) *MessageSender {
	return &MessageSender{submitter: submitter}
}

// SentMessage pairs a submitted deposit with the message id Chain-G
// assigned it.
type SentMessage struct {
	Tx        DepositTx
	MessageID [32]byte
}

// Run buffers deposits from messages until a checkpoint slot at or
// above the deposit's slot arrives on checkpoints, then submits it;
// both input channels close independently, and Run exits when ctx is
// cancelled or both have closed. Deposits still waiting at that point
// are not submitted.
func (s *MessageSender) Run(ctx context.Context, messages <-chan DepositTx, checkpoints <-chan uint64) <-chan SentMessage {
	out := make(chan SentMessage, 64)

	go func() {
		defer close(out)

		var waitingCheckpoint []DepositTx
		var latestCheckpointSlot uint64
		haveCheckpoint := false

		flush := func() {
			remaining := waitingCheckpoint[:0]
			for _, tx := range waitingCheckpoint {
				if haveCheckpoint && tx.SlotNumber <= latestCheckpointSlot {
					id, err := s.submitter.SubmitDeposit(ctx, tx)
					if err != nil {
						log.Error().Err(err).Msg("ethereum message sender: submit failed")
						remaining = append(remaining, tx)
						continue
					}
					out <- SentMessage{Tx: tx, MessageID: id}
					continue
				}
				remaining = append(remaining, tx)
			}
			waitingCheckpoint = remaining
		}

		messagesOpen, checkpointsOpen := true, true
		for messagesOpen || checkpointsOpen {
			select {
			case <-ctx.Done():
				return

			case slot, ok := <-checkpoints:
				if !ok {
					checkpointsOpen = false
					continue
				}
				if !haveCheckpoint || slot > latestCheckpointSlot {
					latestCheckpointSlot = slot
					haveCheckpoint = true
				} else {
					log.Error().Uint64("previous_slot", latestCheckpointSlot).Uint64("slot", slot).
						Msg("ethereum message sender: checkpoints received out of order")
				}
				flush()

			case tx, ok := <-messages:
				if !ok {
					messagesOpen = false
					continue
				}
				waitingCheckpoint = append(waitingCheckpoint, tx)
				flush()
			}
		}
	}()

	return out
}
