package eth2gear

import (
	"context"
	"sort"

	"github.com/gear-bridges/zk-relay/receipt"
	"github.com/rs/zerolog/log"
)

// PendingDeposit is an Ethereum deposit transaction awaiting a
// checkpoint covering its attested slot before it can be submitted to
// Chain-G, grounded on TxHashWithSlot.
type PendingDeposit struct {
	TxHash       [32]byte
	Slot         uint64
	ReceiptProof receipt.Proof
}

// EthToVaraEvent is the payload vft-manager's SubmitReceipt expects,
// grounded on submit_message.rs's EthToVaraEvent: the receipt
// inclusion proof plus the beacon slot it was attested at, forwarded
// through the historical proxy so vft-manager never has to resolve the
// slot-to-checkpoint mapping itself.
type EthToVaraEvent struct {
	ProofBlockSlot uint64
	ReceiptProof   receipt.Proof
}

// ComposedDeposit pairs an assembled event with the originating
// transaction hash for the submission stage.
type ComposedDeposit struct {
	TxHash [32]byte
	Event  EthToVaraEvent
}

// ProofComposer buffers deposits until a checkpoint at or above their
// slot arrives, then assembles the EthToVaraEvent vft-manager expects,
// grounded on submit_message.rs's payload assembly (the proof itself
// is built upstream by the receipt package; this stage only pairs it
// with its covering checkpoint).
type ProofComposer struct{}

// NewProofComposer returns an empty ProofComposer.
func NewProofComposer() *ProofComposer {
	return &ProofComposer{}
}

// Run consumes both streams until ctx is cancelled or both close,
// emitting a ComposedDeposit as soon as each pending deposit's slot is
// covered by a checkpoint.
func (c *ProofComposer) Run(ctx context.Context, deposits <-chan PendingDeposit, checkpoints <-chan Checkpoint) <-chan ComposedDeposit {
	out := make(chan ComposedDeposit, 64)

	go func() {
		defer close(out)

		var pending []PendingDeposit
		var latestCheckpointSlot uint64
		haveCheckpoint := false

		flush := func() {
			if !haveCheckpoint {
				return
			}
			sort.Slice(pending, func(i, j int) bool { return pending[i].Slot < pending[j].Slot })

			var remaining []PendingDeposit
			for _, d := range pending {
				if d.Slot > latestCheckpointSlot {
					remaining = append(remaining, d)
					continue
				}

				log.Info().Uint64("slot", d.Slot).Msg("proof composer: checkpoint covers deposit, assembling event")
				select {
				case out <- ComposedDeposit{
					TxHash: d.TxHash,
					Event: EthToVaraEvent{
						ProofBlockSlot: d.Slot,
						ReceiptProof:   d.ReceiptProof,
					},
				}:
				case <-ctx.Done():
					return
				}
			}
			pending = remaining
		}

		depositsOpen, checkpointsOpen := true, true
		for depositsOpen || checkpointsOpen {
			select {
			case <-ctx.Done():
				return

			case cp, ok := <-checkpoints:
				if !ok {
					checkpointsOpen = false
					continue
				}
				if !haveCheckpoint || cp.Slot > latestCheckpointSlot {
					latestCheckpointSlot = cp.Slot
					haveCheckpoint = true
				}
				flush()

			case d, ok := <-deposits:
				if !ok {
					depositsOpen = false
					continue
				}
				pending = append(pending, d)
				flush()
			}
		}
	}()

	return out
}
