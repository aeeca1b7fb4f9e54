package circuit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
)

// MessageSentCircuit composes BlockFinalityCircuit's finalized-block
// statement with StorageInclusionCircuit's storage-proof statement,
// asserting both talk about the same finalized block and that the
// storage proof's DataHash equals MessageDataHash, the commitment to
// the message payload bytes the relayer packs for the Ethereum side
// (§4.2's message-sent proof). It does not constrain the proven
// storage address: Storage.StorageAddress is not compared against
// QueueID or any queue key.
type MessageSentCircuit struct {
	Finality BlockFinalityCircuit
	Storage  StorageInclusionCircuit

	// QueueID names the outbound message slot; the witness builder
	// derives StorageAddress from it off circuit (queue pallet storage
	// key = twox128(pallet) ++ twox128(storage item) ++
	// blake2_128_concat(QueueID)). Define does not use QueueID.
	QueueID frontend.Variable `gnark:",public"`

	MessageDataHash [32]uints.U8 `gnark:",public"`
}

func (c *MessageSentCircuit) Define(api frontend.API) error {
	if err := c.Finality.Define(api); err != nil {
		return fmt.Errorf("message sent: finality: %w", err)
	}
	if err := c.Storage.Define(api); err != nil {
		return fmt.Errorf("message sent: storage: %w", err)
	}

	// Both sub-statements must describe the same finalized block.
	for i := range c.Finality.BlockHash {
		api.AssertIsEqual(c.Finality.BlockHash[i].Val, c.Storage.BlockHash[i].Val)
	}

	for i := range c.MessageDataHash {
		api.AssertIsEqual(c.MessageDataHash[i].Val, c.Storage.DataHash[i].Val)
	}

	return nil
}
