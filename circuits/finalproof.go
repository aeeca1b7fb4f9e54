package circuit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
)

// MessageContentsWords is the number of field elements
// FinalProofCircuit packs its message payload into, the way
// Eth2ScUpdateCircuit exposes its public inputs as a fixed vector
// rather than a raw byte slice.
const MessageContentsWords = 8

// FinalProofCircuit is the top-level statement a relayer submits to
// Chain-E: composing MessageSentCircuit (a message was included in a
// finalized Chain-G block) with LatestValidatorSetCircuit (that block's
// authority set is reachable from the pinned genesis set by a chain of
// verified handovers), so that a single Groth16 proof on Chain-E
// attests both "this message was sent" and "the signers who finalized
// it were legitimate all the way back to genesis" (§4.2, §4.3).
type FinalProofCircuit struct {
	Message       MessageSentCircuit
	ValidatorSet  LatestValidatorSetCircuit

	// MessageContents is the outbound message's public encoding: 8
	// Goldilocks-sized words, each constrained by Define to fit in 64
	// bits. Define does not otherwise relate the words to Message.
	MessageContents [MessageContentsWords]frontend.Variable `gnark:",public"`
	BlockNumber      frontend.Variable                       `gnark:",public"`
}

func (c *FinalProofCircuit) Define(api frontend.API) error {
	if err := c.Message.Define(api); err != nil {
		return fmt.Errorf("final proof: message: %w", err)
	}
	if err := c.ValidatorSet.Define(api); err != nil {
		return fmt.Errorf("final proof: validator set: %w", err)
	}

	// Both sub-statements must talk about the same finalized block: the
	// message's GRANDPA vote and the validator-set step's finality proof
	// share the same BlockFinalityCircuit-shaped vote, so their
	// authority-set ids and validator-set hashes must agree.
	api.AssertIsEqual(c.Message.Finality.AuthoritySetID, c.ValidatorSet.StepFinality.AuthoritySetID)
	api.AssertIsEqual(c.Message.Finality.ValidatorSetHash, c.ValidatorSet.StepFinality.ValidatorSetHash)

	// Each message word is a Goldilocks-sized limb: below 2^64.
	for _, w := range c.MessageContents {
		api.ToBinary(w, 64)
	}

	return nil
}
