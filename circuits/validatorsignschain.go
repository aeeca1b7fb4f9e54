package circuit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/signature/eddsa"
)

// MaxValidatorSigners bounds how many individual signatures
// ValidatorSignsChainCircuit folds in one proof. Real authority sets
// are smaller; unused slots carry Participates = 0 and are excluded
// from the signer count, while their signatures are still checked
// (see Define).
const MaxValidatorSigners = 1024

// ValidatorSignsChainCircuit folds MaxValidatorSigners
// IndexedValidatorSignCircuit-style checks, running a participation
// counter and asserting a GRANDPA supermajority: count*3 >= 2*|set|.
// This generalizes Eth2ScUpdateCircuit's fixed 512-bit popcount-style
// vote-count gate to a variable-size authority set.
type ValidatorSignsChainCircuit struct {
	ValidatorSet       [MaxValidatorSetSize]eddsa.PublicKey
	ValidatorSetLength frontend.Variable
	ValidatorSetHash   frontend.Variable `gnark:",public"`

	Signers      [MaxValidatorSigners]eddsa.PublicKey
	Indices      [MaxValidatorSigners]frontend.Variable
	Signatures   [MaxValidatorSigners]eddsa.Signature
	Participates [MaxValidatorSigners]frontend.Variable

	Message frontend.Variable `gnark:",public"`
}

// Every slot's signature is checked unconditionally — there is no
// witness-value branching in an arithmetic circuit. A non-participating
// slot (Participates = 0) must still carry a witness whose
// (Index, Signature) verifies against Message; this package has no
// witness assignment helper that fills those slots. signerCount, not
// the per-slot assert, is what the supermajority check actually gates
// on.
func (c *ValidatorSignsChainCircuit) Define(api frontend.API) error {
	signerCount := frontend.Variable(0)

	for i := 0; i < MaxValidatorSigners; i++ {
		api.AssertIsBoolean(c.Participates[i])

		indexed := IndexedValidatorSignCircuit{
			ValidatorSet:       c.ValidatorSet,
			ValidatorSetLength: c.ValidatorSetLength,
			ValidatorSetHash:   c.ValidatorSetHash,
			Index:              c.Indices[i],
			Signature:          c.Signatures[i],
			Message:            c.Message,
		}
		if err := indexed.Define(api); err != nil {
			return fmt.Errorf("validator signs chain: signer %d: %w", i, err)
		}

		signerCount = api.Add(signerCount, c.Participates[i])
	}

	// count*3 >= 2*|set|, i.e. a GRANDPA supermajority of the active set.
	lhs := api.Mul(signerCount, 3)
	rhs := api.Mul(c.ValidatorSetLength, 2)
	api.AssertIsLessOrEqual(rhs, lhs)

	return nil
}
