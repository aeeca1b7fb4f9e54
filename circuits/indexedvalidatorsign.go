package circuit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/signature/eddsa"
)

// IndexedValidatorSignCircuit composes a MiMC commitment over the
// validator set's key coordinates (its own, not ValidatorSetHashCircuit's
// SHA-256 digest) with SingleValidatorSignCircuit's signature check,
// additionally asserting the signer's public key sits at Index in the
// committed validator set. The selector arithmetic follows
// Eth2ScUpdateCircuit.aggregatePubKeys's bit-selected accumulator
// pattern: walk the set once, accumulating "is this the key at Index".
type IndexedValidatorSignCircuit struct {
	ValidatorSet       [MaxValidatorSetSize]eddsa.PublicKey
	ValidatorSetLength frontend.Variable
	ValidatorSetHash   frontend.Variable `gnark:",public"`

	Index     frontend.Variable
	Signature eddsa.Signature
	Message   frontend.Variable `gnark:",public"`
}

func (c *IndexedValidatorSignCircuit) Define(api frontend.API) error {
	// Select the public key at Index via an equality-gated accumulator:
	// exactly one slot matches, its key is folded in, all others
	// contribute zero.
	var selectedA, selectedB frontend.Variable = 0, 0
	matches := frontend.Variable(0)

	for i := 0; i < MaxValidatorSetSize; i++ {
		isIndex := api.IsZero(api.Sub(c.Index, i))
		selectedA = api.Add(selectedA, api.Mul(isIndex, c.ValidatorSet[i].A.X))
		selectedB = api.Add(selectedB, api.Mul(isIndex, c.ValidatorSet[i].A.Y))
		matches = api.Add(matches, isIndex)
	}
	api.AssertIsEqual(matches, 1)

	signer := eddsa.PublicKey{}
	signer.A.X = selectedA
	signer.A.Y = selectedB

	single := SingleValidatorSignCircuit{
		PublicKey: signer,
		Signature: c.Signature,
		Message:   c.Message,
	}
	if err := single.Define(api); err != nil {
		return fmt.Errorf("indexed validator sign: %w", err)
	}

	// Bind the selected key to the committed validator set: fold every
	// slot's coordinates (zero-padded past ValidatorSetLength) through a
	// MiMC sponge and assert it matches the public commitment, so a
	// proof can't swap in a key from outside the hashed set.
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return fmt.Errorf("indexed validator sign: new mimc: %w", err)
	}
	for i := 0; i < MaxValidatorSetSize; i++ {
		included := api.IsZero(api.Sub(lessThan(api, i, c.ValidatorSetLength), 1))
		hasher.Write(api.Mul(c.ValidatorSet[i].A.X, included), api.Mul(c.ValidatorSet[i].A.Y, included))
	}
	digest := hasher.Sum()
	api.AssertIsEqual(digest, c.ValidatorSetHash)

	return nil
}
