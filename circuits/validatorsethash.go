package circuit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
	"github.com/consensys/gnark/std/math/uints"
)

// MaxValidatorSetSize bounds the padded validator-key vector every
// GRANDPA circuit in this package operates over. Authority sets in
// practice are far smaller; slots at or past ValidatorSetLength are
// zeroed before hashing, in the style of
// Eth2ScUpdateCircuit's fixed 512-wide ScPubKeys vector.
const MaxValidatorSetSize = 1024

// ValidatorSetHashCircuit proves that Hash is the SHA-256 digest of all
// MaxValidatorSetSize 32-byte Ed25519 public key slots of ValidatorSet,
// in committee order, with the slots at or past ValidatorSetLength
// zeroed. It uses SHA2 rather than Blake2b (gnark ships no Blake2b
// gadget), so Hash is not the Blake2b value merkle.ValidatorSetHash
// computes, and nothing in this repository relates the two.
type ValidatorSetHashCircuit struct {
	ValidatorSet       [MaxValidatorSetSize][32]uints.U8 // ed25519 public keys, zero-padded
	ValidatorSetLength frontend.Variable

	Hash [32]uints.U8 `gnark:",public"`
}

func (c *ValidatorSetHashCircuit) Define(api frontend.API) error {
	hasher, err := sha2.New(api)
	if err != nil {
		return fmt.Errorf("validator set hash: new sha2: %w", err)
	}

	for i := 0; i < MaxValidatorSetSize; i++ {
		included := api.IsZero(api.Sub(lessThan(api, i, c.ValidatorSetLength), 1))
		masked := maskBytes(api, c.ValidatorSet[i], included)
		hasher.Write(masked[:])
	}

	digest := hasher.Sum()
	for i := 0; i < 32; i++ {
		api.AssertIsEqual(digest[i].Val, c.Hash[i].Val)
	}

	return nil
}

// lessThan returns 1 if constant i < bound, else 0.
func lessThan(api frontend.API, i int, bound frontend.Variable) frontend.Variable {
	return api.IsZero(api.Sub(api.Cmp(i, bound), -1))
}

// maskBytes zero-fills key if included is 0, otherwise passes it through
// unchanged; used so indices past ValidatorSetLength do not perturb the
// running hash state while still being constrained for every slot.
func maskBytes(api frontend.API, key [32]uints.U8, included frontend.Variable) [32]uints.U8 {
	var out [32]uints.U8
	for i := range key {
		out[i] = uints.U8{Val: api.Mul(key[i].Val, included)}
	}
	return out
}
