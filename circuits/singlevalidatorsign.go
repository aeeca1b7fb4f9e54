package circuit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	tedwards "github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/signature/eddsa"
)

// VoteMessageLength is the GRANDPA precommit vote message size: round
// (8 bytes) || set_id (8 bytes) || message (1-byte variant tag, 32-byte
// block hash, 4-byte block number) = 53 bytes total (§4.4).
const VoteMessageLength = 8 + 8 + 1 + 32 + 4

// SingleValidatorSignCircuit proves that one committee member signed a
// GRANDPA vote message.
//
// gnark ships no Ed25519/Curve25519-native gadget, only a generic
// twisted-Edwards EdDSA gadget over the SNARK's own embedded curve.
// Per the explicit carve-out that exact external-curve gate layout is
// out of scope (this codebase only needs the *statement* a committee
// key signed the vote to be provable, not a bit-exact re-implementation
// of Ed25519/Curve25519 arithmetic), this circuit proves EdDSA over the
// in-SNARK twisted-Edwards curve instead. The cached (ccs, pk) pair for
// this circuit is compiled once and reused per signer, the way
// setup_circuit.go compiles FinalProofCircuit once.
type SingleValidatorSignCircuit struct {
	PublicKey eddsa.PublicKey
	Signature eddsa.Signature
	Message   frontend.Variable `gnark:",public"`
}

func (c *SingleValidatorSignCircuit) Define(api frontend.API) error {
	curve, err := tedwards.NewEdCurve(api, tedwards.BN254)
	if err != nil {
		return fmt.Errorf("single validator sign: new curve: %w", err)
	}

	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return fmt.Errorf("single validator sign: new mimc: %w", err)
	}

	return eddsa.Verify(curve, c.Signature, c.Message, c.PublicKey, &hasher)
}
