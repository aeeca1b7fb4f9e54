package circuit

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/witness"
)

// CompiledCircuit bundles a compiled constraint system with its Groth16
// keys, the way SetupCircuit returns (ccs, pk, vk) together for
// Eth2ScUpdateCircuit.
type CompiledCircuit struct {
	CCS   constraint.ConstraintSystem
	PK    groth16.ProvingKey
	VK    groth16.VerifyingKey
	curve ecc.ID
}

// Compile compiles circuit for BN254 (every leaf circuit in this
// package — ValidatorSetHash, SingleValidatorSign, BlockFinality,
// StorageInclusion, MessageSent, FinalProof — shares this scalar
// field) and runs Groth16's trusted setup, generalizing
// setup_circuit.go's compile-then-setup pipeline to an arbitrary
// frontend.Circuit.
func Compile(c frontend.Circuit) (*CompiledCircuit, error) {
	return compileFor(ecc.BN254, c)
}

// CompileOuter compiles a BW6-761 circuit, used for
// LatestValidatorSetCircuit's recursive verification layer, which
// emulates BN254 group arithmetic and therefore needs the wider outer
// field rather than BN254.ScalarField() itself (see
// latestvalidatorset.go).
func CompileOuter(c frontend.Circuit) (*CompiledCircuit, error) {
	return compileFor(ecc.BW6_761, c)
}

func compileFor(curve ecc.ID, c frontend.Circuit) (*CompiledCircuit, error) {
	logger.Disable()

	ccs, err := frontend.Compile(curve.ScalarField(), r1cs.NewBuilder, c)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	return &CompiledCircuit{CCS: ccs, PK: pk, VK: vk, curve: curve}, nil
}

// Prove runs Groth16 proving for an already-compiled circuit against a
// fully-assigned witness, returning the proof and its public witness
// for later verification.
func Prove(cc *CompiledCircuit, assignment frontend.Circuit) (groth16.Proof, witness.Witness, error) {
	w, err := frontend.NewWitness(assignment, cc.curve.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("new witness: %w", err)
	}

	proof, err := groth16.Prove(cc.CCS, cc.PK, w)
	if err != nil {
		return nil, nil, fmt.Errorf("prove: %w", err)
	}

	pub, err := w.Public()
	if err != nil {
		return nil, nil, fmt.Errorf("public witness: %w", err)
	}

	return proof, pub, nil
}

// Verify checks a Groth16 proof against a compiled circuit's verifying
// key and its proof's public witness.
func Verify(cc *CompiledCircuit, proof groth16.Proof, pub witness.Witness) error {
	if err := groth16.Verify(proof, cc.VK, pub); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return nil
}
