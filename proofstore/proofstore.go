// Package proofstore persists the recursive authority-set proof chain
// circuit.LatestValidatorSetCircuit folds: one Groth16 proof per
// authority-set id, plus the circuit data (proving/verifying keys)
// every proof in the chain shares.
package proofstore

import (
	"errors"
	"fmt"
)

// Errors mirror the four variants the reference relayer's proof
// storage trait distinguishes.
var (
	ErrAlreadyInitialized  = errors.New("proof storage: already initialized")
	ErrNotInitialized      = errors.New("proof storage: not initialized")
	ErrAuthoritySetIDMismatch = errors.New("proof storage: authority set id is not as expected")
)

// ErrNotFound reports a missing proof for a specific authority set id.
type ErrNotFound struct {
	AuthoritySetID uint64
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("proof storage: proof for authority set id #%d not found", e.AuthoritySetID)
}

// CircuitData bundles the compiled constraint system and Groth16 keys
// every proof in the chain is proved/verified against, mirroring
// circuit.CompiledCircuit but serialized for storage rather than held
// as live gnark objects.
type CircuitData struct {
	ConstraintSystem []byte
	ProvingKey       []byte
	VerifyingKey     []byte
}

// Proof is an opaque serialized Groth16 proof for one authority-set
// step; only the storage layer needs to move bytes around, so this
// package does not depend on gnark itself.
type Proof []byte

// ProofWithCircuitData bundles a proof with the circuit data it must
// be verified against, the unit of exchange Init and
// GetProofForAuthoritySetID deal in.
type ProofWithCircuitData struct {
	Proof       Proof
	CircuitData CircuitData
}

// ProofStorage persists the chain of authority-set proofs the relayer
// maintains. Implementations: InMemoryProofStorage (tests, single-
// process relayers), FileSystemProofStorage (durable single-host
// relayers), OnChainProofStorage (answers from an in-memory cache and
// reads from a deployed checkpoint-light-client-style contract on a
// miss; Init and Update write only the cache, never the chain).
type ProofStorage interface {
	// Init seeds the chain with the genesis proof, covering the
	// transition from genesisAuthoritySetID to genesisAuthoritySetID+1.
	// Fails with ErrAlreadyInitialized if a proof already exists.
	Init(proof ProofWithCircuitData, genesisAuthoritySetID uint64) error

	// CircuitData returns the shared circuit data. Fails with
	// ErrNotInitialized before Init has run.
	CircuitData() (CircuitData, error)

	// LatestAuthoritySetID returns the highest authority set id a proof
	// has been stored for, and false if the store is empty.
	LatestAuthoritySetID() (uint64, bool)

	// ProofForAuthoritySetID returns the stored proof for
	// authoritySetID, or ErrNotFound.
	ProofForAuthoritySetID(authoritySetID uint64) (ProofWithCircuitData, error)

	// Update appends proof as the step proving newAuthoritySetID,
	// requiring newAuthoritySetID == LatestAuthoritySetID()+1; fails with
	// ErrAuthoritySetIDMismatch otherwise.
	Update(proof Proof, newAuthoritySetID uint64) error
}
