package proofstore

import "sync"

// InMemoryProofStorage is a mutex-guarded map from authority-set id to
// proof, grounded on the reference relayer's RwLock<BTreeMap<...>>
// in-memory backend: ordered-enough semantics come for free here since
// Go's map plus an explicit latest-id field replace the BTreeMap's
// last_key_value lookup.
type InMemoryProofStorage struct {
	mu          sync.RWMutex
	circuitData *CircuitData
	proofs      map[uint64]Proof
	latestID    uint64
	hasLatest   bool
}

// NewInMemoryProofStorage returns an empty store.
func NewInMemoryProofStorage() *InMemoryProofStorage {
	return &InMemoryProofStorage{proofs: make(map[uint64]Proof)}
}

func (s *InMemoryProofStorage) Init(proof ProofWithCircuitData, genesisAuthoritySetID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.proofs) != 0 {
		return ErrAlreadyInitialized
	}

	cd := proof.CircuitData
	s.circuitData = &cd
	id := genesisAuthoritySetID + 1
	s.proofs[id] = proof.Proof
	s.latestID = id
	s.hasLatest = true
	return nil
}

func (s *InMemoryProofStorage) CircuitData() (CircuitData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.circuitData == nil {
		return CircuitData{}, ErrNotInitialized
	}
	return *s.circuitData, nil
}

func (s *InMemoryProofStorage) LatestAuthoritySetID() (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestID, s.hasLatest
}

func (s *InMemoryProofStorage) ProofForAuthoritySetID(authoritySetID uint64) (ProofWithCircuitData, error) {
	cd, err := s.CircuitData()
	if err != nil {
		return ProofWithCircuitData{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	proof, ok := s.proofs[authoritySetID]
	if !ok {
		return ProofWithCircuitData{}, &ErrNotFound{AuthoritySetID: authoritySetID}
	}

	return ProofWithCircuitData{Proof: proof, CircuitData: cd}, nil
}

func (s *InMemoryProofStorage) Update(proof Proof, newAuthoritySetID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasLatest {
		return ErrNotInitialized
	}
	if newAuthoritySetID != s.latestID+1 {
		return ErrAuthoritySetIDMismatch
	}

	s.proofs[newAuthoritySetID] = proof
	s.latestID = newAuthoritySetID
	return nil
}
