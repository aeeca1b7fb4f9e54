package proofstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
)

// FileSystemProofStorage persists each authority-set proof as its own
// file plus one shared circuit-data file, the layout the reference
// relayer's filesystem backend uses (one file per id, independent of
// the others, so a crash mid-Update never corrupts an earlier proof).
// An InMemoryProofStorage index is kept alongside for LatestAuthoritySetID
// lookups without re-reading the directory on every call.
type FileSystemProofStorage struct {
	dir string

	mu       sync.Mutex
	index    *InMemoryProofStorage
}

const circuitDataFileName = "circuit_data.bin"

// NewFileSystemProofStorage opens (creating if absent) dir as the proof
// store root and rebuilds its in-memory index from whatever proof files
// are already present.
func NewFileSystemProofStorage(dir string) (*FileSystemProofStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filesystem proof storage: mkdir: %w", err)
	}

	s := &FileSystemProofStorage{dir: dir, index: NewInMemoryProofStorage()}
	if err := s.rebuildIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileSystemProofStorage) rebuildIndex() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("filesystem proof storage: read dir: %w", err)
	}

	cdPath := filepath.Join(s.dir, circuitDataFileName)
	cdBytes, err := os.ReadFile(cdPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("filesystem proof storage: read circuit data: %w", err)
	}
	cd := CircuitData{ConstraintSystem: cdBytes}

	var ids []uint64
	for _, e := range entries {
		if e.IsDir() || e.Name() == circuitDataFileName {
			continue
		}
		id, err := strconv.ParseUint(e.Name(), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	genesis := minUint64(ids) - 1
	first := true
	for _, id := range ids {
		proofBytes, err := os.ReadFile(s.proofPath(id))
		if err != nil {
			return fmt.Errorf("filesystem proof storage: read proof %d: %w", id, err)
		}
		if first {
			if err := s.index.Init(ProofWithCircuitData{Proof: proofBytes, CircuitData: cd}, genesis); err != nil {
				return err
			}
			first = false
			continue
		}
		if err := s.index.Update(proofBytes, id); err != nil {
			return err
		}
	}
	return nil
}

func minUint64(xs []uint64) uint64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func (s *FileSystemProofStorage) proofPath(id uint64) string {
	return filepath.Join(s.dir, strconv.FormatUint(id, 10))
}

func (s *FileSystemProofStorage) Init(proof ProofWithCircuitData, genesisAuthoritySetID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index.LatestAuthoritySetID(); ok {
		return ErrAlreadyInitialized
	}

	if err := os.WriteFile(filepath.Join(s.dir, circuitDataFileName), proof.CircuitData.ConstraintSystem, 0o644); err != nil {
		return fmt.Errorf("filesystem proof storage: write circuit data: %w", err)
	}
	id := genesisAuthoritySetID + 1
	if err := os.WriteFile(s.proofPath(id), proof.Proof, 0o644); err != nil {
		return fmt.Errorf("filesystem proof storage: write proof %d: %w", id, err)
	}

	return s.index.Init(proof, genesisAuthoritySetID)
}

func (s *FileSystemProofStorage) CircuitData() (CircuitData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.CircuitData()
}

func (s *FileSystemProofStorage) LatestAuthoritySetID() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.LatestAuthoritySetID()
}

func (s *FileSystemProofStorage) ProofForAuthoritySetID(authoritySetID uint64) (ProofWithCircuitData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.ProofForAuthoritySetID(authoritySetID)
}

func (s *FileSystemProofStorage) Update(proof Proof, newAuthoritySetID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, ok := s.index.LatestAuthoritySetID()
	if !ok {
		return ErrNotInitialized
	}
	if newAuthoritySetID != latest+1 {
		return ErrAuthoritySetIDMismatch
	}

	if err := os.WriteFile(s.proofPath(newAuthoritySetID), proof, 0o644); err != nil {
		return fmt.Errorf("filesystem proof storage: write proof %d: %w", newAuthoritySetID, err)
	}
	return s.index.Update(proof, newAuthoritySetID)
}
