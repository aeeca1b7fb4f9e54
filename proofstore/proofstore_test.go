package proofstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePWCD() ProofWithCircuitData {
	return ProofWithCircuitData{
		Proof:       Proof{0x01, 0x02},
		CircuitData: CircuitData{ConstraintSystem: []byte{0xAA}},
	}
}

func TestInMemoryProofStorage_InitThenUpdate(t *testing.T) {
	s := NewInMemoryProofStorage()

	err := s.Init(samplePWCD(), 41)
	require.NoError(t, err)

	id, ok := s.LatestAuthoritySetID()
	require.True(t, ok)
	require.Equal(t, uint64(42), id)

	err = s.Init(samplePWCD(), 41)
	require.ErrorIs(t, err, ErrAlreadyInitialized)

	err = s.Update(Proof{0x03}, 43)
	require.NoError(t, err)

	err = s.Update(Proof{0x04}, 43)
	require.ErrorIs(t, err, ErrAuthoritySetIDMismatch)

	got, err := s.ProofForAuthoritySetID(43)
	require.NoError(t, err)
	require.Equal(t, Proof{0x03}, got.Proof)

	_, err = s.ProofForAuthoritySetID(99)
	var nf *ErrNotFound
	require.ErrorAs(t, err, &nf)
	require.Equal(t, uint64(99), nf.AuthoritySetID)
}

func TestFileSystemProofStorage_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileSystemProofStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Init(samplePWCD(), 41))
	require.NoError(t, s.Update(Proof{0x03}, 43))

	reopened, err := NewFileSystemProofStorage(dir)
	require.NoError(t, err)

	id, ok := reopened.LatestAuthoritySetID()
	require.True(t, ok)
	require.Equal(t, uint64(43), id)

	got, err := reopened.ProofForAuthoritySetID(42)
	require.NoError(t, err)
	require.Equal(t, Proof{0x01, 0x02}, got.Proof)
}

func TestFileSystemProofStorage_MissingDirFixtureIsAbsent(t *testing.T) {
	_, err := os.Stat("/nonexistent-path-zk-relay")
	require.Error(t, err)
}

type stubChainClient struct {
	circuitData CircuitData
	proofs      map[uint64]Proof
	latest      uint64
	hasLatest   bool
}

func (c *stubChainClient) FetchCircuitData() (CircuitData, error) { return c.circuitData, nil }

func (c *stubChainClient) FetchProof(id uint64) (Proof, error) {
	p, ok := c.proofs[id]
	if !ok {
		return nil, &ErrNotFound{AuthoritySetID: id}
	}
	return p, nil
}

func (c *stubChainClient) FetchLatestAuthoritySetID() (uint64, bool, error) {
	return c.latest, c.hasLatest, nil
}

func TestOnChainProofStorage_FallsBackToClient(t *testing.T) {
	client := &stubChainClient{
		circuitData: CircuitData{ConstraintSystem: []byte{0xBB}},
		proofs:      map[uint64]Proof{7: {0x09}},
		latest:      7,
		hasLatest:   true,
	}
	s := NewOnChainProofStorage(client)

	id, ok := s.LatestAuthoritySetID()
	require.True(t, ok)
	require.Equal(t, uint64(7), id)

	got, err := s.ProofForAuthoritySetID(7)
	require.NoError(t, err)
	require.Equal(t, Proof{0x09}, got.Proof)

	_, err = s.ProofForAuthoritySetID(8)
	require.Error(t, err)
}
