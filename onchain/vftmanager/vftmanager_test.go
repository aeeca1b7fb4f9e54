package vftmanager

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenMap_InsertRemoveBijection(t *testing.T) {
	m := NewTokenMap()
	vara := VaraAddress{1}
	eth := EthAddress{2}

	require.NoError(t, m.Insert(vara, eth))

	got, err := m.EthFor(vara)
	require.NoError(t, err)
	require.Equal(t, eth, got)

	gotVara, err := m.VaraFor(eth)
	require.NoError(t, err)
	require.Equal(t, vara, gotVara)

	require.NoError(t, m.Remove(vara))

	_, err = m.EthFor(vara)
	require.ErrorIs(t, err, ErrNoCorrespondingEthAddress)
	_, err = m.VaraFor(eth)
	require.ErrorIs(t, err, ErrNoCorrespondingVaraAddress)
}

func TestTokenMap_RejectsDuplicateInsertEitherSide(t *testing.T) {
	m := NewTokenMap()
	vara := VaraAddress{1}
	eth := EthAddress{2}
	require.NoError(t, m.Insert(vara, eth))

	err := m.Insert(vara, EthAddress{9})
	require.ErrorIs(t, err, ErrAlreadyMapped)

	err = m.Insert(VaraAddress{9}, eth)
	require.ErrorIs(t, err, ErrAlreadyMapped)
}

type stubLedger struct {
	lockErr, mintErr, burnErr, unlockErr error
	locked, minted, burned, unlocked     uint64
}

func (s *stubLedger) Lock(token VaraAddress, account VaraAddress, amount uint64) error {
	s.locked += amount
	return s.lockErr
}
func (s *stubLedger) Mint(token EthAddress, account EthAddress, amount uint64) error {
	s.minted += amount
	return s.mintErr
}
func (s *stubLedger) Burn(token EthAddress, account EthAddress, amount uint64) error {
	s.burned += amount
	return s.burnErr
}
func (s *stubLedger) Unlock(token VaraAddress, account VaraAddress, amount uint64) error {
	s.unlocked += amount
	return s.unlockErr
}

func TestManager_LockAndMint(t *testing.T) {
	tokens := NewTokenMap()
	vara := VaraAddress{1}
	eth := EthAddress{2}
	require.NoError(t, tokens.Insert(vara, eth))

	varaLedger := &stubLedger{}
	ethLedger := &stubLedger{}
	m := NewManager(tokens, varaLedger, ethLedger)

	err := m.LockAndMint(vara, VaraAddress{3}, EthAddress{4}, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(100), varaLedger.locked)
	require.Equal(t, uint64(100), ethLedger.minted)
}

func TestManager_BurnAndUnlockFailsWithoutUnlockOnBurnFailure(t *testing.T) {
	tokens := NewTokenMap()
	vara := VaraAddress{1}
	eth := EthAddress{2}
	require.NoError(t, tokens.Insert(vara, eth))

	varaLedger := &stubLedger{}
	ethLedger := &stubLedger{burnErr: assertError{}}
	m := NewManager(tokens, varaLedger, ethLedger)

	err := m.BurnAndUnlock(eth, EthAddress{4}, VaraAddress{3}, 50)
	require.ErrorIs(t, err, ErrBurnFromFailed)
	require.Equal(t, uint64(0), varaLedger.unlocked)
}

type assertError struct{}

func (assertError) Error() string { return "burn reverted" }
