package beacon

import (
	"testing"

	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(NetworkConfig{}, nil, zrntcommon.BLSPubkey{}, 0, 10)
}

func TestProcessRejectsOutOfOrderTimestamps(t *testing.T) {
	s := newTestStore()

	err := s.Process(Update{
		SignatureSlot:   100,
		AttestedHeader:  zrntcommon.BeaconBlockHeader{Slot: 200}, // att > sig: invalid
		FinalizedHeader: zrntcommon.BeaconBlockHeader{Slot: 50},
	}, SyncAggregate{})

	require.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestProcessRejectsLowVoteCount(t *testing.T) {
	s := newTestStore()

	bits := make([]byte, SyncCommitteeSize/8)
	// only 1 bit set, far below the 2/3 supermajority.
	bits[0] = 0x01

	err := s.Process(Update{
		SignatureSlot:   300,
		AttestedHeader:  zrntcommon.BeaconBlockHeader{Slot: 200},
		FinalizedHeader: zrntcommon.BeaconBlockHeader{Slot: 100},
	}, SyncAggregate{SyncCommitteeBits: bits})

	require.ErrorIs(t, err, ErrLowVoteCount)
}

func TestProcessRejectsNotActual(t *testing.T) {
	s := NewStore(NetworkConfig{}, nil, zrntcommon.BLSPubkey{}, 500, 10)

	bits := make([]byte, SyncCommitteeSize/8)
	for i := range bits {
		bits[i] = 0xff
	}

	err := s.Process(Update{
		SignatureSlot:   300,
		AttestedHeader:  zrntcommon.BeaconBlockHeader{Slot: 200},
		FinalizedHeader: zrntcommon.BeaconBlockHeader{Slot: 100}, // <= store.finalizedSlot(500)
	}, SyncAggregate{SyncCommitteeBits: bits})

	require.ErrorIs(t, err, ErrNotActual)
}

func TestCheckpointStoreEvictsOldest(t *testing.T) {
	cs := NewCheckpointStore(2)
	cs.Push(Checkpoint{Slot: 1})
	cs.Push(Checkpoint{Slot: 2})
	cs.Push(Checkpoint{Slot: 3})

	require.Equal(t, 2, cs.Len())
	_, ok := cs.Checkpoint(1)
	require.False(t, ok)

	latest, ok := cs.Latest()
	require.True(t, ok)
	require.Equal(t, uint64(3), latest.Slot)
}

func TestCheckpointStoreGetOrdering(t *testing.T) {
	cs := NewCheckpointStore(10)
	for _, slot := range []uint64{10, 20, 30} {
		cs.Push(Checkpoint{Slot: slot})
	}

	direct := cs.Get(Direct, 0, 10)
	require.Equal(t, []uint64{10, 20, 30}, slotsOf(direct))

	rev := cs.Get(Reverse, 0, 10)
	require.Equal(t, []uint64{30, 20, 10}, slotsOf(rev))

	windowed := cs.Get(Direct, 1, 1)
	require.Equal(t, []uint64{20}, slotsOf(windowed))
}

func slotsOf(cps []Checkpoint) []uint64 {
	out := make([]uint64, len(cps))
	for i, cp := range cps {
		out[i] = cp.Slot
	}
	return out
}
