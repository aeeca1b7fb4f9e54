package beacon

import (
	"fmt"
	"sort"

	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"
)

// MaxEpochsGap is the largest slot gap (in epochs) backfill tolerates
// between consecutive checkpoints before it must emit an intermediate
// one, grounded on original_source's checkpoint-light-client
// MAX_EPOCHS_GAP constant.
const MaxEpochsGap = 3

// StartReplayBack transitions the store into ReplayBack after an update
// advanced the finalized header but the caller cannot yet supply a
// contiguous parent_root chain back to the last trusted checkpoint.
// ProcessReplayBackHeaders must then be called, possibly across several
// batches, until it reports completion.
func (s *Store) StartReplayBack(finalizedSlot, lastSlot uint64) error {
	if s.phase == ReplayBack {
		return fmt.Errorf("beacon: replay back already started")
	}
	s.phase = ReplayBack
	s.replay = &ReplayBackState{
		FinalizedSlot: finalizedSlot,
		LastSlot:      lastSlot,
		headers:       make(map[uint64]zrntcommon.BeaconBlockHeader),
	}
	return nil
}

// ProcessReplayBackHeaders accepts a batch of intermediate headers
// linking H_fin back towards the previously trusted checkpoint. Per
// §4.2: sort by slot ascending, then walk from the newest header
// backwards requiring each predecessor's tree_hash_root to equal its
// successor's parent_root. Checkpoints are emitted at epoch boundaries
// or whenever a gap larger than MaxEpochsGap epochs is about to form.
// Completion is signaled when the oldest replayed header's parent_root
// matches the last pre-existing checkpoint, at which point all pending
// checkpoints commit atomically and the store returns to Syncing.
func (s *Store) ProcessReplayBackHeaders(headers []zrntcommon.BeaconBlockHeader) (ReplayBackStatus, error) {
	if s.phase != ReplayBack || s.replay == nil {
		return ReplayBackStatus{}, fmt.Errorf("beacon: replay back not started")
	}

	sorted := append([]zrntcommon.BeaconBlockHeader(nil), headers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Slot < sorted[j].Slot })

	for i := len(sorted) - 1; i >= 0; i-- {
		h := sorted[i]
		s.replay.headers[uint64(h.Slot)] = h
	}

	// Walk from the newest known header down, verifying parent_root
	// links and collecting checkpoints at epoch boundaries / large gaps.
	slots := make([]uint64, 0, len(s.replay.headers))
	for slot := range s.replay.headers {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] > slots[j] })

	for i := 0; i < len(slots)-1; i++ {
		child := s.replay.headers[slots[i]]
		parent, ok := s.replay.headers[slots[i+1]]
		if !ok {
			continue
		}
		parentRoot := parent.HashTreeRoot(hashFn())
		if [32]byte(child.ParentRoot) != parentRoot {
			return ReplayBackStatus{}, fmt.Errorf("beacon: replay back header chain broken at slot %d", slots[i])
		}

		gapEpochs := epoch(uint64(child.Slot)) - epoch(uint64(parent.Slot))
		if epoch(uint64(parent.Slot)) != epoch(uint64(child.Slot)) || gapEpochs > MaxEpochsGap {
			s.replay.pending = append(s.replay.pending, Checkpoint{
				Slot: uint64(child.Slot),
				Root: child.HashTreeRoot(hashFn()),
			})
		}
	}

	lastExisting, hasExisting := s.checkpoints.Latest()
	oldestSlot := slots[len(slots)-1]
	oldest := s.replay.headers[oldestSlot]

	complete := hasExisting && [32]byte(oldest.ParentRoot) == lastExisting.Root

	if complete {
		// pending is collected newest-first (and re-collected on every
		// batch); Push only accepts increasing slots, so commit it oldest
		// first and let the re-collected duplicates fall away.
		for i := len(s.replay.pending) - 1; i >= 0; i-- {
			s.checkpoints.Push(s.replay.pending[i])
		}
		s.finalizedSlot = s.replay.FinalizedSlot
		s.phase = Syncing
		s.replay = nil
		return ReplayBackStatus{Finished: true}, nil
	}

	s.replay.LastSlot = oldestSlot
	return ReplayBackStatus{
		Finished:      false,
		FinalizedSlot: s.replay.FinalizedSlot,
		LastSlot:      oldestSlot,
	}, nil
}

// ReplayBackStatus reports backfill progress back to the caller.
type ReplayBackStatus struct {
	Finished      bool
	FinalizedSlot uint64
	LastSlot      uint64
}

// SlotBatchIter walks [slotStart, slotEnd) backwards in contiguous
// half-open batches of at most batchSize slots each, for splitting the
// headers fed to ProcessReplayBackHeaders into rounds. Grounded on
// original_source/checkpoints-relayer/src/utils/slots_batch.rs's Iter.
type SlotBatchIter struct {
	slotStart, slotEnd, batchSize uint64
}

// NewSlotBatchIter returns an iterator over [slotStart, slotEnd), or
// false if batchSize < 2 or slotStart >= slotEnd: too small a batch
// never makes progress, and an empty or backwards range has nothing to
// replay.
func NewSlotBatchIter(slotStart, slotEnd, batchSize uint64) (*SlotBatchIter, bool) {
	if batchSize < 2 || slotStart >= slotEnd {
		return nil, false
	}
	return &SlotBatchIter{slotStart: slotStart, slotEnd: slotEnd, batchSize: batchSize}, true
}

// Next returns the next half-open batch (start, end), working backwards
// from slotEnd towards slotStart, or false once the range is exhausted.
func (it *SlotBatchIter) Next() (uint64, uint64, bool) {
	if it.slotStart+it.batchSize <= it.slotEnd {
		start := it.slotEnd - it.batchSize + 1
		end := it.slotEnd
		it.slotEnd = start
		return start, end, true
	}

	if it.slotStart < it.slotEnd {
		end := it.slotEnd
		it.slotEnd = it.slotStart
		return it.slotStart, end, true
	}

	return 0, 0, false
}
