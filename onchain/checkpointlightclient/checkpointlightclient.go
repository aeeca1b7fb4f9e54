// Package checkpointlightclient wraps beacon.Store as the on-chain
// service surface a checkpoint-light-client program exposes: process a
// light-client update, drive replay-back, and answer checkpoint
// queries, grounded on the reference
// gear-programs/checkpoint-light-client service shape layered over
// beacon's native state machine.
package checkpointlightclient

import (
	"fmt"

	"github.com/gear-bridges/zk-relay/beacon"
	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"
)

// Service is the program's external API: one beacon.Store per
// deployed instance (Deneb or Electra), exposed the way a Sails
// service method set exposes a program's internal state to RPC calls.
type Service struct {
	store *beacon.Store
}

// NewService wraps an already-constructed beacon.Store.
func NewService(store *beacon.Store) *Service {
	return &Service{store: store}
}

// ProcessUpdate feeds a light-client update through the store's state
// machine.
func (s *Service) ProcessUpdate(update beacon.Update, agg beacon.SyncAggregate) error {
	if err := s.store.Process(update, agg); err != nil {
		return fmt.Errorf("checkpoint light client: process update: %w", err)
	}
	return nil
}

// StartReplayBack begins a backfill that walks down from finalizedSlot,
// with lastSlot recording the oldest header replayed so far.
func (s *Service) StartReplayBack(finalizedSlot, lastSlot uint64) error {
	return s.store.StartReplayBack(finalizedSlot, lastSlot)
}

// ProcessReplayBackHeaders feeds a batch of headers into an in-progress
// replay-back.
func (s *Service) ProcessReplayBackHeaders(headers []zrntcommon.BeaconBlockHeader) (beacon.ReplayBackStatus, error) {
	return s.store.ProcessReplayBackHeaders(headers)
}

// Phase reports the store's current lifecycle phase.
func (s *Service) Phase() beacon.Phase {
	return s.store.Phase()
}

// Checkpoint returns the checkpoint the service recorded for slot, if
// any.
func (s *Service) Checkpoint(slot uint64) (beacon.Checkpoint, bool) {
	return s.store.Checkpoints().Checkpoint(slot)
}

// LatestCheckpoint returns the most recently recorded checkpoint.
func (s *Service) LatestCheckpoint() (beacon.Checkpoint, bool) {
	return s.store.Checkpoints().Latest()
}

// Checkpoints returns up to count checkpoints in the given order
// starting at indexStart, the paginated query the on-chain service
// exposes to the historical proxy / relayer.
func (s *Service) Checkpoints(order beacon.Order, indexStart, count uint32) []beacon.Checkpoint {
	return s.store.Checkpoints().Get(order, indexStart, count)
}
