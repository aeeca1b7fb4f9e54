package beacon

import "errors"

// Sentinel errors for Process, in the order its checks run. Callers
// compare via errors.Is; no retry is implied by any of them.
var (
	ErrInvalidTimestamp              = errors.New("beacon: invalid timestamp")
	ErrInvalidPeriod                 = errors.New("beacon: invalid period")
	ErrNotActual                     = errors.New("beacon: update does not advance finalized slot")
	ErrLowVoteCount                  = errors.New("beacon: sync committee vote count below supermajority")
	ErrInvalidFinalityProof          = errors.New("beacon: invalid finality merkle proof")
	ErrInvalidNextSyncCommitteeProof = errors.New("beacon: invalid next sync committee merkle proof")
	ErrInvalidPublicKeys             = errors.New("beacon: supplied public keys do not match stored committee")
	ErrInvalidSignature              = errors.New("beacon: bls aggregate signature verification failed")

	// ErrReplayBackRequired is returned for every update submitted while
	// the store is backfilling; the ReplayBackStatus returned by
	// ProcessReplayBackHeaders carries the state the caller must keep
	// feeding headers against.
	ErrReplayBackRequired = errors.New("beacon: replay back in progress, feed intermediate headers")

	ErrNotInitialized    = errors.New("beacon: store not initialized")
	ErrAlreadyInitialized = errors.New("beacon: store already initialized")
)
