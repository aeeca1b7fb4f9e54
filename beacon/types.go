// Package beacon maintains trust in Chain-E's finalized headers and
// active sync committee, exposing a checkpoint store (slot -> block
// root) to downstream consumers such as the receipt inclusion verifier.
package beacon

import (
	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"
)

// SlotsPerEpoch and SlotsPerSyncCommitteePeriod follow the mainnet
// Beacon chain configuration the teacher's zrnt/ztyp wiring already
// targets (configs.Mainnet in provers/listener.go).
const (
	SlotsPerEpoch               = 32
	EpochsPerSyncCommitteePeriod = 256
	SlotsPerSyncCommitteePeriod = SlotsPerEpoch * EpochsPerSyncCommitteePeriod

	// SyncCommitteeSize is the fixed width of the BLS pubkey vector.
	SyncCommitteeSize = 512

	// supermajorityNumerator/Denominator encode the 2/3 supermajority
	// threshold popcount(bits)*3 >= 512*2 is checked against.
	supermajorityNumerator   = 2
	supermajorityDenominator = 3

	// timestampToleranceSlots bounds how far into the future a
	// signature slot may sit relative to wall-clock.
	timestampToleranceSlots = 1
)

// Phase names the lifecycle state of the light-client store.
type Phase int

const (
	Initialized Phase = iota
	Syncing
	ReplayBack
)

func (p Phase) String() string {
	switch p {
	case Initialized:
		return "initialized"
	case Syncing:
		return "syncing"
	case ReplayBack:
		return "replay_back"
	default:
		return "unknown"
	}
}

// Update bundles the fields a Process call needs: the attested and
// finalized headers, the finality Merkle branch, and the optional next
// sync committee material that accompanies a period-advancing update.
type Update struct {
	SignatureSlot uint64

	AttestedHeader zrntcommon.BeaconBlockHeader
	FinalizedHeader zrntcommon.BeaconBlockHeader
	FinalityBranch [][32]byte

	NextSyncCommitteeAggregatePubkey *zrntcommon.BLSPubkey
	NextSyncCommitteePubkeys         []zrntcommon.BLSPubkey
	NextSyncCommitteeBranch          [][32]byte
}

// SyncAggregate carries the committee participation bitvector and the
// aggregate BLS signature over the attested header's signing root.
type SyncAggregate struct {
	SyncCommitteeBits      []byte
	SyncCommitteeSignature [96]byte
}

// committee is the internally tracked sync committee: its BLS pubkeys
// and aggregate pubkey, converted by toZrnt to the zrnt type used for
// tree-hash-root computation when verifying the next-committee Merkle
// proof.
type committee struct {
	pubkeys          []zrntcommon.BLSPubkey
	aggregatePubkey  zrntcommon.BLSPubkey
}

func (c committee) toZrnt() zrntcommon.SyncCommittee {
	var sc zrntcommon.SyncCommittee
	copy(sc.Pubkeys[:], c.pubkeys)
	sc.AggregatePubkey = c.aggregatePubkey
	return sc
}

// Checkpoint is a trusted (slot, block root) pair emitted by a
// successful Process call or by backfill.
type Checkpoint struct {
	Slot uint64
	Root [32]byte
}
