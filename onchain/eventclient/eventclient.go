// Package eventclient models the two beacon-chain body shapes the
// bridge must accept finalized updates from — Deneb and Electra —
// behind one interface, generalizing the Deneb-shaped execution payload
// header (blob_gas_used/excess_blob_gas but no execution_requests) to
// also carry Electra's additional
// execution_requests field without perturbing the finality/current/
// next-committee Merkle depths, which stay fixed across both forks.
package eventclient

import zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"

// Fork distinguishes which beacon body shape a finalized update was
// produced under.
type Fork string

const (
	ForkDeneb   Fork = "deneb"
	ForkElectra Fork = "electra"
)

// ExecutionPayload carries the execution-layer header fields common to
// both forks, plus Electra's execution_requests hash when present.
type ExecutionPayload struct {
	ParentHash       [32]byte
	StateRoot        [32]byte
	ReceiptsRoot     [32]byte
	BlockNumber      uint64
	Timestamp        uint64
	BlockHash        [32]byte
	TransactionsRoot [32]byte
	WithdrawalsRoot  [32]byte
	BlobGasUsed      uint64
	ExcessBlobGas    uint64

	// ExecutionRequestsHash is set only for ForkElectra; Deneb headers
	// leave it zero. It does not participate in the fixed Merkle-branch
	// depths the beacon package verifies against (§9's explicit
	// instruction not to let fork differences move those constants).
	ExecutionRequestsHash [32]byte
}

// FinalizedUpdate is a finality-checkpoint notification, tagged with
// the fork it was produced under so downstream decoding knows which
// payload shape to expect.
type FinalizedUpdate struct {
	Fork            Fork
	AttestedHeader  zrntcommon.BeaconBlockHeader
	FinalizedHeader zrntcommon.BeaconBlockHeader
	Payload         ExecutionPayload
}

// Client streams finalized updates from a beacon node, abstracting over
// the Deneb/Electra response shape difference.
type Client interface {
	// SubscribeFinalized returns a channel of finalized updates; the fork
	// field on each update lets callers route to the correct decoder
	// without needing to know the active fork ahead of time.
	SubscribeFinalized() (<-chan FinalizedUpdate, error)
}
