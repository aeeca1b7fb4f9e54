package gear

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MerkleProofRequest asks for the inclusion merkle proof of one
// message against the state root fixed at a specific Chain-G block,
// grounded on merkle_proof_fetcher.rs's Request.
type MerkleProofRequest struct {
	TaskUUID      uuid.UUID
	MessageBlock  uint64
	MessageHash   [32]byte
	MessageNonce  [32]byte
	GearBlockHash [32]byte
}

// MerkleProof is the raw inclusion proof returned by Chain-G's RPC.
type MerkleProof struct {
	Proof     [][]byte
	NumLeaves uint64
	LeafIndex uint64
}

// MerkleProofResponse pairs a fetched proof back with the request that
// produced it.
type MerkleProofResponse struct {
	TaskUUID uuid.UUID
	Proof    MerkleProof
}

// MerkleProofClient is the minimal RPC surface MerkleProofFetcher
// needs from Chain-G.
type MerkleProofClient interface {
	FetchMessageInclusionMerkleProof(ctx context.Context, blockHash [32]byte, messageHash [32]byte) (MerkleProof, error)
}

// MerkleProofFetcher turns a stream of requests into a stream of
// responses, one RPC call per request, grounded on
// merkle_proof_fetcher.rs's request/response task loop (the teacher's
// reconnect-on-error pattern is left to the caller's MerkleProofClient,
// since this package only owns the request/response pairing, not
// connection lifecycle — that lives in relayer/connection).
type MerkleProofFetcher struct {
	client MerkleProofClient
}

// NewMerkleProofFetcher wires a client into a fetcher.
func NewMerkleProofFetcher(client MerkleProofClient) *MerkleProofFetcher {
	return &MerkleProofFetcher{client: client}
}

// Run consumes requests until ctx is cancelled or the channel closes,
// emitting one response per successful fetch in the order received; a
// request whose fetch fails is logged and produces no response.
func (f *MerkleProofFetcher) Run(ctx context.Context, requests <-chan MerkleProofRequest) <-chan MerkleProofResponse {
	out := make(chan MerkleProofResponse, 64)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-requests:
				if !ok {
					return
				}

				proof, err := f.client.FetchMessageInclusionMerkleProof(ctx, req.GearBlockHash, req.MessageHash)
				if err != nil {
					log.Error().Err(err).Stringer("task", req.TaskUUID).Msg("merkle proof fetcher: fetch failed")
					continue
				}

				select {
				case out <- MerkleProofResponse{TaskUUID: req.TaskUUID, Proof: proof}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
