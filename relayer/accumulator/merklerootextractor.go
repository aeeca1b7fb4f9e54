// Package accumulator bridges the Chain-E and Chain-G listener
// streams, extracting relayed merkle roots and the Chain-G authority
// set id that signed them, grounded on the reference relayer's
// message_relayer/common/merkle_root_extractor.rs.
package accumulator

import (
	"context"

	"github.com/rs/zerolog/log"
)

// RelayedMerkleRoot is a Chain-G block whose outbound-queue merkle root
// was found relayed to Chain-E, tagged with the authority set that
// signed its finalization.
type RelayedMerkleRoot struct {
	GearBlock      uint64
	AuthoritySetID uint64
}

// merkleRoot is one root-in-range result fetched from Chain-E.
type merkleRoot struct {
	GearBlockNumber uint64
}

// ChainEMerkleRootFetcher fetches relayed merkle roots in a Chain-E
// block range.
type ChainEMerkleRootFetcher interface {
	MerkleRootsInRange(ctx context.Context, fromBlock, toBlock uint64) ([]merkleRoot, error)
}

// ChainGAuthoritySetResolver maps a Chain-G block number to the
// authority set id that signed its finalization.
type ChainGAuthoritySetResolver interface {
	AuthoritySetIDForBlock(ctx context.Context, gearBlock uint64) (uint64, error)
}

// MerkleRootExtractor consumes Chain-E block numbers and emits, for
// each relayed merkle root found at that block, the Chain-G block and
// authority set id it corresponds to.
type MerkleRootExtractor struct {
	roots ChainEMerkleRootFetcher
	sets  ChainGAuthoritySetResolver
}

// NewMerkleRootExtractor wires a fetcher/resolver pair into an
// extractor.
func NewMerkleRootExtractor(roots ChainEMerkleRootFetcher, sets ChainGAuthoritySetResolver) *MerkleRootExtractor {
	return &MerkleRootExtractor{roots: roots, sets: sets}
}

// Run consumes ethBlocks until ctx is cancelled or the channel closes,
// emitting a RelayedMerkleRoot for every root found.
func (e *MerkleRootExtractor) Run(ctx context.Context, ethBlocks <-chan uint64) <-chan RelayedMerkleRoot {
	out := make(chan RelayedMerkleRoot, 64)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case block, ok := <-ethBlocks:
				if !ok {
					return
				}

				roots, err := e.roots.MerkleRootsInRange(ctx, block, block)
				if err != nil {
					log.Error().Err(err).Uint64("block", block).Msg("merkle root extractor: fetch failed")
					continue
				}

				for _, root := range roots {
					setID, err := e.sets.AuthoritySetIDForBlock(ctx, root.GearBlockNumber)
					if err != nil {
						log.Error().Err(err).Uint64("gear_block", root.GearBlockNumber).Msg("merkle root extractor: authority set lookup failed")
						continue
					}

					select {
					case out <- RelayedMerkleRoot{GearBlock: root.GearBlockNumber, AuthoritySetID: setID}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out
}
