// Package receipt verifies that an Ethereum transaction receipt is
// included in a finalized beacon block's execution payload, and that
// the receipt records a successful transaction.
package receipt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"

	"github.com/gear-bridges/zk-relay/merkle"
)

// Named errors for the inclusion verifier, per §4.3.
var (
	ErrDecodeReceiptEnvelopeFailure = errors.New("receipt: failed to decode receipt envelope")
	ErrTrieDbFailure                = errors.New("receipt: proof database reconstruction failed")
	ErrInvalidReceiptProof          = errors.New("receipt: merkle-patricia proof verification failed")
	ErrFailedEthTransaction         = errors.New("receipt: transaction did not succeed")
	ErrInvalidBlockProof            = errors.New("receipt: receipts_root not included in finalized block state root")
)

// Proof is the wire-transmissible form of a receipt inclusion proof:
// the RLP-encoded trie nodes along the path to transactionIndex, plus
// the execution-payload Merkle branch tying receiptsRoot to the
// finalized header's state root.
type Proof struct {
	TransactionIndex uint64
	ReceiptsRoot     common.Hash
	ProofNodes       [][]byte

	// ExecutionPayloadBranch and its depth/index prove receiptsRoot is
	// part of H_fin.state_root; both are fixed by the execution-payload
	// SSZ container layout and supplied by the caller (beacon package
	// computes them alongside the header it hands over).
	ExecutionPayloadBranch [][32]byte
	ExecutionPayloadDepth  uint64
	ExecutionPayloadIndex  uint64
	ExecutionPayloadLeaf   [32]byte
}

// Verify re-derives the trie key for transactionIndex, walks the
// supplied Merkle-Patricia proof against receiptsRoot, decodes the
// resulting receipt envelope, and checks the transaction succeeded.
// Grounded verbatim on test/helpers_test.go's GenerateReceiptProof /
// VerifyReceiptProof / ExtractProofNodes / ProofNodesToDatabase, turned
// into a library function with real error returns instead of t.Fatal.
func Verify(p Proof, finalizedStateRoot [32]byte) (*types.Receipt, error) {
	if !merkle.IsValidMerkleBranch(p.ExecutionPayloadLeaf, p.ExecutionPayloadBranch, p.ExecutionPayloadDepth, p.ExecutionPayloadIndex, finalizedStateRoot) {
		return nil, ErrInvalidBlockProof
	}

	proofDB := proofNodesToDatabase(p.ProofNodes)

	key := rlp.AppendUint64(nil, p.TransactionIndex)
	value, err := trie.VerifyProof(p.ReceiptsRoot, key, proofDB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReceiptProof, err)
	}
	if value == nil {
		return nil, ErrInvalidReceiptProof
	}

	var receiptOut types.Receipt
	if err := receiptOut.UnmarshalBinary(value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeReceiptEnvelopeFailure, err)
	}

	if receiptOut.Status != types.ReceiptStatusSuccessful {
		return &receiptOut, ErrFailedEthTransaction
	}

	return &receiptOut, nil
}

// GenerateProof builds a Merkle-Patricia inclusion proof for the
// receipt at index within receipts, for use by the relayer when
// assembling a StorageInclusion-style witness for the other chain's
// verifier. Mirrors GenerateReceiptProof in test/helpers_test.go.
func GenerateProof(receipts types.Receipts, index int) (nodes [][]byte, receiptsRoot common.Hash, err error) {
	if index < 0 || index >= len(receipts) {
		return nil, common.Hash{}, fmt.Errorf("receipt: index %d out of range (have %d receipts)", index, len(receipts))
	}

	tr := trie.NewStackTrie(nil)
	root := types.DeriveSha(receipts, tr)

	db, key, err := generateReceiptProof(receipts, index)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("%w: %v", ErrTrieDbFailure, err)
	}
	_ = key

	return extractProofNodes(db), root, nil
}

func generateReceiptProof(receipts types.Receipts, index int) (*memorydb.Database, []byte, error) {
	backing := rawdb.NewMemoryDatabase()
	trieDB := triedb.NewDatabase(backing, nil)
	tr := trie.NewEmpty(trieDB)

	for i := range receipts {
		key := rlp.AppendUint64(nil, uint64(i))
		var buf bytes.Buffer
		receipts.EncodeIndex(i, &buf)
		tr.MustUpdate(key, buf.Bytes())
	}

	proofDB := memorydb.New()
	key := rlp.AppendUint64(nil, uint64(index))
	if err := tr.Prove(key, proofDB); err != nil {
		return nil, nil, err
	}
	return proofDB, key, nil
}

func extractProofNodes(proofDB *memorydb.Database) [][]byte {
	var nodes [][]byte
	iter := proofDB.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		nodes = append(nodes, common.CopyBytes(iter.Value()))
	}
	return nodes
}

func proofNodesToDatabase(nodes [][]byte) *memorydb.Database {
	db := memorydb.New()
	for _, node := range nodes {
		hash := crypto.Keccak256(node)
		_ = db.Put(hash, node)
	}
	return db
}
