package receipt

import (
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func syntheticReceipts(n int) types.Receipts {
	receipts := make(types.Receipts, n)
	for i := 0; i < n; i++ {
		status := types.ReceiptStatusSuccessful
		if i%5 == 0 && i != 0 {
			status = types.ReceiptStatusFailed
		}
		receipts[i] = &types.Receipt{
			Type:              types.DynamicFeeTxType,
			Status:            status,
			CumulativeGasUsed: uint64(21000 * (i + 1)),
		}
	}
	return receipts
}

func TestGenerateAndVerifyProofRoundTrip(t *testing.T) {
	receipts := syntheticReceipts(16)

	targetIndex := 7
	nodes, root, err := GenerateProof(receipts, targetIndex)
	require.NoError(t, err)
	require.NotEmpty(t, nodes)

	out, err := Verify(Proof{
		TransactionIndex: uint64(targetIndex),
		ReceiptsRoot:     root,
		ProofNodes:       nodes,
		ExecutionPayloadLeaf: root, // identity branch at depth 0 stands in for the real SSZ leaf
	}, root)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, out.Status)
}

func TestVerifyRejectsFailedTransaction(t *testing.T) {
	receipts := syntheticReceipts(16)

	targetIndex := 5 // status set to failed by syntheticReceipts
	nodes, root, err := GenerateProof(receipts, targetIndex)
	require.NoError(t, err)

	_, err = Verify(Proof{
		TransactionIndex:     uint64(targetIndex),
		ReceiptsRoot:         root,
		ProofNodes:           nodes,
		ExecutionPayloadLeaf: root,
	}, root)
	require.ErrorIs(t, err, ErrFailedEthTransaction)
}

func TestVerifyRejectsWrongIndex(t *testing.T) {
	receipts := syntheticReceipts(16)

	nodes, root, err := GenerateProof(receipts, 3)
	require.NoError(t, err)

	_, err = Verify(Proof{
		TransactionIndex:     9, // proof was generated for index 3
		ReceiptsRoot:         root,
		ProofNodes:           nodes,
		ExecutionPayloadLeaf: root,
	}, root)
	require.Error(t, err)
}

func TestVerifyRejectsBadBlockProof(t *testing.T) {
	receipts := syntheticReceipts(4)
	nodes, root, err := GenerateProof(receipts, 0)
	require.NoError(t, err)

	var wrongLeaf [32]byte
	wrongLeaf[0] = 0xff

	_, err = Verify(Proof{
		TransactionIndex:     0,
		ReceiptsRoot:         root,
		ProofNodes:           nodes,
		ExecutionPayloadLeaf: wrongLeaf,
	}, root)
	require.ErrorIs(t, err, ErrInvalidBlockProof)
}
