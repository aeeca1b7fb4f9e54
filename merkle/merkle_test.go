package merkle

import (
	"crypto/sha256"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestIsValidMerkleBranchDepthZero(t *testing.T) {
	var leaf [32]byte
	leaf[0] = 0x42

	// depth 0: no branch needed, leaf must equal root directly.
	require.True(t, IsValidMerkleBranch(leaf, nil, 0, 0, leaf))

	var other [32]byte
	other[0] = 0x43
	require.False(t, IsValidMerkleBranch(leaf, nil, 0, 0, other))
}

func TestIsValidMerkleBranchSingleLevel(t *testing.T) {
	var left, right [32]byte
	left[0] = 0x01
	right[0] = 0x02

	root := sha256.Sum256(append(append([]byte{}, left[:]...), right[:]...))

	require.True(t, IsValidMerkleBranch(left, [][32]byte{right}, 1, 0, root))
	require.True(t, IsValidMerkleBranch(right, [][32]byte{left}, 1, 1, root))
	require.False(t, IsValidMerkleBranch(left, [][32]byte{right}, 1, 1, root))
}

func TestIsValidMerkleBranchShortBranchRejected(t *testing.T) {
	var leaf, root [32]byte
	// depth 2 requested but only one sibling supplied: must fail closed,
	// not panic on out-of-range index.
	require.False(t, IsValidMerkleBranch(leaf, [][32]byte{{}}, 2, 0, root))
}

func TestValidatorSetHashEmpty(t *testing.T) {
	h := ValidatorSetHash(nil)
	require.Len(t, h, 32)
}

func TestMessageHashDeterministic(t *testing.T) {
	var nonce, source [32]byte
	var destination [20]byte
	payload := []byte("bridge message payload")
	nonce[31] = 0x01
	copy(source[:], []byte("source-actor-id-32-bytes-long!!"))
	copy(destination[:], []byte("dest-addr-20-byte!!"))

	require.Equal(t, MessageHash(nonce, source, destination, payload), MessageHash(nonce, source, destination, payload))
}

// TestMessageHashMatchesConcreteScenario exercises the documented
// 84-byte concatenation directly: nonce = 0x00..01 (32B LE), source =
// 0xAA repeated 32 times, destination = 0xBB repeated 20 times, empty
// payload.
func TestMessageHashMatchesConcreteScenario(t *testing.T) {
	var nonce, source [32]byte
	var destination [20]byte
	nonce[31] = 0x01
	for i := range source {
		source[i] = 0xAA
	}
	for i := range destination {
		destination[i] = 0xBB
	}

	got := MessageHash(nonce, source, destination, nil)

	want := make([]byte, 0, 84)
	want = append(want, nonce[:]...)
	want = append(want, source[:]...)
	want = append(want, destination[:]...)
	wantHash := crypto.Keccak256Hash(want)

	require.Equal(t, [32]byte(wantHash), got)
}
