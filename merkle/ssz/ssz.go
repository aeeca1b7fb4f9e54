// Package ssz wraps zrnt/ztyp SSZ tree-hashing into the generalized
// merkle-proof primitives the beacon and circuits packages need: fixed
// vectors, variable-length lists with the length mixin, and the
// corresponding branch construction/verification.
package ssz

import (
	"encoding/binary"

	"github.com/protolambda/ztyp/tree"
)

// HashFn is the zrnt/ztyp two-child hash used throughout beacon SSZ
// merkleization.
type HashFn = tree.HashFn

// NewHashFn returns the standard sha256-based hasher zrnt uses for
// HashTreeRoot computation.
func NewHashFn() HashFn {
	return tree.GetHashFn()
}

// CoverDepth returns the binary-tree depth needed to cover count leaves,
// i.e. the smallest d such that 2^d >= count.
func CoverDepth(count uint64) uint8 {
	return tree.CoverDepth(count)
}

// MixinLength applies the SSZ variable-length-list mixin: the final root
// of a List[T, N] is hash(merkleize(leaves, limit), length).
func MixinLength(merkleRoot tree.Root, length uint64) tree.Root {
	var lengthRoot tree.Root
	binary.LittleEndian.PutUint64(lengthRoot[:], length)
	return tree.GetHashFn()(merkleRoot, lengthRoot)
}

// BuildBranch constructs the Merkle branch (bottom-up sibling list, one
// entry per level) proving that leaves[index] is part of the tree built
// over leaves, padded up to the binary tree of depth limitDepth. Missing
// leaves and missing subtrees are filled with zero hashes as SSZ
// requires.
func BuildBranch(leaves []tree.Root, index uint64, limitDepth uint8) []tree.Root {
	depth := tree.CoverDepth(uint64(len(leaves)))
	hFn := tree.GetHashFn()

	branch := make([]tree.Root, limitDepth)
	currentLevel := leaves
	idx := index

	for level := uint8(0); level < limitDepth; level++ {
		siblingIdx := idx ^ 1
		if siblingIdx < uint64(len(currentLevel)) {
			branch[level] = currentLevel[siblingIdx]
		} else {
			branch[level] = tree.ZeroHashes[level]
		}

		nextLevelSize := (uint64(len(currentLevel)) + 1) / 2
		nextLevel := make([]tree.Root, nextLevelSize)
		for i := uint64(0); i < nextLevelSize; i++ {
			leftIdx, rightIdx := i*2, i*2+1

			left := tree.ZeroHashes[level]
			if leftIdx < uint64(len(currentLevel)) {
				left = currentLevel[leftIdx]
			}
			right := tree.ZeroHashes[level]
			if rightIdx < uint64(len(currentLevel)) {
				right = currentLevel[rightIdx]
			}

			nextLevel[i] = hFn(left, right)
		}

		currentLevel = nextLevel
		idx /= 2

		if level >= depth-1 && level < limitDepth-1 {
			currentLevel = append(currentLevel, tree.ZeroHashes[level+1])
		}
	}

	return branch
}

// VerifyBranch recomputes the root from leaf and branch at index and
// compares it against expectedRoot, using the standard two-child hash.
func VerifyBranch(leaf tree.Root, branch []tree.Root, index uint64, expectedRoot tree.Root) bool {
	hFn := tree.GetHashFn()
	value := leaf
	idx := index

	for _, sibling := range branch {
		if idx%2 == 0 {
			value = hFn(value, sibling)
		} else {
			value = hFn(sibling, value)
		}
		idx /= 2
	}

	return value == expectedRoot
}

// VerifyListBranch is VerifyBranch followed by the SSZ list length
// mixin, for proving membership in a variable-length List[T, N] field
// such as ExecutionPayload.transactions.
func VerifyListBranch(leaf tree.Root, branch []tree.Root, index, length uint64, expectedRoot tree.Root) bool {
	hFn := tree.GetHashFn()
	value := leaf
	idx := index

	for _, sibling := range branch {
		if idx%2 == 0 {
			value = hFn(value, sibling)
		} else {
			value = hFn(sibling, value)
		}
		idx /= 2
	}

	return MixinLength(value, length) == expectedRoot
}
