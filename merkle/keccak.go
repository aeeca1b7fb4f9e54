package merkle

import "github.com/ethereum/go-ethereum/crypto"

// MessageHash returns the keccak256 digest of a bridge message as it is
// committed to Chain-G's storage trie and later proved present in a
// finalized block via StorageInclusionCircuit: keccak256(nonce ‖ source
// ‖ destination ‖ payload), nonce and source each 32 bytes, destination
// 20 bytes (§6 "Outbound message hash").
func MessageHash(nonce [32]byte, source [32]byte, destination [20]byte, payload []byte) [32]byte {
	buf := make([]byte, 0, 32+32+20+len(payload))
	buf = append(buf, nonce[:]...)
	buf = append(buf, source[:]...)
	buf = append(buf, destination[:]...)
	buf = append(buf, payload...)
	return crypto.Keccak256Hash(buf)
}
