package merkle

import "golang.org/x/crypto/blake2b"

// ValidatorSetHash returns the blake2b-256 digest of a GRANDPA validator
// set: the concatenation of each validator's 32-byte Ed25519 public key,
// in set order. The circuits package does not compute this hash:
// ValidatorSetHashCircuit proves a SHA-256 digest over the zero-padded
// key vector, and BlockFinalityCircuit and LatestValidatorSetCircuit
// carry a MiMC commitment as their ValidatorSetHash input.
func ValidatorSetHash(validatorSet [][32]byte) [32]byte {
	buf := make([]byte, 0, len(validatorSet)*32)
	for _, pubkey := range validatorSet {
		buf = append(buf, pubkey[:]...)
	}
	return blake2b.Sum256(buf)
}
