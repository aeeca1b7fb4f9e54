package beacon

import (
	"errors"
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"
	"github.com/protolambda/ztyp/tree"
)

// syncCommitteeSignatureDST is the hash-to-curve domain separation tag
// for sync-committee BLS signatures, matching the Altair light-client
// signing scheme (BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_).
const syncCommitteeSignatureDST = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_"

var errInvalidPublicKeys = errors.New("beacon: invalid public key encoding")

func hashFn() tree.HashFn {
	return tree.GetHashFn()
}

// computeSigningRoot derives signing_root = hash_tree_root(SigningData{
// object_root: hash_tree_root(header), domain }) for DOMAIN_SYNC_COMMITTEE,
// grounded on the teacher's computeSigningRoot in verify_bls_aggr_test.go.
func computeSigningRoot(header zrntcommon.BeaconBlockHeader, genesisValidatorsRoot [32]byte, forkVersion [4]byte) ([32]byte, error) {
	blockRoot := header.HashTreeRoot(hashFn())

	domainType := zrntcommon.BLSDomainType(DomainSyncCommittee)
	var gvr zrntcommon.Root
	copy(gvr[:], genesisValidatorsRoot[:])

	var fv zrntcommon.Version
	copy(fv[:], forkVersion[:])

	domain := zrntcommon.ComputeDomain(domainType, fv, gvr)
	signingRoot := zrntcommon.ComputeSigningRoot(blockRoot, domain)

	var out [32]byte
	copy(out[:], signingRoot[:])
	return out, nil
}

// verifyAggregate aggregates the participating pubkeys selected by bits
// and checks the BLS pairing e(aggPubkey, H(signingRoot)) ==
// e(G1, signature), using gnark-crypto's native (off-circuit) BLS12-381
// implementation — grounded verbatim on verifySyncAggregate in
// types/verify_bls_aggr_test.go.
func verifyAggregate(pubkeys []zrntcommon.BLSPubkey, bits []bool, signature [96]byte, signingRoot [32]byte) error {
	var aggPubkey bls12381.G1Affine
	aggPubkey.SetInfinity()

	count := 0
	for i, participate := range bits {
		if !participate || i >= len(pubkeys) {
			continue
		}
		var pk bls12381.G1Affine
		if _, err := pk.SetBytes(pubkeys[i][:]); err != nil {
			return errInvalidPublicKeys
		}
		aggPubkey.Add(&aggPubkey, &pk)
		count++
	}
	if count == 0 {
		return fmt.Errorf("beacon: no participating public keys")
	}

	var sig bls12381.G2Affine
	if _, err := sig.SetBytes(signature[:]); err != nil {
		return fmt.Errorf("beacon: invalid signature encoding: %w", err)
	}

	messageHash, err := bls12381.HashToG2(signingRoot[:], []byte(syncCommitteeSignatureDST))
	if err != nil {
		return fmt.Errorf("beacon: hash to curve failed: %w", err)
	}

	_, _, g1Gen, _ := bls12381.Generators()
	var negG1 bls12381.G1Affine
	negG1.Neg(&g1Gen)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{aggPubkey, negG1},
		[]bls12381.G2Affine{messageHash, sig},
	)
	if err != nil {
		return fmt.Errorf("beacon: pairing check error: %w", err)
	}
	if !ok {
		return fmt.Errorf("beacon: signature verification failed")
	}
	return nil
}
