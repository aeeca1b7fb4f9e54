package circuit

import (
	"crypto/sha256"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/std/math/uints"
	gnark_test "github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
)

// hashValidatorSet reproduces ValidatorSetHashCircuit's Define exactly:
// every slot is written to the hasher, slots at or past length zeroed
// out first.
func hashValidatorSet(keys [MaxValidatorSetSize][32]byte, length int) [32]byte {
	h := sha256.New()
	for i := 0; i < MaxValidatorSetSize; i++ {
		if i < length {
			h.Write(keys[i][:])
		} else {
			h.Write(make([]byte, 32))
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func toU8Keys(keys [MaxValidatorSetSize][32]byte) [MaxValidatorSetSize][32]uints.U8 {
	var out [MaxValidatorSetSize][32]uints.U8
	for i := range keys {
		for j := range keys[i] {
			out[i][j] = uints.NewU8(keys[i][j])
		}
	}
	return out
}

func toU8Digest(digest [32]byte) [32]uints.U8 {
	var out [32]uints.U8
	for i := range digest {
		out[i] = uints.NewU8(digest[i])
	}
	return out
}

func TestValidatorSetHashCircuit_IsSolved(t *testing.T) {
	var keys [MaxValidatorSetSize][32]byte
	keys[0] = [32]byte{0x01}
	keys[1] = [32]byte{0x02}
	keys[2] = [32]byte{0x03}
	length := 3

	digest := hashValidatorSet(keys, length)

	assignment := &ValidatorSetHashCircuit{
		ValidatorSet:       toU8Keys(keys),
		ValidatorSetLength: length,
		Hash:               toU8Digest(digest),
	}

	assert := gnark_test.NewAssert(t)
	err := gnark_test.IsSolved(&ValidatorSetHashCircuit{}, assignment, ecc.BN254.ScalarField())
	assert.NoError(err, "the correctly computed digest over the first ValidatorSetLength keys should satisfy the circuit")
}

func TestValidatorSetHashCircuit_RejectsWrongLength(t *testing.T) {
	var keys [MaxValidatorSetSize][32]byte
	keys[0] = [32]byte{0x01}
	keys[1] = [32]byte{0x02}
	keys[2] = [32]byte{0x03}

	digest := hashValidatorSet(keys, 3)

	assignment := &ValidatorSetHashCircuit{
		ValidatorSet:       toU8Keys(keys),
		ValidatorSetLength: 2, // claims only the first two keys are included
		Hash:               toU8Digest(digest),
	}

	err := gnark_test.IsSolved(&ValidatorSetHashCircuit{}, assignment, ecc.BN254.ScalarField())
	require.Error(t, err, "a digest computed over a different length than claimed must not satisfy the circuit")
}
