package circuit

import (
	"crypto/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	eddsacrypto "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/consensys/gnark-crypto/hash"
	"github.com/consensys/gnark/frontend"
	tedwards "github.com/consensys/gnark/std/algebra/native/twistededwards"
	eddsagadget "github.com/consensys/gnark/std/signature/eddsa"
	gnark_test "github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
)

// newSignedVote generates an off-circuit EdDSA key and signs msg with
// the MiMC-BN254 hash the circuit's mimc.NewMiMC gadget uses, mirroring
// how a GRANDPA authority's signing key would produce a vote signature
// in this codebase's Ed25519-substitute scheme.
func newSignedVote(t *testing.T, msg []byte) (eddsacrypto.PublicKey, eddsacrypto.Signature) {
	t.Helper()
	priv, err := eddsacrypto.GenerateKey(rand.Reader)
	require.NoError(t, err)

	sig, err := priv.Sign(msg, hash.MIMC_BN254.New())
	require.NoError(t, err)

	return priv.PublicKey, sig
}

func TestSingleValidatorSignCircuit_IsSolved(t *testing.T) {
	msg := make([]byte, 32)
	msg[0] = 0x42

	pub, sig := newSignedVote(t, msg)

	var witnessPub eddsagadget.PublicKey
	witnessPub.Assign(tedwards.BN254, pub.Bytes())

	var witnessSig eddsagadget.Signature
	witnessSig.Assign(tedwards.BN254, sig)

	assignment := &SingleValidatorSignCircuit{
		PublicKey: witnessPub,
		Signature: witnessSig,
		Message:   frontend.Variable(msg),
	}

	assert := gnark_test.NewAssert(t)
	err := gnark_test.IsSolved(&SingleValidatorSignCircuit{}, assignment, ecc.BN254.ScalarField())
	assert.NoError(err, "a genuinely signed vote should satisfy the circuit")
}

func TestSingleValidatorSignCircuit_RejectsWrongMessage(t *testing.T) {
	msg := make([]byte, 32)
	msg[0] = 0x42
	wrongMsg := make([]byte, 32)
	wrongMsg[0] = 0x43

	pub, sig := newSignedVote(t, msg)

	var witnessPub eddsagadget.PublicKey
	witnessPub.Assign(tedwards.BN254, pub.Bytes())

	var witnessSig eddsagadget.Signature
	witnessSig.Assign(tedwards.BN254, sig)

	assignment := &SingleValidatorSignCircuit{
		PublicKey: witnessPub,
		Signature: witnessSig,
		Message:   frontend.Variable(wrongMsg),
	}

	err := gnark_test.IsSolved(&SingleValidatorSignCircuit{}, assignment, ecc.BN254.ScalarField())
	require.Error(t, err, "a signature over a different message must not satisfy the circuit")
}
