package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
	"github.com/consensys/gnark/std/signature/eddsa"
)

// BlockFinalityCircuit composes a ValidatorSignsChainCircuit's
// supermajority signature check with the decoded GRANDPA vote fields,
// asserting the vote's block hash and authority-set id match the
// circuit's public commitments. This is the GRANDPA-side analogue of
// Eth2ScUpdateCircuit folding signature verification and Merkle-proof
// verification into one statement.
type BlockFinalityCircuit struct {
	ValidatorSet       [MaxValidatorSetSize]eddsa.PublicKey
	ValidatorSetLength frontend.Variable

	Signers      [MaxValidatorSigners]eddsa.PublicKey
	Indices      [MaxValidatorSigners]frontend.Variable
	Signatures   [MaxValidatorSigners]eddsa.Signature
	Participates [MaxValidatorSigners]frontend.Variable

	// VoteMessage is the GRANDPA precommit as a single field element,
	// the form SingleValidatorSignCircuit takes its Message input in.
	// BN254's scalar field is about 254 bits wide, so one element holds
	// at most 31 whole bytes of the 53-byte vote; this circuit does not
	// split the vote across several elements.
	VoteMessage frontend.Variable

	BlockHash       [32]uints.U8      `gnark:",public"`
	AuthoritySetID  frontend.Variable `gnark:",public"`
	ValidatorSetHash frontend.Variable `gnark:",public"`

	// DecodedBlockHash/DecodedAuthoritySetID are the vote fields as
	// parsed out of VoteMessage by the witness builder. Define asserts
	// they equal BlockHash/AuthoritySetID; it does not re-derive them
	// from VoteMessage, so no constraint ties VoteMessage's contents to
	// BlockHash or AuthoritySetID.
	DecodedBlockHash      [32]uints.U8
	DecodedAuthoritySetID frontend.Variable
}

func (c *BlockFinalityCircuit) Define(api frontend.API) error {
	chain := ValidatorSignsChainCircuit{
		ValidatorSet:       c.ValidatorSet,
		ValidatorSetLength: c.ValidatorSetLength,
		ValidatorSetHash:   c.ValidatorSetHash,
		Signers:            c.Signers,
		Indices:            c.Indices,
		Signatures:         c.Signatures,
		Participates:       c.Participates,
		Message:            c.VoteMessage,
	}
	if err := chain.Define(api); err != nil {
		return err
	}

	for i := range c.BlockHash {
		api.AssertIsEqual(c.BlockHash[i].Val, c.DecodedBlockHash[i].Val)
	}
	api.AssertIsEqual(c.AuthoritySetID, c.DecodedAuthoritySetID)

	return nil
}
