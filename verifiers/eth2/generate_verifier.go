// Command generate_verifier regenerates the Solidity verifier straight
// from a persisted FinalProofCircuit.vk, for cases where only the
// verifying key (not the full proving key/constraint system) is on
// hand — e.g. distributing a new verifier to Chain-E governance
// without redistributing the prover's setup artifacts.
package main

import (
	"bytes"
	"crypto/sha256"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/solidity"
)

func main() {
	vkFile, err := os.Open("../../.build/FinalProofCircuit.vk")
	if err != nil {
		panic(err)
	}
	defer vkFile.Close()

	vk := groth16.NewVerifyingKey(ecc.BN254)
	_, err = vk.ReadFrom(vkFile)
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll("contracts", 0755); err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	err = vk.ExportSolidity(&buf, solidity.WithHashToFieldFunction(sha256.New()))
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("contracts/FinalProofVerifier.sol", buf.Bytes(), 0644)
	if err != nil {
		panic(err)
	}

	println("✅ Solidity verifier generated: contracts/FinalProofVerifier.sol")
}
