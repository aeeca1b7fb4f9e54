// Command setup compiles FinalProofCircuit (the single statement
// submitted to Chain-E) and runs its Groth16 trusted setup, exporting a
// Solidity verifier for the final wrapper only — per the requirement
// that only the final composed statement needs to be "compact enough
// for on-chain verification." Generalizes the teacher's
// SetupCircuit/CreateSolidity pair, which compiled exactly one hardcoded
// circuit, to circuits.Compile/CompileOuter's generic pipeline.
package main

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/solidity"
	circuits "github.com/gear-bridges/zk-relay/circuits"
)

const rootDir = "."

func main() {
	compiled, err := SetupCircuit()
	if err != nil {
		println("error", err)
		return
	}

	if err := CreateSolidity(compiled.VK); err != nil {
		println("error", err)
	}
}

// SetupCircuit compiles circuits.FinalProofCircuit for BN254 and runs
// Groth16's trusted setup, persisting the constraint system and both
// keys under .build the way the teacher persisted its own circuit's
// setup artifacts.
func SetupCircuit() (*circuits.CompiledCircuit, error) {
	println("🕧 Compile FinalProofCircuit...")
	compiled, err := circuits.Compile(&circuits.FinalProofCircuit{})
	if err != nil {
		return nil, err
	}
	println("constraints:", compiled.CCS.GetNbConstraints(), "public inputs:", compiled.CCS.GetNbPublicVariables())
	println("✅ Compile complete")

	if err := persist(compiled, "FinalProofCircuit"); err != nil {
		return nil, err
	}
	println("✅ Setup complete")

	return compiled, nil
}

func persist(compiled *circuits.CompiledCircuit, name string) error {
	ccsPath := filepath.Join(rootDir, ".build", name+".ccs")
	pkPath := filepath.Join(rootDir, ".build", name+".pk")
	vkPath := filepath.Join(rootDir, ".build", name+".vk")

	if err := os.MkdirAll(filepath.Dir(ccsPath), 0o755); err != nil {
		return err
	}

	fccs, err := os.Create(ccsPath)
	if err != nil {
		return err
	}
	defer fccs.Close()
	if _, err := compiled.CCS.WriteTo(fccs); err != nil {
		return err
	}

	fpk, err := os.Create(pkPath)
	if err != nil {
		return err
	}
	defer fpk.Close()
	if _, err := compiled.PK.WriteTo(fpk); err != nil {
		return err
	}

	fvk, err := os.Create(vkPath)
	if err != nil {
		return err
	}
	defer fvk.Close()
	if _, err := compiled.VK.WriteTo(fvk); err != nil {
		return err
	}

	return nil
}

func CreateSolidity(vk groth16.VerifyingKey) error {
	path := "verifiers/eth2/contracts/FinalProofVerifier.sol"

	var buf bytes.Buffer
	if err := vk.ExportSolidity(&buf, solidity.WithHashToFieldFunction(sha256.New())); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}

	println("✅ Solidity verifier generate to", path)
	return nil
}
