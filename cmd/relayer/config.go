package main

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the relayer's env/flag-derived configuration, the same
// "env default, flag override" pattern as the teacher's
// provers/types/config.go, generalized past a single beacon RPC
// endpoint to both chain legs plus the durable-state directories every
// subcommand needs.
type Config struct {
	RootDir string

	ChainGEndpoint string
	ChainEEndpoint string

	InitPeriod     uint64
	InitAuthoritySetID uint64
	Slot           uint64

	ProofStoreDir string
	TaskStoreDir  string
}

// NewConfig parses args (conventionally os.Args[1:]) over env-sourced
// defaults.
func NewConfig(args ...string) *Config {
	cfg := Config{
		RootDir:        getEnv("ROOT", "."),
		ChainGEndpoint: getEnv("CHAIN_G_ENDPOINT", "wss://rpc.vara-network.io"),
		ChainEEndpoint: getEnv("CHAIN_E_ENDPOINT", "https://ethereum-rpc.publicnode.com"),
		ProofStoreDir:  getEnv("PROOF_STORE_DIR", "./.build/proofs"),
		TaskStoreDir:   getEnv("TASK_STORE_DIR", "./.build/tasks"),
	}

	for i := 0; i < len(args); i++ {
		if len(args) <= i+1 {
			panic(fmt.Errorf("missing argument for %s", args[i]))
		}

		switch args[i] {
		case "--slot":
			cfg.Slot, _ = strconv.ParseUint(args[i+1], 10, 64)
			i++
		case "--root":
			cfg.RootDir = args[i+1]
			i++
		case "--init-period":
			cfg.InitPeriod, _ = strconv.ParseUint(args[i+1], 10, 64)
			i++
		case "--init-authority-set-id":
			cfg.InitAuthoritySetID, _ = strconv.ParseUint(args[i+1], 10, 64)
			i++
		case "--chain-g":
			cfg.ChainGEndpoint = args[i+1]
			i++
		case "--chain-e":
			cfg.ChainEEndpoint = args[i+1]
			i++
		case "--proof-store":
			cfg.ProofStoreDir = args[i+1]
			i++
		case "--task-store":
			cfg.TaskStoreDir = args[i+1]
			i++
		}
	}

	return &cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
