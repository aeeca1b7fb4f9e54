// Package gear2eth composes the GRANDPA ZK proofs the relayer submits
// to Chain-E for the Gear-to-Ethereum leg of the bridge, generalizing
// the teacher's Relayer.Run/generateProof period loop from "one beacon
// sync-committee update per period" to "one FinalProofCircuit proof
// per outbound message, folded against the current authority-set proof
// chain."
package gear2eth

import (
	"context"
	"fmt"

	circuits "github.com/gear-bridges/zk-relay/circuits"
	"github.com/gear-bridges/zk-relay/proofstore"
	"github.com/gear-bridges/zk-relay/relayer/txmanager"
	"github.com/rs/zerolog/log"
)

// MessageEvidence is everything the composer needs, gathered by the
// accumulator/gear listeners upstream, to build one
// circuit.FinalProofCircuit witness: the finalized block's GRANDPA
// justification, the storage inclusion proof for the outbound message,
// and the authority-set id that signed finalization.
type MessageEvidence struct {
	TaskUUID       string
	AuthoritySetID uint64
	Assignment     *circuits.FinalProofCircuit
}

// ComposedProof is a finished Groth16 proof ready for submission.
// compose fills MessageContents with the %v text of each assigned
// MessageContents word and leaves BlockNumber zero.
type ComposedProof struct {
	TaskUUID        string
	MessageContents [circuits.MessageContentsWords][]byte
	BlockNumber     uint64
	ProofSolidity   []byte
}

// Composer holds the compiled FinalProofCircuit and drives proving for
// each MessageEvidence it receives. It also holds a proof store and a
// txmanager.Manager, but compose uses neither: it does not advance any
// task's state.
type Composer struct {
	compiled *circuits.CompiledCircuit
	proofs   proofstore.ProofStorage
	tasks    *txmanager.Manager
}

// NewComposer wires a compiled FinalProofCircuit, a proof store for
// the authority-set chain, and a task manager into a Composer.
func NewComposer(compiled *circuits.CompiledCircuit, proofs proofstore.ProofStorage, tasks *txmanager.Manager) *Composer {
	return &Composer{compiled: compiled, proofs: proofs, tasks: tasks}
}

// Run consumes MessageEvidence and emits ComposedProof for each
// witness that proves successfully; it returns when ctx is cancelled
// or evidence closes.
func (c *Composer) Run(ctx context.Context, evidence <-chan MessageEvidence) <-chan ComposedProof {
	out := make(chan ComposedProof, 16)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-evidence:
				if !ok {
					return
				}

				proof, err := c.compose(ev)
				if err != nil {
					log.Error().Err(err).Str("task", ev.TaskUUID).Msg("gear2eth composer: proof generation failed")
					continue
				}

				select {
				case out <- *proof:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (c *Composer) compose(ev MessageEvidence) (*ComposedProof, error) {
	log.Info().Str("task", ev.TaskUUID).Uint64("authority_set_id", ev.AuthoritySetID).Msg("generating proof")

	proof, _, err := circuits.Prove(c.compiled, ev.Assignment)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	solidityProof, ok := proof.(interface{ MarshalSolidity() []byte })
	if !ok {
		return nil, fmt.Errorf("compose: proof does not implement MarshalSolidity()")
	}

	var contents [circuits.MessageContentsWords][]byte
	for i, v := range ev.Assignment.MessageContents {
		contents[i] = []byte(fmt.Sprintf("%v", v))
	}

	return &ComposedProof{
		TaskUUID:        ev.TaskUUID,
		MessageContents: contents,
		ProofSolidity:   solidityProof.MarshalSolidity(),
	}, nil
}
