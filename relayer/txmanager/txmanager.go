// Package txmanager tracks each in-flight message transfer through a
// durable per-uuid state machine (Received -> ProofComposed ->
// Submitted -> Confirmed|Failed), grounded on the reference relayer's
// eth_to_gear/paid_token_transfers task manager + storage.rs
// (BTreeMap<Uuid, Task> persisted as one JSON file per uuid).
package txmanager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is a transaction's position in the relay pipeline.
type State string

const (
	StateReceived      State = "received"
	StateProofComposed State = "proof_composed"
	StateSubmitted     State = "submitted"
	StateConfirmed     State = "confirmed"
	StateFailed        State = "failed"
)

// validTransitions enumerates the state machine's allowed edges; any
// other transition is rejected by Advance.
var validTransitions = map[State][]State{
	StateReceived:      {StateProofComposed, StateFailed},
	StateProofComposed: {StateSubmitted, StateFailed},
	StateSubmitted:     {StateConfirmed, StateFailed},
	StateConfirmed:     {},
	StateFailed:        {},
}

// Task is one message transfer's durable record.
type Task struct {
	UUID      uuid.UUID `json:"uuid"`
	State     State     `json:"state"`
	GearBlock uint64    `json:"gear_block"`
	UpdatedAt time.Time `json:"updated_at"`
	Error     string    `json:"error,omitempty"`
}

// ErrInvalidTransition reports an attempted state change the machine
// does not allow.
type ErrInvalidTransition struct {
	From, To State
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("txmanager: invalid transition %s -> %s", e.From, e.To)
}

// Manager holds every in-flight task in memory, persisting each change
// to a JSON file per uuid under dir so a crash mid-pipeline can resume
// from the last durable state instead of re-processing from genesis.
type Manager struct {
	dir string

	mu    sync.Mutex
	tasks map[uuid.UUID]*Task
}

// NewManager opens (creating if absent) dir and loads any persisted
// tasks, the way Storage::load_tasks reconstructs its BTreeMap on
// startup.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("txmanager: mkdir: %w", err)
	}

	m := &Manager{dir: dir, tasks: make(map[uuid.UUID]*Task)}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("txmanager: read dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		id, err := uuid.Parse(filepathBase(name))
		if err != nil {
			continue
		}

		data, err := os.ReadFile(filepath.Join(m.dir, name))
		if err != nil {
			return fmt.Errorf("txmanager: read task %s: %w", id, err)
		}
		var task Task
		if err := json.Unmarshal(data, &task); err != nil {
			return fmt.Errorf("txmanager: decode task %s: %w", id, err)
		}
		if task.UUID != id {
			return fmt.Errorf("txmanager: uuid in filename %s does not match task uuid %s", id, task.UUID)
		}
		m.tasks[id] = &task
	}
	return nil
}

func filepathBase(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}

// New starts tracking a fresh task in StateReceived for gearBlock.
func (m *Manager) New(gearBlock uint64) (*Task, error) {
	task := &Task{
		UUID:      uuid.New(),
		State:     StateReceived,
		GearBlock: gearBlock,
		UpdatedAt: now(),
	}

	m.mu.Lock()
	m.tasks[task.UUID] = task
	m.mu.Unlock()

	return task, m.persist(task)
}

// Advance moves id's task to next, validating the transition and
// persisting the new state before returning.
func (m *Manager) Advance(id uuid.UUID, next State, taskErr error) error {
	m.mu.Lock()
	task, ok := m.tasks[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("txmanager: unknown task %s", id)
	}

	allowed := false
	for _, s := range validTransitions[task.State] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		from := task.State
		m.mu.Unlock()
		return &ErrInvalidTransition{From: from, To: next}
	}

	task.State = next
	task.UpdatedAt = now()
	if taskErr != nil {
		task.Error = taskErr.Error()
	}
	snapshot := *task
	m.mu.Unlock()

	return m.persist(&snapshot)
}

// Get returns a copy of id's current task state.
func (m *Manager) Get(id uuid.UUID) (Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// Pending returns every task not yet in a terminal state, for resuming
// after a restart.
func (m *Manager) Pending() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Task
	for _, task := range m.tasks {
		if task.State != StateConfirmed && task.State != StateFailed {
			out = append(out, *task)
		}
	}
	return out
}

func (m *Manager) persist(task *Task) error {
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("txmanager: marshal task %s: %w", task.UUID, err)
	}

	path := filepath.Join(m.dir, task.UUID.String()+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("txmanager: write task %s: %w", task.UUID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("txmanager: rename task %s: %w", task.UUID, err)
	}
	return nil
}

// now is overridable in tests; production code always uses time.Now.
var now = time.Now
