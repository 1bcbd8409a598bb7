// Package journal records toggle transitions emitted by scripts.
package journal

import (
	"context"
	"sync"
	"time"

	"github.com/udisondev/togglebot/internal/toggle"
)

// Transition is one emitted Activate or Deactivate.
type Transition struct {
	SessionID string
	Script    string
	Action    toggle.Action
	Metric    float64
	Threshold float64
	At        time.Time
}

// Recorder persists transitions.
type Recorder interface {
	Record(ctx context.Context, tr Transition) error
}

// Discard drops every transition.
type Discard struct{}

// Record implements Recorder.
func (Discard) Record(context.Context, Transition) error { return nil }

// Memory keeps transitions in process memory.
type Memory struct {
	mu          sync.Mutex
	transitions []Transition
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

// Record implements Recorder.
func (m *Memory) Record(_ context.Context, tr Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, tr)
	return nil
}

// Transitions returns a copy of recorded transitions in insertion order.
func (m *Memory) Transitions() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Transition, len(m.transitions))
	copy(out, m.transitions)
	return out
}
