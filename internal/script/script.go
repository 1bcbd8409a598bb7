// Package script contains the automation scripts driven by the event bus.
// Each script is an explicitly constructed instance; scripts share no state.
package script

import (
	"sync"

	"github.com/udisondev/togglebot/internal/event"
)

// Script subscribes its handlers to a bus.
type Script interface {
	Name() string
	Register(bus *event.Bus)
}

// ThresholdSource supplies the operator-configured threshold, read once per tick.
type ThresholdSource interface {
	Value() float64
}

// Slider is an operator-editable numeric setting clamped to [Min, Max].
type Slider struct {
	mu    sync.RWMutex
	value float64
	min   float64
	max   float64
}

// NewSlider creates a slider. value is clamped into [lo, hi].
func NewSlider(value, lo, hi float64) *Slider {
	if lo > hi {
		lo, hi = hi, lo
	}
	s := &Slider{min: lo, max: hi}
	s.Set(value)
	return s
}

// Set updates the value, clamped into range.
func (s *Slider) Set(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = max(s.min, min(s.max, v))
}

// Value implements ThresholdSource.
func (s *Slider) Value() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}
