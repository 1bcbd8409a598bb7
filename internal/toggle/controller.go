package toggle

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when the metric or the threshold is NaN or infinite.
var ErrInvalidInput = errors.New("invalid input")

// Action is the decision produced by a single evaluation.
type Action int32

const (
	// ActionNone - nothing to do, state unchanged
	ActionNone Action = iota
	// ActionActivate - metric dropped to or below the threshold
	ActionActivate
	// ActionDeactivate - metric rose above the threshold
	ActionDeactivate
)

// String returns human-readable action name
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "NONE"
	case ActionActivate:
		return "ACTIVATE"
	case ActionDeactivate:
		return "DEACTIVATE"
	default:
		return "UNKNOWN"
	}
}

// Controller turns a sampled metric into at most one Activate or Deactivate
// per edge. The activate side of the boundary is inclusive.
//
// Active reports the last requested state, not the confirmed external one.
// Controller is not safe for concurrent use; one tick loop owns it.
type Controller struct {
	active bool
}

// NewController creates an inactive controller.
func NewController() *Controller {
	return &Controller{}
}

// Evaluate compares metric against threshold and returns the action the
// caller must perform. On error the state is left untouched.
func (c *Controller) Evaluate(metric, threshold float64) (Action, error) {
	if !isFinite(metric) {
		return ActionNone, fmt.Errorf("metric %v: %w", metric, ErrInvalidInput)
	}
	if !isFinite(threshold) {
		return ActionNone, fmt.Errorf("threshold %v: %w", threshold, ErrInvalidInput)
	}

	switch {
	case metric <= threshold && !c.active:
		c.active = true
		return ActionActivate, nil
	case metric > threshold && c.active:
		c.active = false
		return ActionDeactivate, nil
	default:
		return ActionNone, nil
	}
}

// Reset forces the inactive state without emitting an action.
func (c *Controller) Reset() {
	c.active = false
}

// Active returns the current logical state.
func (c *Controller) Active() bool {
	return c.active
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
