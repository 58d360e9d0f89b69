// Package track implements the bounded resource meter behind pressure,
// trace detection, weight and firewall: a value that rises on player actions,
// decays over time and fails the run either by hitting its cap or by staying
// in the critical zone for too long.
package track

import (
	"fmt"
	"math"
)

// State is the zone the value currently sits in. It is always derived from the value.
type State int

const (
	Safe State = iota
	Warning
	Critical
)

func (s State) String() string {
	switch s {
	case Safe:
		return "safe"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event is what changed during a single update.
type Event int

const (
	NoChange Event = iota
	EnteredWarning
	EnteredCritical
	ExitedToSafe
	OverloadExpired // sustained overload, reported once per stay in the critical zone
)

func (e Event) String() string {
	switch e {
	case NoChange:
		return "no-change"
	case EnteredWarning:
		return "entered-warning"
	case EnteredCritical:
		return "entered-critical"
	case ExitedToSafe:
		return "exited-to-safe"
	case OverloadExpired:
		return "overload-expired"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Params are the starting parameters of a track.
type Params struct {
	Start             float64 `yaml:"start"`
	Max               float64 `yaml:"max"`
	GainPerAction     float64 `yaml:"gain_per_action"`
	DecayPerSecond    float64 `yaml:"decay_per_second"`
	WarnThreshold     float64 `yaml:"warn_threshold"`
	CriticalThreshold float64 `yaml:"critical_threshold"`
	GraceSeconds      float64 `yaml:"grace_seconds"`
}

// ConfigError reports invalid construction parameters.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("track: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the parameter invariants.
func (p Params) Validate() error {
	switch {
	case math.IsNaN(p.Max) || p.Max <= 0:
		return &ConfigError{"max", "must be positive"}
	case p.Start < 0 || p.Start > p.Max:
		return &ConfigError{"start", fmt.Sprintf("%v outside [0, %v]", p.Start, p.Max)}
	case p.GainPerAction < 0:
		return &ConfigError{"gain_per_action", "must not be negative"}
	case p.DecayPerSecond < 0:
		return &ConfigError{"decay_per_second", "must not be negative"}
	case !(p.WarnThreshold < p.CriticalThreshold):
		return &ConfigError{"warn_threshold", fmt.Sprintf("%v must be below critical threshold %v", p.WarnThreshold, p.CriticalThreshold)}
	case p.CriticalThreshold > p.Max:
		return &ConfigError{"critical_threshold", fmt.Sprintf("%v above max %v", p.CriticalThreshold, p.Max)}
	case p.GraceSeconds < 0:
		return &ConfigError{"grace_seconds", "must not be negative"}
	}
	return nil
}

// ActionResult is returned by discrete changes (clicks, item impacts).
type ActionResult struct {
	State    State
	Event    Event
	HardCap  bool // value reached Max
	Depleted bool // a negative change drove the value to 0
}

// Track is a single bounded meter. It is not safe for concurrent use.
type Track struct {
	params Params

	value float64
	gain  float64
	decay float64
	state State

	overloadTimer float64
	expired       bool
	// alarmed latches on entering Critical and clears only when the value
	// falls below the warning threshold.
	alarmed bool
}

// New creates a track from p.
func New(p Params) (*Track, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	t := &Track{params: p}
	t.Reset()
	return t, nil
}

// Reset returns the track to its starting value and configured rates.
func (t *Track) Reset() {
	t.value = t.params.Start
	t.gain = t.params.GainPerAction
	t.decay = t.params.DecayPerSecond
	t.state = t.classify(t.value)
	t.alarmed = t.state == Critical
	t.overloadTimer = 0
	t.expired = false
}

// OnAction applies one player action worth of gain.
func (t *Track) OnAction() ActionResult {
	return t.Add(t.gain)
}

// Add changes the value by delta, clamped to [0, Max].
func (t *Track) Add(delta float64) ActionResult {
	if math.IsNaN(delta) {
		delta = 0
	}
	t.value = t.clamp(t.value + delta)
	ev := t.transition()
	return ActionResult{
		State:    t.state,
		Event:    ev,
		HardCap:  t.value >= t.params.Max,
		Depleted: delta < 0 && t.value <= 0,
	}
}

// Advance decays the value by dt seconds and runs the overload timer.
func (t *Track) Advance(dt float64) Event {
	if math.IsNaN(dt) || dt < 0 {
		dt = 0
	}
	if t.value > 0 {
		t.value = t.clamp(t.value - t.decay*dt)
	}
	ev := t.transition()
	if t.state != Critical {
		return ev
	}
	t.overloadTimer += dt
	if !t.expired && t.overloadTimer >= t.params.GraceSeconds {
		t.expired = true
		return OverloadExpired
	}
	return ev
}

// SetRates swaps the active gain and decay rates.
func (t *Track) SetRates(gain, decay float64) {
	t.gain = math.Max(gain, 0)
	t.decay = math.Max(decay, 0)
}

// Rates returns the active gain and decay rates.
func (t *Track) Rates() (gain, decay float64) {
	return t.gain, t.decay
}

func (t *Track) Value() float64 {
	return t.value
}

func (t *Track) State() State {
	return t.state
}

// OverloadTimer returns the seconds spent in the critical zone so far.
func (t *Track) OverloadTimer() float64 {
	return t.overloadTimer
}

func (t *Track) Params() Params {
	return t.params
}

// Fraction returns the value as a share of Max, for meters.
func (t *Track) Fraction() float64 {
	return t.value / t.params.Max
}

func (t *Track) clamp(v float64) float64 {
	return max(0, min(v, t.params.Max))
}

func (t *Track) classify(v float64) State {
	switch {
	case v >= t.params.CriticalThreshold:
		return Critical
	case v >= t.params.WarnThreshold:
		return Warning
	}
	return Safe
}

// transition recomputes the state and reports the change.
func (t *Track) transition() Event {
	prev := t.state
	t.state = t.classify(t.value)
	if t.state != Critical {
		t.overloadTimer = 0
		t.expired = false
	}

	switch t.state {
	case Critical:
		if !t.alarmed {
			t.alarmed = true
			return EnteredCritical
		}
	case Warning:
		if prev == Safe && !t.alarmed {
			return EnteredWarning
		}
	case Safe:
		if prev != Safe {
			t.alarmed = false
			return ExitedToSafe
		}
	}
	return NoChange
}
