// Package upgrades tracks purchased power-ups and their timers. What an
// upgrade actually does is left to an Effector supplied by the caller.
package upgrades

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

type Type int

const (
	DoubleTap  Type = iota // click multiplier x2
	MegaTap                // click multiplier x5
	Purge                  // instant drop of the secondary track
	Swap                   // replace the nearest junk slots with healthy items
	Freeze                 // slow the conveyor
	AutoTap                // automatic clicks
	Boost                  // multiply relief of healthy items
	Lighten                // override density and risk of junk items
	RapidDecay             // faster primary decay
	Brake                  // smaller primary gain per click
	Drain                  // bigger secondary drain per click
)

var typeNames = [...]string{
	DoubleTap:  "double-tap",
	MegaTap:    "mega-tap",
	Purge:      "purge",
	Swap:       "swap",
	Freeze:     "freeze",
	AutoTap:    "auto-tap",
	Boost:      "boost",
	Lighten:    "lighten",
	RapidDecay: "rapid-decay",
	Brake:      "brake",
	Drain:      "drain",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType accepts the names printed by String.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUpgrade, s)
}

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// All returns every upgrade type.
func All() []Type {
	out := make([]Type, len(typeNames))
	for i := range typeNames {
		out[i] = Type(i)
	}
	return out
}

// Upgrade is the shop definition of an upgrade.
type Upgrade struct {
	Type     Type    `yaml:"type"`
	Name     string  `yaml:"name"`
	Price    int     `yaml:"price"`
	Duration float64 `yaml:"duration"` // seconds; ignored for instant upgrades
	Instant  bool    `yaml:"instant"`
}

var (
	ErrUnknownUpgrade = errors.New("unknown upgrade")
	ErrNotEnoughXP    = errors.New("not enough xp")
)

// Effector applies and removes upgrade effects on the game.
type Effector interface {
	ApplyUpgrade(t Type)
	RemoveUpgrade(t Type)
}

// Manager sells upgrades and runs the timers of the timed ones.
type Manager struct {
	defs     map[Type]Upgrade
	order    []Type // by price, cheapest first
	active   mapset.Set[Type]
	timers   map[Type]float64
	effector Effector
}

// NewManager validates defs and returns a manager driving effector.
func NewManager(defs []Upgrade, effector Effector) (*Manager, error) {
	if effector == nil {
		return nil, errors.New("upgrades: nil effector")
	}
	m := &Manager{
		defs:     make(map[Type]Upgrade, len(defs)),
		active:   mapset.New[Type](),
		timers:   make(map[Type]float64),
		effector: effector,
	}
	for _, d := range defs {
		if d.Type < 0 || int(d.Type) >= len(typeNames) {
			return nil, fmt.Errorf("upgrades: %w: %d", ErrUnknownUpgrade, int(d.Type))
		}
		if _, dup := m.defs[d.Type]; dup {
			return nil, fmt.Errorf("upgrades: duplicate definition for %s", d.Type)
		}
		if d.Price < 0 {
			return nil, fmt.Errorf("upgrades: %s has negative price", d.Type)
		}
		if !d.Instant && d.Duration <= 0 {
			return nil, fmt.Errorf("upgrades: timed upgrade %s needs a positive duration", d.Type)
		}
		m.defs[d.Type] = d
		m.order = append(m.order, d.Type)
	}
	sort.SliceStable(m.order, func(i, j int) bool {
		return m.defs[m.order[i]].Price < m.defs[m.order[j]].Price
	})
	return m, nil
}

// Definitions returns the shop listing, cheapest first.
func (m *Manager) Definitions() []Upgrade {
	out := make([]Upgrade, 0, len(m.order))
	for _, t := range m.order {
		out = append(out, m.defs[t])
	}
	return out
}

func (m *Manager) Get(t Type) (Upgrade, bool) {
	d, ok := m.defs[t]
	return d, ok
}

// Purchase applies upgrade t if xp covers its price and returns the price.
// Buying a timed upgrade that is already running restarts its timer.
func (m *Manager) Purchase(t Type, xp int) (int, error) {
	d, ok := m.defs[t]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownUpgrade, t)
	}
	if xp < d.Price {
		return 0, fmt.Errorf("%w: %s costs %d, have %d", ErrNotEnoughXP, t, d.Price, xp)
	}

	m.effector.ApplyUpgrade(t)
	if !d.Instant {
		m.active.Put(t)
		m.timers[t] = d.Duration
	}
	return d.Price, nil
}

// Advance runs the timers by dt seconds, removes the effects of upgrades whose
// time ran out and returns them.
func (m *Manager) Advance(dt float64) []Type {
	if dt <= 0 || m.active.Size() == 0 {
		return nil
	}
	var expired []Type
	for _, t := range m.order {
		if !m.active.Has(t) {
			continue
		}
		m.timers[t] -= dt
		if m.timers[t] <= 0 {
			m.stop(t)
			expired = append(expired, t)
		}
	}
	return expired
}

// ResetAll stops every running upgrade and returns the ones it stopped.
func (m *Manager) ResetAll() []Type {
	stopped := m.Active()
	for _, t := range stopped {
		m.stop(t)
	}
	return stopped
}

func (m *Manager) stop(t Type) {
	m.active.Remove(t)
	delete(m.timers, t)
	m.effector.RemoveUpgrade(t)
}

// Active returns the running timed upgrades in shop order.
func (m *Manager) Active() []Type {
	var out []Type
	for _, t := range m.order {
		if m.active.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (m *Manager) IsActive(t Type) bool {
	return m.active.Has(t)
}

// Remaining returns the seconds left on a running upgrade, or 0.
func (m *Manager) Remaining(t Type) float64 {
	return m.timers[t]
}
