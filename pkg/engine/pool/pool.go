// Package pool implements the scrolling conveyor of content slots: a fixed ring
// of slots that looks endless because every slot passing the consumption
// boundary is refilled and moved to the back of the ring.
package pool

import (
	"errors"
	"fmt"
	"math"

	"toiletclicker/pkg/engine/effects"
)

// ItemID identifies the content of a slot.
type ItemID string

// ErrSlotAlreadyConsumed is returned when a slot reference points at content
// that has already been consumed. Callers should query NearestSlot again.
var ErrSlotAlreadyConsumed = errors.New("pool: slot already consumed")

// ErrBadSlotRef is returned for references that never came from this pool.
var ErrBadSlotRef = errors.New("pool: slot reference out of range")

// ConfigError reports invalid construction parameters.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pool: invalid %s: %s", e.Field, e.Reason)
}

const speedKey effects.Key = "scroll-speed"

// Slot is a read-only view of one slot.
type Slot struct {
	Index    int
	Content  ItemID
	Consumed bool
	Position float64 // leading edge; the slot is recycled once this passes the boundary
}

// SlotRef points at a slot during one of its laps around the ring.
type SlotRef struct {
	Index int
	Cycle uint64
}

type slot struct {
	content  ItemID
	consumed bool
	base     float64 // position at scroll offset 0
	cycle    uint64
}

// Pool is the ring of slots. It is not safe for concurrent use.
type Pool struct {
	slots    []slot
	head     int // slot nearest the boundary
	pitch    float64
	boundary float64
	offset   float64
	source   func() ItemID

	speedFactor float64
	effects     *effects.Registry
}

// New creates capacity slots laid out from boundary outwards, filled from source.
func New(capacity int, pitch, boundary float64, source func() ItemID) (*Pool, error) {
	switch {
	case capacity <= 0:
		return nil, &ConfigError{"capacity", fmt.Sprintf("%d must be positive", capacity)}
	case math.IsNaN(pitch) || pitch <= 0:
		return nil, &ConfigError{"slot_pitch", fmt.Sprintf("%v must be positive", pitch)}
	case math.IsNaN(boundary) || math.IsInf(boundary, 0):
		return nil, &ConfigError{"boundary", "must be finite"}
	case source == nil:
		return nil, &ConfigError{"content_source", "is nil"}
	}

	p := &Pool{
		slots:       make([]slot, capacity),
		pitch:       pitch,
		boundary:    boundary,
		source:      source,
		speedFactor: 1,
		effects:     effects.NewRegistry(),
	}
	for i := range p.slots {
		id := source()
		if id == "" {
			return nil, &ConfigError{"content_source", "returned empty content"}
		}
		p.slots[i] = slot{content: id, base: boundary + float64(i)*pitch}
	}
	return p, nil
}

// Advance scrolls the ring by speed*dt (scaled by any active speed multiplier)
// and recycles every slot that passed the boundary. onConsume is called once for
// each recycled slot whose content was not already consumed.
func (p *Pool) Advance(dt, speed float64, onConsume func(ItemID)) {
	if math.IsNaN(dt) || dt <= 0 || math.IsNaN(speed) || speed <= 0 {
		return
	}
	p.offset += speed * p.speedFactor * dt

	// Positions increase along the ring from head, so the crossed slots are
	// a run starting at head. Count them before moving anything.
	crossed := 0
	for crossed < len(p.slots) {
		s := &p.slots[(p.head+crossed)%len(p.slots)]
		if s.base-p.offset >= p.boundary {
			break
		}
		crossed++
	}

	lap := float64(len(p.slots)) * p.pitch
	for ; crossed > 0; crossed-- {
		s := &p.slots[p.head]
		if !s.consumed {
			if onConsume != nil {
				onConsume(s.content)
			}
			s.consumed = true
		}
		p.refill(s)
		s.base += lap
		s.cycle++
		p.head = (p.head + 1) % len(p.slots)
	}
	p.wrap(lap)
}

// wrap brings slots that are still behind the boundary after a step longer
// than one lap forward by whole laps, without recycling them again, and moves
// head to the slot now nearest the boundary.
func (p *Pool) wrap(lap float64) {
	head, headPos := -1, math.Inf(1)
	for i := range p.slots {
		s := &p.slots[i]
		pos := s.base - p.offset
		if pos < p.boundary {
			s.base += math.Ceil((p.boundary-pos)/lap) * lap
			pos = s.base - p.offset
		}
		if pos < headPos {
			head, headPos = i, pos
		}
	}
	p.head = head
}

func (p *Pool) refill(s *slot) {
	if id := p.source(); id != "" {
		s.content = id
	}
	s.consumed = false
}

// NearestSlot returns the slot closest to the boundary among those matching pred.
// Ties go to the slot that reaches the boundary first.
func (p *Pool) NearestSlot(pred func(Slot) bool) (SlotRef, bool) {
	var (
		best     SlotRef
		bestDist = math.Inf(1)
		found    bool
	)
	for n := 0; n < len(p.slots); n++ {
		i := (p.head + n) % len(p.slots)
		view := p.view(i)
		if pred != nil && !pred(view) {
			continue
		}
		if d := math.Abs(view.Position - p.boundary); d < bestDist {
			best = SlotRef{Index: i, Cycle: p.slots[i].cycle}
			bestDist = d
			found = true
		}
	}
	return best, found
}

// Get returns the current view of the slot ref points at.
func (p *Pool) Get(ref SlotRef) (Slot, error) {
	if ref.Index < 0 || ref.Index >= len(p.slots) {
		return Slot{}, ErrBadSlotRef
	}
	if p.slots[ref.Index].cycle != ref.Cycle {
		return Slot{}, ErrSlotAlreadyConsumed
	}
	return p.view(ref.Index), nil
}

// ReplaceContent overwrites the content of a slot that has not been consumed yet.
func (p *Pool) ReplaceContent(ref SlotRef, id ItemID) error {
	s, err := p.live(ref)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("pool: replace slot %d: empty content", ref.Index)
	}
	s.content = id
	s.consumed = false
	return nil
}

// Consume marks a slot as consumed ahead of the boundary and returns its content.
// The slot is still recycled when it reaches the boundary, without a second consume.
func (p *Pool) Consume(ref SlotRef) (ItemID, error) {
	s, err := p.live(ref)
	if err != nil {
		return "", err
	}
	s.consumed = true
	return s.content, nil
}

func (p *Pool) live(ref SlotRef) (*slot, error) {
	if ref.Index < 0 || ref.Index >= len(p.slots) {
		return nil, ErrBadSlotRef
	}
	s := &p.slots[ref.Index]
	if s.cycle != ref.Cycle || s.consumed {
		return nil, ErrSlotAlreadyConsumed
	}
	return s, nil
}

// SetScrollSpeedMultiplier slows down or speeds up scrolling until RestoreScrollSpeed.
// Repeated calls replace the factor; the restore point stays the unmodified speed.
func (p *Pool) SetScrollSpeedMultiplier(factor float64) {
	if math.IsNaN(factor) || factor < 0 {
		factor = 0
	}
	p.effects.Apply(speedKey, &p.speedFactor, factor)
}

// RestoreScrollSpeed undoes SetScrollSpeedMultiplier. It is safe to call twice.
func (p *Pool) RestoreScrollSpeed() {
	p.effects.Revert(speedKey, &p.speedFactor)
}

func (p *Pool) SpeedFactor() float64 {
	return p.speedFactor
}

// Slots returns the slots in ring order, nearest to the boundary first.
func (p *Pool) Slots() []Slot {
	out := make([]Slot, 0, len(p.slots))
	for n := 0; n < len(p.slots); n++ {
		out = append(out, p.view((p.head+n)%len(p.slots)))
	}
	return out
}

func (p *Pool) view(i int) Slot {
	s := p.slots[i]
	return Slot{
		Index:    i,
		Content:  s.content,
		Consumed: s.consumed,
		Position: s.base - p.offset,
	}
}

func (p *Pool) ScrollOffset() float64 { return p.offset }
func (p *Pool) Capacity() int         { return len(p.slots) }
func (p *Pool) Pitch() float64        { return p.pitch }
func (p *Pool) Boundary() float64     { return p.boundary }
