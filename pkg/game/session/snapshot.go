package session

import (
	"toiletclicker/pkg/engine/pool"
	"toiletclicker/pkg/engine/track"
	"toiletclicker/pkg/game/config"
	"toiletclicker/pkg/game/upgrades"
)

// TrackView is a read-only copy of a track for display.
type TrackView struct {
	Label         string
	Value         float64
	Max           float64
	Warn          float64
	Critical      float64
	State         track.State
	OverloadTimer float64
	Grace         float64
}

type SlotView struct {
	Index    int
	Item     pool.ItemID
	Name     string
	Healthy  bool
	Consumed bool
	Position float64
}

type ActiveUpgrade struct {
	Type      upgrades.Type
	Name      string
	Remaining float64
}

// Snapshot is everything a front end needs to draw one frame.
type Snapshot struct {
	Variant   string
	Labels    config.Labels
	Primary   TrackView
	Secondary TrackView

	Coins           int
	XP              int
	ClickMultiplier float64

	Slots       []SlotView // nearest to the boundary first
	Boundary    float64
	ScrollSpeed float64

	Upgrades       []ActiveUpgrade
	BoostRemaining float64
	BoostReady     bool

	TrapRemaining float64 // zero when no mystery button is showing
	TrapDelta     int

	Paused        bool
	Over          Reason
	Elapsed       float64
	Clicks        int
	Consumed      int
	BestSecondary float64
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Variant:         s.cfg.Variant,
		Labels:          s.cfg.Labels,
		Primary:         viewTrack(s.cfg.Labels.Primary, s.primary),
		Secondary:       viewTrack(s.cfg.Labels.Secondary, s.secondary),
		Coins:           s.coins,
		XP:              s.xp,
		ClickMultiplier: s.clickMult,
		Boundary:        s.pool.Boundary(),
		ScrollSpeed:     s.cfg.Pool.ScrollSpeed * s.pool.SpeedFactor(),
		BoostRemaining:  s.boostLeft,
		BoostReady:      s.boostReady,
		TrapRemaining:   s.trapLeft,
		TrapDelta:       s.trapDelta,
		Paused:          s.paused,
		Over:            s.over,
		Elapsed:         s.elapsed,
		Clicks:          s.clicks,
		Consumed:        s.consumed,
		BestSecondary:   s.best,
	}
	for _, sl := range s.pool.Slots() {
		v := SlotView{
			Index:    sl.Index,
			Item:     sl.Content,
			Consumed: sl.Consumed,
			Position: sl.Position,
			Healthy:  s.catalog.IsHealthy(sl.Content),
		}
		if it, ok := s.catalog.Get(sl.Content); ok {
			v.Name = it.Name
		}
		snap.Slots = append(snap.Slots, v)
	}
	for _, t := range s.upgrades.Active() {
		snap.Upgrades = append(snap.Upgrades, ActiveUpgrade{
			Type:      t,
			Name:      s.upgradeName(t),
			Remaining: s.upgrades.Remaining(t),
		})
	}
	return snap
}

func viewTrack(label string, t *track.Track) TrackView {
	p := t.Params()
	return TrackView{
		Label:         label,
		Value:         t.Value(),
		Max:           p.Max,
		Warn:          p.WarnThreshold,
		Critical:      p.CriticalThreshold,
		State:         t.State(),
		OverloadTimer: t.OverloadTimer(),
		Grace:         p.GraceSeconds,
	}
}
