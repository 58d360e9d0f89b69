// Package session runs one game: it feeds clicks and elapsed time into the
// two resource tracks and the conveyor, sells items and upgrades, and decides
// when the run is over.
package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"

	"toiletclicker/pkg/engine/effects"
	"toiletclicker/pkg/engine/pool"
	"toiletclicker/pkg/engine/track"
	"toiletclicker/pkg/game/catalog"
	"toiletclicker/pkg/game/config"
	"toiletclicker/pkg/game/upgrades"
)

var (
	ErrGameOver         = errors.New("game is over")
	ErrPaused           = errors.New("game is paused")
	ErrUnknownItem      = errors.New("unknown item")
	ErrNotPurchasable   = errors.New("item is not for sale")
	ErrNotEnoughCoins   = errors.New("not enough coins")
	ErrNoJunkSlot       = errors.New("no junk slot to replace")
	ErrBoostUnavailable = errors.New("boost is not available")
	ErrNoTrap           = errors.New("no mystery button to press")
)

// Reason says why a run ended.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonPrimaryOverload
	ReasonPrimaryCap
	ReasonSecondaryOverload
	ReasonSecondaryCap
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonPrimaryOverload:
		return "primary-overload"
	case ReasonPrimaryCap:
		return "primary-cap"
	case ReasonSecondaryOverload:
		return "secondary-overload"
	case ReasonSecondaryCap:
		return "secondary-cap"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Key is the translation key of the game over text.
func (r Reason) Key() string {
	switch r {
	case ReasonPrimaryOverload:
		return "GAME_OVER_PRIMARY_OVERLOAD"
	case ReasonPrimaryCap:
		return "GAME_OVER_PRIMARY_CAP"
	case ReasonSecondaryOverload:
		return "GAME_OVER_SECONDARY_OVERLOAD"
	case ReasonSecondaryCap:
		return "GAME_OVER_SECONDARY_CAP"
	}
	return ""
}

// Notice is a message for the player. Key is a translation key; string Args
// may be translation keys too.
type Notice struct {
	Key  string
	Args []any
}

type Option func(*Session)

// WithLogger sends session logging to l. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

const boostKey effects.Key = "click-boost"

// Session is a single game. It is not safe for concurrent use.
type Session struct {
	cfg  *config.Config
	seed int64
	rng  *rand.Rand
	log  *log.Logger

	catalog   *catalog.Catalog
	primary   *track.Track
	secondary *track.Track
	pool      *pool.Pool
	effects   *effects.Registry
	upgrades  *upgrades.Manager

	// Values upgrades override through the registry.
	clickMult float64
	gain      float64
	decay     float64
	drain     float64
	autoTap   float64

	autoTapTimer float64
	boostLeft    float64
	boostReady   bool
	boostWait    float64 // until the boost is offered again

	trapWait  float64 // until the next mystery button
	trapLeft  float64 // while the current one can be pressed
	trapDelta int     // what pressing it does to the secondary track

	coins    int
	xp       int
	paused   bool
	over     Reason
	elapsed  float64
	clicks   int
	consumed int
	best     float64 // lowest secondary value this run

	notices []Notice
}

// New validates cfg and starts a run seeded with seed.
func New(cfg *config.Config, seed int64, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s := &Session{
		cfg:     cfg,
		seed:    seed,
		log:     log.New(io.Discard, "", 0),
		effects: effects.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.catalog, err = catalog.New(cfg.Items); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if s.primary, err = track.New(cfg.Primary.Params); err != nil {
		return nil, fmt.Errorf("session: primary: %w", err)
	}
	if s.secondary, err = track.New(cfg.Secondary.Params); err != nil {
		return nil, fmt.Errorf("session: secondary: %w", err)
	}
	if s.upgrades, err = upgrades.NewManager(cfg.Upgrades.Shop, effector{s}); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) start() error {
	s.rng = rand.New(rand.NewSource(s.seed))
	p, err := pool.New(s.cfg.Pool.Capacity, s.cfg.Pool.SlotPitch, s.cfg.Pool.Boundary, func() pool.ItemID {
		return s.catalog.RandomJunk(s.rng)
	})
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.pool = p

	s.primary.Reset()
	s.secondary.Reset()
	s.clickMult = 1
	s.gain = s.cfg.Primary.GainPerAction
	s.decay = s.cfg.Primary.DecayPerSecond
	s.drain = s.cfg.Secondary.DrainPerAction
	s.autoTap = 0
	s.autoTapTimer = 0
	s.boostLeft = 0
	s.boostReady = false
	s.boostWait = s.between(s.cfg.Boost.AppearMin, s.cfg.Boost.AppearMax)
	s.trapWait = s.between(s.cfg.Trap.IntervalMin, s.cfg.Trap.IntervalMax)
	s.trapLeft = 0
	s.trapDelta = 0

	s.coins, s.xp = 0, 0
	s.paused = false
	s.over = ReasonNone
	s.elapsed = 0
	s.clicks, s.consumed = 0, 0
	s.best = s.secondary.Value()
	s.notices = nil
	return nil
}

// Reset throws the current run away and starts over with the same seed.
func (s *Session) Reset() error {
	s.upgrades.ResetAll()
	s.effects.ClearAll(nil)
	s.log.Printf("reset after %.1fs", s.elapsed)
	return s.start()
}

func (s *Session) playable() error {
	if s.over != ReasonNone {
		return ErrGameOver
	}
	if s.paused {
		return ErrPaused
	}
	return nil
}

// Click registers one player click.
func (s *Session) Click() error {
	if err := s.playable(); err != nil {
		return err
	}
	s.click()
	return nil
}

func (s *Session) click() {
	s.clicks++
	s.coins += int(math.Round(s.clickMult))

	res := s.primary.OnAction()
	s.noteTrack(s.cfg.Labels.Primary, res.Event)
	if res.HardCap && s.cfg.Primary.FailOnCap {
		s.gameOver(ReasonPrimaryCap)
		return
	}
	// Only the secondary track is drained by clicks.
	s.changeSecondary(-s.drain)
}

func (s *Session) changeSecondary(delta float64) {
	before := s.secondary.Value()
	res := s.secondary.Add(delta)
	s.best = min(s.best, s.secondary.Value())
	s.noteTrack(s.cfg.Labels.Secondary, res.Event)
	if res.Depleted && before > 0 {
		s.notify("NOTICE_DEPLETED", s.cfg.Labels.Secondary)
	}
	if res.HardCap && s.cfg.Secondary.FailOnCap {
		s.gameOver(ReasonSecondaryCap)
	}
}

// Tick advances the run by dt seconds and returns the notices raised since
// the previous call.
func (s *Session) Tick(dt float64) []Notice {
	if s.playable() != nil || math.IsNaN(dt) || dt <= 0 {
		return s.Notices()
	}
	s.elapsed += dt

	ev := s.primary.Advance(dt)
	if ev == track.OverloadExpired {
		s.gameOver(ReasonPrimaryOverload)
		return s.Notices()
	}
	s.noteTrack(s.cfg.Labels.Primary, ev)

	s.pool.Advance(dt, s.cfg.Pool.ScrollSpeed, s.consume)
	if s.over != ReasonNone {
		return s.Notices()
	}

	ev = s.secondary.Advance(dt)
	if ev == track.OverloadExpired {
		s.gameOver(ReasonSecondaryOverload)
		return s.Notices()
	}
	s.noteTrack(s.cfg.Labels.Secondary, ev)

	for _, t := range s.upgrades.Advance(dt) {
		s.notify("NOTICE_UPGRADE_EXPIRED", s.upgradeName(t))
	}

	if s.autoTap > 0 {
		s.autoTapTimer += dt
		for s.autoTapTimer >= s.cfg.Upgrades.AutoTapInterval && s.over == ReasonNone {
			s.autoTapTimer -= s.cfg.Upgrades.AutoTapInterval
			s.click()
		}
		if s.over != ReasonNone {
			return s.Notices()
		}
	}

	s.advanceBoost(dt)
	s.advanceTrap(dt)
	return s.Notices()
}

// between draws a duration in [lo, hi) from the run's generator.
func (s *Session) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Session) consume(id pool.ItemID) {
	item, ok := s.catalog.Get(id)
	if !ok || s.over != ReasonNone {
		return
	}
	s.consumed++
	s.changeSecondary(item.Impact())
}

// BuyItem spends coins on a healthy item and puts it in place of the junk
// nearest to the boundary.
func (s *Session) BuyItem(id pool.ItemID) error {
	if err := s.playable(); err != nil {
		return err
	}
	item, ok := s.catalog.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	if !s.catalog.IsHealthy(id) {
		return fmt.Errorf("%w: %q", ErrNotPurchasable, id)
	}
	if s.coins < item.Cost {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrNotEnoughCoins, item.Name, item.Cost, s.coins)
	}

	if err := s.replaceNearestJunk(id); err != nil {
		return err
	}
	s.coins -= item.Cost
	s.xp += item.XP
	s.log.Printf("bought %s for %d coins (+%d xp)", item.ID, item.Cost, item.XP)
	s.notify("NOTICE_ITEM_BOUGHT", item.Name)
	return nil
}

func (s *Session) replaceNearestJunk(id pool.ItemID) error {
	for iter, n := 0, s.pool.Capacity(); iter < n; iter++ {
		ref, ok := s.pool.NearestSlot(s.isLiveJunk)
		if !ok {
			return ErrNoJunkSlot
		}
		err := s.pool.ReplaceContent(ref, id)
		if errors.Is(err, pool.ErrSlotAlreadyConsumed) {
			continue
		}
		return err
	}
	return ErrNoJunkSlot
}

func (s *Session) isLiveJunk(sl pool.Slot) bool {
	return !sl.Consumed && s.catalog.IsJunk(sl.Content)
}

// BuyUpgrade spends xp on an upgrade and applies it.
func (s *Session) BuyUpgrade(t upgrades.Type) error {
	if err := s.playable(); err != nil {
		return err
	}
	cost, err := s.upgrades.Purchase(t, s.xp)
	if err != nil {
		return err
	}
	s.xp -= cost
	s.log.Printf("upgrade %s for %d xp", t, cost)
	s.notify("NOTICE_UPGRADE_ACTIVATED", s.upgradeName(t))
	return nil
}

// ActivateBoost multiplies click income for a short while. The boost has to
// be on offer, which happens at random intervals.
func (s *Session) ActivateBoost() error {
	if err := s.playable(); err != nil {
		return err
	}
	if !s.boostReady || s.boostLeft > 0 {
		return ErrBoostUnavailable
	}
	s.boostReady = false
	s.effects.Apply(boostKey, &s.clickMult, s.cfg.Boost.Multiplier)
	s.boostLeft = s.cfg.Boost.Duration
	s.notify("NOTICE_BOOST_ON")
	return nil
}

func (s *Session) advanceBoost(dt float64) {
	if s.boostLeft > 0 {
		s.boostLeft -= dt
		if s.boostLeft <= 0 {
			s.endBoost()
			s.notify("NOTICE_BOOST_OFF")
		}
	}

	// The offer timer keeps running during a boost; an offer that comes
	// while one is active is skipped.
	s.boostWait -= dt
	for s.boostWait <= 0 {
		s.boostWait += s.between(s.cfg.Boost.AppearMin, s.cfg.Boost.AppearMax)
		if s.boostLeft <= 0 && !s.boostReady {
			s.boostReady = true
			s.notify("NOTICE_BOOST_READY")
		}
	}
}

func (s *Session) endBoost() {
	s.boostLeft = 0
	s.effects.Revert(boostKey, &s.clickMult)
}

func (s *Session) advanceTrap(dt float64) {
	if s.trapLeft > 0 {
		s.trapLeft -= dt
		if s.trapLeft <= 0 {
			s.trapLeft = 0
			s.notify("NOTICE_TRAP_GONE")
		}
	}

	s.trapWait -= dt
	for s.trapWait <= 0 {
		s.trapWait += s.between(s.cfg.Trap.IntervalMin, s.cfg.Trap.IntervalMax)
		s.showTrap()
	}
}

// showTrap puts up a mystery button, replacing any that is still showing.
func (s *Session) showTrap() {
	amount := s.cfg.Trap.MinAmount
	if span := s.cfg.Trap.MaxAmount - s.cfg.Trap.MinAmount; span > 0 {
		amount += s.rng.Intn(span)
	}
	if s.rng.Float64() > 0.5 {
		s.trapDelta = -amount
	} else {
		s.trapDelta = amount
	}
	s.trapLeft = s.cfg.Trap.Lifetime
	s.notify("NOTICE_TRAP_SHOWN", s.trapDelta)
}

// PressTrap presses the mystery button while it is showing, moving the
// secondary track by the amount it displays.
func (s *Session) PressTrap() error {
	if err := s.playable(); err != nil {
		return err
	}
	if s.trapLeft <= 0 {
		return ErrNoTrap
	}
	s.trapLeft = 0
	s.log.Printf("mystery button %+d", s.trapDelta)
	s.notify("NOTICE_TRAP_PRESSED", s.trapDelta)
	s.changeSecondary(float64(s.trapDelta))
	return nil
}

func (s *Session) Pause()  { s.paused = true }
func (s *Session) Resume() { s.paused = false }

func (s *Session) gameOver(r Reason) {
	if s.over != ReasonNone {
		return
	}
	s.over = r
	for _, t := range s.upgrades.ResetAll() {
		s.log.Printf("stopped %s", t)
	}
	s.endBoost()
	s.boostReady = false
	s.trapLeft = 0
	s.effects.ClearAll(func(k effects.Key, original float64) {
		s.log.Printf("restored %s to %v", k, original)
	})
	s.pushRates()
	s.log.Printf("game over: %s after %.1fs, %d clicks", r, s.elapsed, s.clicks)
	s.notify("NOTICE_GAME_OVER", r.Key())
}

// Over reports why the run ended, or ReasonNone while it is still going.
func (s *Session) Over() Reason {
	return s.over
}

// Notices returns and clears the pending notices.
func (s *Session) Notices() []Notice {
	out := s.notices
	s.notices = nil
	return out
}

func (s *Session) notify(key string, args ...any) {
	s.notices = append(s.notices, Notice{Key: key, Args: args})
}

func (s *Session) noteTrack(label string, ev track.Event) {
	switch ev {
	case track.EnteredWarning:
		s.notify("NOTICE_ENTERED_WARNING", label)
	case track.EnteredCritical:
		s.log.Printf("%s critical", label)
		s.notify("NOTICE_ENTERED_CRITICAL", label)
	case track.ExitedToSafe:
		s.notify("NOTICE_BACK_TO_SAFE", label)
	}
}

func (s *Session) upgradeName(t upgrades.Type) string {
	if d, ok := s.upgrades.Get(t); ok && d.Name != "" {
		return d.Name
	}
	return t.String()
}

// Catalog exposes the item catalog for shop listings.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// UpgradeShop returns the upgrade listing, cheapest first.
func (s *Session) UpgradeShop() []upgrades.Upgrade {
	return s.upgrades.Definitions()
}
