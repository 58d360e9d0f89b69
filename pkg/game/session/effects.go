package session

import (
	"toiletclicker/pkg/engine/effects"
	"toiletclicker/pkg/game/upgrades"
)

// effector applies upgrade effects to a session. Every temporary change goes
// through the session's override registry so expiry and game over restore the
// exact pre-upgrade values.
type effector struct {
	s *Session
}

func upgradeKey(t upgrades.Type) effects.Key {
	return effects.Key("upgrade:" + t.String())
}

func (e effector) ApplyUpgrade(t upgrades.Type) {
	s, u := e.s, e.s.cfg.Upgrades
	key := upgradeKey(t)

	switch t {
	case upgrades.DoubleTap:
		s.effects.Apply(key, &s.clickMult, u.DoubleTapMultiplier)
	case upgrades.MegaTap:
		s.effects.Apply(key, &s.clickMult, u.MegaTapMultiplier)
	case upgrades.Purge:
		s.changeSecondary(-u.PurgeAmount)
	case upgrades.Swap:
		n := s.swapJunk(u.SwapCount)
		s.log.Printf("swapped %d junk slots", n)
	case upgrades.Freeze:
		s.pool.SetScrollSpeedMultiplier(u.FreezeSpeedFactor)
	case upgrades.AutoTap:
		if !s.effects.Active(key) {
			s.autoTapTimer = 0
		}
		s.effects.Apply(key, &s.autoTap, 1)
	case upgrades.Boost:
		for _, it := range s.catalog.Healthy() {
			s.effects.Scale(key, &it.Stats.Relief, u.BoostReliefFactor)
		}
	case upgrades.Lighten:
		for _, it := range s.catalog.Junk() {
			s.effects.Apply(key, &it.Stats.Density, u.LightenDensity)
			s.effects.Apply(key, &it.Stats.Risk, u.LightenRisk)
		}
	case upgrades.RapidDecay:
		s.effects.Apply(key, &s.decay, u.RapidDecayRate)
		s.pushRates()
	case upgrades.Brake:
		s.effects.Apply(key, &s.gain, u.BrakeGainRate)
		s.pushRates()
	case upgrades.Drain:
		s.effects.Apply(key, &s.drain, u.DrainPerAction)
	}
}

func (e effector) RemoveUpgrade(t upgrades.Type) {
	s := e.s
	key := upgradeKey(t)

	switch t {
	case upgrades.DoubleTap, upgrades.MegaTap:
		s.effects.Revert(key, &s.clickMult)
	case upgrades.Freeze:
		s.pool.RestoreScrollSpeed()
	case upgrades.AutoTap:
		s.effects.Revert(key, &s.autoTap)
	case upgrades.Boost:
		for _, it := range s.catalog.Healthy() {
			s.effects.Revert(key, &it.Stats.Relief)
		}
	case upgrades.Lighten:
		for _, it := range s.catalog.Junk() {
			s.effects.Revert(key, &it.Stats.Density)
			s.effects.Revert(key, &it.Stats.Risk)
		}
	case upgrades.RapidDecay:
		s.effects.Revert(key, &s.decay)
		s.pushRates()
	case upgrades.Brake:
		s.effects.Revert(key, &s.gain)
		s.pushRates()
	case upgrades.Drain:
		s.effects.Revert(key, &s.drain)
	}
}

// pushRates copies the overridable rates into the primary track.
func (s *Session) pushRates() {
	s.primary.SetRates(s.gain, s.decay)
}

// swapJunk replaces up to n junk slots nearest the boundary with random
// healthy items and returns how many it replaced.
func (s *Session) swapJunk(n int) int {
	swapped := 0
	for swapped < n {
		id := s.catalog.RandomHealthy(s.rng)
		if id == "" || s.replaceNearestJunk(id) != nil {
			break
		}
		swapped++
	}
	return swapped
}
