package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides are the tuning values that may be set from the environment.
// Nil fields were not set.
type envOverrides struct {
	PrimaryGain      *float64 `env:"CLICKER_PRIMARY_GAIN"`
	PrimaryDecay     *float64 `env:"CLICKER_PRIMARY_DECAY"`
	PrimaryWarn      *float64 `env:"CLICKER_PRIMARY_WARN"`
	PrimaryCritical  *float64 `env:"CLICKER_PRIMARY_CRITICAL"`
	PrimaryGrace     *float64 `env:"CLICKER_PRIMARY_GRACE"`
	PrimaryFailOnCap *bool    `env:"CLICKER_PRIMARY_FAIL_ON_CAP"`
	SecondaryStart   *float64 `env:"CLICKER_SECONDARY_START"`
	SecondaryMax     *float64 `env:"CLICKER_SECONDARY_MAX"`
	SecondaryDrain   *float64 `env:"CLICKER_SECONDARY_DRAIN"`
	PoolCapacity     *int     `env:"CLICKER_POOL_CAPACITY"`
	ScrollSpeed      *float64 `env:"CLICKER_SCROLL_SPEED"`
	SwapCount        *int     `env:"CLICKER_SWAP_COUNT"`
	BoostMultiplier  *float64 `env:"CLICKER_BOOST_MULTIPLIER"`
	BoostDuration    *float64 `env:"CLICKER_BOOST_DURATION"`
	BoostAppearMin   *float64 `env:"CLICKER_BOOST_APPEAR_MIN"`
	BoostAppearMax   *float64 `env:"CLICKER_BOOST_APPEAR_MAX"`
	TrapLifetime     *float64 `env:"CLICKER_TRAP_LIFETIME"`
}

// ApplyEnv overrides tuning values from CLICKER_* environment variables.
// If any variable does not parse, nothing is applied.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	set(o.PrimaryGain, &c.Primary.GainPerAction)
	set(o.PrimaryDecay, &c.Primary.DecayPerSecond)
	set(o.PrimaryWarn, &c.Primary.WarnThreshold)
	set(o.PrimaryCritical, &c.Primary.CriticalThreshold)
	set(o.PrimaryGrace, &c.Primary.GraceSeconds)
	set(o.PrimaryFailOnCap, &c.Primary.FailOnCap)
	set(o.SecondaryStart, &c.Secondary.Start)
	set(o.SecondaryMax, &c.Secondary.Max)
	set(o.SecondaryDrain, &c.Secondary.DrainPerAction)
	set(o.PoolCapacity, &c.Pool.Capacity)
	set(o.ScrollSpeed, &c.Pool.ScrollSpeed)
	set(o.SwapCount, &c.Upgrades.SwapCount)
	set(o.BoostMultiplier, &c.Boost.Multiplier)
	set(o.BoostDuration, &c.Boost.Duration)
	set(o.BoostAppearMin, &c.Boost.AppearMin)
	set(o.BoostAppearMax, &c.Boost.AppearMax)
	set(o.TrapLifetime, &c.Trap.Lifetime)
	return nil
}

func set[T any](src *T, dst *T) {
	if src != nil {
		*dst = *src
	}
}
