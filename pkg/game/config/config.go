package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"toiletclicker/pkg/engine/track"
	"toiletclicker/pkg/game/catalog"
	"toiletclicker/pkg/game/upgrades"
)

const (
	VariantFood = "food"
	VariantCode = "code"
)

type Config struct {
	Variant   string         `yaml:"variant"`
	Labels    Labels         `yaml:"labels"`
	Primary   TrackConfig    `yaml:"primary"`
	Secondary TrackConfig    `yaml:"secondary"`
	Pool      PoolConfig     `yaml:"pool"`
	Upgrades  UpgradesConfig `yaml:"upgrades"`
	Boost     BoostConfig    `yaml:"boost"`
	Trap      TrapConfig     `yaml:"trap"`
	Items     []catalog.Item `yaml:"items"`
}

// Labels are translation keys for the names shown on the HUD.
type Labels struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Coins     string `yaml:"coins"`
}

// TrackConfig is a resource track plus the rules the session applies to it.
type TrackConfig struct {
	track.Params `yaml:",inline"`
	// FailOnCap ends the run as soon as the value reaches Max.
	FailOnCap bool `yaml:"fail_on_cap"`
	// DrainPerAction is taken off this track on every click.
	DrainPerAction float64 `yaml:"drain_per_action"`
}

type PoolConfig struct {
	Capacity    int     `yaml:"capacity"`
	SlotPitch   float64 `yaml:"slot_pitch"`
	Boundary    float64 `yaml:"boundary"`
	ScrollSpeed float64 `yaml:"scroll_speed"`
}

// UpgradesConfig holds the shop listing and the numbers each effect uses.
type UpgradesConfig struct {
	Shop []upgrades.Upgrade `yaml:"shop"`

	DoubleTapMultiplier float64 `yaml:"double_tap_multiplier"`
	MegaTapMultiplier   float64 `yaml:"mega_tap_multiplier"`
	PurgeAmount         float64 `yaml:"purge_amount"`
	SwapCount           int     `yaml:"swap_count"`
	FreezeSpeedFactor   float64 `yaml:"freeze_speed_factor"`
	AutoTapInterval     float64 `yaml:"auto_tap_interval"`
	BoostReliefFactor   float64 `yaml:"boost_relief_factor"`
	LightenDensity      float64 `yaml:"lighten_density"`
	LightenRisk         float64 `yaml:"lighten_risk"`
	RapidDecayRate      float64 `yaml:"rapid_decay_rate"`
	BrakeGainRate       float64 `yaml:"brake_gain_rate"`
	DrainPerAction      float64 `yaml:"drain_per_action"`
}

// BoostConfig is the short click multiplier window. The boost is offered
// every AppearMin..AppearMax seconds and waits until the player takes it.
type BoostConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	Duration   float64 `yaml:"duration"`
	AppearMin  float64 `yaml:"appear_min"`
	AppearMax  float64 `yaml:"appear_max"`
}

// TrapConfig is the mystery button that shows up every IntervalMin..IntervalMax
// seconds for Lifetime seconds. Pressing it moves the secondary track by
// MinAmount..MaxAmount (max exclusive), down or up with equal chance.
type TrapConfig struct {
	MinAmount   int     `yaml:"min_amount"`
	MaxAmount   int     `yaml:"max_amount"`
	IntervalMin float64 `yaml:"interval_min"`
	IntervalMax float64 `yaml:"interval_max"`
	Lifetime    float64 `yaml:"lifetime"`
}

// Load reads a YAML config. Sections the file leaves out are taken from the
// defaults of its variant.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes YAML config data on top of the variant defaults.
func Parse(b []byte) (*Config, error) {
	var header struct {
		Variant string `yaml:"variant"`
	}
	if err := yaml.Unmarshal(b, &header); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if header.Variant == "" {
		header.Variant = VariantFood
	}
	cfg, err := Default(header.Variant)
	if err != nil {
		return nil, err
	}
	// Lists are replaced as a whole when present.
	cfg.Items = nil
	cfg.Upgrades.Shop = nil
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills empty lists from the variant defaults.
func (c *Config) ApplyDefaults() {
	def, err := Default(c.Variant)
	if err != nil {
		return
	}
	if len(c.Items) == 0 {
		c.Items = def.Items
	}
	if len(c.Upgrades.Shop) == 0 {
		c.Upgrades.Shop = def.Upgrades.Shop
	}
	if c.Labels == (Labels{}) {
		c.Labels = def.Labels
	}
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.Variant != VariantFood && c.Variant != VariantCode {
		errs = append(errs, fmt.Errorf("variant %q: want %q or %q", c.Variant, VariantFood, VariantCode))
	}
	if err := c.Primary.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("primary: %w", err))
	}
	if err := c.Secondary.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("secondary: %w", err))
	}
	if c.Secondary.DrainPerAction < 0 || c.Primary.DrainPerAction < 0 {
		errs = append(errs, errors.New("drain_per_action must not be negative"))
	}
	if c.Pool.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("pool.capacity %d must be positive", c.Pool.Capacity))
	}
	if c.Pool.SlotPitch <= 0 {
		errs = append(errs, fmt.Errorf("pool.slot_pitch %v must be positive", c.Pool.SlotPitch))
	}
	if c.Pool.ScrollSpeed < 0 {
		errs = append(errs, fmt.Errorf("pool.scroll_speed %v must not be negative", c.Pool.ScrollSpeed))
	}
	if c.Upgrades.AutoTapInterval <= 0 {
		errs = append(errs, fmt.Errorf("upgrades.auto_tap_interval %v must be positive", c.Upgrades.AutoTapInterval))
	}
	if c.Upgrades.SwapCount < 0 {
		errs = append(errs, fmt.Errorf("upgrades.swap_count %d must not be negative", c.Upgrades.SwapCount))
	}
	if c.Boost.Multiplier <= 0 || c.Boost.Duration <= 0 {
		errs = append(errs, errors.New("boost.multiplier and boost.duration must be positive"))
	}
	if c.Boost.AppearMin <= 0 || c.Boost.AppearMax < c.Boost.AppearMin {
		errs = append(errs, fmt.Errorf("boost.appear_min %v must be positive and at most appear_max %v", c.Boost.AppearMin, c.Boost.AppearMax))
	}
	if c.Trap.IntervalMin <= 0 || c.Trap.IntervalMax < c.Trap.IntervalMin {
		errs = append(errs, fmt.Errorf("trap.interval_min %v must be positive and at most interval_max %v", c.Trap.IntervalMin, c.Trap.IntervalMax))
	}
	if c.Trap.Lifetime <= 0 {
		errs = append(errs, fmt.Errorf("trap.lifetime %v must be positive", c.Trap.Lifetime))
	}
	if c.Trap.MinAmount < 0 || c.Trap.MaxAmount < c.Trap.MinAmount {
		errs = append(errs, fmt.Errorf("trap.min_amount %d must not be negative and at most max_amount %d", c.Trap.MinAmount, c.Trap.MaxAmount))
	}
	if _, err := catalog.New(c.Items); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
