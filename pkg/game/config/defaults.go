package config

import (
	"fmt"

	"toiletclicker/pkg/engine/track"
	"toiletclicker/pkg/game/catalog"
	"toiletclicker/pkg/game/upgrades"
)

// Default returns the built-in config for a variant.
func Default(variant string) (*Config, error) {
	switch variant {
	case VariantFood:
		return foodDefaults(), nil
	case VariantCode:
		return codeDefaults(), nil
	}
	return nil, fmt.Errorf("config: unknown variant %q", variant)
}

func primaryDefaults() TrackConfig {
	return TrackConfig{
		Params: track.Params{
			Start:             0,
			Max:               100,
			GainPerAction:     5,
			DecayPerSecond:    2,
			WarnThreshold:     80,
			CriticalThreshold: 95,
			GraceSeconds:      3,
		},
	}
}

func trapDefaults() TrapConfig {
	return TrapConfig{MinAmount: 1, MaxAmount: 20, IntervalMin: 5, IntervalMax: 15, Lifetime: 4}
}

func upgradeDefaults(shop []upgrades.Upgrade) UpgradesConfig {
	return UpgradesConfig{
		Shop:                shop,
		DoubleTapMultiplier: 2,
		MegaTapMultiplier:   5,
		PurgeAmount:         5,
		SwapCount:           5,
		FreezeSpeedFactor:   0.5,
		AutoTapInterval:     0.5,
		BoostReliefFactor:   3.5,
		LightenDensity:      1,
		LightenRisk:         1,
		RapidDecayRate:      10,
		BrakeGainRate:       1,
		DrainPerAction:      0.5,
	}
}

func foodDefaults() *Config {
	return &Config{
		Variant: VariantFood,
		Labels:  Labels{Primary: "LABEL_PRESSURE", Secondary: "LABEL_WEIGHT", Coins: "LABEL_COINS"},
		Primary: primaryDefaults(),
		Secondary: TrackConfig{
			Params: track.Params{
				Start:             70,
				Max:               150,
				WarnThreshold:     120,
				CriticalThreshold: 150,
				GraceSeconds:      3,
			},
			FailOnCap:      true,
			DrainPerAction: 0.01,
		},
		Pool:  PoolConfig{Capacity: 8, SlotPitch: 120, Boundary: 0, ScrollSpeed: 60},
		Boost: BoostConfig{Multiplier: 3, Duration: 8, AppearMin: 15, AppearMax: 30},
		Trap:  trapDefaults(),
		Upgrades: upgradeDefaults([]upgrades.Upgrade{
			{Type: upgrades.DoubleTap, Name: "Double Dip", Price: 10, Duration: 15},
			{Type: upgrades.MegaTap, Name: "Quintuple Click", Price: 40, Duration: 10},
			{Type: upgrades.Purge, Name: "Mega Lax Launch", Price: 25, Instant: true},
			{Type: upgrades.Swap, Name: "Health Swap", Price: 35, Instant: true},
			{Type: upgrades.Freeze, Name: "Snack Decelerator", Price: 20, Duration: 15},
			{Type: upgrades.AutoTap, Name: "Auto Tap", Price: 50, Duration: 10},
			{Type: upgrades.Boost, Name: "Fiber Firepower", Price: 30, Duration: 20},
			{Type: upgrades.Lighten, Name: "Lightweight Junk", Price: 30, Duration: 20},
			{Type: upgrades.RapidDecay, Name: "Rapid Relief", Price: 15, Duration: 10},
			{Type: upgrades.Brake, Name: "Pressure Brake", Price: 15, Duration: 10},
			{Type: upgrades.Drain, Name: "Scale Smasher", Price: 45, Duration: 10},
		}),
		Items: []catalog.Item{
			{ID: "burger", Name: "Burger", Category: catalog.Junk, Stats: catalog.Stats{Density: 40, Risk: 20, Relief: 1}},
			{ID: "fries", Name: "Fries", Category: catalog.Junk, Stats: catalog.Stats{Density: 30, Risk: 5, Relief: 2}},
			{ID: "donut", Name: "Donut", Category: catalog.Junk, Stats: catalog.Stats{Density: 25, Risk: 45}},
			{ID: "soda", Name: "Soda", Category: catalog.Junk, Stats: catalog.Stats{Risk: 60}},
			{ID: "pizza", Name: "Pizza", Category: catalog.Junk, Stats: catalog.Stats{Density: 35, Risk: 10, Relief: 2}},
			{ID: "apple", Name: "Apple", Category: catalog.Healthy, Cost: 20, XP: 2, Stats: catalog.Stats{Risk: 10, Relief: 4}},
			{ID: "salad", Name: "Salad", Category: catalog.Healthy, Cost: 30, XP: 3, Stats: catalog.Stats{Density: 2, Relief: 6}},
			{ID: "oats", Name: "Oats", Category: catalog.Healthy, Cost: 45, XP: 5, Stats: catalog.Stats{Density: 6, Risk: 1, Relief: 10}},
			{ID: "broccoli", Name: "Broccoli", Category: catalog.Healthy, Cost: 60, XP: 8, Stats: catalog.Stats{Relief: 12}},
		},
	}
}

func codeDefaults() *Config {
	return &Config{
		Variant: VariantCode,
		Labels:  Labels{Primary: "LABEL_TRACE", Secondary: "LABEL_FIREWALL", Coins: "LABEL_CREDITS"},
		Primary: primaryDefaults(),
		Secondary: TrackConfig{
			Params: track.Params{
				Start:             70,
				Max:               100,
				WarnThreshold:     80,
				CriticalThreshold: 100,
				GraceSeconds:      3,
			},
			FailOnCap:      true,
			DrainPerAction: 0.01,
		},
		Pool:  PoolConfig{Capacity: 10, SlotPitch: 100, Boundary: 0, ScrollSpeed: 60},
		Boost: BoostConfig{Multiplier: 3, Duration: 8, AppearMin: 15, AppearMax: 30},
		Trap:  trapDefaults(),
		Upgrades: upgradeDefaults([]upgrades.Upgrade{
			{Type: upgrades.DoubleTap, Name: "Double Tap", Price: 10, Duration: 15},
			{Type: upgrades.MegaTap, Name: "Mega Tap", Price: 40, Duration: 10},
			{Type: upgrades.Purge, Name: "Firewall Purge", Price: 25, Instant: true},
			{Type: upgrades.Swap, Name: "Proxy Flip", Price: 35, Instant: true},
			{Type: upgrades.Freeze, Name: "Code Freeze", Price: 20, Duration: 15},
			{Type: upgrades.AutoTap, Name: "Auto Tap", Price: 50, Duration: 10},
			{Type: upgrades.Boost, Name: "Exploit Max", Price: 30, Duration: 20},
			{Type: upgrades.Lighten, Name: "Impact Drop", Price: 30, Duration: 20},
			{Type: upgrades.RapidDecay, Name: "Trace Wipe", Price: 15, Duration: 10},
			{Type: upgrades.Brake, Name: "Silent Keys", Price: 15, Duration: 10},
			{Type: upgrades.Drain, Name: "Packet Burn", Price: 45, Duration: 10},
		}),
		Items: []catalog.Item{
			{ID: "sql-inject", Name: "SQL Inject", Category: catalog.Junk, Stats: catalog.Stats{Density: 30, Risk: 35}},
			{ID: "keylogger", Name: "Keylogger", Category: catalog.Junk, Stats: catalog.Stats{Density: 20, Risk: 50, Relief: 1}},
			{ID: "rootkit", Name: "Rootkit", Category: catalog.Junk, Stats: catalog.Stats{Density: 45, Risk: 15}},
			{ID: "botnet", Name: "Botnet", Category: catalog.Junk, Stats: catalog.Stats{Density: 40, Risk: 40, Relief: 2}},
			{ID: "patch", Name: "Security Patch", Category: catalog.Healthy, Cost: 20, XP: 2, Stats: catalog.Stats{Risk: 5, Relief: 4}},
			{ID: "refactor", Name: "Refactor", Category: catalog.Healthy, Cost: 35, XP: 4, Stats: catalog.Stats{Density: 4, Relief: 8}},
			{ID: "zero-trust", Name: "Zero Trust", Category: catalog.Healthy, Cost: 60, XP: 8, Stats: catalog.Stats{Relief: 12}},
		},
	}
}
