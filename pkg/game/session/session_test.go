package session

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toiletclicker/pkg/engine/track"
	"toiletclicker/pkg/game/catalog"
	"toiletclicker/pkg/game/config"
	"toiletclicker/pkg/game/upgrades"
)

func foodConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default(config.VariantFood)
	require.NoError(t, err)
	return cfg
}

func newSession(t *testing.T, cfg *config.Config) *Session {
	t.Helper()
	s, err := New(cfg, 1)
	require.NoError(t, err)
	return s
}

func hasNotice(notices []Notice, key string) bool {
	for _, n := range notices {
		if n.Key == key {
			return true
		}
	}
	return false
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := foodConfig(t)
	cfg.Pool.Capacity = 0
	_, err := New(cfg, 1)
	assert.ErrorContains(t, err, "pool.capacity")
}

func TestClick(t *testing.T) {
	s := newSession(t, foodConfig(t))
	require.NoError(t, s.Click())

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Coins)
	assert.Equal(t, 1, snap.Clicks)
	assert.Equal(t, 5.0, snap.Primary.Value)
	assert.InDelta(t, 69.99, snap.Secondary.Value, 1e-9)
	assert.InDelta(t, 69.99, snap.BestSecondary, 1e-9)
}

func TestClick_PrimaryCapEndsRunWhenConfigured(t *testing.T) {
	cfg := foodConfig(t)
	cfg.Primary.GainPerAction = 50
	cfg.Primary.FailOnCap = true
	s := newSession(t, cfg)

	require.NoError(t, s.Click())
	require.NoError(t, s.Click())
	assert.Equal(t, ReasonPrimaryCap, s.Over())
	assert.ErrorIs(t, s.Click(), ErrGameOver)
}

func TestTick_PrimaryOverloadAfterGrace(t *testing.T) {
	cfg := foodConfig(t)
	cfg.Primary.GainPerAction = 50
	cfg.Primary.DecayPerSecond = 0
	s := newSession(t, cfg)

	require.NoError(t, s.Click())
	require.NoError(t, s.Click())
	assert.Equal(t, ReasonNone, s.Over(), "hitting the cap alone is not fatal here")

	s.Tick(1)
	s.Tick(1)
	assert.Equal(t, ReasonNone, s.Over())

	notices := s.Tick(1)
	assert.Equal(t, ReasonPrimaryOverload, s.Over())
	assert.Contains(t, notices, Notice{Key: "NOTICE_GAME_OVER", Args: []any{"GAME_OVER_PRIMARY_OVERLOAD"}})
}

func TestTick_ConsumedItemMovesSecondary(t *testing.T) {
	cfg := foodConfig(t)
	cfg.Items = []catalog.Item{
		{ID: "lard", Name: "Lard", Stats: catalog.Stats{Density: 400}},
		{ID: "kale", Name: "Kale", Category: catalog.Healthy, Cost: 1, Stats: catalog.Stats{Relief: 4}},
	}
	s := newSession(t, cfg)

	s.Tick(0.1)
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Consumed)
	assert.InDelta(t, 80.0, snap.Secondary.Value, 1e-9)
	require.Len(t, snap.Slots, 8)
	assert.Equal(t, 0, snap.Slots[7].Index, "the consumed slot is recycled to the back")
}

func TestTick_SecondaryCap(t *testing.T) {
	cfg := foodConfig(t)
	cfg.Items = []catalog.Item{{ID: "anvil", Stats: catalog.Stats{Density: 4000}}}
	s := newSession(t, cfg)

	notices := s.Tick(0.1)
	assert.Equal(t, ReasonSecondaryCap, s.Over())
	assert.True(t, hasNotice(notices, "NOTICE_GAME_OVER"))
	assert.Equal(t, track.Critical, s.Snapshot().Secondary.State)
}

func TestBuyItem(t *testing.T) {
	s := newSession(t, foodConfig(t))

	assert.ErrorIs(t, s.BuyItem("apple"), ErrNotEnoughCoins)
	assert.ErrorIs(t, s.BuyItem("burger"), ErrNotPurchasable)
	assert.ErrorIs(t, s.BuyItem("caviar"), ErrUnknownItem)

	s.coins = 100
	require.NoError(t, s.BuyItem("apple"))
	snap := s.Snapshot()
	assert.Equal(t, 80, snap.Coins)
	assert.Equal(t, 2, snap.XP)
	assert.Equal(t, "apple", string(snap.Slots[0].Item))
	assert.True(t, snap.Slots[0].Healthy)

	s.Tick(0.1)
	assert.InDelta(t, 69.25, s.Snapshot().Secondary.Value, 1e-9)
}

func TestBuyItem_NoJunkSlot(t *testing.T) {
	cfg := foodConfig(t)
	cfg.Pool.Capacity = 2
	s := newSession(t, cfg)
	s.coins = 1000

	require.NoError(t, s.BuyItem("apple"))
	require.NoError(t, s.BuyItem("salad"))
	assert.ErrorIs(t, s.BuyItem("oats"), ErrNoJunkSlot)
	assert.Equal(t, 950, s.Snapshot().Coins)
}

func TestBuyUpgrade_NotEnoughXP(t *testing.T) {
	s := newSession(t, foodConfig(t))
	assert.ErrorIs(t, s.BuyUpgrade(upgrades.DoubleTap), upgrades.ErrNotEnoughXP)
}

func TestUpgrade_ClickMultipliersStack(t *testing.T) {
	s := newSession(t, foodConfig(t))
	s.xp = 100

	require.NoError(t, s.BuyUpgrade(upgrades.DoubleTap))
	assert.Equal(t, 90, s.Snapshot().XP)
	require.NoError(t, s.Click())
	assert.Equal(t, 2, s.Snapshot().Coins)

	require.NoError(t, s.BuyUpgrade(upgrades.MegaTap))
	assert.Equal(t, 5.0, s.Snapshot().ClickMultiplier)

	notices := s.Tick(10)
	assert.Contains(t, notices, Notice{Key: "NOTICE_UPGRADE_EXPIRED", Args: []any{"Quintuple Click"}})
	assert.Equal(t, 2.0, s.Snapshot().ClickMultiplier, "double tap is still running")

	s.Tick(5)
	assert.Equal(t, 1.0, s.Snapshot().ClickMultiplier)
	assert.Empty(t, s.Snapshot().Upgrades)
}

func TestUpgrade_PrimaryRates(t *testing.T) {
	s := newSession(t, foodConfig(t))
	s.xp = 100

	require.NoError(t, s.BuyUpgrade(upgrades.Brake))
	require.NoError(t, s.BuyUpgrade(upgrades.RapidDecay))
	gain, decay := s.primary.Rates()
	assert.Equal(t, 1.0, gain)
	assert.Equal(t, 10.0, decay)

	require.NoError(t, s.Click())
	assert.Equal(t, 1.0, s.Snapshot().Primary.Value)

	s.Tick(10)
	gain, decay = s.primary.Rates()
	assert.Equal(t, 5.0, gain)
	assert.Equal(t, 2.0, decay)
}

func TestUpgrade_ItemStatOverrides(t *testing.T) {
	s := newSession(t, foodConfig(t))
	s.xp = 100
	apple, _ := s.catalog.Get("apple")
	burger, _ := s.catalog.Get("burger")

	require.NoError(t, s.BuyUpgrade(upgrades.Boost))
	require.NoError(t, s.BuyUpgrade(upgrades.Lighten))
	assert.Equal(t, 14.0, apple.Stats.Relief)
	assert.Equal(t, 1.0, burger.Stats.Density)
	assert.Equal(t, 1.0, burger.Stats.Risk)

	s.Tick(20)
	assert.Equal(t, 4.0, apple.Stats.Relief)
	assert.Equal(t, 40.0, burger.Stats.Density)
	assert.Equal(t, 20.0, burger.Stats.Risk)
}

func TestUpgrade_Freeze(t *testing.T) {
	s := newSession(t, foodConfig(t))
	s.xp = 100

	require.NoError(t, s.BuyUpgrade(upgrades.Freeze))
	assert.Equal(t, 30.0, s.Snapshot().ScrollSpeed)
	s.Tick(15)
	assert.Equal(t, 60.0, s.Snapshot().ScrollSpeed)
}

func TestUpgrade_PurgeAndDrain(t *testing.T) {
	s := newSession(t, foodConfig(t))
	s.xp = 100

	require.NoError(t, s.BuyUpgrade(upgrades.Purge))
	assert.Equal(t, 65.0, s.Snapshot().Secondary.Value)
	assert.Empty(t, s.Snapshot().Upgrades, "instant upgrades have no timer")

	require.NoError(t, s.BuyUpgrade(upgrades.Drain))
	require.NoError(t, s.Click())
	assert.Equal(t, 64.5, s.Snapshot().Secondary.Value)
}

func TestUpgrade_Swap(t *testing.T) {
	s := newSession(t, foodConfig(t))
	s.xp = 100

	require.NoError(t, s.BuyUpgrade(upgrades.Swap))
	slots := s.Snapshot().Slots
	for i, sl := range slots {
		assert.Equal(t, i < 5, sl.Healthy, "slot %d", i)
	}
}

func TestUpgrade_AutoTap(t *testing.T) {
	s := newSession(t, foodConfig(t))
	s.xp = 100

	require.NoError(t, s.BuyUpgrade(upgrades.AutoTap))
	s.Tick(1)
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Clicks)
	assert.Equal(t, 2, snap.Coins)
}

func TestGameOver_RestoresOverrides(t *testing.T) {
	s := newSession(t, foodConfig(t))
	s.xp = 1000
	for _, u := range []upgrades.Type{upgrades.DoubleTap, upgrades.Freeze, upgrades.Boost, upgrades.Brake, upgrades.AutoTap} {
		require.NoError(t, s.BuyUpgrade(u))
	}
	s.boostReady = true
	require.NoError(t, s.ActivateBoost())

	s.gameOver(ReasonSecondaryCap)

	snap := s.Snapshot()
	apple, _ := s.catalog.Get("apple")
	gain, _ := s.primary.Rates()
	assert.Equal(t, 1.0, snap.ClickMultiplier)
	assert.Equal(t, 60.0, snap.ScrollSpeed)
	assert.Equal(t, 4.0, apple.Stats.Relief)
	assert.Equal(t, 5.0, gain)
	assert.Zero(t, s.autoTap)
	assert.Empty(t, snap.Upgrades)
	assert.Zero(t, snap.BoostRemaining)
	assert.Zero(t, s.effects.Len())

	assert.ErrorIs(t, s.BuyItem("apple"), ErrGameOver)
	assert.True(t, hasNotice(s.Notices(), "NOTICE_GAME_OVER"))
	assert.Empty(t, s.Tick(1))
	assert.Zero(t, s.Snapshot().Elapsed)
}

func TestActivateBoost_OfferedAtRandomTimes(t *testing.T) {
	s := newSession(t, foodConfig(t))
	assert.ErrorIs(t, s.ActivateBoost(), ErrBoostUnavailable)

	// The first offer comes within appear_max seconds.
	var offered bool
	for i := 0; i < 60 && !offered; i++ {
		offered = hasNotice(s.Tick(0.5), "NOTICE_BOOST_READY")
	}
	require.True(t, offered)
	assert.True(t, s.Snapshot().BoostReady)
	assert.GreaterOrEqual(t, s.Snapshot().Elapsed, 15.0)

	require.NoError(t, s.ActivateBoost())
	assert.Equal(t, 3.0, s.Snapshot().ClickMultiplier)
	assert.False(t, s.Snapshot().BoostReady)
	assert.ErrorIs(t, s.ActivateBoost(), ErrBoostUnavailable)

	notices := s.Tick(8)
	assert.True(t, hasNotice(notices, "NOTICE_BOOST_OFF"))
	assert.Equal(t, 1.0, s.Snapshot().ClickMultiplier)
}

func TestBoostOffer_SameForSameSeed(t *testing.T) {
	firstOffer := func() float64 {
		s := newSession(t, foodConfig(t))
		for iter := 0; iter < 60; iter++ {
			if hasNotice(s.Tick(0.5), "NOTICE_BOOST_READY") {
				return s.Snapshot().Elapsed
			}
		}
		return -1
	}
	a, b := firstOffer(), firstOffer()
	assert.Positive(t, a)
	assert.Equal(t, a, b)
}

// showTrapNow ticks until a mystery button shows and returns its notice.
func showTrapNow(t *testing.T, s *Session) Notice {
	t.Helper()
	for iter := 0; iter < 40; iter++ {
		for _, n := range s.Tick(0.5) {
			if n.Key == "NOTICE_TRAP_SHOWN" {
				return n
			}
		}
	}
	t.Fatal("no mystery button within 20s")
	return Notice{}
}

func TestPressTrap(t *testing.T) {
	s := newSession(t, foodConfig(t))
	assert.ErrorIs(t, s.PressTrap(), ErrNoTrap)

	n := showTrapNow(t, s)
	snap := s.Snapshot()
	require.Len(t, n.Args, 1)
	assert.Equal(t, snap.TrapDelta, n.Args[0])
	assert.Equal(t, 4.0, snap.TrapRemaining)
	assert.NotZero(t, snap.TrapDelta)
	assert.LessOrEqual(t, snap.TrapDelta, 19)
	assert.GreaterOrEqual(t, snap.TrapDelta, -19)

	before := s.secondary.Value()
	require.NoError(t, s.PressTrap())
	assert.InDelta(t, before+float64(snap.TrapDelta), s.secondary.Value(), 1e-9)
	assert.True(t, hasNotice(s.Notices(), "NOTICE_TRAP_PRESSED"))
	assert.Zero(t, s.Snapshot().TrapRemaining)
	assert.ErrorIs(t, s.PressTrap(), ErrNoTrap)
}

func TestPressTrap_ExpiresAfterLifetime(t *testing.T) {
	s := newSession(t, foodConfig(t))
	showTrapNow(t, s)

	assert.True(t, hasNotice(s.Tick(4), "NOTICE_TRAP_GONE"))
	assert.ErrorIs(t, s.PressTrap(), ErrNoTrap)
}

func TestPressTrap_SameForSameSeed(t *testing.T) {
	a := newSession(t, foodConfig(t))
	b := newSession(t, foodConfig(t))
	assert.Equal(t, showTrapNow(t, a), showTrapNow(t, b))
	assert.Equal(t, a.Snapshot().Elapsed, b.Snapshot().Elapsed)
}

func TestTick_StopsAfterAutoTapEndsGame(t *testing.T) {
	cfg := foodConfig(t)
	cfg.Primary.FailOnCap = true
	cfg.Primary.GainPerAction = 10
	s := newSession(t, cfg)
	s.xp = 100
	require.NoError(t, s.BuyUpgrade(upgrades.AutoTap))
	s.boostReady = true
	require.NoError(t, s.ActivateBoost())
	s.Notices()

	// Boost runs out on the same tick the auto taps hit the cap.
	notices := s.Tick(8)
	require.Equal(t, ReasonPrimaryCap, s.Over())
	require.NotEmpty(t, notices)
	assert.Equal(t, "NOTICE_GAME_OVER", notices[len(notices)-1].Key)
	assert.False(t, hasNotice(notices, "NOTICE_BOOST_OFF"))
	assert.False(t, hasNotice(notices, "NOTICE_BOOST_READY"))
}

func TestPauseResume(t *testing.T) {
	s := newSession(t, foodConfig(t))
	s.Pause()
	assert.ErrorIs(t, s.Click(), ErrPaused)
	s.Tick(5)
	assert.Zero(t, s.Snapshot().Elapsed)
	assert.True(t, s.Snapshot().Paused)

	s.Resume()
	assert.NoError(t, s.Click())
}

func TestNotices(t *testing.T) {
	cfg := foodConfig(t)
	cfg.Secondary.Start = 0.005
	s := newSession(t, cfg)

	require.NoError(t, s.Click())
	assert.Equal(t, []Notice{{Key: "NOTICE_DEPLETED", Args: []any{"LABEL_WEIGHT"}}}, s.Notices())
	require.NoError(t, s.Click())
	assert.Empty(t, s.Notices(), "depletion is reported once")

	for iter := 0; iter < 14; iter++ {
		require.NoError(t, s.Click())
	}
	assert.Contains(t, s.Notices(), Notice{Key: "NOTICE_ENTERED_WARNING", Args: []any{"LABEL_PRESSURE"}})
}

func TestReset_MatchesFreshSession(t *testing.T) {
	cfg := foodConfig(t)
	s := newSession(t, cfg)
	s.xp = 100
	require.NoError(t, s.BuyUpgrade(upgrades.Freeze))
	for iter := 0; iter < 10; iter++ {
		require.NoError(t, s.Click())
		s.Tick(0.7)
	}
	s.gameOver(ReasonPrimaryOverload)

	require.NoError(t, s.Reset())
	fresh := newSession(t, cfg)
	assert.Equal(t, fresh.Snapshot(), s.Snapshot())
}

func TestDeterministicReplay(t *testing.T) {
	run := func() Snapshot {
		s := newSession(t, foodConfig(t))
		s.coins = 200
		for i := 0; i < 300; i++ {
			if i%4 == 0 {
				s.Tick(0.25)
			} else {
				_ = s.Click()
			}
			if i == 50 {
				_ = s.BuyItem("salad")
			}
		}
		return s.Snapshot()
	}
	assert.Equal(t, run(), run())
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(foodConfig(t), 1, WithLogger(log.New(&buf, "[session] ", 0)))
	require.NoError(t, err)
	s.xp = 100

	require.NoError(t, s.BuyUpgrade(upgrades.DoubleTap))
	assert.Contains(t, buf.String(), "[session] upgrade double-tap for 10 xp")
}
