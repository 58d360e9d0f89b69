package catalog

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"toiletclicker/pkg/engine/pool"
)

func testItems() []Item {
	return []Item{
		{ID: "burger", Name: "Burger", Category: Junk, Stats: Stats{Density: 40, Risk: 20, Relief: 1}},
		{ID: "donut", Name: "Donut", Category: Junk, Stats: Stats{Density: 20, Risk: 40}},
		{ID: "salad", Name: "Salad", Category: Healthy, Cost: 30, XP: 2, Stats: Stats{Relief: 8}},
	}
}

func TestImpact(t *testing.T) {
	burger := Item{Stats: Stats{Density: 40, Risk: 20, Relief: 1}}
	assert.InDelta(t, 1.25, burger.Impact(), 1e-9)

	salad := Item{Stats: Stats{Relief: 8}}
	assert.InDelta(t, -2.0, salad.Impact(), 1e-9)
}

func TestNew_Categories(t *testing.T) {
	c, err := New(testItems())
	require.NoError(t, err)

	assert.True(t, c.IsJunk("burger"))
	assert.False(t, c.IsJunk("salad"))
	assert.True(t, c.IsHealthy("salad"))
	assert.Len(t, c.Junk(), 2)
	require.Len(t, c.Healthy(), 1)
	assert.Equal(t, pool.ItemID("salad"), c.Healthy()[0].ID)
	assert.Len(t, c.Items(), 3)
}

func TestNew_Rejects(t *testing.T) {
	_, err := New([]Item{{ID: ""}})
	assert.Error(t, err)

	_, err = New([]Item{{ID: "a"}, {ID: "a"}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = New([]Item{{ID: "salad", Category: Healthy}})
	assert.ErrorContains(t, err, "no junk")

	_, err = New([]Item{{ID: "a", Cost: -1}})
	assert.ErrorContains(t, err, "negative cost")
}

func TestItemsAreSharedPointers(t *testing.T) {
	c, err := New(testItems())
	require.NoError(t, err)

	burger, ok := c.Get("burger")
	require.True(t, ok)
	c.Items()[0].Stats.Density = 1
	assert.Equal(t, 1.0, burger.Stats.Density)
}

func TestRandomJunk_Deterministic(t *testing.T) {
	c, err := New(testItems())
	require.NoError(t, err)

	a := rand.New(rand.NewSource(3))
	b := rand.New(rand.NewSource(3))
	for iter := 0; iter < 50; iter++ {
		id := c.RandomJunk(a)
		assert.True(t, c.IsJunk(id))
		assert.Equal(t, id, c.RandomJunk(b))
	}
	assert.Equal(t, pool.ItemID("salad"), c.RandomHealthy(a))
}

func TestCategory_YAML(t *testing.T) {
	var items []Item
	src := `
- id: sql-inject
  category: encrypted
  stats: {density: 10, risk: 30}
- id: patch
  category: decoded
  cost: 15
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &items))
	require.Len(t, items, 2)
	assert.Equal(t, Junk, items[0].Category)
	assert.Equal(t, Healthy, items[1].Category)
	assert.Equal(t, 30.0, items[0].Stats.Risk)

	var bad []Item
	assert.Error(t, yaml.Unmarshal([]byte("- id: x\n  category: spicy\n"), &bad))
}
