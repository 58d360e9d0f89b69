// Package catalog holds the items that travel along the conveyor: junk that
// fills the pool on its own and healthy items the player buys to replace it.
package catalog

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"toiletclicker/pkg/engine/pool"
)

// Impact coefficients applied to item stats when an item is consumed.
const (
	DensityCoefficient = 0.025
	RiskCoefficient    = 0.025
	ReliefCoefficient  = 0.25
)

// Category separates pool filler from purchasable items.
type Category int

const (
	Junk Category = iota
	Healthy
)

func (c Category) String() string {
	if c == Healthy {
		return "healthy"
	}
	return "junk"
}

// UnmarshalText lets YAML config name categories.
func (c *Category) UnmarshalText(b []byte) error {
	switch string(b) {
	case "junk", "encrypted":
		*c = Junk
	case "healthy", "decoded":
		*c = Healthy
	default:
		return fmt.Errorf("catalog: unknown category %q", b)
	}
	return nil
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Stats are the numbers that make up an item's impact on the secondary track.
// In the food skin they read as fat, sugar and fibre; in the code skin as junk
// density, detection risk and optimisation.
type Stats struct {
	Density float64 `yaml:"density"`
	Risk    float64 `yaml:"risk"`
	Relief  float64 `yaml:"relief"`
}

// Item is a single catalog entry.
type Item struct {
	ID       pool.ItemID `yaml:"id"`
	Name     string      `yaml:"name"`
	Category Category    `yaml:"category"`
	Cost     int         `yaml:"cost"`
	XP       int         `yaml:"xp"`
	Stats    Stats       `yaml:"stats"`
}

// Impact is the change applied to the secondary track when the item is consumed.
// Positive values push it towards its cap.
func (i *Item) Impact() float64 {
	return i.Stats.Density*DensityCoefficient + i.Stats.Risk*RiskCoefficient - i.Stats.Relief*ReliefCoefficient
}

// Catalog is an immutable set of items. The stats of individual items may be
// overridden while an upgrade is active.
type Catalog struct {
	items   []*Item
	byID    map[pool.ItemID]*Item
	junk    mapset.Set[pool.ItemID]
	healthy mapset.Set[pool.ItemID]

	junkIDs []pool.ItemID // ordered, for deterministic draws
}

// New builds a catalog. Items are copied.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		byID:    make(map[pool.ItemID]*Item, len(items)),
		junk:    mapset.New[pool.ItemID](),
		healthy: mapset.New[pool.ItemID](),
	}
	for _, it := range items {
		if it.ID == "" {
			return nil, errors.New("catalog: item with empty id")
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate item %q", it.ID)
		}
		if it.Cost < 0 {
			return nil, fmt.Errorf("catalog: item %q has negative cost", it.ID)
		}
		item := it
		c.items = append(c.items, &item)
		c.byID[item.ID] = &item
		if item.Category == Healthy {
			c.healthy.Put(item.ID)
		} else {
			c.junk.Put(item.ID)
			c.junkIDs = append(c.junkIDs, item.ID)
		}
	}
	if c.junk.Size() == 0 {
		return nil, errors.New("catalog: no junk items to fill the pool with")
	}
	return c, nil
}

// Get looks up an item by id.
func (c *Catalog) Get(id pool.ItemID) (*Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Items returns every item in declaration order.
func (c *Catalog) Items() []*Item {
	return c.items
}

// Junk returns the junk items in declaration order.
func (c *Catalog) Junk() []*Item {
	return c.filter(c.junk)
}

// Healthy returns the purchasable items in declaration order.
func (c *Catalog) Healthy() []*Item {
	return c.filter(c.healthy)
}

func (c *Catalog) filter(set mapset.Set[pool.ItemID]) []*Item {
	out := make([]*Item, 0, set.Size())
	for _, it := range c.items {
		if set.Has(it.ID) {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) IsJunk(id pool.ItemID) bool {
	return c.junk.Has(id)
}

func (c *Catalog) IsHealthy(id pool.ItemID) bool {
	return c.healthy.Has(id)
}

// RandomJunk draws a junk item id. It is the pool's content source.
func (c *Catalog) RandomJunk(rng *rand.Rand) pool.ItemID {
	return c.junkIDs[rng.Intn(len(c.junkIDs))]
}

// RandomHealthy draws a healthy item id, or "" when there are none.
func (c *Catalog) RandomHealthy(rng *rand.Rand) pool.ItemID {
	healthy := c.Healthy()
	if len(healthy) == 0 {
		return ""
	}
	return healthy[rng.Intn(len(healthy))].ID
}
