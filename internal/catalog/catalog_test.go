package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/rules"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	food, ok := c.Get("basic_food")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryConsumable, food.Category)
	assert.Equal(t, 20, food.Nourishment())

	tonic, ok := c.Get("power_tonic")
	require.True(t, ok)
	require.Len(t, tonic.Effects, 1)
	assert.Equal(t, domain.EffectAttackBoost, tonic.Effects[0].Type)
	assert.Equal(t, time.Hour, tonic.Effects[0].Duration)

	relic, ok := c.Get("soulbound_relic")
	require.True(t, ok)
	assert.False(t, relic.Tradeable)
	assert.Equal(t, 20, relic.LevelReq)

	amulet, _ := c.Get("power_amulet")
	assert.Equal(t, -1, amulet.Stats.Defense, "accessories may carry negative deltas")
}

func TestDefaultCatalogCoversRules(t *testing.T) {
	assert.NoError(t, Default().Require(rules.Default().ItemRefs()...))
}

func TestGetReturnsCopy(t *testing.T) {
	c := Default()
	meal, _ := c.Get("gourmet_meal")
	meal.Effects[0].Magnitude = 999

	again, _ := c.Get("gourmet_meal")
	assert.Equal(t, 50, again.Effects[0].Magnitude)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("excalibur")
	assert.True(t, errors.Is(err, domain.ErrUnknownItem))
}

func TestItemsOrder(t *testing.T) {
	items := Default().Items()
	require.NotEmpty(t, items)
	assert.Equal(t, domain.ItemID("basic_food"), items[0].ID)
	assert.Equal(t, Default().Len(), len(items))
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "items:\n  - {id: a, name: A, category: weapon, rarity: common, colour: red}\n"},
		{"unknown category", "items:\n  - {id: a, name: A, category: potion, rarity: common}\n"},
		{"missing rarity", "items:\n  - {id: a, name: A, category: weapon}\n"},
		{"duplicate", "items:\n  - {id: a, name: A, category: weapon, rarity: common}\n  - {id: a, name: B, category: armor, rarity: common}\n"},
		{"consumable stats", "items:\n  - {id: a, name: A, category: consumable, rarity: common, stats: {attack: 1}}\n"},
		{"instant with duration", "items:\n  - {id: a, name: A, category: consumable, rarity: common, effects: [{type: heal, magnitude: 5, duration: 1h}]}\n"},
		{"equipment heals", "items:\n  - {id: a, name: A, category: weapon, rarity: common, effects: [{type: heal, magnitude: 5}]}\n"},
		{"zero magnitude", "items:\n  - {id: a, name: A, category: accessory, rarity: common, effects: [{type: crit_chance, magnitude: 0}]}\n"},
		{"empty", "items: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	doc := "items:\n  - {id: stick, name: Stick, category: weapon, rarity: common, stats: {attack: 1}}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
