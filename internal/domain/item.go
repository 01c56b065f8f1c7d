package domain

import "time"

// ItemID identifies a catalog item.
type ItemID string

// Effect is an item effect definition. A zero Duration means permanent.
type Effect struct {
	Type      EffectType    `json:"type" yaml:"type"`
	Magnitude int           `json:"magnitude" yaml:"magnitude"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Permanent reports whether the effect never expires.
func (e Effect) Permanent() bool { return e.Duration == 0 }

// Item is an immutable catalog entry.
type Item struct {
	ID        ItemID   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Category  Category `json:"category" yaml:"category"`
	Rarity    Rarity   `json:"rarity" yaml:"rarity"`
	Stats     Stats    `json:"stats" yaml:"stats"`
	Effects   []Effect `json:"effects,omitempty" yaml:"effects"`
	Tradeable bool     `json:"tradeable" yaml:"tradeable"`
	LevelReq  int      `json:"level_req" yaml:"level_req"`
}

// Nourishment returns the summed magnitude of the item's nourish effects.
// Zero means the item is not food.
func (it Item) Nourishment() int {
	n := 0
	for _, e := range it.Effects {
		if e.Type == EffectNourish {
			n += e.Magnitude
		}
	}
	return n
}
