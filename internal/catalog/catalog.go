// Package catalog is the immutable item registry.
//
// A Catalog is populated once, from the embedded items.yaml or a
// replacement file, and never changes afterwards: there is no update or
// delete. Lookups hand out copies.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/critterkeep/internal/domain"
)

//go:embed items.yaml
var itemsYAML []byte

// Catalog maps item ids to definitions.
type Catalog struct {
	items map[domain.ItemID]domain.Item
	order []domain.ItemID
}

type document struct {
	Items []domain.Item `yaml:"items"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(itemsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadFile reads a replacement catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document. Unknown fields are
// rejected.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{items: make(map[domain.ItemID]domain.Item, len(doc.Items))}
	for i, it := range doc.Items {
		if err := validateItem(it); err != nil {
			return nil, fmt.Errorf("invalid catalog item %d (%s): %w", i, it.ID, err)
		}
		if _, dup := c.items[it.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog item %q", it.ID)
		}
		c.items[it.ID] = it
		c.order = append(c.order, it.ID)
	}
	if len(c.items) == 0 {
		return nil, fmt.Errorf("catalog has no items")
	}
	return c, nil
}

func validateItem(it domain.Item) error {
	if it.ID == "" {
		return fmt.Errorf("id is required")
	}
	if it.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !it.Category.Valid() {
		return fmt.Errorf("category is required")
	}
	if !it.Rarity.Valid() {
		return fmt.Errorf("rarity is required")
	}
	if it.LevelReq < 0 {
		return fmt.Errorf("level_req must not be negative")
	}
	if !it.Category.Equippable() && !it.Stats.IsZero() {
		return fmt.Errorf("%s items cannot carry stat bonuses", it.Category)
	}
	for _, e := range it.Effects {
		if !e.Type.Valid() {
			return fmt.Errorf("effect type is required")
		}
		if e.Magnitude <= 0 {
			return fmt.Errorf("effect %s: magnitude must be positive", e.Type)
		}
		if e.Duration < 0 {
			return fmt.Errorf("effect %s: duration must not be negative", e.Type)
		}
		if e.Type.Instant() && e.Duration != 0 {
			return fmt.Errorf("effect %s is instant and cannot have a duration", e.Type)
		}
		if e.Type.Instant() && it.Category.Equippable() {
			return fmt.Errorf("effect %s cannot be granted by equipment", e.Type)
		}
	}
	return nil
}

// Get returns the item definition for id.
func (c *Catalog) Get(id domain.ItemID) (domain.Item, bool) {
	it, ok := c.items[id]
	if !ok {
		return domain.Item{}, false
	}
	it.Effects = slices.Clone(it.Effects)
	return it, true
}

// Lookup is Get returning the unknown-item rejection.
func (c *Catalog) Lookup(id domain.ItemID) (domain.Item, error) {
	it, ok := c.Get(id)
	if !ok {
		return domain.Item{}, domain.ErrUnknownItem.With("item", string(id))
	}
	return it, nil
}

// Items returns every definition in catalog order.
func (c *Catalog) Items() []domain.Item {
	out := make([]domain.Item, 0, len(c.order))
	for _, id := range c.order {
		it, _ := c.Get(id)
		out = append(out, it)
	}
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Require checks that every id is present.
func (c *Catalog) Require(ids ...domain.ItemID) error {
	for _, id := range ids {
		if _, ok := c.items[id]; !ok {
			return fmt.Errorf("catalog: unknown item %q", id)
		}
	}
	return nil
}
