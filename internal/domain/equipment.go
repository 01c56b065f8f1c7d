package domain

// AccessorySlots is the number of accessory slots per account.
const AccessorySlots = 3

// Equipment holds an account's equipped item ids. An empty ItemID is an
// empty slot.
type Equipment struct {
	Weapon      ItemID                 `json:"weapon"`
	Armor       ItemID                 `json:"armor"`
	Accessories [AccessorySlots]ItemID `json:"accessories"`
}

// Slotted returns every occupied slot's item id: weapon, armor, then
// accessories in slot order.
func (e *Equipment) Slotted() []ItemID {
	var ids []ItemID
	if e.Weapon != "" {
		ids = append(ids, e.Weapon)
	}
	if e.Armor != "" {
		ids = append(ids, e.Armor)
	}
	for _, a := range e.Accessories {
		if a != "" {
			ids = append(ids, a)
		}
	}
	return ids
}

// Holds reports whether id occupies any slot.
func (e *Equipment) Holds(id ItemID) bool {
	if id == "" {
		return false
	}
	for _, s := range e.Slotted() {
		if s == id {
			return true
		}
	}
	return false
}
