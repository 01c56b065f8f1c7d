package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActiveEffectExpiry(t *testing.T) {
	now := time.Unix(1000, 0)

	assert.False(t, ActiveEffect{}.Expired(now), "permanent effects never expire")
	assert.True(t, ActiveEffect{ExpiresAt: now}.Expired(now), "expiry is inclusive")
	assert.False(t, ActiveEffect{ExpiresAt: now.Add(time.Second)}.Expired(now))
}

func TestEquipmentSlotted(t *testing.T) {
	eq := Equipment{Weapon: "iron_sword", Accessories: [AccessorySlots]ItemID{"", "speed_ring", ""}}

	assert.Equal(t, []ItemID{"iron_sword", "speed_ring"}, eq.Slotted())
	assert.True(t, eq.Holds("speed_ring"))
	assert.False(t, eq.Holds("lucky_charm"))
	assert.False(t, eq.Holds(""))
}

func TestBattleParticipants(t *testing.T) {
	b := Battle{Challenger: "alice", Opponent: "bob", OpponentMove: MoveDefend}

	assert.True(t, b.Participant("alice"))
	assert.False(t, b.Participant("carol"))
	assert.Equal(t, AccountID("bob"), b.Counterpart("alice"))
	assert.Equal(t, MoveDefend, b.MoveOf("bob"))
	assert.Equal(t, MoveUnset, b.MoveOf("carol"))
	assert.False(t, b.Ready())
	assert.Equal(t, AccountID(""), b.Loser())

	b.ChallengerMove = MoveAttack
	b.Winner = "bob"
	assert.True(t, b.Ready())
	assert.Equal(t, AccountID("alice"), b.Loser())
}

func TestItemNourishment(t *testing.T) {
	meal := Item{Effects: []Effect{
		{Type: EffectNourish, Magnitude: 50},
		{Type: EffectCheer, Magnitude: 10},
	}}
	assert.Equal(t, 50, meal.Nourishment())
	assert.Equal(t, 0, Item{}.Nourishment())
}

func TestAccountIDValid(t *testing.T) {
	assert.True(t, AccountID("alice").Valid())
	assert.False(t, AccountID("").Valid())
	assert.False(t, AccountID("   ").Valid())
	assert.False(t, AccountID("a/b").Valid())
}

func TestInventoryItemIDsSorted(t *testing.T) {
	inv := NewInventory()
	inv.Items["zeta"] = 1
	inv.Items["alpha"] = 2
	assert.Equal(t, []ItemID{"alpha", "zeta"}, inv.ItemIDs())

	c := inv.Clone()
	c.Items["alpha"] = 9
	assert.Equal(t, 2, inv.Quantity("alpha"))
}
