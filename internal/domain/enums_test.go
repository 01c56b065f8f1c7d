package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseElementType(t *testing.T) {
	for _, typ := range ElementTypes {
		got, err := ParseElementType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
		assert.True(t, got.Valid())
	}

	got, err := ParseElementType("  FIRE ")
	require.NoError(t, err)
	assert.Equal(t, TypeFire, got)

	_, err = ParseElementType("lightning")
	assert.Error(t, err)
	assert.False(t, TypeUnknown.Valid())
}

func TestMoveValid(t *testing.T) {
	assert.False(t, MoveUnset.Valid())
	assert.True(t, MoveAttack.Valid())
	assert.True(t, MoveDefend.Valid())
	assert.True(t, MoveSpecial.Valid())
	assert.False(t, Move(9).Valid())
	assert.Equal(t, "invalid(9)", Move(9).String())
}

func TestCategoryPredicates(t *testing.T) {
	tests := []struct {
		cat        Category
		equippable bool
		usable     bool
	}{
		{CategoryWeapon, true, false},
		{CategoryArmor, true, false},
		{CategoryAccessory, true, false},
		{CategoryConsumable, false, true},
		{CategoryEvolution, false, true},
		{CategoryUnknown, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			assert.Equal(t, tt.equippable, tt.cat.Equippable())
			assert.Equal(t, tt.usable, tt.cat.Usable())
		})
	}
}

func TestEffectTypeInstant(t *testing.T) {
	assert.True(t, EffectHeal.Instant())
	assert.True(t, EffectNourish.Instant())
	assert.True(t, EffectCheer.Instant())
	assert.True(t, EffectExperience.Instant())
	assert.False(t, EffectAttackBoost.Instant())
	assert.False(t, EffectCritChance.Instant())
}

func TestEnumsEncodeAsNames(t *testing.T) {
	type payload struct {
		Type   ElementType `json:"type"`
		Move   Move        `json:"move"`
		Effect EffectType  `json:"effect"`
	}
	data, err := json.Marshal(payload{TypeDragon, MoveSpecial, EffectDodgeChance})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"dragon","move":"special","effect":"dodge_chance"}`, string(data))

	var back payload
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, payload{TypeDragon, MoveSpecial, EffectDodgeChance}, back)

	assert.Error(t, json.Unmarshal([]byte(`{"move":"flee"}`), &back))
}
