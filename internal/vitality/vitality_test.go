package vitality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/rules"
	"github.com/roach88/critterkeep/internal/testutil"
)

func newPet() *domain.Pet {
	return &domain.Pet{
		Hunger:     0,
		Happiness:  100,
		Health:     100,
		MaxHealth:  100,
		LastFed:    testutil.Epoch,
		LastPlayed: testutil.Epoch,
		Alive:      true,
	}
}

func TestFoldDecay(t *testing.T) {
	v := rules.Default().Vitality
	p := newPet()

	tests := []struct {
		name      string
		elapsed   time.Duration
		hunger    int
		happiness int
		alive     bool
	}{
		{"no time", 0, 0, 100, true},
		{"under one period", 59 * time.Minute, 0, 100, true},
		{"one period", time.Hour, 5, 97, true},
		{"ten periods", 10 * time.Hour, 50, 70, true},
		{"both exhausted", 34 * time.Hour, 100, 0, false},
		{"hunger saturates", 20 * time.Hour, 100, 40, false},
		{"a year", 365 * 24 * time.Hour, 100, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Fold(p, testutil.At(tt.elapsed), v)
			assert.Equal(t, tt.hunger, f.Hunger)
			assert.Equal(t, tt.happiness, f.Happiness)
			assert.Equal(t, tt.alive, f.Alive)
		})
	}
}

func TestFoldDoesNotMutate(t *testing.T) {
	p := newPet()
	before := *p
	_ = Fold(p, testutil.At(48*time.Hour), rules.Default().Vitality)
	assert.Equal(t, before, *p)
}

func TestFoldNegativeElapsed(t *testing.T) {
	p := newPet()
	f := Fold(p, testutil.At(-5*time.Hour), rules.Default().Vitality)
	assert.Equal(t, 0, f.Hunger)
	assert.Equal(t, 100, f.Happiness)
	assert.Equal(t, testutil.Epoch, f.LastFed)
}

func TestApplyPreservesRemainder(t *testing.T) {
	v := rules.Default().Vitality
	p := newPet()

	// Fold at 90 minutes: one period applied, 30 minutes carried.
	Fold(p, testutil.At(90*time.Minute), v).Apply(p)
	assert.Equal(t, 5, p.Hunger)
	assert.Equal(t, testutil.At(time.Hour), p.LastFed)

	// Another 30 minutes completes the second period.
	f := Fold(p, testutil.At(2*time.Hour), v)
	assert.Equal(t, 10, f.Hunger)
}

func TestApplyTwiceDoesNotDoubleDecay(t *testing.T) {
	v := rules.Default().Vitality
	p := newPet()
	now := testutil.At(5 * time.Hour)

	Fold(p, now, v).Apply(p)
	once := *p
	Fold(p, now, v).Apply(p)
	assert.Equal(t, once, *p)
}

func TestDeathIsSticky(t *testing.T) {
	v := rules.Default().Vitality
	p := newPet()

	Fold(p, testutil.At(40*time.Hour), v).Apply(p)
	assert.False(t, p.Alive)

	p.Hunger, p.Happiness = 0, 100
	assert.False(t, Fold(p, testutil.At(40*time.Hour), v).Alive)
}

func TestZeroHealthIsDead(t *testing.T) {
	p := newPet()
	p.Health = 0
	assert.False(t, Fold(p, testutil.Epoch, rules.Default().Vitality).Alive)
}

func TestFoldBoundsProperty(t *testing.T) {
	v := rules.Default().Vitality
	rapid.Check(t, func(t *rapid.T) {
		p := newPet()
		p.Hunger = rapid.IntRange(Min, Max).Draw(t, "hunger")
		p.Happiness = rapid.IntRange(Min, Max).Draw(t, "happiness")
		p.LastFed = testutil.At(time.Duration(rapid.Int64Range(-1e6, 1e6).Draw(t, "fed")) * time.Second)
		p.LastPlayed = testutil.At(time.Duration(rapid.Int64Range(-1e6, 1e6).Draw(t, "played")) * time.Second)
		now := testutil.At(time.Duration(rapid.Int64Range(-1e6, 1e8).Draw(t, "now")) * time.Second)

		f := Fold(p, now, v)
		if f.Hunger < Min || f.Hunger > Max {
			t.Fatalf("hunger %d out of bounds", f.Hunger)
		}
		if f.Happiness < Min || f.Happiness > Max {
			t.Fatalf("happiness %d out of bounds", f.Happiness)
		}
	})
}

func TestLivenessMonotonicProperty(t *testing.T) {
	v := rules.Default().Vitality
	rapid.Check(t, func(t *rapid.T) {
		p := newPet()
		first := time.Duration(rapid.Int64Range(0, 1e6).Draw(t, "first")) * time.Second
		later := first + time.Duration(rapid.Int64Range(0, 1e6).Draw(t, "later"))*time.Second

		if !Fold(p, testutil.At(first), v).Alive && Fold(p, testutil.At(later), v).Alive {
			t.Fatalf("pet revived between %v and %v without care", first, later)
		}
	})
}
