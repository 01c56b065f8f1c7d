package pet

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/rules"
	"github.com/roach88/critterkeep/internal/testutil"
)

func newEmber(t *testing.T) *domain.Pet {
	t.Helper()
	p, err := New("alice", "Ember", domain.TypeFire, 1, rules.Default(), testutil.Epoch)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	p := newEmber(t)

	assert.Equal(t, "Ember", p.Name)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.Experience)
	assert.Equal(t, 100, p.Happiness)
	assert.Equal(t, 0, p.Hunger)
	assert.Equal(t, 12, p.Attack)
	assert.Equal(t, p.MaxHealth, p.Health)
	assert.True(t, p.Alive)
	assert.Equal(t, testutil.Epoch, p.LastFed)
}

func TestNewRejects(t *testing.T) {
	r := rules.Default()

	_, err := New("alice", "   ", domain.TypeFire, 1, r, testutil.Epoch)
	assert.True(t, errors.Is(err, domain.ErrInvalidName))

	_, err = New("alice", strings.Repeat("x", 21), domain.TypeFire, 1, r, testutil.Epoch)
	assert.True(t, errors.Is(err, domain.ErrInvalidName))

	_, err = New("alice", "Ember", domain.TypeUnknown, 1, r, testutil.Epoch)
	assert.True(t, errors.Is(err, domain.ErrInvalidType))
}

func TestNormalizeName(t *testing.T) {
	// Twenty decomposed characters normalize to twenty runes.
	decomposed := strings.Repeat("e\u0301", 20)
	n, err := NormalizeName(decomposed)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("\u00e9", 20), n)

	_, err = NormalizeName("bad\nname")
	assert.True(t, errors.Is(err, domain.ErrInvalidName))

	n, err = NormalizeName("  Sprout ")
	require.NoError(t, err)
	assert.Equal(t, "Sprout", n)
}

func TestGainExperienceLevels(t *testing.T) {
	l := rules.Default().Leveling
	p := newEmber(t)
	p.Health = 1

	// 100 to leave level 1, 200 to leave level 2: 350 reaches level 3 with 50 left.
	up := GainExperience(p, 350, l)
	assert.Equal(t, LevelUp{Levels: 2, Coins: 100}, up)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 50, p.Experience)
	assert.Equal(t, 12+4, p.Attack)
	assert.Equal(t, 120, p.MaxHealth)
	assert.Equal(t, 120, p.Health, "level up fully heals")
}

func TestGainExperienceIterationCap(t *testing.T) {
	l := rules.Default().Leveling
	l.MaxIterations = 3
	p := newEmber(t)

	up := GainExperience(p, 1_000_000, l)
	assert.Equal(t, 3, up.Levels)
	assert.Equal(t, 4, p.Level)
}

func TestEvolve(t *testing.T) {
	e := rules.Default().Evolution
	p := newEmber(t)

	err := Evolve(p, e)
	assert.True(t, errors.Is(err, domain.ErrCannotEvolve))
	assert.Equal(t, 0, p.Stage)

	p.Level = 10
	require.NoError(t, Evolve(p, e))
	assert.Equal(t, 1, p.Stage)
	assert.Equal(t, 22, p.Attack)
	assert.Equal(t, p.MaxHealth, p.Health)

	assert.False(t, CanEvolve(p, e), "stage 2 needs level 25")
	p.Level = 25
	require.NoError(t, Evolve(p, e))
	assert.Equal(t, domain.MaxStage, p.Stage)

	p.Level = 99
	assert.True(t, errors.Is(Evolve(p, e), domain.ErrCannotEvolve), "stage 2 is terminal")
}

func TestTrainGates(t *testing.T) {
	r := rules.Default()
	p := newEmber(t)

	p.Hunger = 80
	_, err := Train(p, r)
	assert.True(t, errors.Is(err, domain.ErrTooHungry))

	p.Hunger, p.Happiness = 0, 10
	_, err = Train(p, r)
	assert.True(t, errors.Is(err, domain.ErrTooUnhappy))

	p.Happiness = 50
	_, err = Train(p, r)
	require.NoError(t, err)
	assert.Equal(t, 25, p.Experience)
	assert.Equal(t, 10, p.Hunger)
	assert.Equal(t, 45, p.Happiness)
}

func TestPlayAndFeed(t *testing.T) {
	r := rules.Default()
	p := newEmber(t)
	p.Happiness, p.Hunger = 50, 40

	Play(p, testutil.At(time.Hour), r)
	assert.Equal(t, 65, p.Happiness)
	assert.Equal(t, 45, p.Hunger)
	assert.Equal(t, 10, p.Experience)
	assert.Equal(t, testutil.At(time.Hour), p.LastPlayed)

	Feed(p, 50, testutil.At(2*time.Hour), r.Care)
	assert.Equal(t, 0, p.Hunger)
	assert.Equal(t, 70, p.Happiness)
	assert.Equal(t, testutil.At(2*time.Hour), p.LastFed)
}

func TestHealAndDamage(t *testing.T) {
	p := newEmber(t)
	Damage(p, 30)
	assert.Equal(t, 70, p.Health)
	Heal(p, 500)
	assert.Equal(t, 100, p.Health)

	Damage(p, 1000)
	assert.Equal(t, 0, p.Health)
	assert.False(t, p.Alive)
}

func TestReplaceable(t *testing.T) {
	v := rules.Default().Vitality
	p := newEmber(t)

	assert.True(t, Replaceable(nil, testutil.Epoch, v))
	assert.False(t, Replaceable(p, testutil.Epoch, v))
	assert.True(t, Replaceable(p, testutil.At(48*time.Hour), v))
}

// TestEvolutionStageNeverDecreases drives a pet through random sequences
// of care, experience and evolution attempts.
func TestEvolutionStageNeverDecreases(t *testing.T) {
	r := rules.Default()
	rapid.Check(t, func(t *rapid.T) {
		p, err := New("alice", "Ember", domain.TypeFire, 1, r, testutil.Epoch)
		if err != nil {
			t.Fatal(err)
		}
		stage := p.Stage
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				GainExperience(p, rapid.IntRange(0, 5000).Draw(t, "xp"), r.Leveling)
			case 1:
				_ = Evolve(p, r.Evolution)
			case 2:
				Play(p, testutil.Epoch, r)
			case 3:
				_, _ = Train(p, r)
			case 4:
				Damage(p, rapid.IntRange(0, 50).Draw(t, "dmg"))
			}
			if p.Stage < stage {
				t.Fatalf("stage decreased from %d to %d", stage, p.Stage)
			}
			if p.Stage > domain.MaxStage {
				t.Fatalf("stage %d beyond terminal", p.Stage)
			}
			stage = p.Stage
		}
	})
}
