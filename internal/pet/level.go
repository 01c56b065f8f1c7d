package pet

import (
	"strconv"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/rules"
)

// LevelUp summarizes what an experience grant did.
type LevelUp struct {
	Levels int   `json:"levels"`
	Coins  int64 `json:"coins"`
}

// Threshold returns the experience needed to leave level.
func Threshold(level int, l rules.Leveling) int {
	return level * l.ExperiencePerLevel
}

// GainExperience adds xp and runs the leveling loop. Each level-up grants
// the fixed stat increments, fully heals, and earns coins the caller must
// credit.
func GainExperience(p *domain.Pet, xp int, l rules.Leveling) LevelUp {
	var out LevelUp
	if xp > 0 {
		p.Experience += xp
	}
	for i := 0; i < l.MaxIterations; i++ {
		need := Threshold(p.Level, l)
		if need <= 0 || p.Experience < need {
			break
		}
		p.Experience -= need
		p.Level++
		p.Attack += l.Attack
		p.Defense += l.Defense
		p.Speed += l.Speed
		p.MaxHealth += l.MaxHealth
		p.Health = p.MaxHealth
		out.Levels++
		out.Coins += l.Coins
	}
	return out
}

// CanEvolve reports whether p meets the level for its next stage.
func CanEvolve(p *domain.Pet, e rules.Evolution) bool {
	need, ok := e.LevelFor(p.Stage)
	return ok && p.Stage < domain.MaxStage && p.Level >= need
}

// Evolve advances p one stage, granting the flat boosts and a full heal.
func Evolve(p *domain.Pet, e rules.Evolution) error {
	if !CanEvolve(p, e) {
		err := domain.ErrCannotEvolve.
			With("stage", strconv.Itoa(p.Stage)).
			With("level", strconv.Itoa(p.Level))
		if need, ok := e.LevelFor(p.Stage); ok {
			err = err.With("required", strconv.Itoa(need))
		}
		return err
	}
	p.Stage++
	p.Attack += e.Attack
	p.Defense += e.Defense
	p.Speed += e.Speed
	p.MaxHealth += e.MaxHealth
	p.Health = p.MaxHealth
	return nil
}
