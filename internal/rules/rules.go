// Package rules loads the game balance table.
//
// The table is a CUE document (rules.cue) embedded in the binary. #Rules
// declares every field with its constraint and default, so an override
// document only names the fields it changes:
//
//	battle: cooldown_seconds: 60
//	species: fire: attack: 15
//
// Overrides that violate a constraint, or name a field #Rules does not
// declare, fail to load.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/critterkeep/internal/domain"
)

//go:embed rules.cue
var rulesCUE string

// Rules is the decoded balance table.
type Rules struct {
	Vitality  Vitality             `json:"vitality"`
	Care      Care                 `json:"care"`
	Leveling  Leveling             `json:"leveling"`
	Evolution Evolution            `json:"evolution"`
	Battle    Battle               `json:"battle"`
	Daily     Daily                `json:"daily"`
	Starting  Starting             `json:"starting"`
	Species   map[string]BaseStats `json:"species"`
	TypeChart TypeChart            `json:"type_chart"`
}

type Vitality struct {
	HungerPeriodSeconds    int64 `json:"hunger_period_seconds"`
	HungerStep             int   `json:"hunger_step"`
	HappinessPeriodSeconds int64 `json:"happiness_period_seconds"`
	HappinessStep          int   `json:"happiness_step"`
	InitialHunger          int   `json:"initial_hunger"`
	InitialHappiness       int   `json:"initial_happiness"`
}

func (v Vitality) HungerPeriod() time.Duration {
	return time.Duration(v.HungerPeriodSeconds) * time.Second
}

func (v Vitality) HappinessPeriod() time.Duration {
	return time.Duration(v.HappinessPeriodSeconds) * time.Second
}

type Care struct {
	PlayHappiness      int `json:"play_happiness"`
	PlayHunger         int `json:"play_hunger"`
	PlayExperience     int `json:"play_experience"`
	TrainExperience    int `json:"train_experience"`
	TrainHunger        int `json:"train_hunger"`
	TrainHappinessCost int `json:"train_happiness_cost"`
	TrainMaxHunger     int `json:"train_max_hunger"`
	TrainMinHappiness  int `json:"train_min_happiness"`
	FeedHappiness      int `json:"feed_happiness"`
}

type Leveling struct {
	ExperiencePerLevel int   `json:"experience_per_level"`
	Attack             int   `json:"attack"`
	Defense            int   `json:"defense"`
	Speed              int   `json:"speed"`
	MaxHealth          int   `json:"max_health"`
	Coins              int64 `json:"coins"`
	MaxIterations      int   `json:"max_iterations"`
}

type Evolution struct {
	StageLevels []int `json:"stage_levels"`
	Attack      int   `json:"attack"`
	Defense     int   `json:"defense"`
	Speed       int   `json:"speed"`
	MaxHealth   int   `json:"max_health"`
}

// LevelFor returns the level required to evolve out of stage, and false
// when stage is terminal.
func (e Evolution) LevelFor(stage int) (int, bool) {
	if stage < 0 || stage >= len(e.StageLevels) {
		return 0, false
	}
	return e.StageLevels[stage], true
}

// Weighted is one entry of a weighted roll table. An empty Item grants
// nothing; daily grant tables may not contain one.
type Weighted struct {
	Item   domain.ItemID `json:"item"`
	Weight int64         `json:"weight"`
}

type Battle struct {
	CooldownSeconds   int64      `json:"cooldown_seconds"`
	WinCoins          int64      `json:"win_coins"`
	StreakBonus       int64      `json:"streak_bonus"`
	StreakBonusCap    int64      `json:"streak_bonus_cap"`
	WinExperience     int        `json:"win_experience"`
	LossExperience    int        `json:"loss_experience"`
	LossHealthPenalty int        `json:"loss_health_penalty"`
	DropChancePercent int64      `json:"drop_chance_percent"`
	Drops             []Weighted `json:"drops"`
	Score             Score      `json:"score"`
}

func (b Battle) Cooldown() time.Duration {
	return time.Duration(b.CooldownSeconds) * time.Second
}

// Score weights battle score components. Percentages are integers.
type Score struct {
	AttackWeight       int64 `json:"attack_weight"`
	DefenseWeight      int64 `json:"defense_weight"`
	SpeedWeight        int64 `json:"speed_weight"`
	AttackMovePercent  int64 `json:"attack_move_percent"`
	DefendBonusWeight  int64 `json:"defend_bonus_weight"`
	SpecialMovePercent int64 `json:"special_move_percent"`
}

type Daily struct {
	CooldownSeconds int64      `json:"cooldown_seconds"`
	BaseCoins       int64      `json:"base_coins"`
	CoinsPerLevel   int64      `json:"coins_per_level"`
	Grants          []Weighted `json:"grants"`
}

func (d Daily) Cooldown() time.Duration {
	return time.Duration(d.CooldownSeconds) * time.Second
}

type Starting struct {
	Coins int64                 `json:"coins"`
	Items map[domain.ItemID]int `json:"items"`
}

type BaseStats struct {
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	Speed     int `json:"speed"`
	MaxHealth int `json:"max_health"`
}

type TypeChart struct {
	Beats               map[string]string `json:"beats"`
	AdvantagePercent    int64             `json:"advantage_percent"`
	DisadvantagePercent int64             `json:"disadvantage_percent"`
	NeutralPercent      int64             `json:"neutral_percent"`
	FlatPercent         map[string]int64  `json:"flat_percent"`
}

// Multiplier returns the percentage applied to attacker's score when
// facing defender.
func (tc TypeChart) Multiplier(attacker, defender domain.ElementType) int64 {
	if p, ok := tc.FlatPercent[attacker.String()]; ok {
		return p
	}
	switch {
	case tc.Beats[attacker.String()] == defender.String():
		return tc.AdvantagePercent
	case tc.Beats[defender.String()] == attacker.String():
		return tc.DisadvantagePercent
	default:
		return tc.NeutralPercent
	}
}

// Base returns the starting stats for an element type.
func (r *Rules) Base(t domain.ElementType) (BaseStats, bool) {
	b, ok := r.Species[t.String()]
	return b, ok
}

// LoadError reports an invalid rules document.
type LoadError struct {
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: rules: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return "rules: " + e.Message
}

// Default returns the built-in table.
func Default() *Rules {
	r, err := Load("", "")
	if err != nil {
		panic(fmt.Sprintf("embedded rules: %v", err))
	}
	return r
}

// LoadFile loads the built-in table unified with the override document at
// path.
func LoadFile(path string) (*Rules, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return Load(path, string(src))
}

// Load unifies the built-in table with an override document. An empty
// override yields the defaults; filename is used in error positions.
func Load(filename, override string) (*Rules, error) {
	ctx := cuecontext.New()

	base := ctx.CompileString(rulesCUE, cue.Filename("rules.cue"))
	if err := base.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	v := base.LookupPath(cue.ParsePath("#Rules"))

	if override != "" {
		ov := ctx.CompileString(override, cue.Filename(filename))
		if err := ov.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		v = v.Unify(ov)
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var r Rules
	if err := v.Decode(&r); err != nil {
		return nil, formatCUEError(err)
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	return &r, nil
}

// check enforces constraints CUE cannot express on its own.
func (r *Rules) check() error {
	for _, t := range domain.ElementTypes {
		if _, ok := r.Base(t); !ok {
			return &LoadError{Message: fmt.Sprintf("species %q missing", t)}
		}
	}
	if len(r.Evolution.StageLevels) != domain.MaxStage {
		return &LoadError{Message: fmt.Sprintf("evolution needs %d stage levels", domain.MaxStage)}
	}
	if r.Evolution.StageLevels[0] >= r.Evolution.StageLevels[1] {
		return &LoadError{Message: "evolution stage levels must increase"}
	}
	if r.Daily.CooldownSeconds <= 0 {
		return &LoadError{Message: "daily cooldown must be positive"}
	}
	if len(r.Daily.Grants) == 0 {
		return &LoadError{Message: "daily grants must not be empty"}
	}
	for i, g := range r.Daily.Grants {
		if g.Item == "" || g.Weight <= 0 {
			return &LoadError{Message: fmt.Sprintf("daily grant %d needs an item and a positive weight", i)}
		}
	}
	return nil
}

// ItemRefs returns every item id the table refers to, for cross-checking
// against the catalog.
func (r *Rules) ItemRefs() []domain.ItemID {
	var ids []domain.ItemID
	for _, w := range r.Battle.Drops {
		if w.Item != "" {
			ids = append(ids, w.Item)
		}
	}
	for _, w := range r.Daily.Grants {
		if w.Item != "" {
			ids = append(ids, w.Item)
		}
	}
	for id := range r.Starting.Items {
		ids = append(ids, id)
	}
	return ids
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Message: err.Error()}
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &LoadError{Message: first.Error(), Pos: positions[0]}
	}
	return &LoadError{Message: first.Error()}
}
