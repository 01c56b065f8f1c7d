// Package battle implements the two-party battle state machine.
//
//	NoBattle -> Challenged -> OneMoveSubmitted -> Resolved
//
// A challenge creates the battle with both moves unset. Each party submits
// exactly one move; the submission that completes the pair resolves the
// battle in the same call. Resolution is a pure function of the two sides'
// effective stats, moves and types, so it is deterministic. Ties go to the
// faster pet, then to the challenger.
//
// A party whose pet is dead forfeits without scoring. When both pets are
// dead the battle is abandoned with no winner.
package battle

import (
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/rules"
)

// New creates a battle in the Challenged state.
func New(id int64, challenger, opponent domain.AccountID, now time.Time) *domain.Battle {
	return &domain.Battle{
		ID:         id,
		Challenger: challenger,
		Opponent:   opponent,
		StartedAt:  now,
	}
}

// CooldownRemaining returns how long until a pet that last battled at last
// may battle again. Zero means ready.
func CooldownRemaining(last, now time.Time, cooldown time.Duration) time.Duration {
	if last.IsZero() {
		return 0
	}
	ready := last.Add(cooldown)
	if !now.Before(ready) {
		return 0
	}
	return ready.Sub(now)
}

// Submit records party's move.
func Submit(b *domain.Battle, party domain.AccountID, move domain.Move) error {
	if !move.Valid() {
		return domain.ErrInvalidMove.With("move", move.String())
	}
	if !b.Participant(party) {
		return domain.ErrNotParticipant.With("account", string(party))
	}
	if b.Completed {
		return domain.ErrBattleCompleted
	}
	if b.MoveOf(party) != domain.MoveUnset {
		return domain.ErrMoveSubmitted.With("move", b.MoveOf(party).String())
	}
	if party == b.Challenger {
		b.ChallengerMove = move
	} else {
		b.OpponentMove = move
	}
	return nil
}

// Side is one participant's combat profile at resolution.
type Side struct {
	Stats domain.TotalStats
	Type  domain.ElementType
}

// Score computes a side's battle score against an opponent of type
// against. All arithmetic is integer; percentages are applied after
// summing so no precision is lost to early division.
func Score(s Side, move domain.Move, against domain.ElementType, sc rules.Score, tc rules.TypeChart) int64 {
	atk := int64(s.Stats.Attack)
	def := int64(s.Stats.Defense)
	spd := int64(s.Stats.Speed)

	attackC := atk * sc.AttackWeight
	defenseC := def * sc.DefenseWeight
	speedC := spd * sc.SpeedWeight
	var bonus int64

	switch move {
	case domain.MoveAttack:
		attackC = attackC * sc.AttackMovePercent / 100
	case domain.MoveDefend:
		bonus = def * sc.DefendBonusWeight
	case domain.MoveSpecial:
		attackC = attackC * sc.SpecialMovePercent / 100
		defenseC = 0
	case domain.MoveUnset:
	}

	bonus += atk * int64(s.Stats.Crit)
	bonus += def * int64(s.Stats.Dodge) / 2

	total := attackC + defenseC + speedC + bonus
	return total * tc.Multiplier(s.Type, against) / 100
}

// Outcome is the result of resolving a battle.
type Outcome struct {
	Winner          domain.AccountID `json:"winner"`
	Loser           domain.AccountID `json:"loser"`
	ChallengerScore int64            `json:"challenger_score"`
	OpponentScore   int64            `json:"opponent_score"`
}

// Resolve scores both sides and completes b. b must be Ready.
func Resolve(b *domain.Battle, challenger, opponent Side, r *rules.Rules, now time.Time) (Outcome, error) {
	if b.Completed {
		return Outcome{}, domain.ErrBattleCompleted
	}
	if !b.Ready() {
		return Outcome{}, domain.ErrInvalidArgument.With("battle", "moves pending")
	}

	cs := Score(challenger, b.ChallengerMove, opponent.Type, r.Battle.Score, r.TypeChart)
	ops := Score(opponent, b.OpponentMove, challenger.Type, r.Battle.Score, r.TypeChart)

	winner := b.Challenger
	switch {
	case ops > cs:
		winner = b.Opponent
	case ops == cs && opponent.Stats.Speed > challenger.Stats.Speed:
		winner = b.Opponent
	}

	b.Winner = winner
	b.Completed = true
	b.ResolvedAt = now
	b.ChallengerScore = cs
	b.OpponentScore = ops

	return Outcome{
		Winner:          winner,
		Loser:           b.Loser(),
		ChallengerScore: cs,
		OpponentScore:   ops,
	}, nil
}

// StreakBonus returns the extra coins for a win that brings the streak to
// streak.
func StreakBonus(streak int, b rules.Battle) int64 {
	if streak <= 1 {
		return 0
	}
	return min(int64(streak-1)*b.StreakBonus, b.StreakBonusCap)
}

// Forfeit completes b as a loss for party without scoring. Pending moves
// do not matter.
func Forfeit(b *domain.Battle, party domain.AccountID, now time.Time) (Outcome, error) {
	if b.Completed {
		return Outcome{}, domain.ErrBattleCompleted
	}
	if !b.Participant(party) {
		return Outcome{}, domain.ErrNotParticipant.With("account", string(party))
	}
	b.Winner = b.Counterpart(party)
	b.Completed = true
	b.ResolvedAt = now
	return Outcome{Winner: b.Winner, Loser: party}, nil
}

// Abandon completes b with no winner.
func Abandon(b *domain.Battle, now time.Time) error {
	if b.Completed {
		return domain.ErrBattleCompleted
	}
	b.Winner = ""
	b.Completed = true
	b.ResolvedAt = now
	return nil
}
