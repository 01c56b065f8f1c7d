package domain

import "time"

// Battle is a two-party battle record. It is owned by the battle table and
// referenced by both participants through Account.ActiveBattle.
type Battle struct {
	ID              int64     `json:"id"`
	Challenger      AccountID `json:"challenger"`
	Opponent        AccountID `json:"opponent"`
	ChallengerMove  Move      `json:"challenger_move"`
	OpponentMove    Move      `json:"opponent_move"`
	Winner          AccountID `json:"winner,omitempty"`
	Completed       bool      `json:"completed"`
	StartedAt       time.Time `json:"started_at"`
	ResolvedAt      time.Time `json:"resolved_at"`
	ChallengerScore int64     `json:"challenger_score"`
	OpponentScore   int64     `json:"opponent_score"`
	Drop            ItemID    `json:"drop,omitempty"`
}

// Participant reports whether a takes part in the battle.
func (b *Battle) Participant(a AccountID) bool {
	return a == b.Challenger || a == b.Opponent
}

// MoveOf returns the move recorded for party a.
func (b *Battle) MoveOf(a AccountID) Move {
	switch a {
	case b.Challenger:
		return b.ChallengerMove
	case b.Opponent:
		return b.OpponentMove
	}
	return MoveUnset
}

// Counterpart returns the other participant.
func (b *Battle) Counterpart(a AccountID) AccountID {
	if a == b.Challenger {
		return b.Opponent
	}
	return b.Challenger
}

// Loser returns the non-winning participant of a resolved battle.
func (b *Battle) Loser() AccountID {
	if b.Winner == "" {
		return ""
	}
	return b.Counterpart(b.Winner)
}

// Ready reports whether both parties have submitted.
func (b *Battle) Ready() bool {
	return b.ChallengerMove.Valid() && b.OpponentMove.Valid()
}
