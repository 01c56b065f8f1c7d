package domain

import (
	"strings"
	"time"
)

// AccountID identifies a player account. Identity arrives pre-verified from
// the host; the engine only requires it to be non-empty.
type AccountID string

// Valid reports whether the id is usable as a store key.
func (a AccountID) Valid() bool {
	return strings.TrimSpace(string(a)) != "" && !strings.ContainsAny(string(a), "\x00/")
}

func (a AccountID) String() string { return string(a) }

// Account is the per-account record that is not owned by any component.
//
// ActiveBattle is a non-owning pointer into the battle table. It MUST be
// cleared when that battle resolves.
type Account struct {
	ID             AccountID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	ActiveBattle   int64     `json:"active_battle,omitempty"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	WinStreak      int       `json:"win_streak"`
	LastDailyClaim time.Time `json:"last_daily_claim"`
}

// InBattle reports whether the account references an in-progress battle.
func (a *Account) InBattle() bool { return a.ActiveBattle != 0 }
