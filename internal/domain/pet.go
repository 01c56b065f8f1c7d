package domain

import "time"

// MaxStage is the terminal evolution stage.
const MaxStage = 2

// Pet is the creature owned by one account.
//
// Hunger and Happiness are snapshots taken at LastFed and LastPlayed; the
// current values are derived by folding elapsed time (see package
// vitality). Alive is sticky: once a mutation persists it as false it stays
// false until the pet is replaced.
type Pet struct {
	Owner      AccountID   `json:"owner"`
	Name       string      `json:"name"`
	Type       ElementType `json:"type"`
	Stage      int         `json:"stage"`
	Generation int         `json:"generation"`

	Level      int `json:"level"`
	Experience int `json:"experience"`
	Attack     int `json:"attack"`
	Defense    int `json:"defense"`
	Speed      int `json:"speed"`
	Health     int `json:"health"`
	MaxHealth  int `json:"max_health"`

	Happiness  int       `json:"happiness"`
	Hunger     int       `json:"hunger"`
	LastFed    time.Time `json:"last_fed"`
	LastPlayed time.Time `json:"last_played"`
	LastBattle time.Time `json:"last_battle"`
	BornAt     time.Time `json:"born_at"`
	Alive      bool      `json:"alive"`
}

// Stats is a signed block of combat stat deltas. Items carry them as
// bonuses; TotalStats carries the aggregate.
type Stats struct {
	Attack  int `json:"attack" yaml:"attack"`
	Defense int `json:"defense" yaml:"defense"`
	Speed   int `json:"speed" yaml:"speed"`
	Health  int `json:"health" yaml:"health"`
}

// Add returns the field-wise sum.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Attack:  s.Attack + o.Attack,
		Defense: s.Defense + o.Defense,
		Speed:   s.Speed + o.Speed,
		Health:  s.Health + o.Health,
	}
}

// IsZero reports whether every delta is zero.
func (s Stats) IsZero() bool { return s == Stats{} }

// TotalStats is a pet's effective combat profile: base stats plus
// equipment plus active effects. Crit and Dodge are percentages in
// [0,100].
type TotalStats struct {
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	Speed     int `json:"speed"`
	MaxHealth int `json:"max_health"`
	Crit      int `json:"crit"`
	Dodge     int `json:"dodge"`
}
