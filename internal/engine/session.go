package engine

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/equipment"
	"github.com/roach88/critterkeep/internal/random"
	"github.com/roach88/critterkeep/internal/store"
	"github.com/roach88/critterkeep/internal/vitality"
)

type recordKey struct {
	kind store.Kind
	key  string
}

// session caches the records one operation touches. Loads go through the
// cache so a record read twice is decoded once; writes are marked dirty and
// flushed in key order when the operation succeeds.
type session struct {
	ctx    context.Context
	tx     store.Tx
	e      *Engine
	now    time.Time
	rng    random.Source
	locked map[domain.AccountID]bool

	cache map[recordKey]any
	dirty map[recordKey]bool
}

func newSession(ctx context.Context, tx store.Tx, e *Engine, now time.Time, locked []domain.AccountID) *session {
	s := &session{
		ctx:    ctx,
		tx:     tx,
		e:      e,
		now:    now,
		locked: map[domain.AccountID]bool{},
		cache:  map[recordKey]any{},
		dirty:  map[recordKey]bool{},
	}
	for _, id := range locked {
		s.locked[id] = true
	}
	return s
}

func load[T any](s *session, kind store.Kind, key string) (*T, bool, error) {
	rk := recordKey{kind, key}
	if v, ok := s.cache[rk]; ok {
		return v.(*T), true, nil
	}
	v, ok, err := store.GetJSON[T](s.ctx, s.tx, kind, key)
	if err != nil || !ok {
		return nil, false, err
	}
	s.cache[rk] = v
	return v, true, nil
}

// put caches v and marks it for writing.
func (s *session) put(kind store.Kind, key string, v any) {
	rk := recordKey{kind, key}
	s.cache[rk] = v
	s.dirty[rk] = true
}

func (s *session) flush() error {
	keys := make([]recordKey, 0, len(s.dirty))
	for rk := range s.dirty {
		keys = append(keys, rk)
	}
	slices.SortFunc(keys, func(a, b recordKey) int {
		return cmp.Or(cmp.Compare(a.kind, b.kind), cmp.Compare(a.key, b.key))
	})
	for _, rk := range keys {
		if err := store.PutJSON(s.ctx, s.tx, rk.kind, rk.key, s.cache[rk]); err != nil {
			return err
		}
	}
	return nil
}

// requireLocked fails with errRelock when id is not among the accounts the
// operation locked.
func (s *session) requireLocked(id domain.AccountID) error {
	if !s.locked[id] {
		return errRelock
	}
	return nil
}

func (s *session) account(id domain.AccountID) (*domain.Account, bool, error) {
	return load[domain.Account](s, store.KindAccount, string(id))
}

// ensureAccount loads id's account or creates it. created reports whether
// the account is new.
func (s *session) ensureAccount(id domain.AccountID) (acct *domain.Account, created bool, err error) {
	acct, ok, err := s.account(id)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return acct, false, nil
	}
	acct = &domain.Account{ID: id, CreatedAt: s.now}
	s.put(store.KindAccount, string(id), acct)
	return acct, true, nil
}

func (s *session) saveAccount(a *domain.Account) { s.put(store.KindAccount, string(a.ID), a) }

// pet returns id's pet as stored, or nil.
func (s *session) pet(id domain.AccountID) (*domain.Pet, error) {
	p, ok, err := load[domain.Pet](s, store.KindPet, string(id))
	if err != nil || !ok {
		return nil, err
	}
	return p, nil
}

// livingPet loads id's pet, folds elapsed time into it and requires it to
// be alive. The fold is marked for persisting; it only reaches the store if
// the operation succeeds.
func (s *session) livingPet(id domain.AccountID, missing, dead *domain.Error) (*domain.Pet, error) {
	p, err := s.pet(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, missing
	}
	folded := vitality.Fold(p, s.now, s.e.rules.Vitality)
	if !folded.Alive {
		return nil, dead
	}
	folded.Apply(p)
	s.savePet(p)
	return p, nil
}

func (s *session) savePet(p *domain.Pet) { s.put(store.KindPet, string(p.Owner), p) }

// inventory returns id's inventory, or a fresh empty one that is written
// only if saved.
func (s *session) inventory(id domain.AccountID) (*domain.Inventory, error) {
	inv, ok, err := load[domain.Inventory](s, store.KindInventory, string(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		inv = domain.NewInventory()
		s.cache[recordKey{store.KindInventory, string(id)}] = inv
	}
	if inv.Items == nil {
		inv.Items = map[domain.ItemID]int{}
	}
	return inv, nil
}

func (s *session) saveInventory(id domain.AccountID, inv *domain.Inventory) {
	s.put(store.KindInventory, string(id), inv)
}

func (s *session) equipment(id domain.AccountID) (*domain.Equipment, error) {
	eq, ok, err := load[domain.Equipment](s, store.KindEquipment, string(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		eq = &domain.Equipment{}
		s.cache[recordKey{store.KindEquipment, string(id)}] = eq
	}
	return eq, nil
}

func (s *session) saveEquipment(id domain.AccountID, eq *domain.Equipment) {
	s.put(store.KindEquipment, string(id), eq)
}

// effects returns a pointer to id's stored effect list.
func (s *session) effects(id domain.AccountID) (*[]domain.ActiveEffect, error) {
	list, ok, err := load[[]domain.ActiveEffect](s, store.KindEffects, string(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		list = &[]domain.ActiveEffect{}
		s.cache[recordKey{store.KindEffects, string(id)}] = list
	}
	return list, nil
}

func (s *session) saveEffects(id domain.AccountID, list *[]domain.ActiveEffect) {
	if *list == nil {
		*list = []domain.ActiveEffect{}
	}
	s.put(store.KindEffects, string(id), list)
}

func (s *session) loadout(id domain.AccountID) (*equipment.Loadout, error) {
	eq, err := s.equipment(id)
	if err != nil {
		return nil, err
	}
	inv, err := s.inventory(id)
	if err != nil {
		return nil, err
	}
	list, err := s.effects(id)
	if err != nil {
		return nil, err
	}
	return &equipment.Loadout{Equipment: eq, Inventory: inv, Effects: *list}, nil
}

// saveLoadout persists all three records of l for id.
func (s *session) saveLoadout(id domain.AccountID, l *equipment.Loadout) {
	list := l.Effects
	s.saveEquipment(id, l.Equipment)
	s.saveInventory(id, l.Inventory)
	s.saveEffects(id, &list)
}

func (s *session) battle(id int64) (*domain.Battle, error) {
	b, ok, err := load[domain.Battle](s, store.KindBattle, store.IDKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrBattleNotFound.Withf("battle", "%d", id)
	}
	return b, nil
}

func (s *session) saveBattle(b *domain.Battle) { s.put(store.KindBattle, store.IDKey(b.ID), b) }

func (s *session) listing(id int64) (*domain.Listing, error) {
	l, ok, err := load[domain.Listing](s, store.KindListing, store.IDKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrListingNotFound.Withf("listing", "%d", id)
	}
	return l, nil
}

func (s *session) saveListing(l *domain.Listing) { s.put(store.KindListing, store.IDKey(l.ID), l) }

// totalStats computes id's battle stats at the session time.
func (s *session) totalStats(p *domain.Pet) (domain.TotalStats, error) {
	eq, err := s.equipment(p.Owner)
	if err != nil {
		return domain.TotalStats{}, err
	}
	list, err := s.effects(p.Owner)
	if err != nil {
		return domain.TotalStats{}, err
	}
	return equipment.Total(p, eq, *list, s.e.catalog, s.now), nil
}
