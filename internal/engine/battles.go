package engine

import (
	"context"
	"time"

	"github.com/roach88/critterkeep/internal/battle"
	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/inventory"
	"github.com/roach88/critterkeep/internal/pet"
	"github.com/roach88/critterkeep/internal/reward"
	"github.com/roach88/critterkeep/internal/store"
	"github.com/roach88/critterkeep/internal/vitality"
)

type CreateBattleChallengeArgs struct {
	Opponent domain.AccountID `json:"opponent"`
}

type SubmitBattleMoveArgs struct {
	Move domain.Move `json:"move"`
}

// CreateBattleChallenge opens a battle between caller and opponent. Both
// need a living pet and no active battle, and caller's battle cooldown must
// have elapsed.
func (e *Engine) CreateBattleChallenge(ctx context.Context, caller domain.AccountID, now time.Time, opponent domain.AccountID) (*domain.Battle, error) {
	return e.createBattleChallenge(ctx, caller, now, CreateBattleChallengeArgs{Opponent: opponent})
}

func (e *Engine) createBattleChallenge(ctx context.Context, caller domain.AccountID, now time.Time, args CreateBattleChallengeArgs) (*domain.Battle, error) {
	opponent := args.Opponent
	peek := func(context.Context) ([]domain.AccountID, error) {
		return []domain.AccountID{opponent}, nil
	}
	return mutate(ctx, e, OpCreateBattleChallenge, caller, now, args, peek, func(s *session) (*domain.Battle, error) {
		if !opponent.Valid() {
			return nil, domain.ErrInvalidAccount.With("opponent", string(opponent))
		}
		if opponent == caller {
			return nil, domain.ErrSelfChallenge
		}

		mine, err := s.livingPet(caller, domain.ErrNoPet, domain.ErrPetNotAlive)
		if err != nil {
			return nil, err
		}
		if _, err := s.livingPet(opponent, domain.ErrOpponentNoPet, domain.ErrOpponentNotAlive); err != nil {
			return nil, err
		}

		challenger, _, err := s.ensureAccount(caller)
		if err != nil {
			return nil, err
		}
		if challenger.InBattle() {
			return nil, domain.ErrBattleActive.Withf("battle", "%d", challenger.ActiveBattle)
		}
		defender, _, err := s.ensureAccount(opponent)
		if err != nil {
			return nil, err
		}
		if defender.InBattle() {
			return nil, domain.ErrOpponentBattleActive.Withf("battle", "%d", defender.ActiveBattle)
		}
		if left := battle.CooldownRemaining(mine.LastBattle, s.now, e.rules.Battle.Cooldown()); left > 0 {
			return nil, domain.ErrBattleCooldown.With("remaining", left.String())
		}

		id, err := s.tx.NextSeq(s.ctx, store.SeqBattle)
		if err != nil {
			return nil, err
		}
		b := battle.New(id, caller, opponent, s.now)
		challenger.ActiveBattle = id
		defender.ActiveBattle = id
		s.saveBattle(b)
		s.saveAccount(challenger)
		s.saveAccount(defender)
		return b, nil
	})
}

// SubmitBattleMove records caller's move in its active battle. The second
// move resolves the battle in the same transaction and pays out. A move
// against a dead pet settles the battle at once as a forfeit.
func (e *Engine) SubmitBattleMove(ctx context.Context, caller domain.AccountID, now time.Time, move domain.Move) (*domain.Battle, error) {
	return e.submitBattleMove(ctx, caller, now, SubmitBattleMoveArgs{Move: move})
}

func (e *Engine) submitBattleMove(ctx context.Context, caller domain.AccountID, now time.Time, args SubmitBattleMoveArgs) (*domain.Battle, error) {
	peek := func(ctx context.Context) ([]domain.AccountID, error) {
		return e.peekBattleCounterpart(ctx, caller)
	}
	return mutate(ctx, e, OpSubmitBattleMove, caller, now, args, peek, func(s *session) (*domain.Battle, error) {
		if !args.Move.Valid() {
			return nil, domain.ErrInvalidMove.With("move", args.Move.String())
		}
		acct, ok, err := s.account(caller)
		if err != nil {
			return nil, err
		}
		if !ok || !acct.InBattle() {
			return nil, domain.ErrNoActiveBattle
		}
		b, err := s.battle(acct.ActiveBattle)
		if err != nil {
			return nil, err
		}
		if err := s.requireLocked(b.Counterpart(caller)); err != nil {
			return nil, err
		}
		if err := battle.Submit(b, caller, args.Move); err != nil {
			return nil, err
		}
		settle := b.Ready()
		if !settle {
			alive, err := s.petAlive(b.Counterpart(caller))
			if err != nil {
				return nil, err
			}
			settle = !alive
		}
		if settle {
			if err := s.settleBattle(b); err != nil {
				return nil, err
			}
		}
		s.saveBattle(b)
		return b, nil
	})
}

// peekBattleCounterpart reads, without locking, who caller is fighting.
func (e *Engine) peekBattleCounterpart(ctx context.Context, caller domain.AccountID) ([]domain.AccountID, error) {
	return view(ctx, e, time.Time{}, func(s *session) ([]domain.AccountID, error) {
		acct, ok, err := s.account(caller)
		if err != nil || !ok || !acct.InBattle() {
			return nil, err
		}
		b, ok, err := load[domain.Battle](s, store.KindBattle, store.IDKey(acct.ActiveBattle))
		if err != nil || !ok {
			return nil, err
		}
		return []domain.AccountID{b.Counterpart(caller)}, nil
	})
}

// settleBattle completes b. Two living pets are scored; a dead pet forfeits
// and its owner earns nothing; two dead pets abandon the battle with no
// winner. Both accounts' battle pointers are cleared.
func (s *session) settleBattle(b *domain.Battle) error {
	r := s.e.rules

	pets := map[domain.AccountID]*domain.Pet{}
	var (
		scored [2]battle.Side
		alive  [2]bool
	)
	for i, id := range []domain.AccountID{b.Challenger, b.Opponent} {
		p, err := s.pet(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNoPet.With("account", string(id))
		}
		vitality.Fold(p, s.now, r.Vitality).Apply(p)
		pets[id] = p
		alive[i] = p.Alive
		if !p.Alive {
			continue
		}
		total, err := s.totalStats(p)
		if err != nil {
			return err
		}
		scored[i] = battle.Side{Stats: total, Type: p.Type}
	}

	var (
		out battle.Outcome
		err error
	)
	switch {
	case alive[0] && alive[1]:
		out, err = battle.Resolve(b, scored[0], scored[1], r, s.now)
	case alive[0]:
		out, err = battle.Forfeit(b, b.Opponent, s.now)
	case alive[1]:
		out, err = battle.Forfeit(b, b.Challenger, s.now)
	default:
		err = battle.Abandon(b, s.now)
	}
	if err != nil {
		return err
	}

	if out.Winner != "" {
		if err := s.payWinner(b, out.Winner, pets[out.Winner]); err != nil {
			return err
		}
		if err := s.chargeLoser(out.Loser, pets[out.Loser]); err != nil {
			return err
		}
	}

	for _, id := range []domain.AccountID{b.Challenger, b.Opponent} {
		acct, _, err := s.ensureAccount(id)
		if err != nil {
			return err
		}
		acct.ActiveBattle = 0
		s.saveAccount(acct)

		p := pets[id]
		p.LastBattle = s.now
		s.savePet(p)
	}
	return nil
}

// payWinner credits coins, experience and a possible drop.
func (s *session) payWinner(b *domain.Battle, id domain.AccountID, p *domain.Pet) error {
	r := s.e.rules
	acct, _, err := s.ensureAccount(id)
	if err != nil {
		return err
	}
	acct.Wins++
	acct.WinStreak++

	inv, err := s.inventory(id)
	if err != nil {
		return err
	}
	up := pet.GainExperience(p, r.Battle.WinExperience, r.Leveling)
	inventory.Credit(inv, r.Battle.WinCoins+battle.StreakBonus(acct.WinStreak, r.Battle)+up.Coins)
	if reward.Chance(s.rng, r.Battle.DropChancePercent) {
		if drop := reward.Roll(s.rng, r.Battle.Drops); drop != "" {
			if err := inventory.Add(inv, drop, 1); err != nil {
				return err
			}
			b.Drop = drop
		}
	}
	s.saveInventory(id, inv)
	s.saveAccount(acct)
	return nil
}

// chargeLoser records the loss. Only a pet that fought gains consolation
// experience and takes the health penalty.
func (s *session) chargeLoser(id domain.AccountID, p *domain.Pet) error {
	r := s.e.rules
	acct, _, err := s.ensureAccount(id)
	if err != nil {
		return err
	}
	acct.Losses++
	acct.WinStreak = 0
	s.saveAccount(acct)
	if !p.Alive {
		return nil
	}

	up := pet.GainExperience(p, r.Battle.LossExperience, r.Leveling)
	pet.Damage(p, r.Battle.LossHealthPenalty)
	if up.Coins > 0 {
		inv, err := s.inventory(id)
		if err != nil {
			return err
		}
		inventory.Credit(inv, up.Coins)
		s.saveInventory(id, inv)
	}
	return nil
}

// petAlive folds id's pet to now and reports whether it lives.
func (s *session) petAlive(id domain.AccountID) (bool, error) {
	p, err := s.pet(id)
	if err != nil || p == nil {
		return false, err
	}
	return vitality.Fold(p, s.now, s.e.rules.Vitality).Alive, nil
}

// endActiveBattle settles acct's open battle ahead of its pet being
// replaced. The counterpart must be locked.
func (s *session) endActiveBattle(acct *domain.Account) error {
	b, err := s.battle(acct.ActiveBattle)
	if err != nil {
		return err
	}
	if err := s.requireLocked(b.Counterpart(acct.ID)); err != nil {
		return err
	}
	if err := s.settleBattle(b); err != nil {
		return err
	}
	s.saveBattle(b)
	return nil
}
