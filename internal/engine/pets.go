package engine

import (
	"context"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/inventory"
	"github.com/roach88/critterkeep/internal/pet"
)

// Operation names as journaled.
const (
	OpCreatePet               = "createPet"
	OpFeedPet                 = "feedPet"
	OpPlayWithPet             = "playWithPet"
	OpTrainPet                = "trainPet"
	OpEvolvePet               = "evolvePet"
	OpCreateBattleChallenge   = "createBattleChallenge"
	OpSubmitBattleMove        = "submitBattleMove"
	OpEquipItem               = "equipItem"
	OpUnequipItem             = "unequipItem"
	OpUseItem                 = "useItem"
	OpListItemForSale         = "listItemForSale"
	OpPurchaseFromMarketplace = "purchaseFromMarketplace"
	OpCancelListing           = "cancelListing"
	OpClaimDailyReward        = "claimDailyReward"
)

type CreatePetArgs struct {
	Name string             `json:"name"`
	Type domain.ElementType `json:"type"`
}

type FeedPetArgs struct {
	Food domain.ItemID `json:"food"`
}

// NoArgs is the argument record of operations that take none.
type NoArgs struct{}

// CreatePet gives caller a new level 1 pet. An account's first pet also
// creates its inventory with the starting grant. A dead pet is replaced and
// the new one's generation is one higher; a living pet is never replaced.
// Replacing a pet that is still in a battle forfeits that battle.
func (e *Engine) CreatePet(ctx context.Context, caller domain.AccountID, now time.Time, name string, typ domain.ElementType) (*PetStats, error) {
	return e.createPet(ctx, caller, now, CreatePetArgs{Name: name, Type: typ})
}

func (e *Engine) createPet(ctx context.Context, caller domain.AccountID, now time.Time, args CreatePetArgs) (*PetStats, error) {
	peek := func(ctx context.Context) ([]domain.AccountID, error) {
		return e.peekBattleCounterpart(ctx, caller)
	}
	return mutate(ctx, e, OpCreatePet, caller, now, args, peek, func(s *session) (*PetStats, error) {
		acct, created, err := s.ensureAccount(caller)
		if err != nil {
			return nil, err
		}

		old, err := s.pet(caller)
		if err != nil {
			return nil, err
		}
		if !pet.Replaceable(old, s.now, e.rules.Vitality) {
			return nil, domain.ErrPetExists.With("name", old.Name)
		}
		if acct.InBattle() {
			if err := s.endActiveBattle(acct); err != nil {
				return nil, err
			}
		}
		generation := 1
		if old != nil {
			generation = old.Generation + 1
		}

		p, err := pet.New(caller, args.Name, args.Type, generation, e.rules, s.now)
		if err != nil {
			return nil, err
		}
		s.savePet(p)

		if created {
			s.saveInventory(caller, inventory.Grant(e.rules.Starting.Coins, e.rules.Starting.Items))
		}

		stats, err := s.petStats(p)
		if err != nil {
			return nil, err
		}
		return &stats, nil
	})
}

// FeedPet feeds one unit of food from caller's inventory to the pet.
func (e *Engine) FeedPet(ctx context.Context, caller domain.AccountID, now time.Time, food domain.ItemID) (*CareResult, error) {
	return e.feedPet(ctx, caller, now, FeedPetArgs{Food: food})
}

func (e *Engine) feedPet(ctx context.Context, caller domain.AccountID, now time.Time, args FeedPetArgs) (*CareResult, error) {
	return mutate(ctx, e, OpFeedPet, caller, now, args, nil, func(s *session) (*CareResult, error) {
		item, err := e.catalog.Lookup(args.Food)
		if err != nil {
			return nil, err
		}
		nourishment := item.Nourishment()
		if nourishment <= 0 {
			return nil, domain.ErrNotFood.With("item", string(item.ID))
		}

		p, err := s.livingPet(caller, domain.ErrNoPet, domain.ErrPetNotAlive)
		if err != nil {
			return nil, err
		}
		inv, err := s.inventory(caller)
		if err != nil {
			return nil, err
		}
		if err := inventory.Remove(inv, item.ID, 1); err != nil {
			return nil, err
		}

		pet.Feed(p, nourishment, s.now, e.rules.Care)
		for _, eff := range item.Effects {
			if eff.Type == domain.EffectCheer {
				pet.Cheer(p, eff.Magnitude)
			}
		}
		s.savePet(p)
		s.saveInventory(caller, inv)

		return s.careResult(p, pet.LevelUp{})
	})
}

// PlayWithPet raises happiness and grants play experience.
func (e *Engine) PlayWithPet(ctx context.Context, caller domain.AccountID, now time.Time) (*CareResult, error) {
	return e.playWithPet(ctx, caller, now, NoArgs{})
}

func (e *Engine) playWithPet(ctx context.Context, caller domain.AccountID, now time.Time, args NoArgs) (*CareResult, error) {
	return mutate(ctx, e, OpPlayWithPet, caller, now, args, nil, func(s *session) (*CareResult, error) {
		p, err := s.livingPet(caller, domain.ErrNoPet, domain.ErrPetNotAlive)
		if err != nil {
			return nil, err
		}
		up := pet.Play(p, s.now, e.rules)
		if err := s.creditLevelUp(caller, up); err != nil {
			return nil, err
		}
		s.savePet(p)
		return s.careResult(p, up)
	})
}

// TrainPet grants training experience. A pet that is too hungry or too
// unhappy refuses.
func (e *Engine) TrainPet(ctx context.Context, caller domain.AccountID, now time.Time) (*CareResult, error) {
	return e.trainPet(ctx, caller, now, NoArgs{})
}

func (e *Engine) trainPet(ctx context.Context, caller domain.AccountID, now time.Time, args NoArgs) (*CareResult, error) {
	return mutate(ctx, e, OpTrainPet, caller, now, args, nil, func(s *session) (*CareResult, error) {
		p, err := s.livingPet(caller, domain.ErrNoPet, domain.ErrPetNotAlive)
		if err != nil {
			return nil, err
		}
		up, err := pet.Train(p, e.rules)
		if err != nil {
			return nil, err
		}
		if err := s.creditLevelUp(caller, up); err != nil {
			return nil, err
		}
		s.savePet(p)
		return s.careResult(p, up)
	})
}

// EvolvePet advances the pet one stage once it reaches the stage's level.
func (e *Engine) EvolvePet(ctx context.Context, caller domain.AccountID, now time.Time) (*PetStats, error) {
	return e.evolvePet(ctx, caller, now, NoArgs{})
}

func (e *Engine) evolvePet(ctx context.Context, caller domain.AccountID, now time.Time, args NoArgs) (*PetStats, error) {
	return mutate(ctx, e, OpEvolvePet, caller, now, args, nil, func(s *session) (*PetStats, error) {
		p, err := s.livingPet(caller, domain.ErrNoPet, domain.ErrPetNotAlive)
		if err != nil {
			return nil, err
		}
		if err := pet.Evolve(p, e.rules.Evolution); err != nil {
			return nil, err
		}
		s.savePet(p)
		stats, err := s.petStats(p)
		if err != nil {
			return nil, err
		}
		return &stats, nil
	})
}

// creditLevelUp pays the level-up coins into id's inventory.
func (s *session) creditLevelUp(id domain.AccountID, up pet.LevelUp) error {
	if up.Coins == 0 {
		return nil
	}
	inv, err := s.inventory(id)
	if err != nil {
		return err
	}
	inventory.Credit(inv, up.Coins)
	s.saveInventory(id, inv)
	return nil
}

func (s *session) careResult(p *domain.Pet, up pet.LevelUp) (*CareResult, error) {
	stats, err := s.petStats(p)
	if err != nil {
		return nil, err
	}
	return &CareResult{Stats: stats, LevelUp: up}, nil
}
