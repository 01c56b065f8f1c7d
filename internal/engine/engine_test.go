package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/random"
	"github.com/roach88/critterkeep/internal/store"
	"github.com/roach88/critterkeep/internal/testutil"
)

const (
	alice domain.AccountID = "alice"
	bob   domain.AccountID = "bob"
	carol domain.AccountID = "carol"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestEngine creates an engine over a fresh memory store with seeded
// randomness and sequential request ids.
func setupTestEngine(t *testing.T, opts ...Option) (*Engine, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	base := []Option{
		WithRandom(random.NewSeeded(1)),
		WithRequestIDs(testutil.NewSequentialIDs("")),
		WithLogger(quietLogger()),
	}
	e, err := New(st, append(base, opts...)...)
	require.NoError(t, err)
	return e, st
}

// mustCreatePet creates a pet at Epoch.
func mustCreatePet(t *testing.T, e *Engine, who domain.AccountID, name string, typ domain.ElementType) *PetStats {
	t.Helper()
	stats, err := e.CreatePet(context.Background(), who, testutil.Epoch, name, typ)
	require.NoError(t, err)
	return stats
}

// grant adds coins and items to an inventory behind the engine's back.
func grant(t *testing.T, st store.Store, who domain.AccountID, coins int64, items map[domain.ItemID]int) {
	t.Helper()
	ctx := context.Background()
	err := st.Update(ctx, func(tx store.Tx) error {
		inv, ok, err := store.GetJSON[domain.Inventory](ctx, tx, store.KindInventory, string(who))
		if err != nil {
			return err
		}
		if !ok {
			inv = domain.NewInventory()
		}
		inv.Coins += coins
		for id, n := range items {
			inv.Items[id] += n
		}
		return store.PutJSON(ctx, tx, store.KindInventory, string(who), inv)
	})
	require.NoError(t, err)
}

func journal(t *testing.T, st store.Store) []store.JournalEntry {
	t.Helper()
	entries, err := st.Journal(context.Background(), store.JournalQuery{})
	require.NoError(t, err)
	return entries
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestCreatePet_InitialStats(t *testing.T) {
	e, _ := setupTestEngine(t)
	ctx := context.Background()

	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	stats, err := e.PetStats(ctx, alice, testutil.Epoch)
	require.NoError(t, err)
	p := stats.Pet
	assert.Equal(t, "Ember", p.Name)
	assert.Equal(t, domain.TypeFire, p.Type)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.Experience)
	assert.Equal(t, 100, p.Happiness)
	assert.Equal(t, 0, p.Hunger)
	assert.Equal(t, 1, p.Generation)
	assert.True(t, p.Alive)
	assert.Equal(t, 12, p.Attack)
	assert.Equal(t, 100, p.Health)
	assert.Equal(t, 100, stats.NextLevelAt)
	assert.Empty(t, stats.EquippedItems)
}

func TestCreatePet_StartingInventory(t *testing.T) {
	e, _ := setupTestEngine(t)
	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	inv, err := e.Inventory(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, int64(100), inv.Coins)
	assert.Equal(t, 5, inv.Quantity("basic_food"))
	assert.Equal(t, 2, inv.Quantity("health_potion"))
}

func TestCreatePet_Validation(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		caller domain.AccountID
		pet    string
		typ    domain.ElementType
		code   domain.Code
	}{
		{"empty caller", "", "Ember", domain.TypeFire, domain.CodeInvalidAccount},
		{"blank name", alice, "   ", domain.TypeFire, domain.CodeInvalidName},
		{"long name", alice, "abcdefghijklmnopqrstu", domain.TypeFire, domain.CodeInvalidName},
		{"unknown type", alice, "Ember", domain.TypeUnknown, domain.CodeInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.CreatePet(ctx, tt.caller, testutil.Epoch, tt.pet, tt.typ)
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.CodeOf(err))
		})
	}
	assert.Empty(t, journal(t, st), "rejections are not journaled")
}

func TestCreatePet_LivingPetNotReplaced(t *testing.T) {
	e, _ := setupTestEngine(t)
	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	_, err := e.CreatePet(context.Background(), alice, testutil.At(time.Hour), "Other", domain.TypeWater)
	assert.ErrorIs(t, err, domain.ErrPetExists)
}

func TestCreatePet_ReplacesDeadPet(t *testing.T) {
	e, _ := setupTestEngine(t)
	ctx := context.Background()
	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	_, err := e.UseItem(ctx, alice, testutil.At(time.Minute), "health_potion")
	require.NoError(t, err)

	// 20 hours without food: hunger reaches 100.
	later := testutil.At(20 * time.Hour)
	stats, err := e.PetStats(ctx, alice, later)
	require.NoError(t, err)
	assert.False(t, stats.Pet.Alive)

	_, err = e.PlayWithPet(ctx, alice, later)
	assert.ErrorIs(t, err, domain.ErrPetNotAlive)

	replaced, err := e.CreatePet(ctx, alice, later, "Tide", domain.TypeWater)
	require.NoError(t, err)
	assert.Equal(t, 2, replaced.Pet.Generation)
	assert.True(t, replaced.Pet.Alive)

	inv, err := e.Inventory(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Quantity("health_potion"), "replacement keeps the inventory")
	assert.Equal(t, int64(100), inv.Coins, "starting grant is paid once")
}

func TestPetStats_ReadsDoNotPersistDecay(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()
	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	for i := 0; i < 3; i++ {
		stats, err := e.PetStats(ctx, alice, testutil.At(3*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 15, stats.Pet.Hunger)
		assert.Equal(t, 91, stats.Pet.Happiness)
	}

	err := st.View(ctx, func(tx store.Tx) error {
		p, ok, err := store.GetJSON[domain.Pet](ctx, tx, store.KindPet, string(alice))
		require.True(t, ok)
		assert.Equal(t, 0, p.Hunger)
		return err
	})
	require.NoError(t, err)
}

func TestPetStats_NoPet(t *testing.T) {
	e, _ := setupTestEngine(t)
	_, err := e.PetStats(context.Background(), alice, testutil.Epoch)
	assert.ErrorIs(t, err, domain.ErrNoPet)
}

func TestFeedPet(t *testing.T) {
	e, _ := setupTestEngine(t)
	ctx := context.Background()
	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	res, err := e.FeedPet(ctx, alice, testutil.At(4*time.Hour), "basic_food")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Stats.Pet.Hunger, "20 hunger folded in, 20 nourished away")

	inv, err := e.Inventory(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 4, inv.Quantity("basic_food"))

	_, err = e.FeedPet(ctx, alice, testutil.At(4*time.Hour), "health_potion")
	assert.ErrorIs(t, err, domain.ErrNotFood)
	_, err = e.FeedPet(ctx, alice, testutil.At(4*time.Hour), "gourmet_meal")
	assert.ErrorIs(t, err, domain.ErrItemNotOwned)
	_, err = e.FeedPet(ctx, alice, testutil.At(4*time.Hour), "caviar")
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
}

func TestPlayAndTrain_LevelUpPaysCoins(t *testing.T) {
	e, _ := setupTestEngine(t)
	ctx := context.Background()
	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	var last *CareResult
	for i := 0; i < 4; i++ {
		res, err := e.TrainPet(ctx, alice, testutil.At(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		last = res
	}
	assert.Equal(t, 2, last.Stats.Pet.Level)
	assert.Equal(t, 1, last.LevelUp.Levels)
	assert.Equal(t, int64(50), last.LevelUp.Coins)

	inv, err := e.Inventory(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(150), inv.Coins)

	res, err := e.PlayWithPet(ctx, alice, testutil.At(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 10, res.Stats.Pet.Experience)
}

func TestTrainPet_RefusesWhenHungry(t *testing.T) {
	e, _ := setupTestEngine(t)
	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	_, err := e.TrainPet(context.Background(), alice, testutil.At(16*time.Hour))
	assert.ErrorIs(t, err, domain.ErrTooHungry)
}

func TestEvolvePet(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()
	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	_, err := e.EvolvePet(ctx, alice, testutil.At(time.Minute))
	assert.ErrorIs(t, err, domain.ErrCannotEvolve)

	// Nine stones: 4500 xp takes a level 1 pet exactly to level 10.
	grant(t, st, alice, 0, map[domain.ItemID]int{"evolution_stone": 9})
	for i := 0; i < 9; i++ {
		_, err = e.UseItem(ctx, alice, testutil.At(2*time.Minute), "evolution_stone")
		require.NoError(t, err)
	}

	stats, err := e.EvolvePet(ctx, alice, testutil.At(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pet.Stage)
	assert.Equal(t, stats.Pet.MaxHealth, stats.Pet.Health)
}

func TestClaimDailyReward(t *testing.T) {
	e, _ := setupTestEngine(t)
	ctx := context.Background()

	_, err := e.ClaimDailyReward(ctx, alice, testutil.Epoch)
	assert.ErrorIs(t, err, domain.ErrNoPet)

	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	first, err := e.ClaimDailyReward(ctx, alice, testutil.At(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(60), first.Coins)
	assert.Equal(t, testutil.At(25*time.Hour), first.NextClaim)
	assert.NotEmpty(t, first.Item, "every claim grants an item")

	_, err = e.ClaimDailyReward(ctx, alice, testutil.At(2*time.Hour))
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	_, err = e.ClaimDailyReward(ctx, alice, testutil.At(25*time.Hour))
	require.NoError(t, err)

	inv, err := e.Inventory(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(220), inv.Coins)
	assert.Positive(t, inv.Quantity(first.Item))
}

func TestJournal_RecordsSuccessfulOperations(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()
	mustCreatePet(t, e, alice, "Ember", domain.TypeFire)

	_, err := e.FeedPet(ctx, alice, testutil.At(90*time.Second+500*time.Millisecond), "basic_food")
	require.NoError(t, err)
	_, err = e.EvolvePet(ctx, alice, testutil.At(2*time.Minute))
	require.Error(t, err)

	entries := journal(t, st)
	require.Len(t, entries, 2)

	assert.Equal(t, int64(1), entries[0].Seq)
	assert.Equal(t, OpCreatePet, entries[0].Op)
	assert.Equal(t, "alice", entries[0].Caller)
	assert.Equal(t, `{"name":"Ember","type":"fire"}`, entries[0].Args)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Len(t, entries[0].ID, 64)

	assert.Equal(t, OpFeedPet, entries[1].Op)
	assert.Equal(t, `{"food":"basic_food"}`, entries[1].Args)
	assert.Equal(t, testutil.At(90*time.Second).Unix(), entries[1].At, "times are journaled at second precision")
}

func TestInvoke(t *testing.T) {
	e, _ := setupTestEngine(t)
	ctx := context.Background()

	res, err := e.Invoke(ctx, OpCreatePet, alice, testutil.Epoch, []byte(`{"name":"Ember","type":"fire"}`))
	require.NoError(t, err)
	stats, ok := res.(*PetStats)
	require.True(t, ok)
	assert.Equal(t, "Ember", stats.Pet.Name)

	_, err = e.Invoke(ctx, OpPlayWithPet, alice, testutil.Epoch, nil)
	require.NoError(t, err)

	_, err = e.Invoke(ctx, "adoptPet", alice, testutil.Epoch, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = e.Invoke(ctx, OpFeedPet, alice, testutil.Epoch, []byte(`{"food":"basic_food","extra":1}`))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestOps_CoverEveryHandler(t *testing.T) {
	assert.Len(t, Ops(), 14)
	assert.Contains(t, Ops(), OpSubmitBattleMove)
}

func TestSeedFrom_PersistsFirstSeed(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	seed, err := SeedFrom(ctx, st, func() (int64, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, int64(7), seed)

	seed, err = SeedFrom(ctx, st, func() (int64, error) { return 8, nil })
	require.NoError(t, err)
	assert.Equal(t, int64(7), seed)
}

func TestMutate_CounterpartNeverLockedIsContended(t *testing.T) {
	e, st := setupTestEngine(t)
	attempts := 0
	_, err := mutate(context.Background(), e, OpSubmitBattleMove, alice, testutil.Epoch, NoArgs{}, nil,
		func(s *session) (struct{}, error) {
			attempts++
			return struct{}{}, s.requireLocked(bob)
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrContended)
	assert.True(t, domain.IsRejection(err))
	assert.Equal(t, maxRelock, attempts)
	assert.Empty(t, journal(t, st))
}
