package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
)

type handler func(ctx context.Context, e *Engine, caller domain.AccountID, now time.Time, args json.RawMessage) (any, error)

// bind adapts a typed operation to the name-dispatched form.
func bind[A, R any](fn func(*Engine, context.Context, domain.AccountID, time.Time, A) (R, error)) handler {
	return func(ctx context.Context, e *Engine, caller domain.AccountID, now time.Time, raw json.RawMessage) (any, error) {
		var args A
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return fn(e, ctx, caller, now, args)
	}
}

var handlers = map[string]handler{
	OpCreatePet:               bind((*Engine).createPet),
	OpFeedPet:                 bind((*Engine).feedPet),
	OpPlayWithPet:             bind((*Engine).playWithPet),
	OpTrainPet:                bind((*Engine).trainPet),
	OpEvolvePet:               bind((*Engine).evolvePet),
	OpCreateBattleChallenge:   bind((*Engine).createBattleChallenge),
	OpSubmitBattleMove:        bind((*Engine).submitBattleMove),
	OpEquipItem:               bind((*Engine).equipItem),
	OpUnequipItem:             bind((*Engine).unequipItem),
	OpUseItem:                 bind((*Engine).useItem),
	OpListItemForSale:         bind((*Engine).listItemForSale),
	OpPurchaseFromMarketplace: bind((*Engine).purchaseFromMarketplace),
	OpCancelListing:           bind((*Engine).cancelListing),
	OpClaimDailyReward:        bind((*Engine).claimDailyReward),
}

// Ops lists the mutating operation names in sorted order.
func Ops() []string {
	return slices.Sorted(maps.Keys(handlers))
}

// Invoke runs the operation named op with JSON-encoded args. It is the
// entry point for the CLI, the scenario harness and replay; args use the
// same field names the journal records.
func (e *Engine) Invoke(ctx context.Context, op string, caller domain.AccountID, now time.Time, args json.RawMessage) (any, error) {
	h, ok := handlers[op]
	if !ok {
		return nil, domain.ErrInvalidArgument.With("op", op)
	}
	return h(ctx, e, caller, now, args)
}

func decodeArgs(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrInvalidArgument.With("args", err.Error())
	}
	return nil
}
