package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is a rule rejection surfaced verbatim to the caller.
//
// Rejections are never retried by the engine and never leave partial
// effects: the operation that produced one rolled back everything it did.
type Error struct {
	// Code identifies the rejection. Stable across releases.
	Code Code

	// Class is the taxonomy bucket of the rejection.
	Class Class

	// Message is a human-readable description.
	Message string

	// Details contains additional context (item ids, cooldown remaining, ...).
	Details map[string]string
}

// Class buckets rejections.
type Class string

const (
	// ClassValidation marks malformed input.
	ClassValidation Class = "validation"

	// ClassState marks a precondition not met by the current game state.
	ClassState Class = "state"

	// ClassAuthorization marks a caller acting on something it does not own.
	ClassAuthorization Class = "authorization"
)

// Code identifies a rejection.
type Code string

// Validation codes.
const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInvalidAccount  Code = "INVALID_ACCOUNT"
	CodeInvalidName     Code = "INVALID_NAME"
	CodeInvalidType     Code = "INVALID_TYPE"
	CodeUnknownItem     Code = "UNKNOWN_ITEM"
	CodeInvalidQuantity Code = "INVALID_QUANTITY"
	CodeInvalidPrice    Code = "INVALID_PRICE"
	CodeInvalidMove     Code = "INVALID_MOVE"
	CodeSelfChallenge   Code = "SELF_CHALLENGE"
	CodeNotEquippable   Code = "NOT_EQUIPPABLE"
	CodeNotUsable       Code = "NOT_USABLE"
	CodeNotFood         Code = "NOT_FOOD"
)

// State codes.
const (
	CodeNoPet                Code = "NO_PET"
	CodePetExists            Code = "PET_EXISTS"
	CodePetNotAlive          Code = "PET_NOT_ALIVE"
	CodeOpponentNoPet        Code = "OPPONENT_NO_PET"
	CodeOpponentNotAlive     Code = "OPPONENT_NOT_ALIVE"
	CodeTooHungry            Code = "TOO_HUNGRY"
	CodeTooUnhappy           Code = "TOO_UNHAPPY"
	CodeCannotEvolve         Code = "CANNOT_EVOLVE"
	CodeItemNotOwned         Code = "ITEM_NOT_OWNED"
	CodeInsufficientItems    Code = "INSUFFICIENT_ITEMS"
	CodeInsufficientCoins    Code = "INSUFFICIENT_COINS"
	CodeNotEquipped          Code = "NOT_EQUIPPED"
	CodeAlreadyEquipped      Code = "ALREADY_EQUIPPED"
	CodeLevelTooLow          Code = "LEVEL_TOO_LOW"
	CodeSlotsFull            Code = "SLOTS_FULL"
	CodeEffectsFull          Code = "EFFECTS_FULL"
	CodeBattleActive         Code = "BATTLE_ACTIVE"
	CodeOpponentBattleActive Code = "OPPONENT_BATTLE_ACTIVE"
	CodeNoActiveBattle       Code = "NO_ACTIVE_BATTLE"
	CodeBattleNotFound       Code = "BATTLE_NOT_FOUND"
	CodeBattleCompleted      Code = "BATTLE_COMPLETED"
	CodeMoveSubmitted        Code = "MOVE_ALREADY_SUBMITTED"
	CodeBattleCooldown       Code = "BATTLE_COOLDOWN"
	CodeAlreadyClaimed       Code = "ALREADY_CLAIMED"
	CodeNotTradeable         Code = "NOT_TRADEABLE"
	CodeListingNotFound      Code = "LISTING_NOT_FOUND"
	CodeListingInactive      Code = "LISTING_INACTIVE"
	CodeOwnListing           Code = "OWN_LISTING"
	CodeContended            Code = "CONTENDED"
)

// Authorization codes.
const (
	CodeNotParticipant Code = "NOT_PARTICIPANT"
	CodeNotSeller      Code = "NOT_SELLER"
)

// Sentinel rejections. Match with errors.Is; code equality is what counts,
// so a sentinel decorated via With still matches.
var (
	ErrInvalidArgument = newError(ClassValidation, CodeInvalidArgument, "invalid argument")
	ErrInvalidAccount  = newError(ClassValidation, CodeInvalidAccount, "account id must be non-empty")
	ErrInvalidName     = newError(ClassValidation, CodeInvalidName, "pet name must be 1-20 characters")
	ErrInvalidType     = newError(ClassValidation, CodeInvalidType, "unknown element type")
	ErrUnknownItem     = newError(ClassValidation, CodeUnknownItem, "unknown item id")
	ErrInvalidQuantity = newError(ClassValidation, CodeInvalidQuantity, "quantity must be positive")
	ErrInvalidPrice    = newError(ClassValidation, CodeInvalidPrice, "price must be positive")
	ErrInvalidMove     = newError(ClassValidation, CodeInvalidMove, "move must be attack, defend or special")
	ErrSelfChallenge   = newError(ClassValidation, CodeSelfChallenge, "cannot challenge yourself")
	ErrNotEquippable   = newError(ClassValidation, CodeNotEquippable, "item cannot be equipped")
	ErrNotUsable       = newError(ClassValidation, CodeNotUsable, "item cannot be used")
	ErrNotFood         = newError(ClassValidation, CodeNotFood, "item is not food")

	ErrNoPet                = newError(ClassState, CodeNoPet, "account has no pet")
	ErrPetExists            = newError(ClassState, CodePetExists, "account already has a living pet")
	ErrPetNotAlive          = newError(ClassState, CodePetNotAlive, "pet is not alive")
	ErrOpponentNoPet        = newError(ClassState, CodeOpponentNoPet, "opponent has no pet")
	ErrOpponentNotAlive     = newError(ClassState, CodeOpponentNotAlive, "opponent pet is not alive")
	ErrTooHungry            = newError(ClassState, CodeTooHungry, "pet is too hungry")
	ErrTooUnhappy           = newError(ClassState, CodeTooUnhappy, "pet is too unhappy")
	ErrCannotEvolve         = newError(ClassState, CodeCannotEvolve, "pet cannot evolve yet")
	ErrItemNotOwned         = newError(ClassState, CodeItemNotOwned, "item not owned")
	ErrInsufficientItems    = newError(ClassState, CodeInsufficientItems, "insufficient item quantity")
	ErrInsufficientCoins    = newError(ClassState, CodeInsufficientCoins, "insufficient coins")
	ErrNotEquipped          = newError(ClassState, CodeNotEquipped, "item is not equipped")
	ErrAlreadyEquipped      = newError(ClassState, CodeAlreadyEquipped, "item is already equipped")
	ErrLevelTooLow          = newError(ClassState, CodeLevelTooLow, "pet level too low for item")
	ErrSlotsFull            = newError(ClassState, CodeSlotsFull, "accessory slots full")
	ErrEffectsFull          = newError(ClassState, CodeEffectsFull, "too many active effects")
	ErrBattleActive         = newError(ClassState, CodeBattleActive, "already in a battle")
	ErrOpponentBattleActive = newError(ClassState, CodeOpponentBattleActive, "opponent already in a battle")
	ErrNoActiveBattle       = newError(ClassState, CodeNoActiveBattle, "no active battle")
	ErrBattleNotFound       = newError(ClassState, CodeBattleNotFound, "battle not found")
	ErrBattleCompleted      = newError(ClassState, CodeBattleCompleted, "battle already completed")
	ErrMoveSubmitted        = newError(ClassState, CodeMoveSubmitted, "move already submitted")
	ErrBattleCooldown       = newError(ClassState, CodeBattleCooldown, "battle cooldown has not elapsed")
	ErrAlreadyClaimed       = newError(ClassState, CodeAlreadyClaimed, "daily reward already claimed")
	ErrNotTradeable         = newError(ClassState, CodeNotTradeable, "item is not tradeable")
	ErrListingNotFound      = newError(ClassState, CodeListingNotFound, "listing not found")
	ErrListingInactive      = newError(ClassState, CodeListingInactive, "listing is not active")
	ErrOwnListing           = newError(ClassState, CodeOwnListing, "cannot purchase your own listing")
	ErrContended            = newError(ClassState, CodeContended, "counterpart kept changing; retry")

	ErrNotParticipant = newError(ClassAuthorization, CodeNotParticipant, "caller is not a battle participant")
	ErrNotSeller      = newError(ClassAuthorization, CodeNotSeller, "caller is not the listing seller")
)

func newError(class Class, code Code, msg string) *Error {
	return &Error{Code: code, Class: class, Message: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + e.Details[k]
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, ", "))
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// With returns a copy of e carrying an extra detail. Sentinels are never
// mutated.
func (e *Error) With(key, value string) *Error {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Code: e.Code, Class: e.Class, Message: e.Message, Details: details}
}

// Withf is With with a formatted value.
func (e *Error) Withf(key, format string, args ...any) *Error {
	return e.With(key, fmt.Sprintf(format, args...))
}

// AsError extracts the *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the rejection code of err, or "" when err is not a rule
// rejection (storage failures, nil).
func CodeOf(err error) Code {
	if de, ok := AsError(err); ok {
		return de.Code
	}
	return ""
}

// IsRejection reports whether err is a rule rejection rather than an
// infrastructure failure.
func IsRejection(err error) bool {
	_, ok := AsError(err)
	return ok
}
