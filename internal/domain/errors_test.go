package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesCode(t *testing.T) {
	decorated := ErrBattleCooldown.With("remaining", "120s")
	wrapped := fmt.Errorf("create challenge: %w", decorated)

	assert.True(t, errors.Is(wrapped, ErrBattleCooldown))
	assert.False(t, errors.Is(wrapped, ErrAlreadyClaimed))
	assert.Equal(t, CodeBattleCooldown, CodeOf(wrapped))
	assert.True(t, IsRejection(wrapped))
}

func TestErrorWithDoesNotMutateSentinel(t *testing.T) {
	_ = ErrNoPet.With("account", "alice")
	assert.Empty(t, ErrNoPet.Details)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "NO_PET: account has no pet", ErrNoPet.Error())

	err := ErrInsufficientCoins.With("need", "20").With("have", "5")
	assert.Equal(t, "INSUFFICIENT_COINS: insufficient coins (have=5, need=20)", err.Error())
}

func TestCodeOfNonRejection(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("disk full")))
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.False(t, IsRejection(errors.New("disk full")))
}

func TestErrorClasses(t *testing.T) {
	assert.Equal(t, ClassValidation, ErrInvalidMove.Class)
	assert.Equal(t, ClassState, ErrSlotsFull.Class)
	assert.Equal(t, ClassAuthorization, ErrNotSeller.Class)
}
