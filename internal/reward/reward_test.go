package reward

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/random"
	"github.com/roach88/critterkeep/internal/random/mocks"
	"github.com/roach88/critterkeep/internal/rules"
	"github.com/roach88/critterkeep/internal/testutil"
)

var table = []rules.Weighted{
	{Item: "", Weight: 30},
	{Item: "basic_food", Weight: 50},
	{Item: "xp_scroll", Weight: 20},
}

func TestRollBoundaries(t *testing.T) {
	tests := []struct {
		draw int64
		want domain.ItemID
	}{
		{0, ""},
		{29, ""},
		{30, "basic_food"},
		{79, "basic_food"},
		{80, "xp_scroll"},
		{99, "xp_scroll"},
	}
	for _, tt := range tests {
		ctrl := gomock.NewController(t)
		src := mocks.NewMockSource(ctrl)
		src.EXPECT().NextUniform(int64(100)).Return(tt.draw)

		assert.Equal(t, tt.want, Roll(src, table), "draw %d", tt.draw)
	}
}

func TestRollEmptyTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	// No draw is expected from an empty table.
	assert.Equal(t, domain.ItemID(""), Roll(src, nil))
	assert.Equal(t, domain.ItemID(""), Roll(src, []rules.Weighted{{Item: "x", Weight: 0}}))
}

func TestChance(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().NextUniform(int64(100)).Return(int64(19)),
		src.EXPECT().NextUniform(int64(100)).Return(int64(20)),
	)

	assert.True(t, Chance(src, 20))
	assert.False(t, Chance(src, 20))
	assert.False(t, Chance(src, 0), "zero chance never draws")
}

func TestClaimDaily(t *testing.T) {
	d := rules.Default().Daily
	acct := &domain.Account{ID: "alice"}
	src := random.NewSequence(0)

	got, err := ClaimDaily(acct, 3, src, d, testutil.Epoch)
	require.NoError(t, err)
	assert.Equal(t, int64(50+3*10), got.Coins)
	assert.Equal(t, domain.ItemID("basic_food"), got.Item, "draw 0 lands on the first grant")
	assert.Equal(t, testutil.Epoch, acct.LastDailyClaim)
	assert.Equal(t, testutil.At(24*time.Hour), got.NextClaim)
}

func TestClaimDailyCooldown(t *testing.T) {
	d := rules.Default().Daily
	acct := &domain.Account{ID: "alice"}
	src := random.NewSequence()

	_, err := ClaimDaily(acct, 1, src, d, testutil.Epoch)
	require.NoError(t, err)

	_, err = ClaimDaily(acct, 1, src, d, testutil.At(time.Hour))
	assert.True(t, errors.Is(err, domain.ErrAlreadyClaimed))
	assert.Equal(t, testutil.Epoch, acct.LastDailyClaim, "rejected claim does not stamp")

	_, err = ClaimDaily(acct, 1, src, d, testutil.At(24*time.Hour))
	assert.NoError(t, err)
}

func TestClaimDailyAlwaysGrantsAnItem(t *testing.T) {
	d := rules.Default().Daily
	var total int64
	for _, g := range d.Grants {
		total += g.Weight
	}

	for draw := int64(0); draw < total; draw++ {
		acct := &domain.Account{ID: "alice"}
		got, err := ClaimDaily(acct, 1, random.NewSequence(draw), d, testutil.Epoch)
		require.NoError(t, err)
		assert.NotEmpty(t, got.Item, "draw %d", draw)
	}
}
