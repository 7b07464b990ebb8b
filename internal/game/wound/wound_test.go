package wound_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/woundtracker/internal/game/wound"
)

func newWound(t *testing.T, tier wound.Tier) *wound.Wound {
	t.Helper()
	w, err := wound.NewWound(tier, nil)
	require.NoError(t, err)
	return w
}

func TestNewWound_Defaults(t *testing.T) {
	w := newWound(t, wound.Light)
	assert.NotEmpty(t, w.ID())
	assert.Equal(t, wound.Light, w.Tier())
	assert.Equal(t, wound.Same, w.Status())
	rb, ok := w.RecoveryBonus()
	assert.True(t, ok)
	assert.Equal(t, 0, rb)

	other := newWound(t, wound.Light)
	assert.NotEqual(t, w.ID(), other.ID(), "every wound gets its own ID")
}

func TestNewWound_UnknownTier(t *testing.T) {
	_, err := wound.NewWound(wound.Tier(0), nil)
	assert.ErrorIs(t, err, wound.ErrUnknownTier)
	_, err = wound.NewWound(wound.Tier(6), nil)
	assert.ErrorIs(t, err, wound.ErrUnknownTier)
}

func TestWound_BonusAndPeriod(t *testing.T) {
	cases := []struct {
		tier     wound.Tier
		bonus    int
		bonusOK  bool
		period   wound.Period
		periodOK bool
	}{
		{wound.Light, -1, true, wound.Period{Days: 7}, true},
		{wound.Medium, -3, true, wound.Period{Months: 1}, true},
		{wound.Heavy, -5, true, wound.Period{Months: 3}, true},
		{wound.Incapacitating, 0, false, wound.Period{Hours: 12}, true},
		{wound.Fatal, 0, false, wound.Period{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.tier.String(), func(t *testing.T) {
			w := newWound(t, tc.tier)
			b, ok := w.Bonus()
			assert.Equal(t, tc.bonusOK, ok)
			assert.Equal(t, tc.bonus, b)
			p, ok := w.RecoveryPeriod()
			assert.Equal(t, tc.periodOK, ok)
			assert.Equal(t, tc.period, p)
		})
	}
}

func TestWound_Heal_Thresholds(t *testing.T) {
	cases := []struct {
		tier      wound.Tier
		roll      int
		status    wound.Status
		bonusDiff int
	}{
		{wound.Light, 3, wound.Worse, 0},
		{wound.Light, 4, wound.Same, 3},
		{wound.Light, 9, wound.Same, 3},
		{wound.Light, 10, wound.Better, 0},
		{wound.Medium, 5, wound.Worse, 0},
		{wound.Medium, 6, wound.Same, 3},
		{wound.Medium, 12, wound.Better, 0},
		{wound.Heavy, 8, wound.Worse, 0},
		{wound.Heavy, 9, wound.Same, 3},
		{wound.Heavy, 15, wound.Better, 0},
		{wound.Incapacitating, -1, wound.Worse, 0},
		{wound.Incapacitating, 0, wound.Same, -1},
		{wound.Incapacitating, 8, wound.Same, -1},
		{wound.Incapacitating, 9, wound.Better, 0},
	}
	for _, tc := range cases {
		t.Run(tc.tier.String()+"_"+tc.status.String(), func(t *testing.T) {
			w := newWound(t, tc.tier)
			require.NoError(t, w.Heal(tc.roll))
			assert.Equal(t, tc.status, w.Status())
			rb, _ := w.RecoveryBonus()
			assert.Equal(t, tc.bonusDiff, rb)
		})
	}
}

func TestWound_Heal_StableAccumulates(t *testing.T) {
	w := newWound(t, wound.Medium)
	for i := 1; i <= 4; i++ {
		require.NoError(t, w.Heal(6))
		rb, _ := w.RecoveryBonus()
		assert.Equal(t, 3*i, rb)
	}
}

func TestWound_Heal_IncapacitatingKeepsDegrading(t *testing.T) {
	w := newWound(t, wound.Incapacitating)
	for i := 1; i <= 10; i++ {
		require.NoError(t, w.Heal(0))
	}
	rb, _ := w.RecoveryBonus()
	assert.Equal(t, -10, rb, "no floor below zero")
}

func TestWound_Heal_FatalAlwaysFails(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w, err := wound.NewWound(wound.Fatal, nil)
		require.NoError(rt, err)
		roll := rapid.Int().Draw(rt, "roll")
		err = w.Heal(roll)
		require.ErrorIs(rt, err, wound.ErrHealFatal)
		assert.Contains(rt, err.Error(), w.ID())
		_, ok := w.RecoveryBonus()
		assert.False(rt, ok)
	})
}

// TestWound_Heal_Pure verifies that healing depends only on the roll, the
// tier thresholds and the current recovery bonus.
func TestWound_Heal_Pure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tier := rapid.SampledFrom(wound.HealableTiers()).Draw(rt, "tier")
		roll := rapid.IntRange(-10, 40).Draw(rt, "roll")

		a, err := wound.NewWound(tier, nil)
		require.NoError(rt, err)
		b, err := wound.NewWound(tier, nil)
		require.NoError(rt, err)

		require.NoError(rt, a.Heal(roll))
		require.NoError(rt, b.Heal(roll))
		assert.Equal(rt, a.Status(), b.Status())
		ra, _ := a.RecoveryBonus()
		rb, _ := b.RecoveryBonus()
		assert.Equal(rt, ra, rb)

		before, _ := a.RecoveryBonus()
		a.Reset()
		assert.Equal(rt, wound.Same, a.Status())
		require.NoError(rt, a.Heal(roll))
		after, _ := a.RecoveryBonus()
		assert.Equal(rt, b.Status(), a.Status())
		assert.Equal(rt, rb, after-before, "same roll, same delta")
	})
}

// TestWound_RecoveryBonus_Invariant verifies that recovery bonus stays a
// non-negative multiple of 3 for light, medium and heavy wounds whatever
// sequence of rolls is applied.
func TestWound_RecoveryBonus_Invariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tier := rapid.SampledFrom([]wound.Tier{wound.Light, wound.Medium, wound.Heavy}).Draw(rt, "tier")
		rolls := rapid.SliceOf(rapid.IntRange(-5, 30)).Draw(rt, "rolls")
		w, err := wound.NewWound(tier, nil)
		require.NoError(rt, err)
		for _, r := range rolls {
			require.NoError(rt, w.Heal(r))
			rb, _ := w.RecoveryBonus()
			assert.GreaterOrEqual(rt, rb, 0)
			assert.Zero(rt, rb%3)
		}
	})
}

func TestRestoreWound_Validates(t *testing.T) {
	cases := []struct {
		name  string
		tier  wound.Tier
		bonus int
		ok    bool
	}{
		{"light multiple of 3", wound.Light, 6, true},
		{"light not multiple of 3", wound.Light, 4, false},
		{"heavy negative", wound.Heavy, -3, false},
		{"incapacitating negative", wound.Incapacitating, -2, true},
		{"incapacitating positive", wound.Incapacitating, 3, false},
		{"fatal with bonus", wound.Fatal, 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := wound.RestoreWound(tc.tier, tc.bonus, nil)
			if tc.ok {
				require.NoError(t, err)
				rb, _ := w.RecoveryBonus()
				assert.Equal(t, tc.bonus, rb)
				return
			}
			var verr *wound.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.tier, verr.Tier)
			assert.Equal(t, "recovery_bonus", verr.Field)
			assert.Equal(t, tc.bonus, verr.Value)
		})
	}
}
