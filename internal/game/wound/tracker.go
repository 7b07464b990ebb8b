package wound

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/woundtracker/internal/game/dice"
)

// sizeOffset shifts a character's Size so that the damage-per-tier step is
// always positive: at Size 0 each tier spans 5 points of damage.
//
//	Size        Light  Medium  Heavy  Incapacitating  Dead
//	-4 or less  1      2       3      4               5+
//	-3          1-2    3-4     5-6    7-8             9+
//	-2          1-3    4-6     7-9    10-12           13+
//	-1          1-4    5-8     9-12   13-16           17+
//	 0          1-5    6-10    11-15  16-20           21+
const sizeOffset = 5

// StressRoller makes stress rolls. *dice.Roller satisfies it.
type StressRoller interface {
	Stress(botchDice, modifier int) (dice.StressResult, error)
}

// Tracker tracks the wounds of one character.
//
// Invariant: at most one Incapacitating and one Fatal wound are held.
// Tracker is not safe for concurrent use; the owning character must
// serialise access.
type Tracker struct {
	modifiedSize int
	rules        *RuleTable
	roller       StressRoller
	logger       *zap.Logger

	light          []*Wound
	medium         []*Wound
	heavy          []*Wound
	incapacitating *Wound
	fatal          *Wound

	// BotchDice is the number of botch dice rolled when a recovery stress
	// roll shows 0. Values below 1 are treated as 1.
	BotchDice int
	// ApplyAccumulatedBonus adds each wound's own recovery bonus to its
	// recovery roll, on top of the bonus passed to Recover.
	ApplyAccumulatedBonus bool
}

// NewTracker creates an empty Tracker for a character of the given Size.
// A nil rules uses DefaultRules; a nil roller rolls with crypto/rand; a nil
// logger discards output.
//
// Postcondition: ModifiedSize() == max(size+5, 1).
func NewTracker(size int, rules *RuleTable, roller StressRoller, logger *zap.Logger) *Tracker {
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if roller == nil {
		roller = dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	}
	modified := size + sizeOffset
	if modified < 1 {
		modified = 1
	}
	return &Tracker{
		modifiedSize: modified,
		rules:        rules,
		roller:       roller,
		logger:       logger,
		BotchDice:    1,
	}
}

// ModifiedSize returns the character's Size shifted by 5, floored at 1.
func (t *Tracker) ModifiedSize() int { return t.modifiedSize }

// Rules returns the rule table wounds are created with.
func (t *Tracker) Rules() *RuleTable { return t.rules }

// TierForDamage returns the tier a single hit of damage inflicts:
// ceil(damage / ModifiedSize()) mapped 1..4 to Light..Incapacitating and 5+
// to Fatal.
//
// Postcondition: Returns a valid Tier or an error wrapping ErrInvalidDamage.
func (t *Tracker) TierForDamage(damage int) (Tier, error) {
	if damage < 0 {
		return 0, fmt.Errorf("%w: damage %d must not be negative", ErrInvalidDamage, damage)
	}
	level := damage / t.modifiedSize
	if damage%t.modifiedSize != 0 {
		level++
	}
	switch {
	case level <= 0:
		return 0, fmt.Errorf("%w: damage %d yields wound level %d", ErrInvalidDamage, damage, level)
	case level >= int(Fatal):
		return Fatal, nil
	default:
		return Tier(level), nil
	}
}

// TakeDamage converts damage into exactly one new wound and files it. An
// Incapacitating or Fatal wound replaces any wound already held at that tier.
//
// Postcondition: Returns the new wound, or an error wrapping ErrInvalidDamage
// with the tracker unchanged.
func (t *Tracker) TakeDamage(damage int) (*Wound, error) {
	tier, err := t.TierForDamage(damage)
	if err != nil {
		return nil, err
	}
	w, err := t.addNew(tier)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("wound taken",
		zap.Int("damage", damage),
		zap.Int("modified_size", t.modifiedSize),
		zap.Stringer("tier", tier),
		zap.String("wound_id", w.ID()),
	)
	return w, nil
}

// AddWound files a pre-built wound under its tier.
//
// Precondition: w must be non-nil.
// Postcondition: Returns nil, or an error wrapping ErrUnknownTier with the
// tracker unchanged.
func (t *Tracker) AddWound(w *Wound) error {
	if w == nil {
		return fmt.Errorf("%w: nil wound", ErrUnknownTier)
	}
	switch w.tier {
	case Light:
		t.light = append(t.light, w)
	case Medium:
		t.medium = append(t.medium, w)
	case Heavy:
		t.heavy = append(t.heavy, w)
	case Incapacitating:
		t.incapacitating = w
	case Fatal:
		t.fatal = w
	default:
		return fmt.Errorf("%w: wound %s has tier %d", ErrUnknownTier, w.id, int(w.tier))
	}
	return nil
}

func (t *Tracker) addNew(tier Tier) (*Wound, error) {
	w, err := NewWound(tier, t.rules)
	if err != nil {
		return nil, err
	}
	if err := t.AddWound(w); err != nil {
		return nil, err
	}
	return w, nil
}

// LightWounds returns the number of light wounds.
func (t *Tracker) LightWounds() int { return len(t.light) }

// MediumWounds returns the number of medium wounds.
func (t *Tracker) MediumWounds() int { return len(t.medium) }

// HeavyWounds returns the number of heavy wounds.
func (t *Tracker) HeavyWounds() int { return len(t.heavy) }

// Incapacitated reports whether an incapacitating wound is held.
func (t *Tracker) Incapacitated() bool { return t.incapacitating != nil }

// Dead reports whether a fatal wound is held.
func (t *Tracker) Dead() bool { return t.fatal != nil }

// WoundBonus returns the sum of the activity penalties of all light, medium
// and heavy wounds. ok is false while the character is incapacitated or dead.
func (t *Tracker) WoundBonus() (int, bool) {
	if t.Dead() || t.Incapacitated() {
		return 0, false
	}
	total := 0
	for _, group := range [][]*Wound{t.light, t.medium, t.heavy} {
		for _, w := range group {
			if b, ok := w.Bonus(); ok {
				total += b
			}
		}
	}
	return total, true
}

// Count returns the number of wounds held at tier.
func (t *Tracker) Count(tier Tier) int {
	return len(t.woundsAt(tier))
}

// Wounds returns a copy of the wounds held at tier, in filing order.
func (t *Tracker) Wounds(tier Tier) []*Wound {
	held := t.woundsAt(tier)
	out := make([]*Wound, len(held))
	copy(out, held)
	return out
}

func (t *Tracker) woundsAt(tier Tier) []*Wound {
	switch tier {
	case Light:
		return t.light
	case Medium:
		return t.medium
	case Heavy:
		return t.heavy
	case Incapacitating:
		if t.incapacitating != nil {
			return []*Wound{t.incapacitating}
		}
	case Fatal:
		if t.fatal != nil {
			return []*Wound{t.fatal}
		}
	}
	return nil
}
