package wound

import (
	"fmt"

	"github.com/google/uuid"
)

// Status is the outcome of the most recent recovery roll for a wound.
type Status int

const (
	Worse  Status = -1
	Same   Status = 0
	Better Status = 1
)

func (s Status) String() string {
	switch s {
	case Worse:
		return "worse"
	case Same:
		return "same"
	case Better:
		return "better"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Wound is one injury at a single tier.
//
// A Wound is not safe for concurrent use.
type Wound struct {
	id            string
	tier          Tier
	status        Status
	recoveryBonus int
	rules         TierRules
}

// NewWound creates a fresh wound of tier t with status Same and no recovery
// bonus, using the constants in rules (DefaultRules when nil).
//
// Postcondition: Returns a wound or an error wrapping ErrUnknownTier.
func NewWound(t Tier, rules *RuleTable) (*Wound, error) {
	return RestoreWound(t, 0, rules)
}

// RestoreWound creates a wound of tier t that already carries recoveryBonus,
// e.g. one rebuilt from a character sheet.
//
// Precondition: for Light, Medium and Heavy recoveryBonus is a non-negative
// multiple of 3; for Incapacitating it is non-positive; for Fatal it is 0.
// Postcondition: Returns a wound, an error wrapping ErrUnknownTier, or a
// *ValidationError.
func RestoreWound(t Tier, recoveryBonus int, rules *RuleTable) (*Wound, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	if rules == nil {
		rules = DefaultRules()
	}
	w := &Wound{id: uuid.New().String(), tier: t}
	if tr, ok := rules.For(t); ok {
		w.rules = tr
	}
	if err := validateRecoveryBonus(w.id, t, recoveryBonus); err != nil {
		return nil, err
	}
	w.recoveryBonus = recoveryBonus
	return w, nil
}

func validateRecoveryBonus(id string, t Tier, bonus int) error {
	switch t {
	case Light, Medium, Heavy:
		if bonus < 0 || bonus%3 != 0 {
			return &ValidationError{WoundID: id, Tier: t, Field: "recovery_bonus", Value: bonus, Bound: "non-negative multiple of 3"}
		}
	case Incapacitating:
		if bonus > 0 {
			return &ValidationError{WoundID: id, Tier: t, Field: "recovery_bonus", Value: bonus, Bound: "<= 0"}
		}
	case Fatal:
		if bonus != 0 {
			return &ValidationError{WoundID: id, Tier: t, Field: "recovery_bonus", Value: bonus, Bound: "fatal wounds carry none"}
		}
	}
	return nil
}

// ID returns the wound's unique identifier.
func (w *Wound) ID() string { return w.id }

// Tier returns the wound's severity tier.
func (w *Wound) Tier() Tier { return w.tier }

// Status returns the outcome of the last Heal call, Same for a fresh wound.
func (w *Wound) Status() Status { return w.status }

// RecoveryBonus returns the accumulated recovery bonus. ok is false for a
// fatal wound, which has none.
func (w *Wound) RecoveryBonus() (int, bool) {
	if w.tier == Fatal {
		return 0, false
	}
	return w.recoveryBonus, true
}

// Bonus returns the activity penalty the wound imposes. ok is false for
// Incapacitating and Fatal wounds, which rule out activity altogether.
func (w *Wound) Bonus() (int, bool) {
	switch w.tier {
	case Light, Medium, Heavy:
		return w.rules.Bonus, true
	default:
		return 0, false
	}
}

// RecoveryPeriod returns the time between recovery rolls. ok is false for a
// fatal wound.
func (w *Wound) RecoveryPeriod() (Period, bool) {
	if !w.tier.Healable() {
		return Period{}, false
	}
	return w.rules.RecoveryPeriod, true
}

// Heal applies one recovery roll. adjustedRoll is the die result with every
// applicable bonus already added.
//
//   - adjustedRoll < StableEase: Worse.
//   - StableEase <= adjustedRoll < RecoveryEase: Same, and the recovery bonus
//     moves by StableRecoveryBonus.
//   - adjustedRoll >= RecoveryEase: Better.
//
// Postcondition: on error the wound is unchanged. A fatal wound always fails
// with ErrHealFatal.
func (w *Wound) Heal(adjustedRoll int) error {
	if w.tier == Fatal {
		return fmt.Errorf("%w: wound %s (roll %d)", ErrHealFatal, w.id, adjustedRoll)
	}
	if !w.tier.Healable() {
		return fmt.Errorf("%w: wound %s has tier %d", ErrUnknownTier, w.id, int(w.tier))
	}

	switch {
	case adjustedRoll < w.rules.StableEase:
		w.status = Worse
	case adjustedRoll < w.rules.RecoveryEase:
		next := w.recoveryBonus + w.rules.StableRecoveryBonus
		if err := validateRecoveryBonus(w.id, w.tier, next); err != nil {
			return err
		}
		w.status = Same
		w.recoveryBonus = next
	default:
		w.status = Better
	}
	return nil
}

// Reset returns the wound's status to Same without touching its recovery
// bonus.
func (w *Wound) Reset() {
	w.status = Same
}

func (w *Wound) clone() *Wound {
	c := *w
	return &c
}

func (w *Wound) String() string {
	return fmt.Sprintf("%s wound %s (%s, recovery bonus %d)", w.tier, w.id, w.status, w.recoveryBonus)
}
