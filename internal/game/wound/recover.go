package wound

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/woundtracker/internal/game/dice"
)

// Outcome records how one wound fared in a recovery batch.
type Outcome struct {
	WoundID string
	From    Tier
	Status  Status
	// To is the tier of the replacement wound; zero when the wound stayed or
	// healed away.
	To Tier
	// NewWoundID identifies the replacement wound, if one was created.
	NewWoundID string
	// Roll is the die result before bonuses; Rolled is false when it was
	// supplied by the caller.
	Roll   int
	Rolled bool
	// Adjusted is the value passed to Heal. Unset for a botch.
	Adjusted   int
	BotchLevel int
}

// HealedAway reports whether the wound left the tracker without replacement.
func (o Outcome) HealedAway() bool {
	return o.Status == Better && o.To == 0
}

// RecoveryReport summarises one Recover call.
type RecoveryReport struct {
	Tier     Tier
	Outcomes []Outcome
}

// Count returns how many wounds ended with status s.
func (r RecoveryReport) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// RecoverLight makes recovery rolls for every light wound.
func (t *Tracker) RecoverLight(bonus int, rolls RecoveryRolls) (RecoveryReport, error) {
	return t.Recover(Light, bonus, rolls)
}

// RecoverMedium makes recovery rolls for every medium wound.
func (t *Tracker) RecoverMedium(bonus int, rolls RecoveryRolls) (RecoveryReport, error) {
	return t.Recover(Medium, bonus, rolls)
}

// RecoverHeavy makes recovery rolls for every heavy wound.
func (t *Tracker) RecoverHeavy(bonus int, rolls RecoveryRolls) (RecoveryReport, error) {
	return t.Recover(Heavy, bonus, rolls)
}

// RecoverIncapacitating makes a recovery roll for the incapacitating wound,
// if one is held.
func (t *Tracker) RecoverIncapacitating(bonus int, rolls RecoveryRolls) (RecoveryReport, error) {
	return t.Recover(Incapacitating, bonus, rolls)
}

// Recover makes one recovery roll for every wound held at tier and re-files
// the results: Better wounds move one tier down (Light heals away), Worse
// wounds move one tier up, Same wounds stay with their updated recovery bonus.
// A botched stress roll counts as Worse. Each roll is the supplied result, or
// a stress roll when rolls is nil or the entry is nil, plus bonus.
//
// Precondition: tier is Light, Medium, Heavy or Incapacitating.
// Postcondition: on error the tracker is unchanged. Fatal fails with
// ErrHealFatal; a dead tracker fails with ErrDead; a per-wound roll count that
// does not match fails with ErrRollCount.
func (t *Tracker) Recover(tier Tier, bonus int, rolls RecoveryRolls) (RecoveryReport, error) {
	report := RecoveryReport{Tier: tier}
	switch {
	case tier == Fatal:
		return report, fmt.Errorf("recovering %s wounds: %w", tier, ErrHealFatal)
	case !tier.Healable():
		return report, fmt.Errorf("recovering wounds: %w: %d", ErrUnknownTier, int(tier))
	case t.Dead():
		return report, fmt.Errorf("recovering %s wounds: %w", tier, ErrDead)
	}

	held := t.woundsAt(tier)
	supplied := make([]*int, len(held))
	if rolls != nil {
		var err error
		if supplied, err = rolls.resolve(len(held)); err != nil {
			return report, fmt.Errorf("recovering %s wounds: %w", tier, err)
		}
	}

	// Resolve every wound against a clone first so that a failure part way
	// through leaves the tracker untouched.
	resolved := make([]*Wound, len(held))
	for i, w := range held {
		c := w.clone()
		o := Outcome{WoundID: c.id, From: tier}

		if supplied[i] != nil {
			o.Roll = *supplied[i]
		} else {
			result, err := t.roller.Stress(t.botchDice(), 0)
			o.Rolled = true
			if err != nil {
				level, ok := dice.BotchLevel(err)
				if !ok {
					return RecoveryReport{Tier: tier}, fmt.Errorf("recovering %s wound %s: %w", tier, c.id, err)
				}
				o.BotchLevel = level
				c.status = Worse
				resolved[i] = c
				o.Status = Worse
				report.Outcomes = append(report.Outcomes, o)
				continue
			}
			o.Roll = result.Total()
		}

		o.Adjusted = o.Roll + bonus
		if t.ApplyAccumulatedBonus {
			o.Adjusted += c.recoveryBonus
		}
		if err := c.Heal(o.Adjusted); err != nil {
			return RecoveryReport{Tier: tier}, fmt.Errorf("recovering %s wound %s: %w", tier, c.id, err)
		}
		o.Status = c.status
		resolved[i] = c
		report.Outcomes = append(report.Outcomes, o)
	}

	// Build the replacement wounds before touching tracker state.
	var remaining []*Wound
	var replacements []*Wound
	for i, c := range resolved {
		var dest Tier
		var ok bool
		switch c.status {
		case Same:
			remaining = append(remaining, held[i])
			continue
		case Better:
			dest, ok = tier.Better()
		case Worse:
			dest, ok = tier.Worse()
		}
		if !ok {
			continue
		}
		nw, err := NewWound(dest, t.rules)
		if err != nil {
			return RecoveryReport{Tier: tier}, fmt.Errorf("recovering %s wound %s: %w", tier, c.id, err)
		}
		report.Outcomes[i].To = dest
		report.Outcomes[i].NewWoundID = nw.id
		replacements = append(replacements, nw)
	}

	for i, c := range resolved {
		*held[i] = *c
	}
	switch tier {
	case Light:
		t.light = remaining
	case Medium:
		t.medium = remaining
	case Heavy:
		t.heavy = remaining
	case Incapacitating:
		t.incapacitating = nil
		if len(remaining) > 0 {
			t.incapacitating = remaining[0]
		}
	}
	for _, nw := range replacements {
		// Every replacement has a valid tier, so AddWound cannot fail.
		_ = t.AddWound(nw)
	}

	t.logReport(report)
	return report, nil
}

func (t *Tracker) botchDice() int {
	if t.BotchDice < 1 {
		return 1
	}
	return t.BotchDice
}

func (t *Tracker) logReport(r RecoveryReport) {
	for _, o := range r.Outcomes {
		t.logger.Debug("wound recovery roll",
			zap.String("wound_id", o.WoundID),
			zap.Stringer("tier", o.From),
			zap.Stringer("status", o.Status),
			zap.Int("roll", o.Roll),
			zap.Bool("rolled", o.Rolled),
			zap.Int("adjusted", o.Adjusted),
			zap.Int("botch_level", o.BotchLevel),
		)
		if o.To == Fatal {
			t.logger.Warn("wound became fatal",
				zap.String("wound_id", o.WoundID),
				zap.String("fatal_wound_id", o.NewWoundID),
			)
		}
	}
	t.logger.Info("wound recovery resolved",
		zap.Stringer("tier", r.Tier),
		zap.Int("wounds", len(r.Outcomes)),
		zap.Int("better", r.Count(Better)),
		zap.Int("same", r.Count(Same)),
		zap.Int("worse", r.Count(Worse)),
	)
}
