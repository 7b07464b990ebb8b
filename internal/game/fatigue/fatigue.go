// Package fatigue tracks a character's short-term and long-term fatigue
// levels and the penalties and recovery times they imply.
package fatigue

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoFatigueToRecover is returned when a short-term fatigue level is asked
// to recover but none is held.
var ErrNoFatigueToRecover = errors.New("fatigue: no short-term fatigue levels to recover")

// Level is the named state for a total number of fatigue levels.
type Level string

const (
	Fresh       Level = "Fresh"
	Winded      Level = "Winded"
	Weary       Level = "Weary"
	Tired       Level = "Tired"
	Dazed       Level = "Dazed"
	Unconscious Level = "Unconscious"
)

// unconsciousAt is the total number of levels at which the character drops.
const unconsciousAt = 5

// Tracker holds a character's fatigue levels.
//
// Invariant: ShortTerm() >= 0 and LongTerm() >= 0.
// Tracker is not safe for concurrent use.
type Tracker struct {
	shortTerm int
	longTerm  int
}

// New returns a Tracker holding the given levels.
//
// Postcondition: Returns a Tracker, or an error if either count is negative.
func New(shortTerm, longTerm int) (*Tracker, error) {
	if shortTerm < 0 {
		return nil, fmt.Errorf("fatigue: short_term_levels must be >= 0, got %d", shortTerm)
	}
	if longTerm < 0 {
		return nil, fmt.Errorf("fatigue: long_term_levels must be >= 0, got %d", longTerm)
	}
	return &Tracker{shortTerm: shortTerm, longTerm: longTerm}, nil
}

// ShortTerm returns the number of short-term fatigue levels.
func (t *Tracker) ShortTerm() int { return t.shortTerm }

// LongTerm returns the number of long-term fatigue levels.
func (t *Tracker) LongTerm() int { return t.longTerm }

// Total returns the combined number of fatigue levels.
func (t *Tracker) Total() int { return t.shortTerm + t.longTerm }

// Bonus returns the activity penalty for the current fatigue. ok is false
// once the character is unconscious.
func (t *Tracker) Bonus() (int, bool) {
	switch total := t.Total(); {
	case total <= 1:
		return 0, true
	case total == 2:
		return -1, true
	case total == 3:
		return -3, true
	case total == 4:
		return -5, true
	default:
		return 0, false
	}
}

// Level returns the named fatigue state.
func (t *Tracker) Level() Level {
	switch total := t.Total(); {
	case total == 0:
		return Fresh
	case total == 1:
		return Winded
	case total == 2:
		return Weary
	case total == 3:
		return Tired
	case total == 4:
		return Dazed
	default:
		return Unconscious
	}
}

// Unconscious reports whether fatigue has knocked the character out.
func (t *Tracker) Unconscious() bool {
	return t.Total() >= unconsciousAt
}

// AddShortTerm adds n short-term fatigue levels.
//
// Precondition: n >= 0.
func (t *Tracker) AddShortTerm(n int) error {
	if n < 0 {
		return fmt.Errorf("fatigue: cannot add %d short-term levels", n)
	}
	t.shortTerm += n
	return nil
}

// AddLongTerm adds n long-term fatigue levels.
//
// Precondition: n >= 0.
func (t *Tracker) AddLongTerm(n int) error {
	if n < 0 {
		return fmt.Errorf("fatigue: cannot add %d long-term levels", n)
	}
	t.longTerm += n
	return nil
}

// ShortTermRecoveryTime returns how long the next short-term level takes to
// recover at the current total: 2 minutes at 1, 10 minutes at 2, 30 minutes
// at 3, and total-3 hours beyond that.
//
// Postcondition: Returns a positive duration or ErrNoFatigueToRecover.
func (t *Tracker) ShortTermRecoveryTime() (time.Duration, error) {
	if t.shortTerm == 0 {
		return 0, ErrNoFatigueToRecover
	}
	switch total := t.Total(); {
	case total == 1:
		return 2 * time.Minute, nil
	case total == 2:
		return 10 * time.Minute, nil
	case total == 3:
		return 30 * time.Minute, nil
	default:
		return time.Duration(total-3) * time.Hour, nil
	}
}

// RecoverShortTerm removes one short-term level and returns the time it took.
//
// Postcondition: on success ShortTerm() has decreased by one; on error the
// tracker is unchanged.
func (t *Tracker) RecoverShortTerm() (time.Duration, error) {
	d, err := t.ShortTermRecoveryTime()
	if err != nil {
		return 0, err
	}
	t.shortTerm--
	return d, nil
}

// RecoverAllShortTerm removes every short-term level and returns the total
// time taken, recovering from the deepest level first.
func (t *Tracker) RecoverAllShortTerm() time.Duration {
	var total time.Duration
	for t.shortTerm > 0 {
		d, _ := t.RecoverShortTerm()
		total += d
	}
	return total
}
