// Package dice provides the randomness abstraction and the Ars Magica roll
// primitives (standard and stress rolls) used by the wound recovery engine.
package dice

import (
	"errors"
	"fmt"
)

// ErrInvalidBotchDice is returned when a stress roll is requested with fewer
// than one botch die.
var ErrInvalidBotchDice = errors.New("dice: botch dice must be >= 1")

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// StressResult holds the audit trail for a single stress roll that did not
// botch.
//
// Postcondition: Total() == Value + Modifier.
type StressResult struct {
	Die        int   // the initial stress die, in [0, 9]
	Rolls      []int // every die drawn, initial die first, botch dice excluded
	BotchDice  []int // botch dice drawn when Die == 0 (none of them zero)
	Explosions int   // number of 1s that doubled the result
	Value      int   // result before modifier
	Modifier   int   // flat modifier (may be negative)
}

// Total returns the roll value plus the modifier.
func (r StressResult) Total() int {
	return r.Value + r.Modifier
}

// Exploded reports whether the roll doubled at least once.
func (r StressResult) Exploded() bool {
	return r.Explosions > 0
}

// String returns a human-readable audit string in the format:
//
//	"stress [1 1 7] → 28 +0 = 28"
func (r StressResult) String() string {
	return fmt.Sprintf("stress %v → %d %+d = %d", r.Rolls, r.Value, r.Modifier, r.Total())
}

// BotchedRollError reports a stress roll that botched: at least one botch die
// came up zero.
type BotchedRollError struct {
	// Level is the number of botch dice that came up zero.
	Level int
	// Dice holds every botch die drawn.
	Dice []int
}

func (e *BotchedRollError) Error() string {
	return fmt.Sprintf("dice: stress roll botched (level %d on %d botch dice)", e.Level, len(e.Dice))
}

// BotchLevel returns the botch level carried by err, if err is or wraps a
// *BotchedRollError.
func BotchLevel(err error) (int, bool) {
	var botch *BotchedRollError
	if errors.As(err, &botch) {
		return botch.Level, true
	}
	return 0, false
}
