package wound

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTier is returned for a tier outside Light..Fatal.
	ErrUnknownTier = errors.New("wound: unknown tier")
	// ErrInvalidDamage is returned when damage is negative or too small to wound.
	ErrInvalidDamage = errors.New("wound: invalid damage")
	// ErrHealFatal is returned when a fatal wound is asked to heal.
	ErrHealFatal = errors.New("wound: cannot heal fatal wound")
	// ErrRollCount is returned when supplied per-wound roll results do not
	// match the number of wounds being recovered.
	ErrRollCount = errors.New("wound: recovery roll count mismatch")
	// ErrDead is returned when recovery is attempted for a dead character.
	ErrDead = errors.New("wound: character is dead")
)

// ValidationError reports a bounded field that would leave its allowed range.
type ValidationError struct {
	WoundID string
	Tier    Tier
	Field   string
	Value   int
	Bound   string
}

func (e *ValidationError) Error() string {
	if e.WoundID == "" {
		return fmt.Sprintf("wound: %s %s = %d violates %s", e.Tier, e.Field, e.Value, e.Bound)
	}
	return fmt.Sprintf("wound %s: %s %s = %d violates %s", e.WoundID, e.Tier, e.Field, e.Value, e.Bound)
}
