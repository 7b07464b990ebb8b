// Package wound models Ars Magica wounds: the five severity tiers, the
// per-wound recovery state machine, and the Tracker that converts damage into
// wounds and resolves batched recovery rolls.
package wound

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Tier is a wound severity level. Tiers are ordered from least to most severe.
type Tier int

const (
	Light Tier = iota + 1
	Medium
	Heavy
	Incapacitating
	Fatal
)

// maxSuggestDistance is the largest edit distance for which ParseTier offers
// a "did you mean" suggestion.
const maxSuggestDistance = 3

var tierNames = map[Tier]string{
	Light:          "light",
	Medium:         "medium",
	Heavy:          "heavy",
	Incapacitating: "incapacitating",
	Fatal:          "fatal",
}

// Tiers returns every tier in ascending severity.
func Tiers() []Tier {
	return []Tier{Light, Medium, Heavy, Incapacitating, Fatal}
}

// HealableTiers returns the tiers a recovery roll can be made for, in
// ascending severity.
func HealableTiers() []Tier {
	return []Tier{Light, Medium, Heavy, Incapacitating}
}

// Valid reports whether t is one of the five tiers.
func (t Tier) Valid() bool {
	return t >= Light && t <= Fatal
}

// Healable reports whether a wound of tier t can be rolled for.
func (t Tier) Healable() bool {
	return t >= Light && t <= Incapacitating
}

// String returns the lower-case tier name, or "tier(N)" for an invalid tier.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Better returns the tier a wound of tier t improves to. ok is false for
// Light, which heals away entirely, and for tiers that cannot improve.
func (t Tier) Better() (Tier, bool) {
	switch t {
	case Medium, Heavy, Incapacitating:
		return t - 1, true
	default:
		return 0, false
	}
}

// Worse returns the tier a wound of tier t deteriorates to. ok is false for
// Fatal and invalid tiers.
func (t Tier) Worse() (Tier, bool) {
	if t >= Light && t < Fatal {
		return t + 1, true
	}
	return 0, false
}

// ParseTier parses a tier name case-insensitively. Unknown names fail with
// ErrUnknownTier; when a tier name is close, the error suggests it.
//
// Postcondition: Returns a valid Tier or an error wrapping ErrUnknownTier.
func ParseTier(s string) (Tier, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range tierNames {
		if n == name {
			return t, nil
		}
	}
	if suggestion, ok := closestTier(name); ok {
		return 0, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownTier, s, suggestion)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

func closestTier(name string) (string, bool) {
	best, bestDist := "", maxSuggestDistance+1
	for _, t := range Tiers() {
		n := tierNames[t]
		if d := levenshtein.ComputeDistance(name, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, best != ""
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
