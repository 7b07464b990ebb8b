package wound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Period is a calendar recovery period. Months are calendar months, so the
// same Period spans a different number of days depending on where it starts.
type Period struct {
	Months int `yaml:"months"`
	Days   int `yaml:"days"`
	Hours  int `yaml:"hours"`
}

// After returns t advanced by the period.
func (p Period) After(t time.Time) time.Time {
	return t.AddDate(0, p.Months, p.Days).Add(time.Duration(p.Hours) * time.Hour)
}

// IsZero reports whether the period has no length.
func (p Period) IsZero() bool {
	return p.Months == 0 && p.Days == 0 && p.Hours == 0
}

func (p Period) String() string {
	switch {
	case p.Months > 0 && p.Days == 0 && p.Hours == 0:
		return fmt.Sprintf("%dmo", p.Months)
	case p.Months == 0 && p.Days > 0 && p.Days%7 == 0 && p.Hours == 0:
		return fmt.Sprintf("%dw", p.Days/7)
	case p.Months == 0 && p.Days == 0:
		return fmt.Sprintf("%dh", p.Hours)
	default:
		return fmt.Sprintf("%dmo%dd%dh", p.Months, p.Days, p.Hours)
	}
}

// TierRules holds the recovery constants for one healable tier.
type TierRules struct {
	// Bonus is the penalty the wound applies to activities. Ignored for
	// Incapacitating, which prevents activity altogether.
	Bonus int `yaml:"bonus"`
	// StableEase is the adjusted roll below which the wound worsens.
	StableEase int `yaml:"stable_ease"`
	// RecoveryEase is the adjusted roll at or above which the wound improves.
	RecoveryEase int `yaml:"recovery_ease"`
	// StableRecoveryBonus is added to the wound's recovery bonus when a roll
	// lands between StableEase and RecoveryEase.
	StableRecoveryBonus int `yaml:"stable_recovery_bonus"`
	// RecoveryPeriod is the narrative time between recovery rolls.
	RecoveryPeriod Period `yaml:"recovery_period"`
}

// RuleTable holds the TierRules of every healable tier. Fatal has no rules.
type RuleTable struct {
	byTier map[Tier]TierRules
}

// DefaultRules returns the ArM5 wound table.
//
// Postcondition: Validate() returns nil.
func DefaultRules() *RuleTable {
	return &RuleTable{byTier: map[Tier]TierRules{
		Light: {
			Bonus: -1, StableEase: 4, RecoveryEase: 10, StableRecoveryBonus: 3,
			RecoveryPeriod: Period{Days: 7},
		},
		Medium: {
			Bonus: -3, StableEase: 6, RecoveryEase: 12, StableRecoveryBonus: 3,
			RecoveryPeriod: Period{Months: 1},
		},
		Heavy: {
			Bonus: -5, StableEase: 9, RecoveryEase: 15, StableRecoveryBonus: 3,
			RecoveryPeriod: Period{Months: 3},
		},
		Incapacitating: {
			StableEase: 0, RecoveryEase: 9, StableRecoveryBonus: -1,
			RecoveryPeriod: Period{Hours: 12},
		},
	}}
}

// For returns the rules for t. ok is false for Fatal and invalid tiers.
func (r *RuleTable) For(t Tier) (TierRules, bool) {
	rules, ok := r.byTier[t]
	return rules, ok
}

// Validate checks every tier's constants.
//
// Postcondition: Returns nil if the table is usable, or one error listing
// every violation.
func (r *RuleTable) Validate() error {
	var errs []error
	for _, t := range HealableTiers() {
		tr, ok := r.byTier[t]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: rules missing", t))
			continue
		}
		if tr.StableEase >= tr.RecoveryEase {
			errs = append(errs, fmt.Errorf("%s: stable_ease %d must be < recovery_ease %d", t, tr.StableEase, tr.RecoveryEase))
		}
		if tr.RecoveryPeriod.IsZero() {
			errs = append(errs, fmt.Errorf("%s: recovery_period must not be zero", t))
		}
		if tr.RecoveryPeriod.Months < 0 || tr.RecoveryPeriod.Days < 0 || tr.RecoveryPeriod.Hours < 0 {
			errs = append(errs, fmt.Errorf("%s: recovery_period must not be negative", t))
		}
		if t == Incapacitating {
			if tr.Bonus != 0 {
				errs = append(errs, fmt.Errorf("%s: bonus must be 0, got %d", t, tr.Bonus))
			}
			if tr.StableRecoveryBonus >= 0 {
				errs = append(errs, fmt.Errorf("%s: stable_recovery_bonus must be < 0, got %d", t, tr.StableRecoveryBonus))
			}
			continue
		}
		if tr.Bonus > 0 {
			errs = append(errs, fmt.Errorf("%s: bonus must be <= 0, got %d", t, tr.Bonus))
		}
		if tr.StableRecoveryBonus <= 0 || tr.StableRecoveryBonus%3 != 0 {
			errs = append(errs, fmt.Errorf("%s: stable_recovery_bonus must be a positive multiple of 3, got %d", t, tr.StableRecoveryBonus))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("wound rules validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// tierOverride mirrors TierRules with optional fields so a rules file only
// has to name the constants it changes.
type tierOverride struct {
	Bonus               *int    `yaml:"bonus"`
	StableEase          *int    `yaml:"stable_ease"`
	RecoveryEase        *int    `yaml:"recovery_ease"`
	StableRecoveryBonus *int    `yaml:"stable_recovery_bonus"`
	RecoveryPeriod      *Period `yaml:"recovery_period"`
}

type rulesFile struct {
	Tiers map[string]tierOverride `yaml:"tiers"`
}

// ParseRules decodes a YAML rules document and applies it over DefaultRules.
//
// Postcondition: Returns a validated RuleTable or a non-nil error.
func ParseRules(data []byte) (*RuleTable, error) {
	var doc rulesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing wound rules: %w", err)
	}

	table := DefaultRules()
	for name, o := range doc.Tiers {
		t, err := ParseTier(name)
		if err != nil {
			return nil, fmt.Errorf("parsing wound rules: %w", err)
		}
		tr, ok := table.byTier[t]
		if !ok {
			return nil, fmt.Errorf("parsing wound rules: %s tier has no recovery rules", t)
		}
		if o.Bonus != nil {
			tr.Bonus = *o.Bonus
		}
		if o.StableEase != nil {
			tr.StableEase = *o.StableEase
		}
		if o.RecoveryEase != nil {
			tr.RecoveryEase = *o.RecoveryEase
		}
		if o.StableRecoveryBonus != nil {
			tr.StableRecoveryBonus = *o.StableRecoveryBonus
		}
		if o.RecoveryPeriod != nil {
			tr.RecoveryPeriod = *o.RecoveryPeriod
		}
		table.byTier[t] = tr
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadRules reads the YAML rules file at path. An empty path yields
// DefaultRules.
//
// Postcondition: Returns a validated RuleTable or a non-nil error.
func LoadRules(path string) (*RuleTable, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wound rules %q: %w", path, err)
	}
	table, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return table, nil
}
