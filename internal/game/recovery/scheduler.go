// Package recovery drives a character's wound recovery through narrative
// time: each healable tier gets a recovery roll every time its recovery
// period elapses.
package recovery

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/woundtracker/internal/game/wound"
)

// ErrStalledPeriod is returned by Advance when a tier's recovery period does
// not move its next recovery forward in time.
var ErrStalledPeriod = errors.New("recovery: recovery period does not advance time")

// BonusFunc returns the bonus added to the recovery rolls of a tier holding
// the given number of wounds.
type BonusFunc func(tier wound.Tier, wounds int) (int, error)

// ConstantBonus returns a BonusFunc that always yields n.
func ConstantBonus(n int) BonusFunc {
	return func(wound.Tier, int) (int, error) { return n, nil }
}

// BonusScript is satisfied by *scripting.RecoveryHooks.
type BonusScript interface {
	RecoveryBonus(tier string, wounds int) (int, error)
}

// ScriptedBonus returns a BonusFunc that asks script for each tier's bonus.
func ScriptedBonus(script BonusScript) BonusFunc {
	return func(tier wound.Tier, wounds int) (int, error) {
		return script.RecoveryBonus(tier.String(), wounds)
	}
}

// tieOrder breaks ties between tiers due at the same instant: the most
// severe tier rolls first.
var tieOrder = []wound.Tier{wound.Incapacitating, wound.Heavy, wound.Medium, wound.Light}

// Scheduler runs a Tracker's per-tier recovery batches as narrative time
// passes.
//
// Scheduler is not safe for concurrent use; it shares the Tracker's owner.
type Scheduler struct {
	tracker *wound.Tracker
	bonus   BonusFunc
	logger  *zap.Logger
	now     time.Time
	next    map[wound.Tier]time.Time
}

// NewScheduler creates a Scheduler whose first recovery for each tier falls
// one recovery period after start. A nil bonus adds nothing; a nil logger
// discards output.
//
// Precondition: tracker must be non-nil and its rules must define a period
// for every healable tier.
func NewScheduler(tracker *wound.Tracker, start time.Time, bonus BonusFunc, logger *zap.Logger) *Scheduler {
	if bonus == nil {
		bonus = ConstantBonus(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		tracker: tracker,
		bonus:   bonus,
		logger:  logger,
		now:     start,
		next:    make(map[wound.Tier]time.Time, len(tieOrder)),
	}
	for _, tier := range tieOrder {
		s.next[tier] = s.period(tier).After(start)
	}
	return s
}

func (s *Scheduler) period(tier wound.Tier) wound.Period {
	tr, _ := s.tracker.Rules().For(tier)
	return tr.RecoveryPeriod
}

// Now returns the narrative time the scheduler has advanced to.
func (s *Scheduler) Now() time.Time { return s.now }

// NextDue returns when tier next rolls for recovery.
func (s *Scheduler) NextDue(tier wound.Tier) (time.Time, bool) {
	t, ok := s.next[tier]
	return t, ok
}

// Advance moves narrative time forward to `to`, running every recovery batch
// that falls due on the way, in chronological order. Tiers holding no
// wounds are skipped but their schedule still moves on.
//
// Postcondition: Returns the reports of every batch that ran. Stops with
// wound.ErrDead once the character dies; Now() is then the time of death.
// Any other error stops the advance at the failing batch. A tier whose
// period is zero or negative fails with ErrStalledPeriod.
func (s *Scheduler) Advance(to time.Time) ([]wound.RecoveryReport, error) {
	if to.Before(s.now) {
		return nil, fmt.Errorf("recovery: cannot advance from %s back to %s", s.now.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	var reports []wound.RecoveryReport
	for {
		tier, due, ok := s.earliestDue(to)
		if !ok {
			break
		}
		period := s.period(tier)
		next := period.After(due)
		if !next.After(due) {
			return reports, fmt.Errorf("%w: %s period %q", ErrStalledPeriod, tier, period)
		}
		s.now = due
		s.next[tier] = next

		count := s.tracker.Count(tier)
		if count == 0 {
			continue
		}
		bonus, err := s.bonus(tier, count)
		if err != nil {
			return reports, fmt.Errorf("recovery: bonus for %s wounds: %w", tier, err)
		}
		report, err := s.tracker.Recover(tier, bonus, nil)
		if err != nil {
			return reports, fmt.Errorf("recovery: %s at %s: %w", tier, due.Format(time.RFC3339), err)
		}
		reports = append(reports, report)
		s.logger.Debug("recovery batch",
			zap.Time("at", due),
			zap.Stringer("tier", tier),
			zap.Int("bonus", bonus),
			zap.Int("wounds", count),
		)
		if s.tracker.Dead() {
			s.logger.Info("character died during recovery", zap.Time("at", due))
			return reports, fmt.Errorf("recovery: at %s: %w", due.Format(time.RFC3339), wound.ErrDead)
		}
	}
	s.now = to
	return reports, nil
}

// earliestDue returns the tier whose next recovery is earliest and not after
// limit.
func (s *Scheduler) earliestDue(limit time.Time) (wound.Tier, time.Time, bool) {
	var (
		best    wound.Tier
		bestDue time.Time
		found   bool
	)
	for _, tier := range tieOrder {
		due := s.next[tier]
		if due.After(limit) {
			continue
		}
		if !found || due.Before(bestDue) {
			best, bestDue, found = tier, due, true
		}
	}
	return best, bestDue, found
}
