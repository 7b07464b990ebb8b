package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/woundtracker/internal/config"
	"github.com/cory-johannsen/woundtracker/internal/game/dice"
	"github.com/cory-johannsen/woundtracker/internal/game/fatigue"
	"github.com/cory-johannsen/woundtracker/internal/game/recovery"
	"github.com/cory-johannsen/woundtracker/internal/game/wound"
	"github.com/cory-johannsen/woundtracker/internal/scripting"
)

// summary is the state of the character when the simulation stops.
type summary struct {
	Start         time.Time
	End           time.Time
	Batches       int
	Light         int
	Medium        int
	Heavy         int
	Incapacitated bool
	Dead          bool
	WoundBonus    int
	Fatigue       fatigue.Level
	FatigueBonus  int
	Conscious     bool
}

// String renders the summary as one line per fact.
func (s *summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "convalescence %s .. %s (%d recovery batches)\n",
		s.Start.Format(config.StartLayout), s.End.Format(config.StartLayout), s.Batches)
	switch {
	case s.Dead:
		b.WriteString("status: dead\n")
	case s.Incapacitated:
		b.WriteString("status: incapacitated\n")
	default:
		fmt.Fprintf(&b, "wounds: light=%d medium=%d heavy=%d\n", s.Light, s.Medium, s.Heavy)
		fmt.Fprintf(&b, "wound penalty: %+d\n", s.WoundBonus)
	}
	if s.Conscious {
		fmt.Fprintf(&b, "fatigue: %s (%+d)", s.Fatigue, s.FatigueBonus)
	} else {
		fmt.Fprintf(&b, "fatigue: %s", s.Fatigue)
	}
	return b.String()
}

// simulate applies hits to a fresh character and advances narrative time by
// cfg.Simulation.Days, rolling recoveries as they fall due.
//
// Precondition: cfg must have passed Validate; roller must be non-nil.
// Postcondition: Returns a nil summary only when setup fails. A character
// who dies during convalescence yields both a summary and wound.ErrDead.
func simulate(cfg config.Config, roller *dice.Roller, hits []int, longTermFatigue int, logger *zap.Logger) (*summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rules, err := wound.LoadRules(cfg.Rules.Path)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	bonus := recovery.ConstantBonus(cfg.Recovery.Bonus)
	if cfg.Scripting.RecoveryScript != "" {
		hooks, err := scripting.LoadRecoveryHooks(cfg.Scripting.RecoveryScript, cfg.Scripting.InstructionLimit, roller, logger)
		if err != nil {
			return nil, fmt.Errorf("loading recovery script: %w", err)
		}
		defer hooks.Close()
		bonus = recovery.ScriptedBonus(hooks)
	}

	tiredness, err := fatigue.New(0, longTermFatigue)
	if err != nil {
		return nil, err
	}

	start, err := cfg.Simulation.StartTime()
	if err != nil {
		return nil, err
	}

	tracker := wound.NewTracker(cfg.Simulation.Size, rules, roller, logger)
	tracker.BotchDice = cfg.Recovery.BotchDice
	tracker.ApplyAccumulatedBonus = cfg.Recovery.ApplyAccumulatedBonus

	for _, dmg := range hits {
		w, err := tracker.TakeDamage(dmg)
		if err != nil {
			return nil, fmt.Errorf("applying damage %d: %w", dmg, err)
		}
		logger.Info("wounded", zap.Int("damage", dmg), zap.Stringer("tier", w.Tier()))
	}

	sched := recovery.NewScheduler(tracker, start, bonus, logger)
	reports, advErr := sched.Advance(start.AddDate(0, 0, cfg.Simulation.Days))
	if advErr != nil && !errors.Is(advErr, wound.ErrDead) {
		return nil, advErr
	}

	sum := &summary{
		Start:         start,
		End:           sched.Now(),
		Batches:       len(reports),
		Light:         tracker.LightWounds(),
		Medium:        tracker.MediumWounds(),
		Heavy:         tracker.HeavyWounds(),
		Incapacitated: tracker.Incapacitated(),
		Dead:          tracker.Dead(),
		Fatigue:       tiredness.Level(),
	}
	sum.WoundBonus, _ = tracker.WoundBonus()
	sum.FatigueBonus, sum.Conscious = tiredness.Bonus()
	return sum, advErr
}
