// Package main provides a CLI that wounds a character and plays out their
// convalescence, rolling every recovery the rules call for.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/woundtracker/internal/config"
	"github.com/cory-johannsen/woundtracker/internal/game/dice"
	"github.com/cory-johannsen/woundtracker/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and WOUNDS_ env vars")
	size := flag.Int("size", 0, "character Size score (overrides simulation.size)")
	damage := flag.String("damage", "", "comma-separated damage totals suffered before convalescence (required)")
	days := flag.Int("days", 0, "narrative days to simulate (overrides simulation.days)")
	fatigueLevels := flag.Int("fatigue", 0, "long-term fatigue levels carried through convalescence")
	flag.Parse()

	if *damage == "" {
		flag.Usage()
		os.Exit(1)
	}
	hits, err := parseDamage(*damage)
	if err != nil {
		log.Fatalf("parsing -damage: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			cfg.Simulation.Size = *size
		case "days":
			cfg.Simulation.Days = *days
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("validating config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewCryptoSource()
	if cfg.Recovery.Seed != 0 {
		src = dice.NewSeededSource(cfg.Recovery.Seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	sum, err := simulate(cfg, roller, hits, *fatigueLevels, logger)
	if err != nil && sum == nil {
		logger.Fatal("convalescence failed", zap.Error(err))
	}
	if err != nil {
		logger.Warn("convalescence ended early", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, sum)
	logger.Info("convalescence complete", zap.Duration("elapsed", time.Since(start)))
}

// parseDamage splits a comma-separated list of damage totals.
func parseDamage(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("damage %q: %w", field, err)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no damage totals in %q", s)
	}
	return out, nil
}
