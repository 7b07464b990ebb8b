// Package config provides Viper-based configuration loading for the wound engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StartLayout is the date layout accepted for simulation.start.
const StartLayout = "2006-01-02"

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout", or a file path receiving the log stream.
	Output string `mapstructure:"output"`
}

// RulesConfig locates the wound rule table.
type RulesConfig struct {
	// Path is a YAML file of per-tier overrides; empty uses the built-in table.
	Path string `mapstructure:"path"`
}

// RecoveryConfig holds recovery roll settings.
type RecoveryConfig struct {
	// BotchDice is the number of botch dice rolled when a stress die shows 0.
	BotchDice int `mapstructure:"botch_dice"`
	// Bonus is added to every recovery roll when no script supplies one.
	Bonus int `mapstructure:"bonus"`
	// ApplyAccumulatedBonus adds each wound's stored recovery bonus to its roll.
	ApplyAccumulatedBonus bool `mapstructure:"apply_accumulated_bonus"`
	// Seed selects a deterministic dice source; 0 uses crypto/rand.
	Seed int64 `mapstructure:"seed"`
}

// ScriptingConfig holds Lua hook settings.
type ScriptingConfig struct {
	// RecoveryScript is a Lua file defining recovery_bonus; empty disables scripting.
	RecoveryScript string `mapstructure:"recovery_script"`
	// InstructionLimit bounds each hook call; 0 uses the sandbox default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// SimulationConfig describes the character and narrative span for cmd/convalesce.
type SimulationConfig struct {
	// Size is the character's Size score.
	Size int `mapstructure:"size"`
	// Start is the first day of convalescence in YYYY-MM-DD form.
	Start string `mapstructure:"start"`
	// Days is the number of narrative days to simulate.
	Days int `mapstructure:"days"`
}

// StartTime parses Start.
//
// Postcondition: Returns midnight UTC of Start, or a non-nil error.
func (s SimulationConfig) StartTime() (time.Time, error) {
	t, err := time.Parse(StartLayout, s.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("simulation.start %q: %w", s.Start, err)
	}
	return t, nil
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Rules      RulesConfig      `mapstructure:"rules"`
	Recovery   RecoveryConfig   `mapstructure:"recovery"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRecovery(c.Recovery); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRecovery(r RecoveryConfig) error {
	if r.BotchDice < 1 {
		return fmt.Errorf("recovery.botch_dice must be >= 1, got %d", r.BotchDice)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Days < 0 {
		errs = append(errs, fmt.Sprintf("simulation.days must be >= 0, got %d", s.Days))
	}
	if _, err := s.StartTime(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with WOUNDS_ prefix
	v.SetEnvPrefix("WOUNDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults installs the default value of every key on v.
func SetDefaults(v *viper.Viper) { setDefaults(v) }

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("rules.path", "")

	v.SetDefault("recovery.botch_dice", 1)
	v.SetDefault("recovery.bonus", 0)
	v.SetDefault("recovery.apply_accumulated_bonus", false)
	v.SetDefault("recovery.seed", 0)

	v.SetDefault("scripting.recovery_script", "")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("simulation.size", 0)
	v.SetDefault("simulation.start", "1220-03-21")
	v.SetDefault("simulation.days", 90)
}
