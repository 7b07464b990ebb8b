package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Recovery: RecoveryConfig{
			BotchDice: 1,
		},
		Simulation: SimulationConfig{
			Size:  0,
			Start: "1220-03-21",
			Days:  90,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, 1, cfg.Recovery.BotchDice)
	assert.False(t, cfg.Recovery.ApplyAccumulatedBonus)
	assert.Zero(t, cfg.Recovery.Seed)
	assert.Empty(t, cfg.Rules.Path)
	assert.Empty(t, cfg.Scripting.RecoveryScript)
	assert.Equal(t, 90, cfg.Simulation.Days)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
rules:
  path: content/wounds.yaml
recovery:
  botch_dice: 3
  bonus: 2
  apply_accumulated_bonus: true
  seed: 42
scripting:
  recovery_script: content/scripts/recovery.lua
  instruction_limit: 5000
simulation:
  size: -1
  start: "1221-01-01"
  days: 30
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "content/wounds.yaml", cfg.Rules.Path)
	assert.Equal(t, 3, cfg.Recovery.BotchDice)
	assert.Equal(t, 2, cfg.Recovery.Bonus)
	assert.True(t, cfg.Recovery.ApplyAccumulatedBonus)
	assert.Equal(t, int64(42), cfg.Recovery.Seed)
	assert.Equal(t, 5000, cfg.Scripting.InstructionLimit)
	assert.Equal(t, -1, cfg.Simulation.Size)
	assert.Equal(t, 30, cfg.Simulation.Days)

	start, err := cfg.Simulation.StartTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(1221, time.January, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WOUNDS_RECOVERY_BOTCH_DICE", "4")
	t.Setenv("WOUNDS_SIMULATION_SIZE", "2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Recovery.BotchDice)
	assert.Equal(t, 2, cfg.Simulation.Size)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("recovery.botch_dice", 2)

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Recovery.BotchDice)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingOutput(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Output = ""
	assert.ErrorContains(t, cfg.Validate(), "logging.output")
}

func TestValidateBotchDice(t *testing.T) {
	cfg := validConfig()
	cfg.Recovery.BotchDice = 0
	assert.ErrorContains(t, cfg.Validate(), "recovery.botch_dice")
}

func TestValidateInstructionLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Scripting.InstructionLimit = -1
	assert.ErrorContains(t, cfg.Validate(), "scripting.instruction_limit")
}

func TestValidateSimulation(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Days = -1
	assert.ErrorContains(t, cfg.Validate(), "simulation.days")

	cfg = validConfig()
	cfg.Simulation.Start = "spring 1220"
	assert.ErrorContains(t, cfg.Validate(), "simulation.start")
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	cfg.Recovery.BotchDice = 0
	cfg.Simulation.Days = -5

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "recovery.botch_dice")
	assert.Contains(t, err.Error(), "simulation.days")
}

// Property-based tests

func TestPropertyBotchDiceRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-100, 100).Draw(t, "botch_dice")
		cfg := validConfig()
		cfg.Recovery.BotchDice = n
		err := cfg.Validate()
		if n >= 1 && err != nil {
			t.Fatalf("valid botch_dice %d rejected: %v", n, err)
		}
		if n < 1 && err == nil {
			t.Fatalf("invalid botch_dice %d accepted", n)
		}
	})
}

func TestPropertySizeUnconstrained(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Simulation.Size = rapid.IntRange(-20, 20).Draw(t, "size")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("size %d rejected: %v", cfg.Simulation.Size, err)
		}
	})
}
