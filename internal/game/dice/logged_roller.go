package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with the dice drawn, modifier, and total;
// botches are logged with their level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced with a no-op logger.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Standard makes a standard roll and logs the result at debug level.
//
// Postcondition: 1+modifier <= result <= 10+modifier.
func (r *Roller) Standard(modifier int) int {
	total := RollStandard(r.src, modifier)
	r.logger.Debug("standard roll",
		zap.Int("modifier", modifier),
		zap.Int("total", total),
	)
	return total
}

// Stress makes a stress roll and logs the result at debug level.
//
// Postcondition: Returns a StressResult or the error from RollStress; both
// outcomes are logged.
func (r *Roller) Stress(botchDice, modifier int) (StressResult, error) {
	result, err := RollStress(r.src, botchDice, modifier)
	if err != nil {
		if level, ok := BotchLevel(err); ok {
			r.logger.Debug("stress roll botched",
				zap.Int("botch_dice", botchDice),
				zap.Int("botch_level", level),
			)
		}
		return StressResult{}, err
	}
	r.logger.Debug("stress roll",
		zap.Ints("dice", result.Rolls),
		zap.Int("explosions", result.Explosions),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result, nil
}
