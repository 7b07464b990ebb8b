package dice

import (
	"fmt"
	"math/bits"
)

const (
	// DieFaces is the size of the single die every roll is made with.
	DieFaces = 10

	// MaxExplosions bounds the exploding-die recursion. A source that keeps
	// returning 1 stops doubling once this many explosions have been paid out.
	// A 10 doubled MaxExplosions times still fits in an int.
	MaxExplosions = bits.UintSize - 5
)

// RollStandard rolls one die in [1, 10] and adds modifier.
//
// Precondition: src must be non-nil.
// Postcondition: 1+modifier <= result <= 10+modifier.
func RollStandard(src Source, modifier int) int {
	return src.Intn(DieFaces) + 1 + modifier
}

// RollStress makes a stress roll: a die in [0, 9] where 0 calls for a botch
// check and 1 explodes.
//
//   - 0: botchDice dice in [0, 9] are drawn; any zero fails with a
//     *BotchedRollError whose Level counts the zeros, otherwise the roll is
//     worth exactly modifier.
//   - 1: a die in [1, 10] is drawn; each further 1 redraws, and the final
//     draw is doubled once per explosion.
//   - 2-9: the die plus modifier.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a StressResult, a *BotchedRollError, or
// ErrInvalidBotchDice when botchDice < 1.
func RollStress(src Source, botchDice, modifier int) (StressResult, error) {
	if botchDice < 1 {
		return StressResult{}, fmt.Errorf("%w: got %d", ErrInvalidBotchDice, botchDice)
	}

	die := src.Intn(DieFaces)
	result := StressResult{Die: die, Rolls: []int{die}, Modifier: modifier}

	switch die {
	case 0:
		botch := make([]int, botchDice)
		zeros := 0
		for i := range botch {
			botch[i] = src.Intn(DieFaces)
			if botch[i] == 0 {
				zeros++
			}
		}
		if zeros > 0 {
			return StressResult{}, &BotchedRollError{Level: zeros, Dice: botch}
		}
		result.BotchDice = botch
		result.Value = 0
	case 1:
		value, draws := explode(src, 1)
		result.Rolls = append(result.Rolls, draws...)
		result.Explosions = len(draws)
		result.Value = value
	default:
		result.Value = die
	}
	return result, nil
}

// explode draws a die in [1, 10]. A 1 recurses and doubles whatever the
// recursion pays out; any other face pays out double its value.
//
// Postcondition: len(draws) >= 1; value == 2^len(draws) * last(draws)
// when the recursion bottomed out below MaxExplosions.
func explode(src Source, depth int) (int, []int) {
	draw := src.Intn(DieFaces) + 1
	if draw == 1 && depth < MaxExplosions {
		value, draws := explode(src, depth+1)
		return 2 * value, append([]int{draw}, draws...)
	}
	return 2 * draw, []int{draw}
}
