package wound

import "fmt"

// RecoveryRolls supplies pre-determined recovery roll results in place of
// stress rolls, for repeatable scenarios. A nil RecoveryRolls means every
// wound is rolled for.
type RecoveryRolls interface {
	// resolve returns one entry per wound; a nil entry is rolled for.
	resolve(wounds int) ([]*int, error)
}

type uniformRolls int

// Uniform applies the same roll result to every wound of the tier.
func Uniform(result int) RecoveryRolls {
	return uniformRolls(result)
}

func (u uniformRolls) resolve(wounds int) ([]*int, error) {
	v := int(u)
	out := make([]*int, wounds)
	for i := range out {
		out[i] = &v
	}
	return out, nil
}

type perWoundRolls []*int

// PerWound supplies one roll result per wound, in the order the tracker
// holds them.
//
// Precondition: len(results) equals the number of wounds being recovered.
func PerWound(results ...int) RecoveryRolls {
	out := make(perWoundRolls, len(results))
	for i := range results {
		out[i] = &results[i]
	}
	return out
}

// PerWoundOptional supplies one entry per wound; nil entries are rolled for.
//
// Precondition: len(results) equals the number of wounds being recovered.
func PerWoundOptional(results ...*int) RecoveryRolls {
	return perWoundRolls(results)
}

func (p perWoundRolls) resolve(wounds int) ([]*int, error) {
	if len(p) != wounds {
		return nil, fmt.Errorf("%w: %d results for %d wounds", ErrRollCount, len(p), wounds)
	}
	out := make([]*int, wounds)
	copy(out, p)
	return out, nil
}
