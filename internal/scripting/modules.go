package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/woundtracker/internal/game/dice"
)

// RegisterModules registers the arm5 Lua table into L:
//
//	arm5.roll_standard([modifier])            -> total
//	arm5.roll_stress([botch_dice[, modifier]]) -> total | nil, botch_level
//
// A nil roller leaves arm5 defined but without roll functions.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: arm5 global is defined in L.
func RegisterModules(L *lua.LState, roller *dice.Roller) {
	arm5 := L.NewTable()
	if roller != nil {
		L.SetField(arm5, "roll_standard", L.NewFunction(func(L *lua.LState) int {
			mod := L.OptInt(1, 0)
			L.Push(lua.LNumber(roller.Standard(mod)))
			return 1
		}))
		L.SetField(arm5, "roll_stress", L.NewFunction(func(L *lua.LState) int {
			botchDice := L.OptInt(1, 1)
			mod := L.OptInt(2, 0)
			result, err := roller.Stress(botchDice, mod)
			if err != nil {
				if level, ok := dice.BotchLevel(err); ok {
					L.Push(lua.LNil)
					L.Push(lua.LNumber(level))
					return 2
				}
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(lua.LNumber(result.Total()))
			return 1
		}))
	}
	L.SetGlobal("arm5", arm5)
}
