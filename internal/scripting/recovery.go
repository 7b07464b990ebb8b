package scripting

import (
	"fmt"
	"math"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/woundtracker/internal/game/dice"
)

// recoveryBonusHook is the Lua global called for each recovery batch.
const recoveryBonusHook = "recovery_bonus"

// RecoveryHooks runs a campaign script that decides the bonus added to a
// tier's recovery rolls, e.g. for medical care or magical aid:
//
//	function recovery_bonus(tier, wounds)
//	  if tier == "heavy" then return 3 end
//	  return 0
//	end
//
// RecoveryHooks is safe for concurrent use; calls into the VM are serialised.
type RecoveryHooks struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	logger *zap.Logger
}

// LoadRecoveryHooks executes the script at path in a fresh sandbox.
//
// Precondition: path must be a readable Lua file.
// Postcondition: Returns ready hooks or an error on Lua load failure.
func LoadRecoveryHooks(path string, instLimit int, roller *dice.Roller, logger *zap.Logger) (*RecoveryHooks, error) {
	return load(func(L *lua.LState) error { return L.DoFile(path) }, path, instLimit, roller, logger)
}

// NewRecoveryHooks executes src in a fresh sandbox.
//
// Postcondition: Returns ready hooks or an error on Lua load failure.
func NewRecoveryHooks(src string, instLimit int, roller *dice.Roller, logger *zap.Logger) (*RecoveryHooks, error) {
	return load(func(L *lua.LState) error { return L.DoString(src) }, "<string>", instLimit, roller, logger)
}

func load(run func(*lua.LState) error, name string, instLimit int, roller *dice.Roller, logger *zap.Logger) (*RecoveryHooks, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	L := NewSandboxedState()
	RegisterModules(L, roller)

	if err := WithBudget(L, instLimit, func() error { return run(L) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	return &RecoveryHooks{L: L, limit: instLimit, logger: logger}, nil
}

// RecoveryBonus calls recovery_bonus(tier, wounds). An undefined hook yields
// 0. Lua runtime errors are logged at Warn level and yield 0.
//
// Postcondition: Returns the integer the hook returned, or an error when the
// hook returned something other than an integer.
func (h *RecoveryHooks) RecoveryBonus(tier string, wounds int) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn := h.L.GetGlobal(recoveryBonusHook)
	if fn == lua.LNil {
		return 0, nil
	}

	err := WithBudget(h.L, h.limit, func() error {
		return h.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(tier), lua.LNumber(wounds))
	})
	if err != nil {
		h.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", recoveryBonusHook),
			zap.String("tier", tier),
			zap.Error(err),
		)
		return 0, nil
	}

	ret := h.L.Get(-1)
	h.L.Pop(1)
	switch v := ret.(type) {
	case *lua.LNilType:
		return 0, nil
	case lua.LNumber:
		f := float64(v)
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("scripting: %s(%q) returned non-integer %v", recoveryBonusHook, tier, f)
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("scripting: %s(%q) returned %s, want number", recoveryBonusHook, tier, ret.Type())
	}
}

// Close releases the Lua VM.
func (h *RecoveryHooks) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.L.Close()
}
