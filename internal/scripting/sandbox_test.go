package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/woundtracker/internal/game/dice"
	"github.com/cory-johannsen/woundtracker/internal/scripting"
	"github.com/cory-johannsen/woundtracker/internal/testutil"
)

func TestNewSandboxedState_UnsafeGlobalsNil(t *testing.T) {
	L := scripting.NewSandboxedState()
	require.NotNil(t, L)
	defer L.Close()
	for _, name := range []string{"os", "io", "debug", "dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "expected %s to be nil", name)
	}
}

func TestNewSandboxedState_SafeLibsAvailable(t *testing.T) {
	L := scripting.NewSandboxedState()
	require.NotNil(t, L)
	defer L.Close()
	err := L.DoString(`
		assert(math.floor(7 / 2) == 3, "math.floor failed")
		assert(string.lower("HEAVY") == "heavy", "string.lower failed")
	`)
	assert.NoError(t, err)
}

func TestProperty_InstructionLimitAlwaysErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 50).Draw(t, "limit")
		L := scripting.NewSandboxedState()
		defer L.Close()
		err := scripting.WithBudget(L, limit, func() error { return L.DoString(`while true do end`) })
		if err == nil {
			t.Fatalf("expected error with limit=%d but got nil", limit)
		}
	})
}

func TestWithBudget_RemovesContextAfterRun(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	assert.Nil(t, L.Context(), "a fresh state carries no budget")

	err := scripting.WithBudget(L, 10, func() error { return L.DoString(`while true do end`) })
	require.Error(t, err)
	assert.Nil(t, L.Context())

	// The exhausted budget does not leak into later runs.
	require.NoError(t, scripting.WithBudget(L, 1000, func() error { return L.DoString(`x = 1 + 1`) }))
	assert.Equal(t, lua.LNumber(2), L.GetGlobal("x"))
}

func TestRegisterModules_RollStress(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	// Plain 6, then a botch on 0/0.
	roller := dice.NewLoggedRoller(testutil.NewSource(t, 6, 0, 0), nil)
	scripting.RegisterModules(L, roller)

	require.NoError(t, L.DoString(`
		first = arm5.roll_stress(1, 2)
		second, botch = arm5.roll_stress()
	`))
	assert.Equal(t, lua.LNumber(8), L.GetGlobal("first"))
	assert.Equal(t, lua.LNil, L.GetGlobal("second"))
	assert.Equal(t, lua.LNumber(1), L.GetGlobal("botch"))
}

func TestRegisterModules_RollStandard(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	scripting.RegisterModules(L, dice.NewLoggedRoller(testutil.NewSource(t, 4), nil))
	require.NoError(t, L.DoString(`x = arm5.roll_standard(3)`))
	assert.Equal(t, lua.LNumber(8), L.GetGlobal("x"))
}

func TestRegisterModules_NilRoller(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	scripting.RegisterModules(L, nil)
	assert.NotEqual(t, lua.LNil, L.GetGlobal("arm5"))
	assert.Error(t, L.DoString(`arm5.roll_stress()`))
}
