package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
	"github.com/cory-johannsen/fishcomp/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(zap.New(core))
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func candidateAt(location string) fishing.Candidate {
	return fishing.Candidate{
		RawCandidate: fishing.RawCandidate{RewardIDs: []string{"carp"}, Chance: 1},
		LocationID:   location,
	}
}

func TestManager_LoadLocation_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadLocation("Forest", dir, 0))
	ret, err := mgr.CallHook("Forest", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "empty.lua", `-- no functions`)
	require.NoError(t, mgr.LoadLocation("Forest", dir, 0))
	ret, err := mgr.CallHook("Forest", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("scripting: hook not defined").Len())
}

func TestManager_CallHook_RuntimeError_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`)
	require.NoError(t, mgr.LoadLocation("Forest", dir, 0))
	ret, err := mgr.CallHook("Forest", "bad_hook")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intentional error")
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_InstructionLimitPerCall(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "loop.lua", `
		function spin() while true do end end
		function quick() return 1 end
	`)
	require.NoError(t, mgr.LoadLocation("Forest", dir, 100))
	_, err := mgr.CallHook("Forest", "spin")
	require.Error(t, err)

	// A fresh budget is granted for the next call.
	ret, err := mgr.CallHook("Forest", "quick")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(1), ret)
}

func TestManager_LoadGlobal_CallHookFallback(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadGlobal(writeTempLua(t, "global.lua", `
		function global_hook() return 42 end
		function shadowed() return "global" end
	`), 0))
	require.NoError(t, mgr.LoadLocation("Forest", writeTempLua(t, "forest.lua", `
		function shadowed() return "forest" end
	`), 0))

	ret, err := mgr.CallHook("Beach", "global_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(42), ret)

	ret, err = mgr.CallHook("Forest", "global_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(42), ret)

	ret, err = mgr.CallHook("Forest", "shadowed")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("forest"), ret)
}

func TestManager_LoadLocation_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	assert.Error(t, mgr.LoadLocation("Forest", dir, 0))
}

func TestManager_LoadLocation_MissingDir_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.LoadLocation("Forest", filepath.Join(t.TempDir(), "absent"), 0))
}

func TestManager_LoadLocation_MultipleFiles_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`
		function get_val() return base_val end
	`), 0644))
	require.NoError(t, mgr.LoadLocation("ordered", dir, 0))
	ret, err := mgr.CallHook("ordered", "get_val")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestManager_LoadTree_LocationSubdirectories(t *testing.T) {
	mgr, _ := newTestManager(t)
	root := writeTempLua(t, "shared.lua", `function shared() return true end`)
	sub := filepath.Join(root, "Beach")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "beach.lua"), []byte(`function tide() return true end`), 0644))
	require.NoError(t, mgr.LoadTree(root, 0))

	ok, err := mgr.Evaluate("tide", nil, candidateAt("Beach"), fishing.Context{})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = mgr.Evaluate("tide", nil, candidateAt("Forest"), fishing.Context{})
	assert.ErrorIs(t, err, scripting.ErrUnknownHook)

	ok, err = mgr.Evaluate("shared", nil, candidateAt("Forest"), fishing.Context{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager_Evaluate_PassesContextCandidateAndArgs(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadGlobal(writeTempLua(t, "hooks.lua", `
		function check(ctx, candidate, want_season, want_id)
			return ctx.season == want_season
				and candidate.id == want_id
				and candidate.location == "Forest"
				and ctx.depth == 4
		end
	`), 0))
	ctx := fishing.Context{Season: fishing.SeasonSpring, Depth: 4}

	ok, err := mgr.Evaluate("check", []string{"spring", "carp"}, candidateAt("Forest"), ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mgr.Evaluate("check", []string{"fall", "carp"}, candidateAt("Forest"), ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_Evaluate_NilResultIsFalse(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadGlobal(writeTempLua(t, "hooks.lua", `function nothing() end`), 0))
	ok, err := mgr.Evaluate("nothing", nil, candidateAt(""), fishing.Context{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_Evaluate_UnknownHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, err := mgr.Evaluate("missing", nil, candidateAt("Forest"), fishing.Context{})
	assert.ErrorIs(t, err, scripting.ErrUnknownHook)
}

func TestManager_Evaluate_SampleContentScripts(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadTree(filepath.Join("..", "..", "content", "scripts"), 0))
	c := candidateAt("Forest")

	late, err := mgr.Evaluate("late_night", nil, c, fishing.Context{Time: 2300})
	require.NoError(t, err)
	assert.True(t, late)

	late, err = mgr.Evaluate("late_night", nil, c, fishing.Context{Time: 1200})
	require.NoError(t, err)
	assert.False(t, late)

	deep, err := mgr.Evaluate("deep_water", []string{"3"}, c, fishing.Context{Depth: 3})
	require.NoError(t, err)
	assert.True(t, deep)

	in, err := mgr.Evaluate("in_seasons", []string{"Summer", "Fall"}, c, fishing.Context{Season: fishing.SeasonFall})
	require.NoError(t, err)
	assert.True(t, in)
}

func TestProperty_CallHookMissingLocationNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t)
	rapid.Check(t, func(rt *rapid.T) {
		locationID := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "location")
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		ret, err := mgr.CallHook(locationID, hook)
		if err != nil || ret != lua.LNil {
			rt.Fatalf("expected (nil, nil); got (%v, %v)", ret, err)
		}
	})
}

func TestManager_EvaluateConcurrentSameLocation_NoRace(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadLocation("Forest", writeTempLua(t, "hooks.lua", `
		function deep(ctx, candidate) return ctx.depth > 2 end
	`), 0))

	const goroutines = 10
	const callsEach = 5
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(depth int) {
			defer wg.Done()
			for j := 0; j < callsEach; j++ {
				ok, err := mgr.Evaluate("deep", nil, candidateAt("Forest"), fishing.Context{Depth: depth})
				assert.NoError(t, err)
				assert.Equal(t, depth > 2, ok)
			}
		}(i % 5)
	}
	wg.Wait()
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() {
		scripting.NewManager(nil)
	})
}

func TestManager_Close_ReleasesLocations(t *testing.T) {
	core, _ := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(zap.New(core))
	dir := writeTempLua(t, "init.lua", `function get_x() return 1 end`)
	require.NoError(t, mgr.LoadLocation("Forest", dir, 0))
	mgr.Close()
	ret, err := mgr.CallHook("Forest", "get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}
