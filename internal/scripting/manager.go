package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
)

// globalScope is the reserved key for shared scripts loaded via LoadGlobal.
// Hook lookups fall back to this VM when a location VM lacks the hook.
const globalScope = "__global__"

// ErrUnknownHook is returned by Evaluate when no loaded script defines the
// requested hook.
var ErrUnknownHook = errors.New("scripting: unknown hook")

// vm is one sandboxed LState. An LState is single-threaded, so every use
// holds mu.
type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per location plus an optional global one,
// and evaluates SCRIPT condition hooks against them.
//
// Manager is safe for concurrent use after all Load calls complete; calls to
// the same VM are serialized.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	logger *zap.Logger

	// Items, when set, backs fishcomp.has_tag. nil makes has_tag return false.
	Items fishing.ItemSource
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		logger: logger,
	}
}

// LoadLocation creates a sandboxed VM for locationID, registers the fishcomp
// module, then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: locationID must be non-empty; scriptDir must be a readable directory.
// Postcondition: Location VM is registered; returns error on Lua load failure.
func (m *Manager) LoadLocation(locationID, scriptDir string, instLimit int) error {
	return m.loadInto(locationID, scriptDir, instLimit)
}

// LoadGlobal creates the shared VM consulted when a location VM does not
// define a hook.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalScope, scriptDir, instLimit)
}

// LoadTree loads root as the global scope and every subdirectory of root as
// the scope of the location it is named after.
//
// Precondition: root must be a readable directory.
func (m *Manager) LoadTree(root string, instLimit int) error {
	if err := m.LoadGlobal(root, instLimit); err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.LoadLocation(e.Name(), filepath.Join(root, e.Name()), instLimit); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L, cancel := NewSandboxedState(instLimit)
	defer cancel()
	m.RegisterModules(L)
	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[key]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	m.logger.Debug("scripting: loaded scripts",
		zap.String("scope", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// lookup returns the VM defining hook, preferring the location's VM over the
// global one.
func (m *Manager) lookup(locationID, hook string) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, key := range []string{locationID, globalScope} {
		v, ok := m.vms[key]
		if !ok {
			continue
		}
		v.mu.Lock()
		fn := v.L.GetGlobal(hook)
		v.mu.Unlock()
		if fn.Type() == lua.LTFunction {
			return v
		}
	}
	return nil
}

// CallHook calls the named Lua global function, looking in locationID's VM
// first and the global VM second. Returns (LNil, nil) if no VM defines the
// hook.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or a wrapped Lua
// runtime error (including instruction limit exhaustion).
func (m *Manager) CallHook(locationID, hook string, args ...lua.LValue) (lua.LValue, error) {
	v := m.lookup(locationID, hook)
	if v == nil {
		m.logger.Debug("scripting: hook not defined",
			zap.String("location", locationID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}
	return v.call(hook, args...)
}

func (v *vm) call(hook string, args ...lua.LValue) (lua.LValue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	cancel := ResetLimit(v.L, v.limit)
	defer cancel()

	if err := v.L.CallByParam(lua.P{
		Fn:      v.L.GetGlobal(hook),
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, fmt.Errorf("scripting: hook %q: %w", hook, err)
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Evaluate implements fishing.ConditionHook. The hook is called as
// hook(ctx, candidate, args...) in the candidate's location scope and its
// result is interpreted with Lua truthiness.
//
// Postcondition: returns ErrUnknownHook when no loaded script defines hook.
func (m *Manager) Evaluate(hook string, args []string, c fishing.Candidate, ctx fishing.Context) (bool, error) {
	v := m.lookup(c.LocationID, hook)
	if v == nil {
		return false, fmt.Errorf("%w: %q", ErrUnknownHook, hook)
	}

	v.mu.Lock()
	params := []lua.LValue{contextTable(v.L, ctx), candidateTable(v.L, c)}
	v.mu.Unlock()
	for _, a := range args {
		params = append(params, lua.LString(a))
	}

	ret, err := v.call(hook, params...)
	if err != nil {
		return false, err
	}
	return lua.LVAsBool(ret), nil
}

// Close releases every VM.
//
// Postcondition: all VMs are closed; CallHook returns (LNil, nil) afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, key)
	}
}
