package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fishcomp/internal/game/fishing"
)

// RegisterModules registers the fishcomp Lua table into L:
//
//	fishcomp.log(msg)              writes msg to the debug log
//	fishcomp.has_tag(item, tag)    reports whether item carries tag
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: fishcomp global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("scripting: lua log", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetField(mod, "has_tag", L.NewFunction(func(L *lua.LState) int {
		id, tag := L.CheckString(1), L.CheckString(2)
		found := false
		if m.Items != nil {
			if item, ok := m.Items.Item(id); ok {
				found = item.HasTag(tag)
			}
		}
		L.Push(lua.LBool(found))
		return 1
	}))
	L.SetGlobal("fishcomp", mod)
}

// contextTable snapshots ctx into a Lua table with snake_case keys.
func contextTable(L *lua.LState, ctx fishing.Context) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "season", lua.LString(ctx.Season))
	L.SetField(t, "weather", lua.LString(ctx.Weather))
	L.SetField(t, "time", lua.LNumber(ctx.Time))
	L.SetField(t, "level", lua.LNumber(ctx.Level))
	L.SetField(t, "depth", lua.LNumber(ctx.Depth))
	L.SetField(t, "rod", lua.LString(ctx.Rod))
	L.SetField(t, "bait", lua.LString(ctx.Bait))
	L.SetField(t, "bait_target", lua.LString(ctx.BaitTarget))
	L.SetField(t, "lure", lua.LString(ctx.Lure))
	L.SetField(t, "daily_luck", lua.LNumber(ctx.DailyLuck))
	return t
}

// candidateTable snapshots c into a Lua table.
func candidateTable(L *lua.LState, c fishing.Candidate) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(c.PrimaryID()))
	L.SetField(t, "name", lua.LString(c.Name()))
	L.SetField(t, "location", lua.LString(c.LocationID))
	L.SetField(t, "area", lua.LString(c.Area))
	L.SetField(t, "precedence", lua.LNumber(c.Precedence))
	L.SetField(t, "chance", lua.LNumber(c.Chance))
	L.SetField(t, "boss", lua.LBool(c.Boss))
	return t
}
