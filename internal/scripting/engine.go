// Package scripting embeds a Lua VM for ability effect tuning. Designers
// adjust amplifiers, radii and debuff durations in scripts without a
// rebuild; the Go side only ever reads plain value tables out of the VM.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only
// (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory tree.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "item", "round"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// Tuning holds designer-adjustable numbers for one ability, with zero
// values meaning "use the YAML default".
type Tuning struct {
	Amplifier      int     // effect strength level modifier
	Radius         float64 // area-of-effect radius override
	Power          float64 // knockback / debuff strength override
	SlowSeconds    float64 // slow debuff applied by an explosion hit
	RevealSeconds  float64 // forced-visibility applied by a smoke hit
	CompassMessage string  // format string for tracking compass pings
}

// AbilityTuning calls the Lua global get_ability_tuning(id) and maps the
// returned table. Returns nil when the script declines to tune the ability.
func (e *Engine) AbilityTuning(id string) *Tuning {
	fn := e.vm.GetGlobal("get_ability_tuning")
	if fn == lua.LNil {
		return nil
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(id)); err != nil {
		e.log.Error("lua get_ability_tuning error", zap.Error(err))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	return &Tuning{
		Amplifier:      lInt(rt, "amplifier"),
		Radius:         lFloat(rt, "radius"),
		Power:          lFloat(rt, "power"),
		SlowSeconds:    lFloat(rt, "slow_seconds"),
		RevealSeconds:  lFloat(rt, "reveal_seconds"),
		CompassMessage: lStr(rt, "compass_message"),
	}
}

func lInt(t *lua.LTable, key string) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

func lFloat(t *lua.LTable, key string) float64 {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func lStr(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}
