package combat

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/nimblegm/combattracker/internal/config"
	"github.com/nimblegm/combattracker/internal/model"
	"github.com/nimblegm/combattracker/internal/persistence"
)

// CombatManager owns the live roster (heroes and monsters), the loaded
// monster library and the marker color cache. UI shells talk only to it.
//
// Every mutation ends in changed(): autosave (if enabled), then the
// state-changed callback. Log text is dispatched before that, so for a
// single call the order is always log -> state changed -> return.
//
// Not safe for concurrent use; all calls are expected on one goroutine.
type CombatManager struct {
	cfg config.Tracker

	heroes   []*model.Hero
	monsters []*model.MonsterInstance
	library  []*model.MonsterTemplate

	// groupColorMap is a derived cache rebuilt on every roster load.
	groupColorMap map[string]string
	palette       []string

	heroThresholds    model.Thresholds
	monsterThresholds model.Thresholds

	// logFunc receives human-readable combat text (nil = dropped).
	logFunc func(msg string)

	// stateChangedFunc is called after every mutation.
	stateChangedFunc func()

	// concentrationFunc is called when a concentrating creature takes damage.
	// Panics inside it are recovered and logged.
	concentrationFunc func(c model.Creature)
}

// NewCombatManager creates an empty manager bound to cfg.
// The palette is copied, later edits to cfg do not leak in.
func NewCombatManager(cfg config.Tracker) *CombatManager {
	return &CombatManager{
		cfg:               cfg,
		heroes:            []*model.Hero{},
		monsters:          []*model.MonsterInstance{},
		library:           []*model.MonsterTemplate{},
		groupColorMap:     make(map[string]string),
		palette:           slices.Clone(cfg.MarkerPalette),
		heroThresholds:    cfg.HeroThresholds(),
		monsterThresholds: cfg.MonsterThresholds(),
	}
}

// SetLogFunc sets the callback for combat log text.
func (m *CombatManager) SetLogFunc(fn func(msg string)) {
	m.logFunc = fn
}

// SetStateChangedFunc sets the callback invoked after every mutation.
func (m *CombatManager) SetStateChangedFunc(fn func()) {
	m.stateChangedFunc = fn
}

// SetConcentrationFunc sets the callback for concentration checks.
func (m *CombatManager) SetConcentrationFunc(fn func(c model.Creature)) {
	m.concentrationFunc = fn
}

// Config returns the configuration the manager was built with.
func (m *CombatManager) Config() config.Tracker { return m.cfg }

// Heroes returns the live hero roster. The slice is shared; do not append to it.
func (m *CombatManager) Heroes() []*model.Hero { return m.heroes }

// Monsters returns the live monster roster. The slice is shared; do not append to it.
func (m *CombatManager) Monsters() []*model.MonsterInstance { return m.monsters }

// Library returns the loaded monster templates.
func (m *CombatManager) Library() []*model.MonsterTemplate { return m.library }

// GroupColorMap returns a copy of the group -> marker color cache.
func (m *CombatManager) GroupColorMap() map[string]string {
	out := make(map[string]string, len(m.groupColorMap))
	for k, v := range m.groupColorMap {
		out[k] = v
	}
	return out
}

// HeroThresholds returns the HP bands used for heroes.
func (m *CombatManager) HeroThresholds() model.Thresholds { return m.heroThresholds }

// MonsterThresholds returns the HP bands used for monsters.
func (m *CombatManager) MonsterThresholds() model.Thresholds { return m.monsterThresholds }

func (m *CombatManager) log(format string, args ...any) {
	if m.logFunc == nil {
		return
	}
	m.logFunc(fmt.Sprintf(format, args...))
}

// changed autosaves and then notifies the state-changed callback.
// An autosave failure is returned and the callback is skipped.
func (m *CombatManager) changed() error {
	if err := m.Autosave(); err != nil {
		return err
	}
	if m.stateChangedFunc != nil {
		m.stateChangedFunc()
	}
	return nil
}

// notifyConcentration runs the concentration hook. It is best effort:
// a panic is logged and swallowed.
func (m *CombatManager) notifyConcentration(c model.Creature) {
	if m.concentrationFunc == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("concentration handler panicked", "creature", c.DisplayName(), "panic", r)
			m.log("Concentration note handler failed: %v", r)
		}
	}()
	m.concentrationFunc(c)
}

// Autosave writes the live roster to the configured session file.
// Does nothing when autosave is disabled.
func (m *CombatManager) Autosave() error {
	if !m.cfg.AutosaveEnabled {
		return nil
	}
	if err := persistence.SaveSession(m.cfg.AutosavePath, m.heroes, m.monsters); err != nil {
		return fmt.Errorf("autosave: %w", err)
	}
	slog.Debug("session autosaved", "path", m.cfg.AutosavePath,
		"heroes", len(m.heroes), "monsters", len(m.monsters))
	return nil
}
