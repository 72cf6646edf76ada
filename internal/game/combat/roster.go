package combat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nimblegm/combattracker/internal/model"
	"github.com/nimblegm/combattracker/internal/persistence"
)

// DefaultHeroName is used by NewHero when no name is given.
const DefaultHeroName = "New Hero"

// LoadMonsterLibrary replaces the library with the templates in path.
// On error the current library is kept.
func (m *CombatManager) LoadMonsterLibrary(path string) error {
	templates, err := persistence.LoadMonsterLibrary(path)
	if err != nil {
		return fmt.Errorf("loading monster library: %w", err)
	}
	m.library = templates

	slog.Info("monster library loaded", "path", path, "count", len(templates))
	m.log("Loaded %d monsters from library.", len(templates))
	return m.changed()
}

// LoadMonsterLibraries replaces the library with the concatenation of
// every file in paths, in order.
func (m *CombatManager) LoadMonsterLibraries(ctx context.Context, paths []string) error {
	templates, err := persistence.LoadMonsterLibraries(ctx, paths)
	if err != nil {
		return fmt.Errorf("loading monster libraries: %w", err)
	}
	m.library = templates

	slog.Info("monster libraries loaded", "files", len(paths), "count", len(templates))
	m.log("Loaded %d monsters from library.", len(templates))
	return m.changed()
}

// FindTemplateByFile returns the template whose source file is file, or nil.
func (m *CombatManager) FindTemplateByFile(file string) *model.MonsterTemplate {
	for _, tpl := range m.library {
		if tpl.File == file {
			return tpl
		}
	}
	return nil
}

// AddHero appends h to the roster.
func (m *CombatManager) AddHero(h *model.Hero) error {
	m.heroes = append(m.heroes, h)
	m.log("Hero added: %s", h.Name)
	return m.changed()
}

// NewHero creates a hero with default stats and adds it.
func (m *CombatManager) NewHero(name string) (*model.Hero, error) {
	if name == "" {
		name = DefaultHeroName
	}
	h := model.NewHero(name)
	return h, m.AddHero(h)
}

// RemoveHero removes h from the roster. Unknown heroes are ignored.
func (m *CombatManager) RemoveHero(h *model.Hero) error {
	idx := slices.Index(m.heroes, h)
	if idx < 0 {
		return nil
	}
	m.heroes = slices.Delete(m.heroes, idx, idx+1)
	m.log("Hero removed: %s", h.Name)
	return m.changed()
}

// AddMonsterFromTemplate creates an instance of tpl, applies group and
// assigns its marker. The instance is returned even if autosave fails.
func (m *CombatManager) AddMonsterFromTemplate(tpl *model.MonsterTemplate, group string) (*model.MonsterInstance, error) {
	mon := model.NewMonsterInstance(tpl)
	mon.Group = group

	m.assignMarker(mon)
	m.monsters = append(m.monsters, mon)

	m.log("Monster added: %s (group='%s', color=%s, #=%d)",
		mon.Name, mon.Group, mon.MarkerColor, mon.MarkerNumber)
	return mon, m.changed()
}

// AddMonsterInstance adds a prebuilt instance, filling in marker fields
// it does not carry yet.
func (m *CombatManager) AddMonsterInstance(mon *model.MonsterInstance) error {
	m.assignMarker(mon)
	m.monsters = append(m.monsters, mon)

	m.log("Monster added (instance): %s (group='%s', color=%s, #=%d)",
		mon.Name, mon.Group, mon.MarkerColor, mon.MarkerNumber)
	return m.changed()
}

// RemoveMonster removes mon. Remaining markers are not renumbered.
func (m *CombatManager) RemoveMonster(mon *model.MonsterInstance) error {
	idx := slices.Index(m.monsters, mon)
	if idx < 0 {
		return nil
	}
	m.monsters = slices.Delete(m.monsters, idx, idx+1)
	m.log("Monster removed: %s", mon.Name)
	return m.changed()
}

// ClearEncounter removes every monster and forgets group colors.
func (m *CombatManager) ClearEncounter() error {
	m.monsters = []*model.MonsterInstance{}
	m.groupColorMap = make(map[string]string)
	m.log("Encounter cleared")
	return m.changed()
}

// ResetCombat restores every creature to full HP with no temp HP and no
// conditions. Monsters also leave last stand and death.
func (m *CombatManager) ResetCombat() error {
	for _, h := range m.heroes {
		h.Reset()
	}
	for _, mon := range m.monsters {
		mon.Reset()
	}
	m.log("Combat reset: %d heroes, %d monsters restored", len(m.heroes), len(m.monsters))
	return m.changed()
}

// SetMonsterActive marks mon as participating (or not) in combat.
func (m *CombatManager) SetMonsterActive(mon *model.MonsterInstance, active bool) error {
	mon.Active = active
	return m.changed()
}

// SetHeroConcentrating sets the hero's concentration flag.
func (m *CombatManager) SetHeroConcentrating(h *model.Hero, on bool) error {
	h.Concentrating = on
	return m.changed()
}

// SetMonsterConcentrating sets the monster's concentration flag.
func (m *CombatManager) SetMonsterConcentrating(mon *model.MonsterInstance, on bool) error {
	mon.Concentrating = on
	return m.changed()
}

// MarkBloodiedPopupShown records that the bloodied text was shown for mon.
func (m *CombatManager) MarkBloodiedPopupShown(mon *model.MonsterInstance) error {
	mon.ShownBloodiedPopup = true
	return m.changed()
}

// MarkLastStandPopupShown records that the last-stand text was shown for mon.
func (m *CombatManager) MarkLastStandPopupShown(mon *model.MonsterInstance) error {
	mon.ShownLastStandPopup = true
	return m.changed()
}
