package combat

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/nimblegm/combattracker/internal/model"
	"github.com/nimblegm/combattracker/internal/persistence"
)

// LoadParty replaces the hero roster with the party in path.
func (m *CombatManager) LoadParty(path string) error {
	party, err := persistence.LoadParty(path)
	if err != nil {
		return fmt.Errorf("loading party: %w", err)
	}
	m.heroes = party.Heroes

	m.log("Loaded party: %s (%d heroes)", party.Name, len(m.heroes))
	return m.changed()
}

// SaveParty writes the hero roster as a party named name.
func (m *CombatManager) SaveParty(path, name string) error {
	party := model.NewParty(name)
	party.Heroes = slices.Clone(m.heroes)
	if err := persistence.SaveParty(path, party); err != nil {
		return fmt.Errorf("saving party: %w", err)
	}
	m.log("Saved party: %s", party.Name)
	return nil
}

// LoadEncounter replaces the monster roster with the encounter in path
// and rebuilds the marker color cache.
func (m *CombatManager) LoadEncounter(path string) error {
	enc, err := persistence.LoadEncounter(path)
	if err != nil {
		return fmt.Errorf("loading encounter: %w", err)
	}
	m.monsters = enc.Monsters

	m.log("Loaded encounter: %s (%d monsters)", enc.Name, len(m.monsters))
	m.rebuildMarkerMaps()
	return m.changed()
}

// SaveEncounter writes the monster roster as an encounter named name.
func (m *CombatManager) SaveEncounter(path, name string) error {
	enc := model.NewEncounter(name)
	enc.Monsters = slices.Clone(m.monsters)
	if err := persistence.SaveEncounter(path, enc); err != nil {
		return fmt.Errorf("saving encounter: %w", err)
	}
	m.log("Saved encounter: %s", enc.Name)
	return nil
}

// LoadSession replaces both rosters with the session in path ("" means
// the configured autosave path). It notifies state change but does not
// autosave, so the file just read is not rewritten.
func (m *CombatManager) LoadSession(path string) error {
	if path == "" {
		path = m.cfg.AutosavePath
	}
	heroes, monsters, err := persistence.LoadSession(path)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	m.heroes = heroes
	m.monsters = monsters

	slog.Info("session loaded", "path", path, "heroes", len(heroes), "monsters", len(monsters))
	m.log("Session loaded: %d heroes, %d monsters", len(m.heroes), len(m.monsters))
	m.rebuildMarkerMaps()

	if m.stateChangedFunc != nil {
		m.stateChangedFunc()
	}
	return nil
}
