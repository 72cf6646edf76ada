package combat

import "github.com/nimblegm/combattracker/internal/model"

// Difficulty is the encounter difficulty label.
type Difficulty string

const (
	DifficultyNone       Difficulty = "No Encounter"
	DifficultyEasy       Difficulty = "Easy"
	DifficultyMedium     Difficulty = "Medium"
	DifficultyHard       Difficulty = "Hard"
	DifficultyDeadly     Difficulty = "Deadly"
	DifficultyVeryDeadly Difficulty = "Very Deadly"
)

// TotalHeroLevels sums hero levels.
func (m *CombatManager) TotalHeroLevels() int {
	var total int
	for _, h := range m.heroes {
		total += h.Level
	}
	return total
}

// TotalMonsterLevels sums the levels of monsters that are not dead.
// Inactive monsters count. Unparsable levels are skipped.
func (m *CombatManager) TotalMonsterLevels() float64 {
	var total float64
	for _, mon := range m.monsters {
		if mon.Dead {
			continue
		}
		if level, ok := model.ParseLevel(mon.Level); ok {
			total += level
		}
	}
	return total
}

// EncounterDifficultyRatio is monster levels over hero levels, or 0
// without heroes.
func (m *CombatManager) EncounterDifficultyRatio() float64 {
	heroes := m.TotalHeroLevels()
	if heroes == 0 {
		return 0
	}
	return m.TotalMonsterLevels() / float64(heroes)
}

// EncounterDifficultyLabel maps the ratio through the configured thresholds.
// Every bound is exclusive except deadly_max, which is inclusive.
func (m *CombatManager) EncounterDifficultyLabel() Difficulty {
	ratio := m.EncounterDifficultyRatio()

	switch {
	case ratio == 0:
		return DifficultyNone
	case ratio < m.cfg.EncounterDifficultyEasy:
		return DifficultyEasy
	case ratio < m.cfg.EncounterDifficultyMedium:
		return DifficultyMedium
	case ratio < m.cfg.EncounterDifficultyHard:
		return DifficultyHard
	case ratio <= m.cfg.EncounterDifficultyDeadlyMax:
		return DifficultyDeadly
	default:
		return DifficultyVeryDeadly
	}
}
