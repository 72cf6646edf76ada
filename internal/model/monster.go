package model

import (
	"encoding/json"
	"slices"
)

// MonsterInstance is a single monster in an encounter. It copies the
// template text at creation time and adds mutable combat state.
//
// Life cycle: alive -> last stand (legendary only, at most once) -> dead.
// Dead monsters always have HPCurrent == 0 and ignore damage and healing.
type MonsterInstance struct {
	Name             string   `json:"name"`
	TemplateFile     string   `json:"template_file"`
	Legendary        bool     `json:"legendary"`
	Level            string   `json:"level"`
	Armor            string   `json:"armor"`
	Speed            string   `json:"speed"`
	Size             string   `json:"size"`
	Saves            string   `json:"saves"`
	Flavor           string   `json:"flavor"`
	Actions          []string `json:"actions"`
	SpecialActions   []string `json:"special_actions"`
	BloodiedText     string   `json:"bloodied_text"`
	LastStandText    string   `json:"last_stand_text"`
	LastStandHPValue int      `json:"last_stand_hp_value"`
	BiomeLoot        []string `json:"biome_loot"`
	Type             string   `json:"type"`
	Biome            string   `json:"biome"`

	HPMax     int `json:"hp_max"`
	HPCurrent int `json:"hp_current"`
	TempHP    int `json:"temp_hp"`

	LastStandTriggered bool `json:"last_stand_triggered"`
	Dead               bool `json:"dead"`

	// Group drives automatic marker color assignment.
	Group         string `json:"group"`
	Active        bool   `json:"active"`
	Concentrating bool   `json:"concentrating"`

	Conditions  []string `json:"conditions"`
	NotesPublic string   `json:"notes_public"`
	NotesGM     string   `json:"notes_gm"`

	// Map marker; "" and 0 mean unassigned.
	MarkerColor  string `json:"marker_color"`
	MarkerNumber int    `json:"marker_number"`

	ShownBloodiedPopup  bool `json:"shown_bloodied_popup"`
	ShownLastStandPopup bool `json:"shown_last_stand_popup"`
}

// NewMonsterInstance creates an active, full-HP instance from tpl.
// HP strings such as "24 HP" are read by their leading integer.
func NewMonsterInstance(tpl *MonsterTemplate) *MonsterInstance {
	hpMax := ParseLeadingInt(tpl.HP, 0)
	return &MonsterInstance{
		Name:             tpl.Name,
		TemplateFile:     tpl.File,
		Legendary:        tpl.Legendary,
		Level:            tpl.Level,
		Armor:            tpl.Armor,
		Speed:            tpl.Speed,
		Size:             tpl.Size,
		Saves:            tpl.Saves,
		Flavor:           tpl.Flavor,
		Actions:          cloneList(tpl.Actions),
		SpecialActions:   cloneList(tpl.SpecialActions),
		BloodiedText:     tpl.Bloodied,
		LastStandText:    tpl.LastStand,
		LastStandHPValue: ParseLeadingInt(tpl.LastStandHP, 0),
		BiomeLoot:        cloneList(tpl.BiomeLoot),
		Type:             tpl.Type,
		Biome:            tpl.Biome,
		HPMax:            hpMax,
		HPCurrent:        hpMax,
		Active:           true,
		Conditions:       []string{},
	}
}

// newBlankMonster holds the field defaults used when decoding.
func newBlankMonster() MonsterInstance {
	return MonsterInstance{
		Active:         true,
		Actions:        []string{},
		SpecialActions: []string{},
		BiomeLoot:      []string{},
		Conditions:     []string{},
	}
}

// DisplayName implements Creature.
func (m *MonsterInstance) DisplayName() string { return m.Name }

// IsConcentrating implements Creature.
func (m *MonsterInstance) IsConcentrating() bool { return m.Concentrating }

// EffectiveHP is current HP plus temp HP. During last stand HPCurrent
// already holds the last-stand pool.
func (m *MonsterInstance) EffectiveHP() int {
	return m.HPCurrent + m.TempHP
}

// IsLastStand reports a legendary monster living on its last-stand pool.
func (m *MonsterInstance) IsLastStand() bool {
	return m.LastStandTriggered && !m.Dead
}

// IsDead reports the terminal state.
func (m *MonsterInstance) IsDead() bool {
	return m.Dead
}

// IsBloodied reports the bloodied band (excludes critical).
func (m *MonsterInstance) IsBloodied(t Thresholds) bool {
	return t.isBloodied(m.HPCurrent, m.HPMax)
}

// IsCritical reports the critical band.
func (m *MonsterInstance) IsCritical(t Thresholds) bool {
	return t.isCritical(m.HPCurrent, m.HPMax)
}

// Status returns the display band for the monster.
func (m *MonsterInstance) Status(t Thresholds) Status {
	switch {
	case m.Dead:
		return StatusDead
	case m.IsLastStand():
		return StatusLastStand
	case m.HPCurrent <= 0:
		return StatusDying
	case m.IsCritical(t):
		return StatusCritical
	case m.IsBloodied(t):
		return StatusBloodied
	default:
		return StatusHealthy
	}
}

// ApplyDamage consumes temp HP first, then current HP. At 0 or below a
// legendary monster with last-stand text enters last stand once;
// anything else dies.
func (m *MonsterInstance) ApplyDamage(amount int) {
	if amount <= 0 || m.Dead {
		return
	}

	if m.TempHP > 0 {
		used := min(m.TempHP, amount)
		m.TempHP -= used
		amount -= used
	}

	if amount > 0 {
		m.HPCurrent -= amount
	}

	if m.HPCurrent > 0 {
		m.RemoveCondition(ConditionDying)
		return
	}

	if m.Legendary && m.LastStandText != "" && !m.LastStandTriggered {
		m.LastStandTriggered = true
		m.HPCurrent = m.LastStandHPValue
		if m.HPCurrent == 0 {
			m.HPCurrent = 1
		}
		m.Dead = false
		m.AddCondition(ConditionLastStand)
		m.RemoveCondition(ConditionDying)
		return
	}

	m.HPCurrent = 0
	m.Dead = true
	m.RemoveCondition(ConditionLastStand)
}

// ApplyHealing restores current HP up to HPMax. The dead stay dead.
func (m *MonsterInstance) ApplyHealing(amount int) {
	if amount <= 0 || m.Dead {
		return
	}
	m.HPCurrent = min(m.HPCurrent+amount, m.HPMax)
}

// SetTempHP replaces temp HP (not additive), floored at 0.
func (m *MonsterInstance) SetTempHP(amount int) {
	m.TempHP = max(0, amount)
}

// AddCondition adds a trimmed, non-empty tag once.
func (m *MonsterInstance) AddCondition(cond string) {
	m.Conditions = addCondition(m.Conditions, cond)
}

// RemoveCondition removes a tag; missing tags are ignored.
func (m *MonsterInstance) RemoveCondition(cond string) {
	m.Conditions = removeCondition(m.Conditions, cond)
}

// HasCondition reports whether the trimmed tag is active.
func (m *MonsterInstance) HasCondition(cond string) bool {
	return hasCondition(m.Conditions, cond)
}

// Reset brings the monster back to a fresh full-HP state. Markers,
// group and notes are kept.
func (m *MonsterInstance) Reset() {
	m.HPCurrent = m.HPMax
	m.TempHP = 0
	m.LastStandTriggered = false
	m.Dead = false
	m.Conditions = []string{}
	m.ShownBloodiedPopup = false
	m.ShownLastStandPopup = false
}

// MarshalJSON writes lists as [] rather than null.
func (m MonsterInstance) MarshalJSON() ([]byte, error) {
	type plain MonsterInstance
	p := plain(m)
	p.Actions = nonNil(p.Actions)
	p.SpecialActions = nonNil(p.SpecialActions)
	p.BiomeLoot = nonNil(p.BiomeLoot)
	p.Conditions = nonNil(p.Conditions)
	return json.Marshal(p)
}

// UnmarshalJSON starts from the field defaults (Active = true) so
// missing keys keep them.
func (m *MonsterInstance) UnmarshalJSON(data []byte) error {
	type plain MonsterInstance
	p := plain(newBlankMonster())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Actions = nonNil(p.Actions)
	p.SpecialActions = nonNil(p.SpecialActions)
	p.BiomeLoot = nonNil(p.BiomeLoot)
	p.Conditions = nonNil(p.Conditions)
	*m = MonsterInstance(p)
	return nil
}

func cloneList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
