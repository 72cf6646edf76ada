package model

import "encoding/json"

// Hero is a player character or ally.
//
// Fields are deliberately rules-light: one generic resource pool and a
// free-text class so the record fits any system.
type Hero struct {
	Name      string `json:"name"`
	Level     int    `json:"level"`
	ClassName string `json:"class_name"`
	Player    string `json:"player"`
	Faction   string `json:"faction"`

	HPMax     int `json:"hp_max"`
	HPCurrent int `json:"hp_current"`
	TempHP    int `json:"temp_hp"`

	Resource1Name    string `json:"resource_1_name"`
	Resource1Current int    `json:"resource_1_current"`
	Resource1Max     int    `json:"resource_1_max"`

	Conditions []string `json:"conditions"`

	NotesPublic   string `json:"notes_public"`
	NotesGM       string `json:"notes_gm"`
	Concentrating bool   `json:"concentrating"`
}

// NewHero creates a level 1 hero with 10/10 HP.
func NewHero(name string) *Hero {
	return &Hero{
		Name:       name,
		Level:      1,
		Faction:    "Heroes",
		HPMax:      10,
		HPCurrent:  10,
		Conditions: []string{},
	}
}

// DisplayName implements Creature.
func (h *Hero) DisplayName() string { return h.Name }

// IsConcentrating implements Creature.
func (h *Hero) IsConcentrating() bool { return h.Concentrating }

// EffectiveHP is current HP plus temp HP, the value shown as "HP".
func (h *Hero) EffectiveHP() int {
	return h.HPCurrent + h.TempHP
}

// IsBloodied reports the bloodied band (excludes critical).
func (h *Hero) IsBloodied(t Thresholds) bool {
	return t.isBloodied(h.HPCurrent, h.HPMax)
}

// IsCritical reports the critical band.
func (h *Hero) IsCritical(t Thresholds) bool {
	return t.isCritical(h.HPCurrent, h.HPMax)
}

// IsDying reports a hero at zero HP.
func (h *Hero) IsDying() bool {
	return h.HPCurrent <= 0
}

// Status returns the display band for the hero.
func (h *Hero) Status(t Thresholds) Status {
	switch {
	case h.IsDying():
		return StatusDying
	case h.IsCritical(t):
		return StatusCritical
	case h.IsBloodied(t):
		return StatusBloodied
	default:
		return StatusHealthy
	}
}

// ApplyDamage consumes temp HP first, then current HP (floored at 0).
// Dropping to 0 adds the Dying condition; staying above 0 removes it.
func (h *Hero) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}

	if h.TempHP > 0 {
		used := min(h.TempHP, amount)
		h.TempHP -= used
		amount -= used
	}

	if amount > 0 {
		h.HPCurrent -= amount
		if h.HPCurrent < 0 {
			h.HPCurrent = 0
		}
	}

	if h.HPCurrent > 0 {
		h.RemoveCondition(ConditionDying)
		return
	}
	h.AddCondition(ConditionDying)
}

// ApplyHealing restores current HP up to HPMax. Temp HP is untouched.
func (h *Hero) ApplyHealing(amount int) {
	if amount <= 0 {
		return
	}
	if h.HPCurrent < 0 {
		h.HPCurrent = 0
	}

	h.HPCurrent = min(h.HPCurrent+amount, h.HPMax)
	if h.HPCurrent > 0 {
		h.RemoveCondition(ConditionDying)
	}
}

// SetTempHP replaces temp HP (not additive), floored at 0.
func (h *Hero) SetTempHP(amount int) {
	h.TempHP = max(0, amount)
}

// AddCondition adds a trimmed, non-empty tag once.
func (h *Hero) AddCondition(cond string) {
	h.Conditions = addCondition(h.Conditions, cond)
}

// RemoveCondition removes a tag; missing tags are ignored.
func (h *Hero) RemoveCondition(cond string) {
	h.Conditions = removeCondition(h.Conditions, cond)
}

// HasCondition reports whether the trimmed tag is active.
func (h *Hero) HasCondition(cond string) bool {
	return hasCondition(h.Conditions, cond)
}

// Reset restores full HP and clears temp HP and conditions.
func (h *Hero) Reset() {
	h.HPCurrent = h.HPMax
	h.TempHP = 0
	h.Conditions = []string{}
}

// MarshalJSON writes lists as [] rather than null.
func (h Hero) MarshalJSON() ([]byte, error) {
	type plain Hero
	p := plain(h)
	p.Conditions = nonNil(p.Conditions)
	return json.Marshal(p)
}

// UnmarshalJSON starts from NewHero defaults so missing keys keep them.
func (h *Hero) UnmarshalJSON(data []byte) error {
	type plain Hero
	p := plain(*NewHero(""))
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Conditions = nonNil(p.Conditions)
	*h = Hero(p)
	return nil
}
