package model

import "encoding/json"

// Default names for unnamed save units.
const (
	DefaultPartyName     = "Party"
	DefaultEncounterName = "Encounter"
)

// Party is a named, ordered list of heroes saved and loaded as a unit.
// It is independent of the live roster.
type Party struct {
	Name   string  `json:"name"`
	Notes  string  `json:"notes"`
	Heroes []*Hero `json:"heroes"`
}

// NewParty creates an empty party. An empty name becomes "Party".
func NewParty(name string) *Party {
	if name == "" {
		name = DefaultPartyName
	}
	return &Party{Name: name, Heroes: []*Hero{}}
}

// MarshalJSON writes an empty hero list as [].
func (p Party) MarshalJSON() ([]byte, error) {
	type plain Party
	out := plain(p)
	if out.Heroes == nil {
		out.Heroes = []*Hero{}
	}
	return json.Marshal(out)
}

// Encounter is a named, ordered list of monster instances saved and
// loaded as a unit. It is independent of the live roster.
type Encounter struct {
	Name     string             `json:"name"`
	Notes    string             `json:"notes"`
	Monsters []*MonsterInstance `json:"monsters"`
}

// NewEncounter creates an empty encounter. An empty name becomes "Encounter".
func NewEncounter(name string) *Encounter {
	if name == "" {
		name = DefaultEncounterName
	}
	return &Encounter{Name: name, Monsters: []*MonsterInstance{}}
}

// MarshalJSON writes an empty monster list as [].
func (e Encounter) MarshalJSON() ([]byte, error) {
	type plain Encounter
	out := plain(e)
	if out.Monsters == nil {
		out.Monsters = []*MonsterInstance{}
	}
	return json.Marshal(out)
}
