package persistence

import (
	"github.com/nimblegm/combattracker/internal/model"
)

// LoadParty loads a party file: {"name", "notes", "heroes": [...]}.
func LoadParty(path string) (*model.Party, error) {
	obj, err := readObject(path, "party")
	if err != nil {
		return nil, err
	}

	name, err := stringField(obj, "name", model.DefaultPartyName)
	if err != nil {
		return nil, err
	}
	notes, err := stringField(obj, "notes", "")
	if err != nil {
		return nil, err
	}
	heroes, err := decodeList[model.Hero](obj["heroes"], heroFields, path)
	if err != nil {
		return nil, err
	}

	return &model.Party{Name: name, Notes: notes, Heroes: heroes}, nil
}

// SaveParty writes a party file.
func SaveParty(path string, party *model.Party) error {
	return writeJSON(path, party)
}

// LoadEncounter loads an encounter file: {"name", "notes", "monsters": [...]}.
func LoadEncounter(path string) (*model.Encounter, error) {
	obj, err := readObject(path, "encounter")
	if err != nil {
		return nil, err
	}

	name, err := stringField(obj, "name", model.DefaultEncounterName)
	if err != nil {
		return nil, err
	}
	notes, err := stringField(obj, "notes", "")
	if err != nil {
		return nil, err
	}
	monsters, err := decodeList[model.MonsterInstance](obj["monsters"], monsterFields, path)
	if err != nil {
		return nil, err
	}

	return &model.Encounter{Name: name, Notes: notes, Monsters: monsters}, nil
}

// SaveEncounter writes an encounter file.
func SaveEncounter(path string, enc *model.Encounter) error {
	return writeJSON(path, enc)
}
