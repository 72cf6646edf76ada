package persistence

import (
	"errors"

	"github.com/nimblegm/combattracker/internal/model"
)

// sessionFile is the autosave shape: the live roster only.
type sessionFile struct {
	Heroes   []*model.Hero            `json:"heroes"`
	Monsters []*model.MonsterInstance `json:"monsters"`
}

// SaveSession writes the current heroes and monsters as a session file.
func SaveSession(path string, heroes []*model.Hero, monsters []*model.MonsterInstance) error {
	s := sessionFile{Heroes: heroes, Monsters: monsters}
	if s.Heroes == nil {
		s.Heroes = []*model.Hero{}
	}
	if s.Monsters == nil {
		s.Monsters = []*model.MonsterInstance{}
	}
	return writeJSON(path, s)
}

// LoadSession loads a session file. A missing file is the first-run case
// and yields two empty lists, not an error.
func LoadSession(path string) ([]*model.Hero, []*model.MonsterInstance, error) {
	obj, err := readObject(path, "session")
	if errors.Is(err, ErrNotFound) {
		return []*model.Hero{}, []*model.MonsterInstance{}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	heroes, err := decodeList[model.Hero](obj["heroes"], heroFields, path)
	if err != nil {
		return nil, nil, err
	}
	monsters, err := decodeList[model.MonsterInstance](obj["monsters"], monsterFields, path)
	if err != nil {
		return nil, nil, err
	}
	return heroes, monsters, nil
}
