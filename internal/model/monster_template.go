package model

import "encoding/json"

// MonsterTemplate is an immutable library definition as produced by the
// vault scraper. Numeric stats stay as the free text found in the vault;
// see ParseLevel and ParseLeadingInt for the numeric views.
type MonsterTemplate struct {
	Name           string   `json:"name"`
	File           string   `json:"file"`
	Legendary      bool     `json:"legendary"`
	Level          string   `json:"level"`
	HP             string   `json:"hp"`
	Armor          string   `json:"armor"`
	Speed          string   `json:"speed"`
	Size           string   `json:"size"`
	Saves          string   `json:"saves"`
	Flavor         string   `json:"flavor"`
	Actions        []string `json:"actions"`
	SpecialActions []string `json:"special_actions"`
	Bloodied       string   `json:"bloodied"`
	LastStand      string   `json:"last_stand"`
	LastStandHP    string   `json:"last_stand_hp"`
	BiomeLoot      []string `json:"biome_loot"`
	Type           string   `json:"type"`
	Biome          string   `json:"biome"`
}

// MarshalJSON writes lists as [] rather than null.
func (t MonsterTemplate) MarshalJSON() ([]byte, error) {
	type plain MonsterTemplate
	p := plain(t)
	p.Actions = nonNil(p.Actions)
	p.SpecialActions = nonNil(p.SpecialActions)
	p.BiomeLoot = nonNil(p.BiomeLoot)
	return json.Marshal(p)
}

// UnmarshalJSON normalizes missing lists to empty ones.
func (t *MonsterTemplate) UnmarshalJSON(data []byte) error {
	type plain MonsterTemplate
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Actions = nonNil(p.Actions)
	p.SpecialActions = nonNil(p.SpecialActions)
	p.BiomeLoot = nonNil(p.BiomeLoot)
	*t = MonsterTemplate(p)
	return nil
}
