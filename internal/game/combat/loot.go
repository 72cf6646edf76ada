package combat

import "strings"

// UnknownBiome labels loot from monsters without a biome.
const UnknownBiome = "Unknown Biome"

// LootEntry is one loot note attributed to a biome.
type LootEntry struct {
	Biome string
	Text  string
}

// LootEntries collects the loot notes of every roster monster, trimmed,
// de-duplicated per biome and in roster order.
func (m *CombatManager) LootEntries() []LootEntry {
	seen := make(map[LootEntry]struct{})
	var out []LootEntry

	for _, mon := range m.monsters {
		biome := strings.TrimSpace(mon.Biome)
		if biome == "" {
			biome = UnknownBiome
		}
		for _, item := range mon.BiomeLoot {
			text := strings.TrimSpace(item)
			if text == "" {
				continue
			}
			e := LootEntry{Biome: biome, Text: text}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}
