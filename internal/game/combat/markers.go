package combat

import "github.com/nimblegm/combattracker/internal/model"

// fallbackMarkerColor is used when the palette is empty.
const fallbackMarkerColor = "#FFFFFF"

// groupColor returns the marker color of group, assigning the next
// palette color round-robin on first sight. "" is a valid group.
func (m *CombatManager) groupColor(group string) string {
	if color, ok := m.groupColorMap[group]; ok {
		return color
	}

	color := fallbackMarkerColor
	if len(m.palette) > 0 {
		color = m.palette[len(m.groupColorMap)%len(m.palette)]
	}
	m.groupColorMap[group] = color
	return color
}

// NextMarkerNumberForColor returns one past the highest marker number
// among monsters with exactly this color, or the configured start
// number if no monster carries the color yet.
func (m *CombatManager) NextMarkerNumberForColor(color string) int {
	highest := 0
	for _, mon := range m.monsters {
		if mon.MarkerColor == color && mon.MarkerNumber > highest {
			highest = mon.MarkerNumber
		}
	}
	if highest <= 0 {
		return m.cfg.MarkerStartNumber
	}
	return highest + 1
}

// assignMarker fills in a missing marker color (by group) and a missing
// marker number (by color). Values already set are kept.
func (m *CombatManager) assignMarker(mon *model.MonsterInstance) {
	// The group is registered even when the monster brings its own
	// color, so round-robin order follows insertion order.
	auto := m.groupColor(mon.Group)
	if mon.MarkerColor == "" {
		mon.MarkerColor = auto
	}
	if mon.MarkerNumber > 0 {
		return
	}
	mon.MarkerNumber = m.NextMarkerNumberForColor(mon.MarkerColor)
}

// rebuildMarkerMaps reconstructs the group color cache after a roster
// load. Existing numbers are never touched.
func (m *CombatManager) rebuildMarkerMaps() {
	m.groupColorMap = make(map[string]string)

	// first pass: keep the first color seen for each group
	for _, mon := range m.monsters {
		if _, ok := m.groupColorMap[mon.Group]; !ok && mon.MarkerColor != "" {
			m.groupColorMap[mon.Group] = mon.MarkerColor
		}
	}

	// second pass: colorless monsters take their group color
	for _, mon := range m.monsters {
		if mon.MarkerColor == "" {
			mon.MarkerColor = m.groupColor(mon.Group)
		}
	}
}

// SetMonsterMarker sets an explicit marker. Other monsters keep their numbers.
func (m *CombatManager) SetMonsterMarker(mon *model.MonsterInstance, color string, number int) error {
	mon.MarkerColor = color
	mon.MarkerNumber = max(0, number)
	m.log("Monster %s marker set to %s #%d", mon.Name, mon.MarkerColor, mon.MarkerNumber)
	return m.changed()
}

// AssignMarkers gives monsters the same color and consecutive numbers
// starting at start. A start below 1 continues the color's sequence.
func (m *CombatManager) AssignMarkers(monsters []*model.MonsterInstance, color string, start int) error {
	if len(monsters) == 0 {
		return nil
	}
	if start < 1 {
		start = m.NextMarkerNumberForColor(color)
	}
	for i, mon := range monsters {
		mon.MarkerColor = color
		mon.MarkerNumber = start + i
	}
	m.log("Assigned %s markers #%d-#%d to %d monsters", color, start, start+len(monsters)-1, len(monsters))
	return m.changed()
}
