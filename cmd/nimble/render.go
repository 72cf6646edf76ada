package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nimblegm/combattracker/internal/game/combat"
	"github.com/nimblegm/combattracker/internal/model"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)

	// HP band colors of the tracker grid.
	statusStyles = map[model.Status]lipgloss.Style{
		model.StatusHealthy:   cellStyle.Foreground(lipgloss.Color("#00AA00")),
		model.StatusBloodied:  cellStyle.Foreground(lipgloss.Color("#FFA500")),
		model.StatusCritical:  cellStyle.Foreground(lipgloss.Color("#FF0000")),
		model.StatusDying:     cellStyle.Foreground(lipgloss.Color("#FF0000")).Bold(true),
		model.StatusLastStand: cellStyle.Foreground(lipgloss.Color("#FF00FF")).Bold(true),
		model.StatusDead:      cellStyle.Foreground(lipgloss.Color("#808080")).Strikethrough(true),
	}
)

// newTable builds a table whose HP and status columns follow statuses.
func newTable(headers []string, rows [][]string, statuses []model.Status, colored map[int]bool) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderHeader(true).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if colored[col] && row >= 0 && row < len(statuses) {
				return statusStyles[statuses[row]]
			}
			return cellStyle
		})
}

func hpText(current, hpMax, temp int) string {
	s := fmt.Sprintf("%d/%d", current, hpMax)
	if temp > 0 {
		s += fmt.Sprintf(" (+%d)", temp)
	}
	return s
}

func markIf(on bool, mark string) string {
	if on {
		return mark
	}
	return ""
}

func renderHeroes(heroes []*model.Hero, t model.Thresholds) string {
	rows := make([][]string, 0, len(heroes))
	statuses := make([]model.Status, 0, len(heroes))
	for _, h := range heroes {
		st := h.Status(t)
		statuses = append(statuses, st)
		rows = append(rows, []string{
			h.Name,
			strconv.Itoa(h.Level),
			h.ClassName,
			hpText(h.HPCurrent, h.HPMax, h.TempHP),
			st.String(),
			strings.Join(h.Conditions, ", "),
			markIf(h.Concentrating, "C"),
		})
	}

	tbl := newTable(
		[]string{"Hero", "Lvl", "Class", "HP", "Status", "Conditions", "Conc"},
		rows, statuses, map[int]bool{3: true, 4: true},
	)
	return titleStyle.Render("Heroes") + "\n" + tbl.Render()
}

func renderMonsters(monsters []*model.MonsterInstance, t model.Thresholds) string {
	rows := make([][]string, 0, len(monsters))
	statuses := make([]model.Status, 0, len(monsters))
	for _, m := range monsters {
		st := m.Status(t)
		statuses = append(statuses, st)

		marker := ""
		if m.MarkerColor != "" {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(m.MarkerColor)).Render("●")
			marker = fmt.Sprintf("%s #%d", swatch, m.MarkerNumber)
		}
		rows = append(rows, []string{
			marker,
			m.Name + markIf(m.Legendary, " ★"),
			m.Group,
			m.Level,
			hpText(m.HPCurrent, m.HPMax, m.TempHP),
			st.String(),
			strings.Join(m.Conditions, ", "),
			markIf(!m.Active, "inactive"),
		})
	}

	tbl := newTable(
		[]string{"Marker", "Monster", "Group", "Lvl", "HP", "Status", "Conditions", ""},
		rows, statuses, map[int]bool{4: true, 5: true},
	)
	return titleStyle.Render("Monsters") + "\n" + tbl.Render()
}

func renderDifficulty(m *combat.CombatManager) string {
	return fmt.Sprintf("Difficulty: %s (monster levels %g / hero levels %d, ratio %.2f)",
		m.EncounterDifficultyLabel(), m.TotalMonsterLevels(), m.TotalHeroLevels(), m.EncounterDifficultyRatio())
}

func renderLoot(entries []combat.LootEntry) string {
	if len(entries) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Biome, e.Text})
	}
	tbl := newTable([]string{"Biome", "Loot"}, rows, nil, nil)
	return titleStyle.Render("Loot") + "\n" + tbl.Render()
}

func renderTemplates(templates []*model.MonsterTemplate) string {
	rows := make([][]string, 0, len(templates))
	for _, tpl := range templates {
		rows = append(rows, []string{
			tpl.Name + markIf(tpl.Legendary, " ★"),
			tpl.Level,
			tpl.HP,
			tpl.Biome,
		})
	}
	return newTable([]string{"Monster", "Lvl", "HP", "Biome"}, rows, nil, nil).Render()
}

// renderConditions lists the configured conditions with their rules text.
func renderConditions(conditions []string, descriptions map[string]string) string {
	rows := make([][]string, 0, len(conditions))
	for _, name := range conditions {
		rows = append(rows, []string{name, descriptions[name]})
	}
	return newTable([]string{"Condition", "Effect"}, rows, nil, nil).Render()
}
